package roadgen

import (
	"github.com/pkg/errors"
)

// Visitor consumes finalized network. Roads are visited in creation order, each followed by its
// lane sections; junctions are visited after all roads.
// When a Visitor also implements GeometryVisitor every road's geometries are dispatched to it
// right after VisitRoad.
type Visitor interface {
	VisitRoad(road *Road) error
	VisitLaneSection(road *Road, idx int, section *LaneSection) error
	VisitJunction(junction *Junction) error
}

// GeometryVisitor consumes geometries by their kind
type GeometryVisitor interface {
	VisitLine(geom Geometry) error
	VisitArc(geom Geometry) error
	VisitSpiral(geom Geometry) error
	VisitPoly3(geom Geometry) error
	VisitParamPoly3(geom Geometry) error
}

// Walk passes finalized network to the visitor
func (session *Session) Walk(visitor Visitor) error {
	if !session.finalized {
		return errors.Wrap(ErrNotFinalized, "Can't walk network")
	}
	geomVisitor, withGeometries := visitor.(GeometryVisitor)
	for _, road := range session.Roads() {
		if err := visitor.VisitRoad(road); err != nil {
			return errors.Wrapf(err, "Can't visit road %d", road.ID)
		}
		if withGeometries {
			for _, geom := range road.planView.geometries {
				if err := geom.Accept(geomVisitor); err != nil {
					return errors.Wrapf(err, "Can't visit geometry of road %d at s %f", road.ID, geom.sOffset)
				}
			}
		}
		for i, section := range road.laneSections {
			if err := visitor.VisitLaneSection(road, i, section); err != nil {
				return errors.Wrapf(err, "Can't visit lane section %d of road %d", section.ID, road.ID)
			}
		}
	}
	for _, junction := range session.Junctions() {
		if err := visitor.VisitJunction(junction); err != nil {
			return errors.Wrapf(err, "Can't visit junction %d", junction.ID)
		}
	}
	return nil
}
