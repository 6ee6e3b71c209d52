package roadgen

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// RoadID is the identifier of a road
type RoadID int

// Road is a reference line with lane sections, elevation profiles and links to its neighbours.
// Once finalized (its junction closed or its session finalized) a road is read-only.
type Road struct {
	ID   RoadID
	Name string

	junction    JunctionID
	hasJunction bool

	planView        *PlanView
	laneSections    []*LaneSection
	elevations      cubicProfile
	superelevations cubicProfile

	predecessor *RoadLink
	successor   *RoadLink

	finalized bool
	ids       *IDAllocator
	tolerance float64
}

func newRoad(id RoadID, start Pose, ids *IDAllocator, tolerance float64) *Road {
	return &Road{
		ID:        id,
		planView:  NewPlanView(start),
		ids:       ids,
		tolerance: tolerance,
	}
}

// String returns pretty printed value for Road
func (road *Road) String() string {
	junction := "-"
	if road.hasJunction {
		junction = fmt.Sprintf("%d", road.junction)
	}
	return fmt.Sprintf("ID: %d | Name: '%s' | Junction: %s | Length: %f | Geometries: %d | Lane sections: %d", road.ID, road.Name, junction, road.planView.length, road.planView.Len(), len(road.laneSections))
}

// Finalized returns true when road can't be modified anymore
func (road *Road) Finalized() bool {
	return road.finalized
}

// Junction returns junction which the road belongs to as a connecting road
func (road *Road) Junction() (JunctionID, bool) {
	return road.junction, road.hasJunction
}

// AppendGeometry places primitive at the end of reference line
func (road *Road) AppendGeometry(primitive Primitive) (Geometry, error) {
	if road.finalized {
		return Geometry{}, errors.Wrapf(ErrRoadFinalized, "road %d: can't append geometry", road.ID)
	}
	geom, err := road.planView.Append(primitive)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "road %d", road.ID)
	}
	return geom, nil
}

// Geometries returns placed geometries of reference line
func (road *Road) Geometries() []Geometry {
	return road.planView.Geometries()
}

// Length returns length of reference line
func (road *Road) Length() float64 {
	return road.planView.length
}

// StartPose returns pose at s = 0
func (road *Road) StartPose() Pose {
	return road.planView.start
}

// EndState returns pose at the end of reference line and its length
func (road *Road) EndState() (Pose, float64) {
	return road.planView.EndState()
}

// PoseAt returns reference line pose at s
func (road *Road) PoseAt(s float64) (Pose, error) {
	pose, err := road.planView.Evaluate(s)
	if err != nil {
		return Pose{}, errors.Wrapf(err, "road %d", road.ID)
	}
	return pose, nil
}

// boundaryPose returns reference line pose at the contact as is (heading along s)
func (road *Road) boundaryPose(contact ContactPoint) Pose {
	if contact == CONTACT_START {
		return road.planView.start
	}
	return road.planView.end
}

// AddLaneSection creates lane section starting at sOffset. The first section must start at s = 0,
// the following ones strictly after the previous one and before the end of reference line.
// Lanes of the new section are linked to the lanes of the previous section with InferLaneLinks.
func (road *Road) AddLaneSection(sOffset float64, spec LaneSectionSpec) (*LaneSection, error) {
	if road.finalized {
		return nil, errors.Wrapf(ErrRoadFinalized, "road %d: can't add lane section", road.ID)
	}
	if !isFinite(sOffset) {
		return nil, errors.Wrapf(ErrInvalidTopology, "road %d: lane section offset must be finite, got %f", road.ID, sOffset)
	}
	length := road.planView.length
	if length <= 0 {
		return nil, errors.Wrapf(ErrInvalidTopology, "road %d: reference line has no geometry", road.ID)
	}
	if len(road.laneSections) == 0 {
		if math.Abs(sOffset) > road.tolerance {
			return nil, errors.Wrapf(ErrInvalidTopology, "road %d: first lane section must start at s = 0, got %f", road.ID, sOffset)
		}
		sOffset = 0
	} else {
		prev := road.laneSections[len(road.laneSections)-1]
		if sOffset <= prev.SOffset+road.tolerance {
			return nil, errors.Wrapf(ErrInvalidTopology, "road %d: lane section offset %f must be greater than previous one %f", road.ID, sOffset, prev.SOffset)
		}
		if sOffset >= length-road.tolerance {
			return nil, errors.Wrapf(ErrInvalidTopology, "road %d: lane section offset %f must be less than road length %f", road.ID, sOffset, length)
		}
		prevExtent := sOffset - prev.SOffset
		for _, lane := range prev.lanes() {
			if lane.Coverage() > prevExtent+road.tolerance {
				return nil, errors.Wrapf(ErrOverlappingWidthRange, "road %d: widths of lane %d in lane section %d reach %f beyond new lane section offset %f", road.ID, lane.ID, prev.ID, prev.SOffset+lane.Coverage(), sOffset)
			}
		}
	}
	section := newLaneSection(road.ids.Next(ENTITY_LANE_SECTION), sOffset, spec)
	if len(road.laneSections) > 0 {
		linkLaneSections(road.laneSections[len(road.laneSections)-1], CONTACT_END, section, CONTACT_START)
	}
	road.laneSections = append(road.laneSections, section)
	return section, nil
}

// LaneSections returns lane sections ordered by s-offset
func (road *Road) LaneSections() []*LaneSection {
	ans := make([]*LaneSection, len(road.laneSections))
	copy(ans, road.laneSections)
	return ans
}

// LaneSection returns lane section by its index on the road
func (road *Road) LaneSection(idx int) (*LaneSection, error) {
	if idx < 0 || idx >= len(road.laneSections) {
		return nil, errors.Wrapf(ErrUnresolvedReference, "road %d: lane section index %d not in [0; %d)", road.ID, idx, len(road.laneSections))
	}
	return road.laneSections[idx], nil
}

// LaneSectionExtent returns length of lane section with given index
func (road *Road) LaneSectionExtent(idx int) float64 {
	if idx+1 < len(road.laneSections) {
		return road.laneSections[idx+1].SOffset - road.laneSections[idx].SOffset
	}
	return road.planView.length - road.laneSections[idx].SOffset
}

// LaneSectionAt returns lane section which contains s and its index
func (road *Road) LaneSectionAt(s float64) (*LaneSection, int, error) {
	if len(road.laneSections) == 0 {
		return nil, -1, errors.Wrapf(ErrUnresolvedReference, "road %d has no lane sections", road.ID)
	}
	idx := 0
	for i, section := range road.laneSections {
		if section.SOffset > s {
			break
		}
		idx = i
	}
	return road.laneSections[idx], idx, nil
}

// BoundaryLaneSection returns first lane section for START contact and last one for END contact
func (road *Road) BoundaryLaneSection(contact ContactPoint) (*LaneSection, error) {
	if len(road.laneSections) == 0 {
		return nil, errors.Wrapf(ErrUnresolvedReference, "road %d has no lane sections", road.ID)
	}
	if contact == CONTACT_START {
		return road.laneSections[0], nil
	}
	return road.laneSections[len(road.laneSections)-1], nil
}

// SetLaneWidth appends width record to the lane. Records of a lane must cover its lane section
// contiguously: sOffset (relative to lane section start) must equal the end of the previous record
func (road *Road) SetLaneWidth(sectionIdx, laneID int, sOffset, length, a, b, c, d float64) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't set lane width", road.ID)
	}
	section, err := road.LaneSection(sectionIdx)
	if err != nil {
		return err
	}
	if laneID == 0 {
		return errors.Wrapf(ErrInvalidTopology, "road %d: center lane has no width", road.ID)
	}
	lane, ok := section.Lane(laneID)
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "road %d: lane %d not found in lane section %d", road.ID, laneID, section.ID)
	}
	rec := CubicRecord{SOffset: sOffset, Length: length, A: a, B: b, C: c, D: d}
	if err := lane.widths.add(rec, road.LaneSectionExtent(sectionIdx), road.tolerance); err != nil {
		return errors.Wrapf(err, "road %d: lane %d of lane section %d", road.ID, laneID, section.ID)
	}
	return nil
}

// SetConstantLaneWidth covers the whole lane section with a single constant width record
func (road *Road) SetConstantLaneWidth(sectionIdx, laneID int, width float64) error {
	if sectionIdx < 0 || sectionIdx >= len(road.laneSections) {
		return errors.Wrapf(ErrUnresolvedReference, "road %d: lane section index %d not in [0; %d)", road.ID, sectionIdx, len(road.laneSections))
	}
	return road.SetLaneWidth(sectionIdx, laneID, 0, road.LaneSectionExtent(sectionIdx), width, 0, 0, 0)
}

// SetPredecessor sets link at the start of the road. Setting the same link twice is a no-op
func (road *Road) SetPredecessor(link RoadLink) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't set predecessor", road.ID)
	}
	road.predecessor = &link
	return nil
}

// SetSuccessor sets link at the end of the road. Setting the same link twice is a no-op
func (road *Road) SetSuccessor(link RoadLink) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't set successor", road.ID)
	}
	road.successor = &link
	return nil
}

// setLinkAt sets predecessor for START contact and successor for END contact
func (road *Road) setLinkAt(contact ContactPoint, link RoadLink) error {
	if contact == CONTACT_START {
		return road.SetPredecessor(link)
	}
	return road.SetSuccessor(link)
}

// Predecessor returns link at the start of the road
func (road *Road) Predecessor() (RoadLink, bool) {
	if road.predecessor == nil {
		return RoadLink{}, false
	}
	return *road.predecessor, true
}

// Successor returns link at the end of the road
func (road *Road) Successor() (RoadLink, bool) {
	if road.successor == nil {
		return RoadLink{}, false
	}
	return *road.successor, true
}

// linkAt returns predecessor for START contact and successor for END contact
func (road *Road) linkAt(contact ContactPoint) (RoadLink, bool) {
	if contact == CONTACT_START {
		return road.Predecessor()
	}
	return road.Successor()
}

// Validate checks that every lane has width records covering its whole lane section
// and that elevation profiles (when present) cover the whole road
func (road *Road) Validate() error {
	if road.planView.Len() == 0 {
		return errors.Wrapf(ErrInvalidTopology, "road %d has no geometry", road.ID)
	}
	if len(road.laneSections) == 0 {
		return errors.Wrapf(ErrInvalidTopology, "road %d has no lane sections", road.ID)
	}
	for i, section := range road.laneSections {
		extent := road.LaneSectionExtent(i)
		for _, lane := range section.lanes() {
			if err := lane.widths.complete(extent, road.tolerance); err != nil {
				return errors.Wrapf(err, "road %d: lane %d of lane section %d", road.ID, lane.ID, section.ID)
			}
		}
	}
	if len(road.elevations.records) > 0 {
		if err := road.elevations.complete(road.planView.length, road.tolerance); err != nil {
			return errors.Wrapf(err, "road %d: elevation", road.ID)
		}
	}
	if len(road.superelevations.records) > 0 {
		if err := road.superelevations.complete(road.planView.length, road.tolerance); err != nil {
			return errors.Wrapf(err, "road %d: superelevation", road.ID)
		}
	}
	return nil
}

func (road *Road) finalize() {
	road.finalized = true
}
