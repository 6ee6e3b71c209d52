package roadgen

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

const (
	// fitSamples is the number of chords used to measure fitted curve length
	fitSamples = 512
)

// FitParamPoly3 returns normalized parametric cubic which starts at start pose and ends exactly at end pose
// (position and heading). Tangent magnitudes are set to the distance between the poses.
func FitParamPoly3(start, end Pose) (Primitive, error) {
	dx, dy := end.X-start.X, end.Y-start.Y
	sinH, cosH := math.Sincos(start.Heading)
	x1 := dx*cosH + dy*sinH
	y1 := -dx*sinH + dy*cosH
	h1 := headingDiff(start.Heading, end.Heading)
	m := math.Hypot(x1, y1)
	if m < continuityTolerance {
		return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "can't fit curve between coincident poses (%s) and (%s)", start, end)
	}
	sinH1, cosH1 := math.Sincos(h1)
	coeffs := ParamPoly3Coeffs{
		AU: 0,
		BU: m,
		CU: 3*x1 - 2*m - m*cosH1,
		DU: -2*x1 + m + m*cosH1,
		AV: 0,
		BV: 0,
		CV: 3*y1 - m*sinH1,
		DV: -2*y1 + m*sinH1,
	}
	return NewParamPoly3(coeffs, true, paramPoly3Length(coeffs))
}

// paramPoly3Length measures length of normalized parametric cubic over p in [0; 1]
func paramPoly3Length(c ParamPoly3Coeffs) float64 {
	line := make(orb.LineString, 0, fitSamples+1)
	for i := 0; i <= fitSamples; i++ {
		p := float64(i) / fitSamples
		line = append(line, orb.Point{
			c.AU + c.BU*p + c.CU*p*p + c.DU*p*p*p,
			c.AV + c.BV*p + c.CV*p*p + c.DV*p*p*p,
		})
	}
	return planar.Length(line)
}

// ConnectRoads creates connecting road inside the junction from the incoming road end to the outgoing road end.
// The connecting road gets a parametric cubic reference line, lanes matching the incoming road end,
// road links to both roads and lane links toward the outgoing road. The connection from the incoming road
// onto the connecting road is registered in the junction, and both roads get a link to the junction.
func (session *Session) ConnectRoads(junctionID JunctionID, incoming RoadID, incomingContact ContactPoint, outgoing RoadID, outgoingContact ContactPoint) (*Road, error) {
	junction, ok := session.junctions[junctionID]
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "junction %d not found", junctionID)
	}
	if junction.state == JUNCTION_CLOSED {
		return nil, errors.Wrapf(ErrJunctionClosed, "junction %d: can't add connecting road", junctionID)
	}
	inRoad, ok := session.roads[incoming]
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "junction %d: incoming road %d not found", junctionID, incoming)
	}
	outRoad, ok := session.roads[outgoing]
	if !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "junction %d: outgoing road %d not found", junctionID, outgoing)
	}
	startPose, err := session.BoundaryPose(incoming, incomingContact)
	if err != nil {
		return nil, errors.Wrapf(err, "junction %d", junctionID)
	}
	outPose, err := session.BoundaryPose(outgoing, outgoingContact)
	if err != nil {
		return nil, errors.Wrapf(err, "junction %d", junctionID)
	}
	inSection, err := inRoad.BoundaryLaneSection(incomingContact)
	if err != nil {
		return nil, errors.Wrapf(err, "junction %d", junctionID)
	}
	outSection, err := outRoad.BoundaryLaneSection(outgoingContact)
	if err != nil {
		return nil, errors.Wrapf(err, "junction %d", junctionID)
	}
	primitive, err := FitParamPoly3(startPose, outPose.Reversed())
	if err != nil {
		return nil, errors.Wrapf(err, "junction %d: road %d %s -> road %d %s", junctionID, incoming, incomingContact, outgoing, outgoingContact)
	}

	// Lanes keep their side when leaving through END; leaving through START swaps sides
	inIdx := 0
	if incomingContact == CONTACT_END {
		inIdx = len(inRoad.laneSections) - 1
	}
	inDS := 0.0
	if incomingContact == CONTACT_END {
		inDS = inRoad.LaneSectionExtent(inIdx)
	}
	leftWidths := make([]float64, 0, len(inSection.left))
	rightWidths := make([]float64, 0, len(inSection.right))
	for _, lane := range inSection.left {
		leftWidths = append(leftWidths, lane.WidthAt(inDS))
	}
	for _, lane := range inSection.right {
		rightWidths = append(rightWidths, lane.WidthAt(inDS))
	}
	if incomingContact == CONTACT_START {
		leftWidths, rightWidths = rightWidths, leftWidths
	}

	road, err := session.NewRoad(startPose)
	if err != nil {
		return nil, err
	}
	road.junction, road.hasJunction = junctionID, true
	if _, err := road.AppendGeometry(primitive); err != nil {
		return nil, err
	}
	if _, err := road.AddLaneSection(0, UniformLaneSectionSpec(len(leftWidths), len(rightWidths))); err != nil {
		return nil, err
	}
	for i, w := range leftWidths {
		if err := road.SetConstantLaneWidth(0, i+1, w); err != nil {
			return nil, err
		}
	}
	for i, w := range rightWidths {
		if err := road.SetConstantLaneWidth(0, -(i + 1), w); err != nil {
			return nil, err
		}
	}
	if err := road.SetPredecessor(LinkToRoad(incoming, incomingContact)); err != nil {
		return nil, err
	}
	if err := road.SetSuccessor(LinkToRoad(outgoing, outgoingContact)); err != nil {
		return nil, err
	}
	linkLaneSectionsOneWay(road.laneSections[0], CONTACT_START, inSection, incomingContact)
	linkLaneSectionsOneWay(road.laneSections[0], CONTACT_END, outSection, outgoingContact)

	if err := inRoad.setLinkAt(incomingContact, LinkToJunction(junctionID)); err != nil {
		return nil, err
	}
	if err := outRoad.setLinkAt(outgoingContact, LinkToJunction(junctionID)); err != nil {
		return nil, err
	}
	if _, err := session.AutoConnection(junctionID, incoming, incomingContact, road.ID, CONTACT_START, false); err != nil {
		return nil, err
	}
	return road, nil
}
