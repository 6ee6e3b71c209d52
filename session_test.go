package roadgen

import (
	"math"
	"testing"

	"github.com/cheekybits/is"
	"github.com/pkg/errors"
)

func TestSessionIDs(t *testing.T) {
	is := is.New(t)
	session := NewSession(WithStartRoadID(100), WithStartJunctionID(7))
	first, err := session.NewRoad(Pose{})
	is.NoErr(err)
	second, err := session.NewRoad(Pose{})
	is.NoErr(err)
	is.Equal(first.ID, RoadID(100))
	is.Equal(second.ID, RoadID(101))
	junction, err := session.NewJunction("j")
	is.NoErr(err)
	is.Equal(junction.ID, JunctionID(7))

	session.Reset()
	is.Equal(len(session.Roads()), 0)
	is.Equal(len(session.Junctions()), 0)
	again, err := session.NewRoad(Pose{})
	is.NoErr(err)
	is.Equal(again.ID, RoadID(100))
}

func TestIDAllocator(t *testing.T) {
	ids := NewIDAllocator(1)
	if id := ids.Next(ENTITY_ROAD); id != 1 {
		t.Errorf("First road ID should be %d, but got %d", 1, id)
	}
	if id := ids.Next(ENTITY_JUNCTION); id != 1 {
		t.Errorf("Junction IDs should not depend on road IDs, but got %d", id)
	}
	ids.SetStart(ENTITY_ROAD, 10)
	if id := ids.Peek(ENTITY_ROAD); id != 10 {
		t.Errorf("Peeked road ID should be %d, but got %d", 10, id)
	}
	if id := ids.Next(ENTITY_ROAD); id != 10 {
		t.Errorf("Road ID after raising start should be %d, but got %d", 10, id)
	}
	ids.SetStart(ENTITY_ROAD, 5)
	if id := ids.Next(ENTITY_ROAD); id != 11 {
		t.Errorf("Lowering start should not reuse IDs: should be %d, but got %d", 11, id)
	}
	ids.Reset()
	if id := ids.Next(ENTITY_ROAD); id != 5 {
		t.Errorf("Road ID after reset should be %d, but got %d", 5, id)
	}
	if id := ids.Next(ENTITY_LANE_SECTION); id != 1 {
		t.Errorf("First lane section ID should be %d, but got %d", 1, id)
	}
}

func TestCreateRoad(t *testing.T) {
	is := is.New(t)
	session := NewSession(WithDefaultLaneWidth(3))
	_, err := session.CreateRoad(Pose{}, nil, 1, 1, 0)
	is.True(errors.Is(err, ErrInvalidGeometry))
	_, err = session.CreateRoad(Pose{}, []Primitive{mustPrimitive(t)(NewLine(10))}, -1, 1, 0)
	is.True(errors.Is(err, ErrInvalidTopology))

	road, err := session.CreateRoad(Pose{}, []Primitive{
		mustPrimitive(t)(NewLine(10)),
		mustPrimitive(t)(NewArc(math.Pi/2/10, 10)),
	}, 2, 1, 0)
	is.NoErr(err)
	is.NoErr(road.Validate())
	is.Equal(len(road.Geometries()), 2)
	section, err := road.LaneSection(0)
	is.NoErr(err)
	is.Equal(section.LaneIDs(), []int{-1, 1, 2})
	lane, _ := section.Lane(2)
	is.Equal(lane.WidthAt(5), 3.0)
	is.Equal(lane.RoadMarks()[0].Type, ROADMARK_SOLID)
	inner, _ := section.Lane(1)
	is.Equal(inner.RoadMarks()[0].Type, ROADMARK_BROKEN)
}

func TestResolvePosition(t *testing.T) {
	session := NewSession()
	road, err := session.CreateRoad(Pose{X: 10, Y: 5, Heading: math.Pi / 2}, []Primitive{mustPrimitive(t)(NewLine(100))}, 2, 2, 3.5)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		s       float64
		laneID  int
		correct Pose
	}{
		{0, 0, Pose{X: 10, Y: 5, Heading: math.Pi / 2}},
		{10, -1, Pose{X: 11.75, Y: 15, Heading: math.Pi / 2}},
		{10, -2, Pose{X: 15.25, Y: 15, Heading: math.Pi / 2}},
		{100, 1, Pose{X: 8.25, Y: 105, Heading: math.Pi / 2}},
		{50, 2, Pose{X: 4.75, Y: 55, Heading: math.Pi / 2}},
	}
	for _, c := range cases {
		pose, err := session.ResolvePosition(road.ID, c.s, c.laneID)
		if err != nil {
			t.Error(err)
			continue
		}
		if !posesClose(pose, c.correct, 1e-9) {
			t.Errorf("Pose at s %f of lane %d should be (%s), but got (%s)", c.s, c.laneID, c.correct, pose)
		}
	}
	if _, err := session.ResolvePosition(road.ID, 100.5, 0); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Position beyond the road should give %v, but got %v", ErrPositionOutOfRange, err)
	}
	if _, err := session.ResolvePosition(road.ID, 10, -3); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("Unknown lane should give %v, but got %v", ErrUnresolvedReference, err)
	}
	if _, err := session.ResolvePosition(road.ID+1, 10, -1); !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("Unknown road should give %v, but got %v", ErrUnresolvedReference, err)
	}
}

func TestLaneLines(t *testing.T) {
	session := NewSession()
	road, err := session.CreateRoad(Pose{}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	center, err := road.LaneCenterLine(0, -1, 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if len(center) != 5 {
		t.Errorf("Center line should have %d points, but got %d", 5, len(center))
	}
	for _, pt := range center {
		if math.Abs(pt[1]+2) > testEps {
			t.Errorf("Center of lane -1 should lie at y = %f, but got %f", -2.0, pt[1])
		}
	}
	border, err := road.LaneBorderLine(0, 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(border) != 2 || math.Abs(border[1][1]-4) > testEps {
		t.Errorf("Border of lane 1 should end at y = %f, but got %v", 4.0, border)
	}
}

func TestLinkRoads(t *testing.T) {
	is := is.New(t)
	session := NewSession()
	a, err := session.CreateRoad(Pose{}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 2, 0)
	is.NoErr(err)
	b, err := session.CreateRoad(Pose{X: 20, Heading: math.Pi}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 1, 0)
	is.NoErr(err)

	// End to end: b runs against a
	is.NoErr(session.LinkRoads(a.ID, CONTACT_END, b.ID, CONTACT_END))
	succA, ok := a.Successor()
	is.True(ok)
	is.Equal(succA, LinkToRoad(b.ID, CONTACT_END))
	succB, ok := b.Successor()
	is.True(ok)
	is.Equal(succB, LinkToRoad(a.ID, CONTACT_END))

	sectionA, _ := a.LaneSection(0)
	sectionB, _ := b.LaneSection(0)
	correctA := map[int]int{-2: 1, -1: 1, 1: -1}
	for id, correct := range correctA {
		lane, _ := sectionA.Lane(id)
		succ, ok := lane.Successor()
		is.True(ok)
		is.Equal(succ, correct)
	}
	correctB := map[int]int{-1: 1, 1: -1}
	for id, correct := range correctB {
		lane, _ := sectionB.Lane(id)
		succ, ok := lane.Successor()
		is.True(ok)
		is.Equal(succ, correct)
	}

	// Linking the same ends twice changes nothing
	is.NoErr(session.LinkRoads(a.ID, CONTACT_END, b.ID, CONTACT_END))
	succA, _ = a.Successor()
	is.Equal(succA, LinkToRoad(b.ID, CONTACT_END))

	is.True(errors.Is(session.LinkRoads(a.ID, CONTACT_START, 99, CONTACT_END), ErrUnresolvedReference))
}

func TestBoundaryPose(t *testing.T) {
	is := is.New(t)
	session := NewSession()
	road, err := session.CreateRoad(Pose{X: 1, Y: 2}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 1, 0)
	is.NoErr(err)
	end, err := session.BoundaryPose(road.ID, CONTACT_END)
	is.NoErr(err)
	is.True(posesClose(end, Pose{X: 11, Y: 2, Heading: 0}, 1e-9))
	start, err := session.BoundaryPose(road.ID, CONTACT_START)
	is.NoErr(err)
	is.True(posesClose(start, Pose{X: 1, Y: 2, Heading: math.Pi}, 1e-9))
	_, err = session.BoundaryPose(road.ID+10, CONTACT_END)
	is.True(errors.Is(err, ErrUnresolvedReference))
}

func TestConnectRoads(t *testing.T) {
	is := is.New(t)
	session, a, b, c := crossroadSession(t)
	junction, err := session.NewJunction("cross")
	is.NoErr(err)

	straight, err := session.ConnectRoads(junction.ID, a, CONTACT_END, b, CONTACT_START)
	is.NoErr(err)
	id, ok := straight.Junction()
	is.True(ok)
	is.Equal(id, junction.ID)
	is.True(math.Abs(straight.Length()-20) < 1e-6)
	endPose, _ := straight.EndState()
	is.True(posesClose(endPose, Pose{X: 70, Y: 0, Heading: 0}, 1e-9))

	turn, err := session.ConnectRoads(junction.ID, a, CONTACT_END, c, CONTACT_START)
	is.NoErr(err)
	endPose, _ = turn.EndState()
	is.True(posesClose(endPose, Pose{X: 60, Y: 10, Heading: math.Pi / 2}, 1e-9))
	is.True(turn.Length() > math.Hypot(10, 10))

	pred, ok := turn.Predecessor()
	is.True(ok)
	is.Equal(pred, LinkToRoad(a, CONTACT_END))
	succ, ok := turn.Successor()
	is.True(ok)
	is.Equal(succ, LinkToRoad(c, CONTACT_START))

	roadA, _ := session.Road(a)
	succA, ok := roadA.Successor()
	is.True(ok)
	is.Equal(succA, LinkToJunction(junction.ID))

	section, _ := turn.LaneSection(0)
	lane, _ := section.Lane(-1)
	laneSucc, ok := lane.Successor()
	is.True(ok)
	is.Equal(laneSucc, -1)
	lanePred, ok := lane.Predecessor()
	is.True(ok)
	is.Equal(lanePred, -1)
	is.Equal(lane.WidthAt(0), laneWidth)

	conns := junction.Connections()
	is.Equal(len(conns), 2)
	is.Equal(conns[0].ConnectingRoad, straight.ID)
	is.Equal(conns[0].ConnectingContact, CONTACT_START)
	is.Equal(conns[0].MovementType, MOVEMENT_THRU)
	is.Equal(conns[1].ConnectingRoad, turn.ID)
	is.Equal(conns[1].MovementType, MOVEMENT_LEFT)

	is.NoErr(session.Finalize())
	is.Equal(junction.State(), JUNCTION_CLOSED)
}

func TestFinalize(t *testing.T) {
	is := is.New(t)
	session := NewSession()
	road, err := session.CreateRoad(Pose{}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 1, 0)
	is.NoErr(err)
	is.NoErr(road.SetSuccessor(LinkToRoad(road.ID+1, CONTACT_START)))
	is.True(errors.Is(session.Finalize(), ErrUnresolvedReference))
	is.False(session.Finalized())
	is.True(errors.Is(session.Walk(&countingVisitor{}), ErrNotFinalized))

	next, err := session.CreateRoad(Pose{X: 10}, []Primitive{mustPrimitive(t)(NewLine(10))}, 1, 1, 0)
	is.NoErr(err)
	is.NoErr(session.LinkRoads(road.ID, CONTACT_END, next.ID, CONTACT_START))
	is.NoErr(session.Finalize())
	is.True(session.Finalized())
	is.True(road.Finalized())
	is.True(next.Finalized())

	_, err = session.NewRoad(Pose{})
	is.True(errors.Is(err, ErrSessionFinalized))
	is.False(errors.Is(err, ErrRoadFinalized))
	_, err = session.NewJunction("late")
	is.True(errors.Is(err, ErrSessionFinalized))

	visitor := &countingVisitor{}
	is.NoErr(session.Walk(visitor))
	is.Equal(visitor.roads, 2)
	is.Equal(visitor.sections, 2)
	is.Equal(visitor.lines, 2)
}

func TestFinalizeIncompleteRoad(t *testing.T) {
	session := NewSession()
	road := straightRoad(t, session, 10)
	if err := session.Finalize(); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("Road without lane sections should give %v, but got %v", ErrInvalidTopology, err)
	}
	if _, err := road.AddLaneSection(0, UniformLaneSectionSpec(0, 1)); err != nil {
		t.Fatal(err)
	}
	if err := session.Finalize(); !errors.Is(err, ErrGapInWidthRange) {
		t.Errorf("Lane without widths should give %v, but got %v", ErrGapInWidthRange, err)
	}
}

type countingVisitor struct {
	roads     int
	sections  int
	junctions int
	lines     int
}

func (v *countingVisitor) VisitRoad(road *Road) error {
	v.roads++
	return nil
}

func (v *countingVisitor) VisitLaneSection(road *Road, idx int, section *LaneSection) error {
	v.sections++
	return nil
}

func (v *countingVisitor) VisitJunction(junction *Junction) error {
	v.junctions++
	return nil
}

func (v *countingVisitor) VisitLine(geom Geometry) error {
	v.lines++
	return nil
}

func (v *countingVisitor) VisitArc(geom Geometry) error        { return nil }
func (v *countingVisitor) VisitSpiral(geom Geometry) error     { return nil }
func (v *countingVisitor) VisitPoly3(geom Geometry) error      { return nil }
func (v *countingVisitor) VisitParamPoly3(geom Geometry) error { return nil }
