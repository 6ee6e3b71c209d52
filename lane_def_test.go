package roadgen

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestApplyLaneDefsMerge(t *testing.T) {
	session := NewSession()
	road := straightRoad(t, session, 100)
	right := LaneProfile{
		Lanes:   2,
		Changes: []LaneDef{{SStart: 30, SEnd: 50, LanesStart: 2, LanesEnd: 1, SubLane: -2}},
	}
	left := LaneProfile{Lanes: 1}
	if err := road.ApplyLaneDefs(right, left, 3.5); err != nil {
		t.Fatal(err)
	}
	if err := road.Validate(); err != nil {
		t.Fatal(err)
	}
	sections := road.LaneSections()
	if len(sections) != 3 {
		t.Fatalf("Lane sections number should be %d, but got %d", 3, len(sections))
	}
	correctOffsets := []float64{0, 30, 50}
	correctRight := []int{2, 2, 1}
	for i, section := range sections {
		if section.SOffset != correctOffsets[i] {
			t.Errorf("Lane section #%d should start at %f, but got %f", i, correctOffsets[i], section.SOffset)
		}
		if len(section.RightLanes()) != correctRight[i] {
			t.Errorf("Lane section #%d should have %d right lanes, but got %d", i, correctRight[i], len(section.RightLanes()))
		}
		if len(section.LeftLanes()) != 1 {
			t.Errorf("Lane section #%d should have %d left lanes, but got %d", i, 1, len(section.LeftLanes()))
		}
	}

	merging, _ := sections[1].Lane(-2)
	correctWidths := map[float64]float64{0: 3.5, 10: 1.75, 20: 0}
	for ds, w := range correctWidths {
		if got := merging.WidthAt(ds); math.Abs(got-w) > testEps {
			t.Errorf("Width of merging lane at %f should be %f, but got %f", ds, w, got)
		}
	}

	if _, ok := merging.Successor(); ok {
		t.Errorf("Merging lane should have no successor")
	}
	inner, _ := sections[1].Lane(-1)
	if succ, ok := inner.Successor(); !ok || succ != -1 {
		t.Errorf("Successor of lane -1 should be %d, but got %d (%t)", -1, succ, ok)
	}
	before, _ := sections[0].Lane(-2)
	if succ, ok := before.Successor(); !ok || succ != -2 {
		t.Errorf("Successor of lane -2 before merge should be %d, but got %d (%t)", -2, succ, ok)
	}
	after, _ := sections[2].Lane(-1)
	if pred, ok := after.Predecessor(); !ok || pred != -1 {
		t.Errorf("Predecessor of lane -1 after merge should be %d, but got %d (%t)", -1, pred, ok)
	}
	leftLane, _ := sections[2].Lane(1)
	if pred, ok := leftLane.Predecessor(); !ok || pred != 1 {
		t.Errorf("Predecessor of lane 1 should be %d, but got %d (%t)", 1, pred, ok)
	}
}

func TestApplyLaneDefsSplit(t *testing.T) {
	session := NewSession()
	road := straightRoad(t, session, 60)
	right := LaneProfile{
		Lanes:   1,
		Changes: []LaneDef{{SStart: 10, SEnd: 30, LanesStart: 1, LanesEnd: 2, SubLane: 1}},
	}
	if err := road.ApplyLaneDefs(right, LaneProfile{}, 3); err != nil {
		t.Fatal(err)
	}
	sections := road.LaneSections()
	if len(sections) != 3 {
		t.Fatalf("Lane sections number should be %d, but got %d", 3, len(sections))
	}
	appearing, _ := sections[1].Lane(-1)
	if w := appearing.WidthAt(0); math.Abs(w) > testEps {
		t.Errorf("Appearing lane should start with width %f, but got %f", 0.0, w)
	}
	if w := appearing.WidthAt(20); math.Abs(w-3) > testEps {
		t.Errorf("Appearing lane should end with width %f, but got %f", 3.0, w)
	}
	if _, ok := appearing.Predecessor(); ok {
		t.Errorf("Appearing lane should have no predecessor")
	}
	shifted, _ := sections[1].Lane(-2)
	if pred, ok := shifted.Predecessor(); !ok || pred != -1 {
		t.Errorf("Predecessor of lane -2 should be %d, but got %d (%t)", -1, pred, ok)
	}
	first, _ := sections[0].Lane(-1)
	if succ, ok := first.Successor(); !ok || succ != -2 {
		t.Errorf("Successor of lane -1 should be %d, but got %d (%t)", -2, succ, ok)
	}
	if len(sections[2].RightLanes()) != 2 || len(sections[2].LeftLanes()) != 0 {
		t.Errorf("Last lane section should have 2 right lanes only, but got %s", sections[2])
	}
}

func TestApplyLaneDefsInvalid(t *testing.T) {
	cases := []struct {
		name  string
		right LaneProfile
	}{
		{"two lanes at once", LaneProfile{Lanes: 1, Changes: []LaneDef{{SStart: 10, SEnd: 20, LanesStart: 1, LanesEnd: 3, SubLane: 1}}}},
		{"wrong lanes number", LaneProfile{Lanes: 2, Changes: []LaneDef{{SStart: 10, SEnd: 20, LanesStart: 1, LanesEnd: 2, SubLane: 1}}}},
		{"empty range", LaneProfile{Lanes: 1, Changes: []LaneDef{{SStart: 20, SEnd: 20, LanesStart: 1, LanesEnd: 2, SubLane: 1}}}},
		{"beyond the road", LaneProfile{Lanes: 1, Changes: []LaneDef{{SStart: 40, SEnd: 60, LanesStart: 1, LanesEnd: 2, SubLane: 1}}}},
		{"bad sub lane", LaneProfile{Lanes: 1, Changes: []LaneDef{{SStart: 10, SEnd: 20, LanesStart: 1, LanesEnd: 2, SubLane: 3}}}},
		{"negative lanes", LaneProfile{Lanes: -1}},
	}
	for _, c := range cases {
		session := NewSession()
		road := straightRoad(t, session, 50)
		if err := road.ApplyLaneDefs(c.right, LaneProfile{Lanes: 1}, 3); !errors.Is(err, ErrInvalidTopology) {
			t.Errorf("%s: should give %v, but got %v", c.name, ErrInvalidTopology, err)
		}
	}

	session := NewSession()
	road, err := session.CreateRoad(Pose{}, []Primitive{mustPrimitive(t)(NewLine(50))}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if err := road.ApplyLaneDefs(LaneProfile{Lanes: 1}, LaneProfile{Lanes: 1}, 3); !errors.Is(err, ErrInvalidTopology) {
		t.Errorf("Road with lane sections should give %v, but got %v", ErrInvalidTopology, err)
	}
}

func TestShiftCubic(t *testing.T) {
	a, b, c, d := 1.0, 2.0, -0.5, 0.25
	sa, sb, sc, sd := shiftCubic(a, b, c, d, 3)
	orig := CubicRecord{A: a, B: b, C: c, D: d}
	shifted := CubicRecord{A: sa, B: sb, C: sc, D: sd}
	for _, ds := range []float64{0, 0.5, 1, 4} {
		if math.Abs(orig.Evaluate(3+ds)-shifted.Evaluate(ds)) > 1e-9 {
			t.Errorf("Shifted cubic at %f should be %f, but got %f", ds, orig.Evaluate(3+ds), shifted.Evaluate(ds))
		}
	}
}
