package roadgen

import (
	"fmt"
	"sort"
)

// LaneSpec describes a single lane when creating lane section
type LaneSpec struct {
	Type     LaneType
	RoadMark *RoadMark
}

// LaneSectionSpec describes lanes of lane section. Left[0] becomes lane 1, Right[0] becomes lane -1 and so on
type LaneSectionSpec struct {
	Left           []LaneSpec
	Right          []LaneSpec
	CenterRoadMark *RoadMark
}

// UniformLaneSectionSpec returns spec of driving lanes with broken marks between lanes
// and solid marks on the outer borders and the center line
func UniformLaneSectionSpec(left, right int) LaneSectionSpec {
	center := StdRoadMarkSolid()
	if left > 0 && right > 0 {
		center = StdRoadMarkBroken()
	}
	return LaneSectionSpec{
		Left:           uniformLaneSpecs(left),
		Right:          uniformLaneSpecs(right),
		CenterRoadMark: &center,
	}
}

func uniformLaneSpecs(n int) []LaneSpec {
	ans := make([]LaneSpec, 0, n)
	for i := 0; i < n; i++ {
		mark := StdRoadMarkBroken()
		if i == n-1 {
			mark = StdRoadMarkSolid()
		}
		ans = append(ans, LaneSpec{Type: LANE_DRIVING, RoadMark: &mark})
	}
	return ans
}

// LaneSection is a run of a road over which the set of lanes is constant
type LaneSection struct {
	ID      int
	SOffset float64
	center  *Lane
	left    []*Lane
	right   []*Lane
}

func newLaneSection(id int, sOffset float64, spec LaneSectionSpec) *LaneSection {
	section := &LaneSection{
		ID:      id,
		SOffset: sOffset,
		center:  newLane(0, LANE_NONE),
		left:    make([]*Lane, 0, len(spec.Left)),
		right:   make([]*Lane, 0, len(spec.Right)),
	}
	if spec.CenterRoadMark != nil {
		section.center.AddRoadMark(*spec.CenterRoadMark)
	}
	for i, laneSpec := range spec.Left {
		lane := newLane(i+1, laneSpec.Type)
		if laneSpec.RoadMark != nil {
			lane.AddRoadMark(*laneSpec.RoadMark)
		}
		section.left = append(section.left, lane)
	}
	for i, laneSpec := range spec.Right {
		lane := newLane(-(i + 1), laneSpec.Type)
		if laneSpec.RoadMark != nil {
			lane.AddRoadMark(*laneSpec.RoadMark)
		}
		section.right = append(section.right, lane)
	}
	return section
}

// String returns pretty printed value for LaneSection
func (section *LaneSection) String() string {
	return fmt.Sprintf("ID: %d | SOffset: %f | Left: %d | Right: %d", section.ID, section.SOffset, len(section.left), len(section.right))
}

// Lane returns lane by its ID (including center lane 0)
func (section *LaneSection) Lane(id int) (*Lane, bool) {
	switch {
	case id == 0:
		return section.center, true
	case id > 0 && id <= len(section.left):
		return section.left[id-1], true
	case id < 0 && -id <= len(section.right):
		return section.right[-id-1], true
	}
	return nil, false
}

// Center returns center lane
func (section *LaneSection) Center() *Lane {
	return section.center
}

// LeftLanes returns left lanes ordered from center outwards
func (section *LaneSection) LeftLanes() []*Lane {
	ans := make([]*Lane, len(section.left))
	copy(ans, section.left)
	return ans
}

// RightLanes returns right lanes ordered from center outwards
func (section *LaneSection) RightLanes() []*Lane {
	ans := make([]*Lane, len(section.right))
	copy(ans, section.right)
	return ans
}

// LaneIDs returns IDs of non-center lanes in ascending order
func (section *LaneSection) LaneIDs() []int {
	ans := make([]int, 0, len(section.left)+len(section.right))
	for _, lane := range section.right {
		ans = append(ans, lane.ID)
	}
	for _, lane := range section.left {
		ans = append(ans, lane.ID)
	}
	sort.Ints(ans)
	return ans
}

// lanes returns non-center lanes in ascending ID order
func (section *LaneSection) lanes() []*Lane {
	ans := make([]*Lane, 0, len(section.left)+len(section.right))
	for i := len(section.right) - 1; i >= 0; i-- {
		ans = append(ans, section.right[i])
	}
	ans = append(ans, section.left...)
	return ans
}

// lateralOffset returns signed distance from reference line to the center of the lane at ds.
// Positive values are on the left
func (section *LaneSection) lateralOffset(laneID int, ds float64) float64 {
	sign, n := 1.0, laneID
	lanes := section.left
	if laneID < 0 {
		sign, n = -1.0, -laneID
		lanes = section.right
	}
	offset := 0.0
	for i := 0; i < n-1; i++ {
		offset += lanes[i].WidthAt(ds)
	}
	offset += lanes[n-1].WidthAt(ds) / 2
	return sign * offset
}

// borderOffset returns signed distance from reference line to the outer border of the lane at ds
func (section *LaneSection) borderOffset(laneID int, ds float64) float64 {
	if laneID == 0 {
		return 0
	}
	sign, n := 1.0, laneID
	lanes := section.left
	if laneID < 0 {
		sign, n = -1.0, -laneID
		lanes = section.right
	}
	offset := 0.0
	for i := 0; i < n; i++ {
		offset += lanes[i].WidthAt(ds)
	}
	return sign * offset
}
