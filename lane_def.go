package roadgen

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// LaneDef describes a change of lanes number on one side of a road between SStart and SEnd.
// SubLane is the lane (counted from the center, sign ignored) which appears on a split
// or disappears on a merge. The change is shaped as a cubic with zero slope at both ends.
type LaneDef struct {
	SStart     float64
	SEnd       float64
	LanesStart int
	LanesEnd   int
	SubLane    int
}

// LaneProfile is lanes number at the road start for one side together with ordered lane changes
type LaneProfile struct {
	Lanes   int
	Changes []LaneDef
}

func (def LaneDef) isSplit() bool {
	return def.LanesEnd > def.LanesStart
}

func (def LaneDef) isMerge() bool {
	return def.LanesEnd < def.LanesStart
}

func (def LaneDef) sub() int {
	return absInt(def.SubLane)
}

// validate checks the profile against road length
func (profile LaneProfile) validate(length, tolerance float64) error {
	if profile.Lanes < 0 {
		return errors.Wrapf(ErrInvalidTopology, "lanes number must be non-negative, got %d", profile.Lanes)
	}
	current, covered := profile.Lanes, 0.0
	for i, def := range profile.Changes {
		if def.SStart < covered-tolerance || def.SEnd <= def.SStart+tolerance || def.SEnd > length+tolerance {
			return errors.Wrapf(ErrInvalidTopology, "lane change %d: range [%f; %f] must be ordered, non-empty and within [%f; %f]", i, def.SStart, def.SEnd, covered, length)
		}
		if def.LanesStart != current {
			return errors.Wrapf(ErrInvalidTopology, "lane change %d: starts with %d lanes but there are %d", i, def.LanesStart, current)
		}
		if absInt(def.LanesEnd-def.LanesStart) > 1 || def.LanesEnd < 0 {
			return errors.Wrapf(ErrInvalidTopology, "lane change %d: lanes number may change by one lane only (%d -> %d)", i, def.LanesStart, def.LanesEnd)
		}
		if def.LanesEnd != def.LanesStart {
			maxLanes := lo.Max([]int{def.LanesStart, def.LanesEnd})
			if def.sub() < 1 || def.sub() > maxLanes {
				return errors.Wrapf(ErrInvalidTopology, "lane change %d: sub lane %d must be in [1; %d]", i, def.sub(), maxLanes)
			}
		}
		current, covered = def.LanesEnd, def.SEnd
	}
	return nil
}

// state returns lane change covering interval starting at s (if any) and lanes number at s
func (profile LaneProfile) state(s, tolerance float64) (*LaneDef, int) {
	current := profile.Lanes
	for i := range profile.Changes {
		def := &profile.Changes[i]
		if def.SEnd <= s+tolerance {
			current = def.LanesEnd
			continue
		}
		if def.SStart <= s+tolerance {
			return def, current
		}
		break
	}
	return nil, current
}

// endingAt returns lane change which ends exactly at s
func (profile LaneProfile) endingAt(s, tolerance float64) *LaneDef {
	for i := range profile.Changes {
		if math.Abs(profile.Changes[i].SEnd-s) <= tolerance {
			return &profile.Changes[i]
		}
	}
	return nil
}

// startingAt returns lane change which starts exactly at s
func (profile LaneProfile) startingAt(s, tolerance float64) *LaneDef {
	for i := range profile.Changes {
		if math.Abs(profile.Changes[i].SStart-s) <= tolerance {
			return &profile.Changes[i]
		}
	}
	return nil
}

// sectionWidths returns width polynomial for every lane (from center outwards) in interval [s0; s0+extent)
func (profile LaneProfile) sectionWidths(s0, extent, width, tolerance float64) []CubicRecord {
	def, current := profile.state(s0, tolerance)
	if def == nil || def.LanesStart == def.LanesEnd {
		n := current
		if def != nil {
			n = def.LanesStart
		}
		ans := make([]CubicRecord, n)
		for i := range ans {
			ans[i] = CubicRecord{Length: extent, A: width}
		}
		return ans
	}
	n := lo.Max([]int{def.LanesStart, def.LanesEnd})
	ans := make([]CubicRecord, n)
	for i := range ans {
		ans[i] = CubicRecord{Length: extent, A: width}
	}
	startWidth, endWidth := width, 0.0
	if def.isSplit() {
		startWidth, endWidth = 0.0, width
	}
	a, b, c, d := Poly3Coeffs(def.SEnd-def.SStart, startWidth, endWidth)
	a, b, c, d = shiftCubic(a, b, c, d, s0-def.SStart)
	ans[def.sub()-1] = CubicRecord{Length: extent, A: a, B: b, C: c, D: d}
	return ans
}

// laneMapping returns for each lane index (1-based, from center) of the section ending at s
// the index of the lane it continues into in the section starting at s, or 0 when it ends
func (profile LaneProfile) laneMapping(s, tolerance float64) func(int) int {
	merge := profile.endingAt(s, tolerance)
	split := profile.startingAt(s, tolerance)
	return func(j int) int {
		if merge != nil && merge.isMerge() {
			switch {
			case j == merge.sub():
				return 0
			case j > merge.sub():
				j--
			}
		}
		if split != nil && split.isSplit() && j >= split.sub() {
			j++
		}
		return j
	}
}

// shiftCubic re-expands cubic f(t) into g(ds) = f(t0 + ds)
func shiftCubic(a, b, c, d, t0 float64) (float64, float64, float64, float64) {
	return a + b*t0 + c*t0*t0 + d*t0*t0*t0,
		b + 2*c*t0 + 3*d*t0*t0,
		c + 3*d*t0,
		d
}

// ApplyLaneDefs creates lane sections for lane merges and splits on both sides of the road.
// A new lane section starts at every lane change boundary. Lane links between consecutive sections
// skip the lane which disappears on a merge and the lane which appears on a split.
// The road must have geometry and no lane sections yet.
func (road *Road) ApplyLaneDefs(right, left LaneProfile, width float64) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't apply lane changes", road.ID)
	}
	if len(road.laneSections) > 0 {
		return errors.Wrapf(ErrInvalidTopology, "road %d already has lane sections", road.ID)
	}
	length := road.planView.length
	if length <= 0 {
		return errors.Wrapf(ErrInvalidTopology, "road %d: reference line has no geometry", road.ID)
	}
	if err := right.validate(length, road.tolerance); err != nil {
		return errors.Wrapf(err, "road %d: right lanes", road.ID)
	}
	if err := left.validate(length, road.tolerance); err != nil {
		return errors.Wrapf(err, "road %d: left lanes", road.ID)
	}

	breaks := []float64{0}
	for _, def := range append(append([]LaneDef{}, right.Changes...), left.Changes...) {
		breaks = append(breaks, def.SStart, def.SEnd)
	}
	sort.Float64s(breaks)
	offsets := make([]float64, 0, len(breaks))
	for _, s := range breaks {
		if s >= length-road.tolerance {
			continue
		}
		if len(offsets) > 0 && s-offsets[len(offsets)-1] <= road.tolerance {
			continue
		}
		offsets = append(offsets, s)
	}

	for i, s0 := range offsets {
		extent := length - s0
		if i+1 < len(offsets) {
			extent = offsets[i+1] - s0
		}
		rightWidths := right.sectionWidths(s0, extent, width, road.tolerance)
		leftWidths := left.sectionWidths(s0, extent, width, road.tolerance)
		section, err := road.AddLaneSection(s0, UniformLaneSectionSpec(len(leftWidths), len(rightWidths)))
		if err != nil {
			return err
		}
		for j, rec := range rightWidths {
			if err := road.SetLaneWidth(i, -(j + 1), 0, extent, rec.A, rec.B, rec.C, rec.D); err != nil {
				return err
			}
		}
		for j, rec := range leftWidths {
			if err := road.SetLaneWidth(i, j+1, 0, extent, rec.A, rec.B, rec.C, rec.D); err != nil {
				return err
			}
		}
		if i == 0 {
			continue
		}
		prev := road.laneSections[i-1]
		relinkSide(prev.right, section, right.laneMapping(s0, road.tolerance), -1)
		relinkSide(prev.left, section, left.laneMapping(s0, road.tolerance), 1)
	}
	return nil
}

// relinkSide replaces inferred links between prevLanes and lanes of the same side of next section
func relinkSide(prevLanes []*Lane, next *LaneSection, mapping func(int) int, sign int) {
	nextLanes := next.right
	if sign > 0 {
		nextLanes = next.left
	}
	for _, lane := range nextLanes {
		lane.clearLink(CONTACT_START)
	}
	for j, lane := range prevLanes {
		lane.clearLink(CONTACT_END)
		target := mapping(j + 1)
		if target == 0 || target > len(nextLanes) {
			continue
		}
		lane.setSuccessor(sign * target)
		nextLanes[target-1].setPredecessor(sign * (j + 1))
	}
}
