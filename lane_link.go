package roadgen

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"
)

// LaneLink is a pair of lane IDs: From lane continues into To lane
type LaneLink struct {
	From int
	To   int
}

// String returns pretty printed value for LaneLink
func (link LaneLink) String() string {
	return fmt.Sprintf("%d:%d", link.From, link.To)
}

// InferLaneLinks maps every non-center lane of one lane set to a lane of another one.
//
// Each lane is linked to the lane of the other set which lies on the same side of the reference line
// and has the closest ID. Ties are resolved toward the lane closer to the center line.
// When there is no lane on the same side the lane stays unlinked.
//
// Set flip when the two road ends meet with the same contact (end-to-end or start-to-start):
// then the other set is looked at from the opposite direction so its left lanes become right ones.
func InferLaneLinks(from, to []int, flip bool) []LaneLink {
	fromSorted := lo.Filter(from, func(id int, _ int) bool {
		return id != 0
	})
	sort.Ints(fromSorted)
	candidates := lo.Filter(lo.Uniq(to), func(id int, _ int) bool {
		return id != 0
	})
	links := make([]LaneLink, 0, len(fromSorted))
	for _, id := range fromSorted {
		target, ok := nearestLane(id, candidates, flip)
		if !ok {
			continue
		}
		links = append(links, LaneLink{From: id, To: target})
	}
	return links
}

// nearestLane returns candidate closest to id on the same side of reference line
func nearestLane(id int, candidates []int, flip bool) (int, bool) {
	best, bestEffective, found := 0, 0, false
	for _, candidate := range candidates {
		effective := candidate
		if flip {
			effective = -candidate
		}
		if (effective > 0) != (id > 0) {
			continue
		}
		if !found {
			best, bestEffective, found = candidate, effective, true
			continue
		}
		diff := math.Abs(float64(effective - id))
		bestDiff := math.Abs(float64(bestEffective - id))
		if diff < bestDiff || (diff == bestDiff && absInt(effective) < absInt(bestEffective)) {
			best, bestEffective = candidate, effective
		}
	}
	return best, found
}

// linkLaneSections writes lane links between boundary lanes of two lane sections meeting at given contacts.
// Lanes of a are linked on the aContact side, lanes of b on the bContact side
func linkLaneSections(a *LaneSection, aContact ContactPoint, b *LaneSection, bContact ContactPoint) {
	linkLaneSectionsOneWay(a, aContact, b, bContact)
	linkLaneSectionsOneWay(b, bContact, a, aContact)
}

// linkLaneSectionsOneWay writes lane links of a only
func linkLaneSectionsOneWay(a *LaneSection, aContact ContactPoint, b *LaneSection, bContact ContactPoint) {
	flip := aContact == bContact
	for _, lane := range a.lanes() {
		lane.clearLink(aContact)
	}
	for _, link := range InferLaneLinks(a.LaneIDs(), b.LaneIDs(), flip) {
		lane, _ := a.Lane(link.From)
		lane.setLink(aContact, link.To)
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
