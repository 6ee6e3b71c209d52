package roadgen

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// ResolvePosition returns pose of the lane center at s along the road.
// Lane 0 gives the reference line itself. Heading is the reference line heading
func (session *Session) ResolvePosition(roadID RoadID, s float64, laneID int) (Pose, error) {
	road, ok := session.roads[roadID]
	if !ok {
		return Pose{}, errors.Wrapf(ErrUnresolvedReference, "road %d not found", roadID)
	}
	return road.ResolvePosition(s, laneID)
}

// ResolvePosition returns pose of the lane center at s
func (road *Road) ResolvePosition(s float64, laneID int) (Pose, error) {
	pose, err := road.PoseAt(s)
	if err != nil {
		return Pose{}, err
	}
	section, _, err := road.LaneSectionAt(s)
	if err != nil {
		return Pose{}, err
	}
	if _, ok := section.Lane(laneID); !ok {
		return Pose{}, errors.Wrapf(ErrUnresolvedReference, "road %d: lane %d not found in lane section %d", road.ID, laneID, section.ID)
	}
	if laneID == 0 {
		return pose, nil
	}
	ds := math.Max(0, s-section.SOffset)
	return pose.lateral(section.lateralOffset(laneID, ds)), nil
}

// LaneCenterLine samples lane center along its lane section with given step
func (road *Road) LaneCenterLine(sectionIdx, laneID int, step float64) (orb.LineString, error) {
	return road.laneLine(sectionIdx, laneID, step, func(section *LaneSection, ds float64) float64 {
		return section.lateralOffset(laneID, ds)
	})
}

// LaneBorderLine samples outer border of the lane along its lane section with given step
func (road *Road) LaneBorderLine(sectionIdx, laneID int, step float64) (orb.LineString, error) {
	return road.laneLine(sectionIdx, laneID, step, func(section *LaneSection, ds float64) float64 {
		return section.borderOffset(laneID, ds)
	})
}

func (road *Road) laneLine(sectionIdx, laneID int, step float64, offset func(*LaneSection, float64) float64) (orb.LineString, error) {
	section, err := road.LaneSection(sectionIdx)
	if err != nil {
		return nil, err
	}
	if _, ok := section.Lane(laneID); !ok {
		return nil, errors.Wrapf(ErrUnresolvedReference, "road %d: lane %d not found in lane section %d", road.ID, laneID, section.ID)
	}
	extent := road.LaneSectionExtent(sectionIdx)
	offsets := append([]float64{0}, sampleOffsets(extent, step)...)
	line := make(orb.LineString, 0, len(offsets))
	for _, ds := range offsets {
		pose, err := road.PoseAt(section.SOffset + ds)
		if err != nil {
			return nil, err
		}
		line = append(line, pose.lateral(offset(section, ds)).Point())
	}
	return line, nil
}
