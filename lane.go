package roadgen

import (
	"fmt"
)

// LaneType is the usage of a lane
type LaneType uint16

const (
	LANE_DRIVING = LaneType(iota + 1)
	LANE_NONE
	LANE_SIDEWALK
	LANE_SHOULDER
	LANE_BORDER
	LANE_BIKING
	LANE_PARKING
	LANE_MEDIAN
	LANE_RESTRICTED
	LANE_STOP
	LANE_ENTRY
	LANE_EXIT
	LANE_ON_RAMP
	LANE_OFF_RAMP
)

func (iotaIdx LaneType) String() string {
	return [...]string{"undefined", "driving", "none", "sidewalk", "shoulder", "border", "biking", "parking", "median", "restricted", "stop", "entry", "exit", "onRamp", "offRamp"}[iotaIdx]
}

// Lane is a strip of a lane section. Positive IDs are on the left of the reference line, negative on the right,
// zero is the center lane which has no width.
type Lane struct {
	ID        int
	Type      LaneType
	widths    cubicProfile
	roadMarks []RoadMark

	predecessor    int
	hasPredecessor bool
	successor      int
	hasSuccessor   bool
}

func newLane(id int, laneType LaneType) *Lane {
	if laneType == 0 {
		laneType = LANE_DRIVING
	}
	if id == 0 {
		laneType = LANE_NONE
	}
	return &Lane{
		ID:   id,
		Type: laneType,
	}
}

// String returns pretty printed value for Lane
func (lane *Lane) String() string {
	pred, succ := "-", "-"
	if lane.hasPredecessor {
		pred = fmt.Sprintf("%d", lane.predecessor)
	}
	if lane.hasSuccessor {
		succ = fmt.Sprintf("%d", lane.successor)
	}
	return fmt.Sprintf("ID: %d | Type: %s | Widths: %d | Predecessor: %s | Successor: %s", lane.ID, lane.Type, len(lane.widths.records), pred, succ)
}

// Widths returns copy of width records. SOffset of every record is relative to lane section start
func (lane *Lane) Widths() []CubicRecord {
	return lane.widths.copyRecords()
}

// WidthAt returns lane width at ds relative to lane section start
func (lane *Lane) WidthAt(ds float64) float64 {
	return lane.widths.value(ds)
}

// Coverage returns offset (relative to lane section start) up to which widths are defined
func (lane *Lane) Coverage() float64 {
	return lane.widths.covered
}

// Predecessor returns ID of the lane this lane continues from
func (lane *Lane) Predecessor() (int, bool) {
	return lane.predecessor, lane.hasPredecessor
}

// Successor returns ID of the lane this lane continues into
func (lane *Lane) Successor() (int, bool) {
	return lane.successor, lane.hasSuccessor
}

// RoadMarks returns copy of road marks of outer lane border
func (lane *Lane) RoadMarks() []RoadMark {
	ans := make([]RoadMark, len(lane.roadMarks))
	copy(ans, lane.roadMarks)
	return ans
}

// AddRoadMark appends road mark for outer lane border
func (lane *Lane) AddRoadMark(mark RoadMark) {
	lane.roadMarks = append(lane.roadMarks, mark)
}

func (lane *Lane) setPredecessor(id int) {
	lane.predecessor = id
	lane.hasPredecessor = true
}

func (lane *Lane) setSuccessor(id int) {
	lane.successor = id
	lane.hasSuccessor = true
}

// setLink sets predecessor for START contact and successor for END contact
func (lane *Lane) setLink(contact ContactPoint, id int) {
	if contact == CONTACT_START {
		lane.setPredecessor(id)
		return
	}
	lane.setSuccessor(id)
}

func (lane *Lane) clearLink(contact ContactPoint) {
	if contact == CONTACT_START {
		lane.predecessor, lane.hasPredecessor = 0, false
		return
	}
	lane.successor, lane.hasSuccessor = 0, false
}
