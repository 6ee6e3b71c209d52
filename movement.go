package roadgen

import (
	"math"
)

// MovementType is the turn a junction connection performs
type MovementType uint16

const (
	MOVEMENT_THRU = MovementType(iota + 1)
	MOVEMENT_RIGHT
	MOVEMENT_LEFT
	MOVEMENT_U_TURN

	MOVEMENT_UNDEFINED = MovementType(0)
)

func (iotaIdx MovementType) String() string {
	return [...]string{"undefined", "thru", "right", "left", "uturn"}[iotaIdx]
}

// MovementCompositeType is the movement combined with the compass direction of approach
type MovementCompositeType uint16

const (
	MOVEMENT_SBT = MovementCompositeType(iota + 1)
	MOVEMENT_SBR
	MOVEMENT_SBL
	MOVEMENT_SBU
	MOVEMENT_EBT
	MOVEMENT_EBR
	MOVEMENT_EBL
	MOVEMENT_EBU
	MOVEMENT_NBT
	MOVEMENT_NBR
	MOVEMENT_NBL
	MOVEMENT_NBU
	MOVEMENT_WBT
	MOVEMENT_WBR
	MOVEMENT_WBL
	MOVEMENT_WBU
	MOVEMENT_NONE = MovementCompositeType(0)
)

var (
	movementTxt = map[string]MovementCompositeType{
		"SBT": MOVEMENT_SBT,
		"SBR": MOVEMENT_SBR,
		"SBL": MOVEMENT_SBL,
		"SBU": MOVEMENT_SBU,
		"EBT": MOVEMENT_EBT,
		"EBR": MOVEMENT_EBR,
		"EBL": MOVEMENT_EBL,
		"EBU": MOVEMENT_EBU,
		"NBT": MOVEMENT_NBT,
		"NBR": MOVEMENT_NBR,
		"NBL": MOVEMENT_NBL,
		"NBU": MOVEMENT_NBU,
		"WBT": MOVEMENT_WBT,
		"WBR": MOVEMENT_WBR,
		"WBL": MOVEMENT_WBL,
		"WBU": MOVEMENT_WBU,
	}
)

func (iotaIdx MovementCompositeType) String() string {
	return [...]string{"undefined", "SBT", "SBR", "SBL", "SBU", "EBT", "EBR", "EBL", "EBU", "NBT", "NBR", "NBL", "NBU", "WBT", "WBR", "WBL", "WBU"}[iotaIdx]
}

// movementBetweenPoses classifies movement from the heading of travel when entering a junction
// to the heading of travel when leaving it
func movementBetweenPoses(entering Pose, leaving Pose) (MovementCompositeType, MovementType) {
	var direction string
	angle1 := normalizeHeading(entering.Heading)
	if -0.75*math.Pi <= angle1 && angle1 < -0.25*math.Pi {
		direction = "SB"
	} else if -0.25*math.Pi <= angle1 && angle1 < 0.25*math.Pi {
		direction = "EB"
	} else if 0.25*math.Pi <= angle1 && angle1 < 0.75*math.Pi {
		direction = "NB"
	} else {
		direction = "WB"
	}

	angleDiff := headingDiff(entering.Heading, leaving.Heading)

	var movement string
	var movementType MovementType
	if -0.25*math.Pi <= angleDiff && angleDiff <= 0.25*math.Pi {
		movement = "T"
		movementType = MOVEMENT_THRU
	} else if angleDiff < -0.25*math.Pi {
		movement = "R"
		movementType = MOVEMENT_RIGHT
	} else if angleDiff <= 0.75*math.Pi {
		movement = "L"
		movementType = MOVEMENT_LEFT
	} else {
		movement = "U"
		movementType = MOVEMENT_U_TURN
	}

	return movementTxt[direction+movement], movementType
}
