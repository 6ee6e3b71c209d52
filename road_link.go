package roadgen

import (
	"fmt"
)

// ContactPoint is the end of a road which takes part in a link
type ContactPoint uint16

const (
	CONTACT_START = ContactPoint(iota + 1)
	CONTACT_END
)

func (iotaIdx ContactPoint) String() string {
	return [...]string{"undefined", "start", "end"}[iotaIdx]
}

// Opposite returns the other end of a road
func (iotaIdx ContactPoint) Opposite() ContactPoint {
	if iotaIdx == CONTACT_START {
		return CONTACT_END
	}
	return CONTACT_START
}

func (iotaIdx ContactPoint) valid() bool {
	return iotaIdx == CONTACT_START || iotaIdx == CONTACT_END
}

// ElementType is the kind of entity a road link points to
type ElementType uint16

const (
	ELEMENT_ROAD = ElementType(iota + 1)
	ELEMENT_JUNCTION
)

func (iotaIdx ElementType) String() string {
	return [...]string{"undefined", "road", "junction"}[iotaIdx]
}

// RoadLink is the predecessor or successor reference of a road.
// Contact is meaningful only when ElementType is ELEMENT_ROAD
type RoadLink struct {
	ElementType ElementType
	ElementID   int
	Contact     ContactPoint
}

// LinkToRoad creates link to the given end of a road
func LinkToRoad(id RoadID, contact ContactPoint) RoadLink {
	return RoadLink{ElementType: ELEMENT_ROAD, ElementID: int(id), Contact: contact}
}

// LinkToJunction creates link to a junction
func LinkToJunction(id JunctionID) RoadLink {
	return RoadLink{ElementType: ELEMENT_JUNCTION, ElementID: int(id)}
}

// String returns pretty printed value for RoadLink
func (link RoadLink) String() string {
	if link.ElementType == ELEMENT_JUNCTION {
		return fmt.Sprintf("junction %d", link.ElementID)
	}
	return fmt.Sprintf("road %d (%s)", link.ElementID, link.Contact)
}
