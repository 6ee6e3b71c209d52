package roadgen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// JunctionID is the identifier of a junction
type JunctionID int

// JunctionState is the lifecycle state of a junction
type JunctionState uint16

const (
	JUNCTION_OPEN = JunctionState(iota + 1)
	JUNCTION_CLOSED
)

func (iotaIdx JunctionState) String() string {
	return [...]string{"undefined", "open", "closed"}[iotaIdx]
}

// RoadResolver looks roads up by identifier
type RoadResolver interface {
	Road(id RoadID) (*Road, bool)
}

// Connection tells that traffic from the incoming road (at IncomingContact) continues
// onto the connecting road (entering it at ConnectingContact)
type Connection struct {
	ID                int
	IncomingRoad      RoadID
	IncomingContact   ContactPoint
	ConnectingRoad    RoadID
	ConnectingContact ContactPoint
	LaneLinks         []LaneLink
	// UTurn permits the incoming and connecting road to be the same road end
	UTurn bool

	MovementType          MovementType
	MovementCompositeType MovementCompositeType
}

// String returns pretty printed value for Connection
func (conn Connection) String() string {
	links := make([]string, 0, len(conn.LaneLinks))
	for _, link := range conn.LaneLinks {
		links = append(links, link.String())
	}
	return fmt.Sprintf("ID: %d | Incoming: %d (%s) | Connecting: %d (%s) | Lane links: [%s] | Movement: %s", conn.ID, conn.IncomingRoad, conn.IncomingContact, conn.ConnectingRoad, conn.ConnectingContact, strings.Join(links, ", "), conn.MovementType)
}

// key identifies connection regardless of lane links order and repeats
func (conn Connection) key() string {
	links := lo.Uniq(conn.LaneLinks)
	sort.Slice(links, func(i, j int) bool {
		if links[i].From == links[j].From {
			return links[i].To < links[j].To
		}
		return links[i].From < links[j].From
	})
	parts := make([]string, 0, len(links))
	for _, link := range links {
		parts = append(parts, link.String())
	}
	return fmt.Sprintf("%d|%s|%d|%s|%s", conn.IncomingRoad, conn.IncomingContact, conn.ConnectingRoad, conn.ConnectingContact, strings.Join(parts, ","))
}

// Junction groups connections between road ends. Connections are only accepted while the junction is open;
// closing validates the set as a whole.
type Junction struct {
	ID          JunctionID
	Name        string
	state       JunctionState
	connections []Connection
}

func newJunction(id JunctionID, name string) *Junction {
	return &Junction{
		ID:    id,
		Name:  name,
		state: JUNCTION_OPEN,
	}
}

// String returns pretty printed value for Junction
func (junction *Junction) String() string {
	return fmt.Sprintf("ID: %d | Name: '%s' | State: %s | Connections: %d", junction.ID, junction.Name, junction.state, len(junction.connections))
}

// State returns lifecycle state
func (junction *Junction) State() JunctionState {
	return junction.state
}

// Connections returns copy of registered connections in insertion order
func (junction *Junction) Connections() []Connection {
	ans := make([]Connection, len(junction.connections))
	for i, conn := range junction.connections {
		ans[i] = conn
		ans[i].LaneLinks = append([]LaneLink(nil), conn.LaneLinks...)
	}
	return ans
}

// AddConnection registers connection. Both roads and every lane named in lane links must exist;
// lanes are looked up in the lane section adjacent to the corresponding contact.
// Connection ID is assigned by the junction.
func (junction *Junction) AddConnection(roads RoadResolver, conn Connection) error {
	if junction.state == JUNCTION_CLOSED {
		return errors.Wrapf(ErrJunctionClosed, "junction %d: can't add connection", junction.ID)
	}
	if !conn.IncomingContact.valid() || !conn.ConnectingContact.valid() {
		return errors.Wrapf(ErrInvalidTopology, "junction %d: connection contact points must be start or end", junction.ID)
	}
	incoming, ok := roads.Road(conn.IncomingRoad)
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "junction %d: incoming road %d not found", junction.ID, conn.IncomingRoad)
	}
	connecting, ok := roads.Road(conn.ConnectingRoad)
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "junction %d: connecting road %d not found", junction.ID, conn.ConnectingRoad)
	}
	if len(conn.LaneLinks) > 0 {
		incomingSection, err := incoming.BoundaryLaneSection(conn.IncomingContact)
		if err != nil {
			return errors.Wrapf(err, "junction %d", junction.ID)
		}
		connectingSection, err := connecting.BoundaryLaneSection(conn.ConnectingContact)
		if err != nil {
			return errors.Wrapf(err, "junction %d", junction.ID)
		}
		for _, link := range conn.LaneLinks {
			if _, ok := incomingSection.Lane(link.From); !ok || link.From == 0 {
				return errors.Wrapf(ErrUnresolvedReference, "junction %d: lane %d not found on incoming road %d at %s", junction.ID, link.From, incoming.ID, conn.IncomingContact)
			}
			if _, ok := connectingSection.Lane(link.To); !ok || link.To == 0 {
				return errors.Wrapf(ErrUnresolvedReference, "junction %d: lane %d not found on connecting road %d at %s", junction.ID, link.To, connecting.ID, conn.ConnectingContact)
			}
		}
	}
	conn.ID = len(junction.connections)
	conn.LaneLinks = lo.Uniq(conn.LaneLinks)
	if conn.MovementType == MOVEMENT_UNDEFINED {
		conn.MovementCompositeType, conn.MovementType = movementBetweenPoses(
			exitPose(incoming, conn.IncomingContact),
			exitPose(connecting, conn.ConnectingContact.Opposite()),
		)
	}
	junction.connections = append(junction.connections, conn)
	return nil
}

// exitPose returns pose at the contact with heading of travel leaving the road through it
func exitPose(road *Road, contact ContactPoint) Pose {
	pose := road.boundaryPose(contact)
	if contact == CONTACT_START {
		return pose.Reversed()
	}
	return pose
}

// Validate checks connection set: no exact duplicates (lane links compared as sets)
// and no self-loops at the same road end unless marked as U-turns
func (junction *Junction) Validate() error {
	seen := make(map[string]int, len(junction.connections))
	for _, conn := range junction.connections {
		if conn.IncomingRoad == conn.ConnectingRoad && conn.IncomingContact == conn.ConnectingContact && !conn.UTurn {
			return errors.Wrapf(ErrDegenerateConnection, "junction %d: connection %d connects road %d %s to itself", junction.ID, conn.ID, conn.IncomingRoad, conn.IncomingContact)
		}
		key := conn.key()
		if firstID, ok := seen[key]; ok {
			return errors.Wrapf(ErrDuplicateConnection, "junction %d: connection %d duplicates connection %d", junction.ID, conn.ID, firstID)
		}
		seen[key] = conn.ID
	}
	return nil
}

// Close validates connection set and closes the junction. Every road referenced by its connections is finalized.
// On failure the junction stays open and can be fixed
func (junction *Junction) Close(roads RoadResolver) error {
	if junction.state == JUNCTION_CLOSED {
		return errors.Wrapf(ErrJunctionClosed, "junction %d: already closed", junction.ID)
	}
	if err := junction.Validate(); err != nil {
		return err
	}
	junction.state = JUNCTION_CLOSED
	for _, conn := range junction.connections {
		for _, id := range []RoadID{conn.IncomingRoad, conn.ConnectingRoad} {
			if road, ok := roads.Road(id); ok {
				road.finalize()
			}
		}
	}
	return nil
}
