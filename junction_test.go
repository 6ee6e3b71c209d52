package roadgen

import (
	"math"
	"testing"

	"github.com/cheekybits/is"
	"github.com/pkg/errors"
)

// crossroadSession returns session with road A heading east toward origin of junction,
// road B continuing east after a gap and road C leaving north
func crossroadSession(t *testing.T) (*Session, RoadID, RoadID, RoadID) {
	t.Helper()
	session := NewSession()
	a, err := session.CreateRoad(Pose{X: 0, Y: 0}, []Primitive{mustPrimitive(t)(NewLine(50))}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	b, err := session.CreateRoad(Pose{X: 70, Y: 0}, []Primitive{mustPrimitive(t)(NewLine(50))}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	c, err := session.CreateRoad(Pose{X: 60, Y: 10, Heading: math.Pi / 2}, []Primitive{mustPrimitive(t)(NewLine(50))}, 1, 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	return session, a.ID, b.ID, c.ID
}

func TestJunctionDuplicateConnection(t *testing.T) {
	is := is.New(t)
	session, a, b, _ := crossroadSession(t)
	junction, err := session.NewJunction("duplicates")
	is.NoErr(err)

	conn := Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{-1, -1}, {1, 1}},
	}
	is.NoErr(session.AddConnection(junction.ID, conn))
	conn.LaneLinks = []LaneLink{{1, 1}, {-1, -1}}
	is.NoErr(session.AddConnection(junction.ID, conn))

	err = session.CloseJunction(junction.ID)
	is.True(errors.Is(err, ErrDuplicateConnection))
	is.Equal(junction.State(), JUNCTION_OPEN)
	roadA, _ := session.Road(a)
	is.False(roadA.Finalized())

	conns := junction.Connections()
	is.Equal(len(conns), 2)
	is.Equal(conns[0].ID, 0)
	is.Equal(conns[1].ID, 1)
}

func TestJunctionDifferentLaneLinksAreNotDuplicates(t *testing.T) {
	is := is.New(t)
	session, a, b, _ := crossroadSession(t)
	junction, err := session.NewJunction("")
	is.NoErr(err)
	conn := Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{-1, -1}},
	}
	is.NoErr(junction.AddConnection(session, conn))
	conn.LaneLinks = []LaneLink{{1, 1}}
	is.NoErr(junction.AddConnection(session, conn))
	is.NoErr(junction.Close(session))
	is.Equal(junction.State(), JUNCTION_CLOSED)
}

func TestJunctionRepeatedLaneLinks(t *testing.T) {
	is := is.New(t)
	session, a, b, _ := crossroadSession(t)
	junction, err := session.NewJunction("")
	is.NoErr(err)
	conn := Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{-1, -1}},
	}
	is.NoErr(junction.AddConnection(session, conn))
	conn.LaneLinks = []LaneLink{{-1, -1}, {-1, -1}}
	is.NoErr(junction.AddConnection(session, conn))
	is.Equal(len(junction.Connections()[1].LaneLinks), 1)
	is.True(errors.Is(junction.Close(session), ErrDuplicateConnection))
	is.Equal(junction.State(), JUNCTION_OPEN)
}

func TestJunctionUnresolvedReferences(t *testing.T) {
	is := is.New(t)
	session, a, b, _ := crossroadSession(t)
	junction, err := session.NewJunction("")
	is.NoErr(err)

	err = junction.AddConnection(session, Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    99,
		ConnectingContact: CONTACT_START,
	})
	is.True(errors.Is(err, ErrUnresolvedReference))

	err = junction.AddConnection(session, Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{-1, -5}},
	})
	is.True(errors.Is(err, ErrUnresolvedReference))

	err = junction.AddConnection(session, Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{0, 0}},
	})
	is.True(errors.Is(err, ErrUnresolvedReference))

	err = session.AddConnection(42, Connection{})
	is.True(errors.Is(err, ErrUnresolvedReference))

	is.Equal(len(junction.Connections()), 0)
}

func TestJunctionDegenerateConnection(t *testing.T) {
	is := is.New(t)
	session, a, _, _ := crossroadSession(t)

	loop := Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    a,
		ConnectingContact: CONTACT_END,
		LaneLinks:         []LaneLink{{-1, 1}},
	}
	junction, err := session.NewJunction("loop")
	is.NoErr(err)
	is.NoErr(session.AddConnection(junction.ID, loop))
	err = session.CloseJunction(junction.ID)
	is.True(errors.Is(err, ErrDegenerateConnection))
	is.Equal(junction.State(), JUNCTION_OPEN)

	uturn, err := session.NewJunction("uturn")
	is.NoErr(err)
	loop.UTurn = true
	is.NoErr(session.AddConnection(uturn.ID, loop))
	is.NoErr(session.CloseJunction(uturn.ID))
	is.Equal(uturn.Connections()[0].MovementType, MOVEMENT_U_TURN)
}

func TestAutoConnectionSelfLoop(t *testing.T) {
	is := is.New(t)
	session, a, _, _ := crossroadSession(t)

	junction, err := session.NewJunction("loop")
	is.NoErr(err)
	conn, err := session.AutoConnection(junction.ID, a, CONTACT_END, a, CONTACT_END, false)
	is.NoErr(err)
	is.False(conn.UTurn)
	err = session.CloseJunction(junction.ID)
	is.True(errors.Is(err, ErrDegenerateConnection))
	is.Equal(junction.State(), JUNCTION_OPEN)

	uturn, err := session.NewJunction("uturn")
	is.NoErr(err)
	conn, err = session.AutoConnection(uturn.ID, a, CONTACT_END, a, CONTACT_END, true)
	is.NoErr(err)
	is.True(conn.UTurn)
	is.NoErr(session.CloseJunction(uturn.ID))
}

func TestJunctionClose(t *testing.T) {
	is := is.New(t)
	session, a, b, c := crossroadSession(t)
	junction, err := session.NewJunction("")
	is.NoErr(err)
	is.NoErr(session.AddConnection(junction.ID, Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    b,
		ConnectingContact: CONTACT_START,
		LaneLinks:         []LaneLink{{-1, -1}},
	}))
	is.NoErr(session.CloseJunction(junction.ID))
	is.Equal(junction.State(), JUNCTION_CLOSED)

	roadA, _ := session.Road(a)
	roadB, _ := session.Road(b)
	roadC, _ := session.Road(c)
	is.True(roadA.Finalized())
	is.True(roadB.Finalized())
	is.False(roadC.Finalized())

	err = session.AddConnection(junction.ID, Connection{
		IncomingRoad:      a,
		IncomingContact:   CONTACT_END,
		ConnectingRoad:    c,
		ConnectingContact: CONTACT_START,
	})
	is.True(errors.Is(err, ErrJunctionClosed))
	is.True(errors.Is(session.CloseJunction(junction.ID), ErrJunctionClosed))
	is.True(errors.Is(roadA.SetSuccessor(LinkToJunction(junction.ID)), ErrRoadFinalized))
}

func TestJunctionMovement(t *testing.T) {
	is := is.New(t)
	session, a, b, c := crossroadSession(t)
	junction, err := session.NewJunction("")
	is.NoErr(err)

	thru, err := session.AutoConnection(junction.ID, a, CONTACT_END, b, CONTACT_START, false)
	is.NoErr(err)
	is.Equal(thru.MovementType, MOVEMENT_THRU)
	is.Equal(thru.MovementCompositeType, MOVEMENT_EBT)
	is.Equal(thru.LaneLinks, []LaneLink{{-1, -1}, {1, 1}})

	left, err := session.AutoConnection(junction.ID, a, CONTACT_END, c, CONTACT_START, false)
	is.NoErr(err)
	is.Equal(left.MovementType, MOVEMENT_LEFT)
	is.Equal(left.MovementCompositeType, MOVEMENT_EBL)

	// Leaving B backwards through its start is the west-bound approach
	back, err := session.AutoConnection(junction.ID, b, CONTACT_START, a, CONTACT_END, false)
	is.NoErr(err)
	is.Equal(back.MovementType, MOVEMENT_THRU)
	is.Equal(back.MovementCompositeType, MOVEMENT_WBT)
	is.Equal(back.LaneLinks, []LaneLink{{-1, -1}, {1, 1}})
	is.Equal(back.ID, 2)
}
