package roadgen

import (
	"fmt"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

const (
	// laneWidth is the default lane width in meters
	laneWidth = 3.5
)

// Session owns every road and junction of a network under construction together with
// the identifier allocator. Nothing is shared between sessions.
type Session struct {
	verbose          bool
	tolerance        float64
	defaultLaneWidth float64
	startRoadID      int
	startJunctionID  int

	ids            *IDAllocator
	roads          map[RoadID]*Road
	roadsOrder     []RoadID
	junctions      map[JunctionID]*Junction
	junctionsOrder []JunctionID
	finalized      bool

	router *ch.Graph
}

// String returns pretty printed value for Session
func (session *Session) String() string {
	return fmt.Sprintf(`
Road network session parameters:
	verbose: %t
	tolerance: %e
	default_lane_width: %f
	start_road_id: %d
	start_junction_id: %d
	roads: %d
	junctions: %d
	finalized?: %t
	`,
		session.verbose,
		session.tolerance,
		session.defaultLaneWidth,
		session.startRoadID,
		session.startJunctionID,
		len(session.roads),
		len(session.junctions),
		session.finalized,
	)
}

// NewSession creates empty session
func NewSession(options ...func(*Session)) *Session {
	session := &Session{
		tolerance:        continuityTolerance,
		defaultLaneWidth: laneWidth,
		startRoadID:      0,
		startJunctionID:  0,
	}
	for _, option := range options {
		option(session)
	}
	session.ids = NewIDAllocator(0)
	session.ids.SetStart(ENTITY_ROAD, session.startRoadID)
	session.ids.SetStart(ENTITY_JUNCTION, session.startJunctionID)
	session.clear()
	return session
}

// WithVerbose enables progress output to stdout
func WithVerbose(verbose bool) func(*Session) {
	return func(session *Session) {
		session.verbose = verbose
	}
}

// WithTolerance sets numeric tolerance for s-offsets and width coverage checks
func WithTolerance(tolerance float64) func(*Session) {
	return func(session *Session) {
		if tolerance > 0 {
			session.tolerance = tolerance
		}
	}
}

// WithDefaultLaneWidth sets lane width used when caller does not provide one
func WithDefaultLaneWidth(width float64) func(*Session) {
	return func(session *Session) {
		if width > 0 {
			session.defaultLaneWidth = width
		}
	}
}

// WithStartRoadID sets first road identifier
func WithStartRoadID(id int) func(*Session) {
	return func(session *Session) {
		session.startRoadID = id
	}
}

// WithStartJunctionID sets first junction identifier
func WithStartJunctionID(id int) func(*Session) {
	return func(session *Session) {
		session.startJunctionID = id
	}
}

func (session *Session) clear() {
	session.roads = make(map[RoadID]*Road)
	session.roadsOrder = nil
	session.junctions = make(map[JunctionID]*Junction)
	session.junctionsOrder = nil
	session.finalized = false
	session.router = nil
}

// Reset drops every road and junction and restarts identifier counters
func (session *Session) Reset() {
	session.ids.Reset()
	session.clear()
}

// IDs returns identifier allocator of the session
func (session *Session) IDs() *IDAllocator {
	return session.ids
}

// DefaultLaneWidth returns configured default lane width
func (session *Session) DefaultLaneWidth() float64 {
	return session.defaultLaneWidth
}

// Finalized returns true after successful Finalize call
func (session *Session) Finalized() bool {
	return session.finalized
}

func (session *Session) checkOpen() error {
	if session.finalized {
		return errors.Wrap(ErrSessionFinalized, "can't modify network")
	}
	return nil
}

// NewRoad creates road with empty reference line starting at the given pose
func (session *Session) NewRoad(start Pose) (*Road, error) {
	if err := session.checkOpen(); err != nil {
		return nil, err
	}
	id := RoadID(session.ids.Next(ENTITY_ROAD))
	road := newRoad(id, start, session.ids, session.tolerance)
	session.roads[id] = road
	session.roadsOrder = append(session.roadsOrder, id)
	return road, nil
}

// CreateRoad creates road from primitives with a single lane section of constant width lanes.
// Non-positive laneWidth means session default
func (session *Session) CreateRoad(start Pose, primitives []Primitive, left, right int, laneWidth float64) (*Road, error) {
	if laneWidth <= 0 {
		laneWidth = session.defaultLaneWidth
	}
	if left < 0 || right < 0 {
		return nil, errors.Wrapf(ErrInvalidTopology, "lanes number must be non-negative, got left %d and right %d", left, right)
	}
	if len(primitives) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "road needs at least one primitive")
	}
	road, err := session.NewRoad(start)
	if err != nil {
		return nil, err
	}
	for _, primitive := range primitives {
		if _, err := road.AppendGeometry(primitive); err != nil {
			return nil, err
		}
	}
	if _, err := road.AddLaneSection(0, UniformLaneSectionSpec(left, right)); err != nil {
		return nil, err
	}
	for _, id := range road.laneSections[0].LaneIDs() {
		if err := road.SetConstantLaneWidth(0, id, laneWidth); err != nil {
			return nil, err
		}
	}
	return road, nil
}

// Road returns road by identifier
func (session *Session) Road(id RoadID) (*Road, bool) {
	road, ok := session.roads[id]
	return road, ok
}

// Roads returns roads in creation order
func (session *Session) Roads() []*Road {
	ans := make([]*Road, 0, len(session.roadsOrder))
	for _, id := range session.roadsOrder {
		ans = append(ans, session.roads[id])
	}
	return ans
}

// NewJunction creates open junction
func (session *Session) NewJunction(name string) (*Junction, error) {
	if err := session.checkOpen(); err != nil {
		return nil, err
	}
	id := JunctionID(session.ids.Next(ENTITY_JUNCTION))
	junction := newJunction(id, name)
	session.junctions[id] = junction
	session.junctionsOrder = append(session.junctionsOrder, id)
	return junction, nil
}

// Junction returns junction by identifier
func (session *Session) Junction(id JunctionID) (*Junction, bool) {
	junction, ok := session.junctions[id]
	return junction, ok
}

// Junctions returns junctions in creation order
func (session *Session) Junctions() []*Junction {
	ans := make([]*Junction, 0, len(session.junctionsOrder))
	for _, id := range session.junctionsOrder {
		ans = append(ans, session.junctions[id])
	}
	return ans
}

// AddConnection registers connection in the junction
func (session *Session) AddConnection(junctionID JunctionID, conn Connection) error {
	junction, ok := session.junctions[junctionID]
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "junction %d not found", junctionID)
	}
	return junction.AddConnection(session, conn)
}

// AutoConnection registers connection with lane links inferred between the lane sections adjacent to the contacts.
// uTurn marks a connection which returns onto the incoming road end as intended
func (session *Session) AutoConnection(junctionID JunctionID, incoming RoadID, incomingContact ContactPoint, connecting RoadID, connectingContact ContactPoint, uTurn bool) (Connection, error) {
	junction, ok := session.junctions[junctionID]
	if !ok {
		return Connection{}, errors.Wrapf(ErrUnresolvedReference, "junction %d not found", junctionID)
	}
	inRoad, ok := session.roads[incoming]
	if !ok {
		return Connection{}, errors.Wrapf(ErrUnresolvedReference, "junction %d: incoming road %d not found", junctionID, incoming)
	}
	connRoad, ok := session.roads[connecting]
	if !ok {
		return Connection{}, errors.Wrapf(ErrUnresolvedReference, "junction %d: connecting road %d not found", junctionID, connecting)
	}
	inSection, err := inRoad.BoundaryLaneSection(incomingContact)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "junction %d", junctionID)
	}
	connSection, err := connRoad.BoundaryLaneSection(connectingContact)
	if err != nil {
		return Connection{}, errors.Wrapf(err, "junction %d", junctionID)
	}
	conn := Connection{
		IncomingRoad:      incoming,
		IncomingContact:   incomingContact,
		ConnectingRoad:    connecting,
		ConnectingContact: connectingContact,
		LaneLinks:         InferLaneLinks(inSection.LaneIDs(), connSection.LaneIDs(), incomingContact == connectingContact),
		UTurn:             uTurn,
	}
	if err := junction.AddConnection(session, conn); err != nil {
		return Connection{}, err
	}
	return junction.connections[len(junction.connections)-1], nil
}

// CloseJunction validates and closes junction
func (session *Session) CloseJunction(id JunctionID) error {
	junction, ok := session.junctions[id]
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "junction %d not found", id)
	}
	return junction.Close(session)
}

// LinkRoads links end aContact of road a with end bContact of road b (both road links and lane links)
func (session *Session) LinkRoads(a RoadID, aContact ContactPoint, b RoadID, bContact ContactPoint) error {
	if !aContact.valid() || !bContact.valid() {
		return errors.Wrap(ErrInvalidTopology, "contact points must be start or end")
	}
	roadA, ok := session.roads[a]
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "road %d not found", a)
	}
	roadB, ok := session.roads[b]
	if !ok {
		return errors.Wrapf(ErrUnresolvedReference, "road %d not found", b)
	}
	if roadA.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't link", a)
	}
	if roadB.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't link", b)
	}
	if err := roadA.setLinkAt(aContact, LinkToRoad(b, bContact)); err != nil {
		return err
	}
	if err := roadB.setLinkAt(bContact, LinkToRoad(a, aContact)); err != nil {
		return err
	}
	sectionA, errA := roadA.BoundaryLaneSection(aContact)
	sectionB, errB := roadB.BoundaryLaneSection(bContact)
	if errA == nil && errB == nil {
		linkLaneSections(sectionA, aContact, sectionB, bContact)
	}
	return nil
}

// BoundaryPose returns pose at the road end with heading pointing out of the road:
// reference line heading at END and its reverse at START
func (session *Session) BoundaryPose(id RoadID, contact ContactPoint) (Pose, error) {
	road, ok := session.roads[id]
	if !ok {
		return Pose{}, errors.Wrapf(ErrUnresolvedReference, "road %d not found", id)
	}
	if !contact.valid() {
		return Pose{}, errors.Wrapf(ErrInvalidTopology, "road %d: contact point must be start or end", id)
	}
	if road.planView.Len() == 0 {
		return Pose{}, errors.Wrapf(ErrInvalidTopology, "road %d has no geometry", id)
	}
	return exitPose(road, contact), nil
}

// Finalize validates every road, resolves every road link, closes open junctions
// and makes the whole network read-only
func (session *Session) Finalize() error {
	if session.finalized {
		return nil
	}
	if session.verbose {
		fmt.Print("Finalizing roads...")
	}
	st := time.Now()
	for _, road := range session.Roads() {
		if err := road.Validate(); err != nil {
			return errors.Wrap(err, "Can't finalize session")
		}
		for _, contact := range []ContactPoint{CONTACT_START, CONTACT_END} {
			link, ok := road.linkAt(contact)
			if !ok {
				continue
			}
			if err := session.resolveLink(link); err != nil {
				return errors.Wrapf(err, "Can't finalize session: road %d %s link", road.ID, contact)
			}
		}
	}
	if session.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Print("Closing junctions...")
	}
	st = time.Now()
	closed := 0
	for _, junction := range session.Junctions() {
		if junction.state == JUNCTION_CLOSED {
			continue
		}
		if err := junction.Close(session); err != nil {
			return errors.Wrap(err, "Can't finalize session")
		}
		closed++
	}
	for _, road := range session.roads {
		road.finalize()
	}
	session.finalized = true
	if session.verbose {
		fmt.Printf("Done in %v\n\tRoads: %d\n\tJunctions: %d (closed now: %d)\n", time.Since(st), len(session.roads), len(session.junctions), closed)
	}
	return nil
}

func (session *Session) resolveLink(link RoadLink) error {
	switch link.ElementType {
	case ELEMENT_ROAD:
		if _, ok := session.roads[RoadID(link.ElementID)]; !ok {
			return errors.Wrapf(ErrUnresolvedReference, "road %d not found", link.ElementID)
		}
		if !link.Contact.valid() {
			return errors.Wrapf(ErrInvalidTopology, "link to road %d has no contact point", link.ElementID)
		}
	case ELEMENT_JUNCTION:
		if _, ok := session.junctions[JunctionID(link.ElementID)]; !ok {
			return errors.Wrapf(ErrUnresolvedReference, "junction %d not found", link.ElementID)
		}
	default:
		return errors.Wrapf(ErrInvalidTopology, "unknown link element type %d", link.ElementType)
	}
	return nil
}
