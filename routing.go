package roadgen

import (
	"fmt"
	"time"

	"github.com/LdDl/ch"
	"github.com/pkg/errors"
)

// prepareRouter builds road-level graph of finalized network and contracts it.
// Vertices are roads; an edge leads from a road to every road traffic may continue onto
// through a road link or through junction connections. Edge weight is the length of the road being left.
// Travel along s requires right lanes, travel against s requires left lanes.
func (session *Session) prepareRouter() (*ch.Graph, error) {
	if session.verbose {
		fmt.Print("Preparing contraction hierarchies...")
	}
	st := time.Now()
	graph := ch.Graph{}
	for _, road := range session.Roads() {
		err := graph.CreateVertex(int64(road.ID))
		if err != nil {
			return nil, errors.Wrapf(err, "Can't add vertex for road %d", road.ID)
		}
	}
	edges := make(map[[2]RoadID]struct{})
	addEdge := func(from *Road, to RoadID) error {
		key := [2]RoadID{from.ID, to}
		if _, ok := edges[key]; ok || from.ID == to {
			return nil
		}
		edges[key] = struct{}{}
		err := graph.AddEdge(int64(from.ID), int64(to), from.Length())
		if err != nil {
			return errors.Wrapf(err, "Can't add edge from road %d to road %d", from.ID, to)
		}
		return nil
	}
	for _, road := range session.Roads() {
		for _, contact := range []ContactPoint{CONTACT_START, CONTACT_END} {
			section, err := road.BoundaryLaneSection(contact)
			if err != nil {
				continue
			}
			// Leaving through END means driving along s, i.e. on right lanes
			drivable := len(section.right) > 0
			if contact == CONTACT_START {
				drivable = len(section.left) > 0
			}
			if !drivable {
				continue
			}
			link, ok := road.linkAt(contact)
			if !ok {
				continue
			}
			switch link.ElementType {
			case ELEMENT_ROAD:
				if err := addEdge(road, RoadID(link.ElementID)); err != nil {
					return nil, err
				}
			case ELEMENT_JUNCTION:
				junction, ok := session.junctions[JunctionID(link.ElementID)]
				if !ok {
					continue
				}
				for _, conn := range junction.connections {
					if conn.IncomingRoad != road.ID || conn.IncomingContact != contact {
						continue
					}
					if err := addEdge(road, conn.ConnectingRoad); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	graph.PrepareContractionHierarchies()
	if session.verbose {
		fmt.Printf("Done in %v\n\tEdges: %d\n", time.Since(st), len(edges))
	}
	return &graph, nil
}

// Route returns shortest sequence of roads from one road to another over finalized network.
// Cost is the length travelled from the beginning of the source road to the beginning of the target road.
func (session *Session) Route(from, to RoadID) (float64, []RoadID, error) {
	if !session.finalized {
		return -1, nil, errors.Wrap(ErrNotFinalized, "Can't route")
	}
	if _, ok := session.roads[from]; !ok {
		return -1, nil, errors.Wrapf(ErrUnresolvedReference, "road %d not found", from)
	}
	if _, ok := session.roads[to]; !ok {
		return -1, nil, errors.Wrapf(ErrUnresolvedReference, "road %d not found", to)
	}
	if from == to {
		return 0, []RoadID{from}, nil
	}
	if session.router == nil {
		router, err := session.prepareRouter()
		if err != nil {
			return -1, nil, errors.Wrap(err, "Can't prepare router")
		}
		session.router = router
	}
	cost, path := session.router.ShortestPath(int64(from), int64(to))
	if cost < 0 || len(path) == 0 {
		return -1, nil, errors.Wrapf(ErrUnresolvedReference, "no route from road %d to road %d", from, to)
	}
	roads := make([]RoadID, len(path))
	for i, id := range path {
		roads[i] = RoadID(id)
	}
	return cost, roads, nil
}
