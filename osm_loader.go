package roadgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/pkg/errors"
)

// roadEnd is a road end touching OSM node
type roadEnd struct {
	road    RoadID
	contact ContactPoint
}

// wayPiece is a part of OSM way between two nodes shared with other ways
type wayPiece struct {
	way    *osm.Way
	line   orb.LineString
	source osm.NodeID
	target osm.NodeID
}

// ImportFromOSMFile Imports roads from file of PBF-format (in OSM terms)
/*
	Ways are split at nodes shared with other ways. Two road ends meeting at a node are linked directly,
	three and more road ends form a junction with connecting roads between every drivable pair.
*/
func (session *Session) ImportFromOSMFile(fileName string, cfg *OSMConfiguration) error {
	f, err := os.Open(fileName)
	if err != nil {
		return errors.Wrap(err, "File open")
	}
	defer f.Close()

	scannerWays := osmpbf.New(context.Background(), f, 4)
	defer scannerWays.Close()

	ways := []*osm.Way{}
	nodesSeen := make(map[osm.NodeID]struct{})
	if session.verbose {
		fmt.Printf("Scanning ways...")
	}
	st := time.Now()
	for scannerWays.Scan() {
		obj := scannerWays.Object()
		if obj.ObjectID().Type() != "way" {
			continue
		}
		way := obj.(*osm.Way)
		if !cfg.CheckTag(way.Tags.Find(cfg.EntityName)) {
			continue
		}
		ways = append(ways, way)
		for _, node := range way.Nodes {
			nodesSeen[node.ID] = struct{}{}
		}
	}
	if scannerWays.Err() != nil {
		return errors.Wrap(scannerWays.Err(), "Scanner error on Ways")
	}
	if session.verbose {
		fmt.Printf("Done in %v\n\tWays: %d\n", time.Since(st), len(ways))
	}

	// Seek file to start
	_, err = f.Seek(0, io.SeekStart)
	if err != nil {
		return errors.Wrap(err, "Can't repeat seeking")
	}
	scannerNodes := osmpbf.New(context.Background(), f, 4)
	defer scannerNodes.Close()

	nodes := make(map[osm.NodeID]*osm.Node, len(nodesSeen))
	if session.verbose {
		fmt.Printf("Scanning nodes...")
	}
	st = time.Now()
	for scannerNodes.Scan() {
		obj := scannerNodes.Object()
		if obj.ObjectID().Type() != "node" {
			continue
		}
		node := obj.(*osm.Node)
		if _, ok := nodesSeen[node.ID]; ok {
			delete(nodesSeen, node.ID)
			nodes[node.ID] = node
		}
	}
	if scannerNodes.Err() != nil {
		return errors.Wrap(scannerNodes.Err(), "Scanner error on Nodes")
	}
	if session.verbose {
		fmt.Printf("Done in %v\n\tNodes: %d\n", time.Since(st), len(nodes))
	}
	return session.ImportOSM(ways, nodes, cfg)
}

// ImportOSM creates roads, road links and junctions from already loaded OSM ways and nodes
func (session *Session) ImportOSM(ways []*osm.Way, nodes map[osm.NodeID]*osm.Node, cfg *OSMConfiguration) error {
	if session.verbose {
		fmt.Printf("Counting node use cases...")
	}
	st := time.Now()
	useCount := make(map[osm.NodeID]int)
	accessible := make([]*osm.Way, 0, len(ways))
	for _, way := range ways {
		if !accessAllowed(way.Tags) {
			if session.verbose {
				fmt.Printf("\n\t[WARNING]: way %d is closed for general traffic, skipping", way.ID)
			}
			continue
		}
		accessible = append(accessible, way)
	}
	ways = accessible
	for _, way := range ways {
		for i, wayNode := range way.Nodes {
			if _, ok := nodes[wayNode.ID]; !ok {
				return errors.Wrapf(ErrUnresolvedReference, "way %d: node %d not found", way.ID, wayNode.ID)
			}
			if i == 0 || i == len(way.Nodes)-1 {
				useCount[wayNode.ID] += 2
			} else {
				useCount[wayNode.ID]++
			}
		}
	}
	if session.verbose {
		fmt.Printf("Done in %v\n", time.Since(st))
		fmt.Printf("Preparing roads...")
	}
	st = time.Now()

	pieces := []wayPiece{}
	for _, way := range ways {
		piece := wayPiece{way: way}
		for i, wayNode := range way.Nodes {
			node := nodes[wayNode.ID]
			pt := orb.Point{node.Lon, node.Lat}
			if i == 0 {
				piece.source = wayNode.ID
				piece.line = orb.LineString{pt}
				continue
			}
			piece.line = append(piece.line, pt)
			if i == len(way.Nodes)-1 || useCount[wayNode.ID] >= 2 {
				piece.target = wayNode.ID
				pieces = append(pieces, piece)
				piece = wayPiece{way: way, source: wayNode.ID, line: orb.LineString{pt}}
			}
		}
	}
	if cfg.Origin == nil && len(pieces) > 0 {
		origin := pieces[0].line[0]
		cfg.Origin = &origin
	}

	endsCount := make(map[osm.NodeID]int)
	for _, piece := range pieces {
		endsCount[piece.source]++
		endsCount[piece.target]++
	}

	ends := make(map[osm.NodeID][]roadEnd)
	skipped := 0
	for _, piece := range pieces {
		lanes := getWayLanes(piece.way.Tags, cfg)
		line, source, target := piece.line, piece.source, piece.target
		if lanes.reversed {
			line, source, target = reversedLine(line), target, source
		}
		points := make([]orb.Point, len(line))
		for i, pt := range line {
			points[i] = pointToLocal(pt, *cfg.Origin)
		}
		if endsCount[source] >= 3 {
			points = cutLineStart(points, cfg.JunctionOffset)
		}
		if endsCount[target] >= 3 && len(points) > 1 {
			points = cutLineEnd(points, cfg.JunctionOffset)
		}
		if len(points) < 2 {
			if session.verbose {
				fmt.Printf("\n\t[WARNING]: way %d: part between nodes %d and %d is shorter than junction offsets, skipping", piece.way.ID, source, target)
			}
			skipped++
			continue
		}
		road, err := session.importPoints(piece.way.ID, piece.way.Tags, points, line, lanes, cfg)
		if err != nil {
			if session.verbose {
				fmt.Printf("\n\t[WARNING]: %s, skipping", err.Error())
			}
			skipped++
			continue
		}
		ends[source] = append(ends[source], roadEnd{road: road.ID, contact: CONTACT_START})
		ends[target] = append(ends[target], roadEnd{road: road.ID, contact: CONTACT_END})
	}
	if session.verbose {
		fmt.Printf("Done in %v\n\tRoads: %d\n\tSkipped: %d\n", time.Since(st), len(session.roads), skipped)
		fmt.Printf("Preparing junctions...")
	}
	st = time.Now()

	nodeIDs := make([]osm.NodeID, 0, len(ends))
	for _, way := range ways {
		for _, wayNode := range way.Nodes {
			if _, ok := ends[wayNode.ID]; ok {
				nodeIDs = append(nodeIDs, wayNode.ID)
			}
		}
	}
	visited := make(map[osm.NodeID]struct{}, len(nodeIDs))
	junctions := 0
	for _, nodeID := range nodeIDs {
		if _, ok := visited[nodeID]; ok {
			continue
		}
		visited[nodeID] = struct{}{}
		nodeEnds := ends[nodeID]
		switch {
		case len(nodeEnds) == 2:
			a, b := nodeEnds[0], nodeEnds[1]
			if a.road == b.road {
				continue
			}
			if err := session.LinkRoads(a.road, a.contact, b.road, b.contact); err != nil {
				return errors.Wrapf(err, "Can't link roads at node %d", nodeID)
			}
		case len(nodeEnds) >= 3:
			junction, err := session.NewJunction(fmt.Sprintf("osm node %d", nodeID))
			if err != nil {
				return err
			}
			junctions++
			for _, in := range nodeEnds {
				for _, out := range nodeEnds {
					if in == out || !session.canLeave(in) || !session.canEnter(out) {
						continue
					}
					if _, err := session.ConnectRoads(junction.ID, in.road, in.contact, out.road, out.contact); err != nil {
						if session.verbose {
							fmt.Printf("\n\t[WARNING]: node %d: %s, skipping", nodeID, err.Error())
						}
					}
				}
			}
		}
	}
	if session.verbose {
		fmt.Printf("Done in %v\n\tJunctions: %d\n", time.Since(st), junctions)
	}
	return nil
}

// canLeave returns true when traffic may drive out of the road through the end
func (session *Session) canLeave(end roadEnd) bool {
	road, ok := session.roads[end.road]
	if !ok {
		return false
	}
	section, err := road.BoundaryLaneSection(end.contact)
	if err != nil {
		return false
	}
	if end.contact == CONTACT_END {
		return len(section.right) > 0
	}
	return len(section.left) > 0
}

// canEnter returns true when traffic may drive into the road through the end
func (session *Session) canEnter(end roadEnd) bool {
	road, ok := session.roads[end.road]
	if !ok {
		return false
	}
	section, err := road.BoundaryLaneSection(end.contact)
	if err != nil {
		return false
	}
	if end.contact == CONTACT_START {
		return len(section.right) > 0
	}
	return len(section.left) > 0
}
