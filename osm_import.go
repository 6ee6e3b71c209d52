package roadgen

import (
	"fmt"
	"math"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
)

const (
	// indentationThreshold is the default distance roads are cut back from junction nodes (meters)
	indentationThreshold = 8.0
	// projectionDistortion is the relative difference between planar and spherical length which is reported
	projectionDistortion = 0.01
)

// wayLanes is lanes number per driving direction of OSM way
type wayLanes struct {
	forward  int
	backward int
	// reversed is set for oneway=-1: traffic goes against nodes order
	reversed bool
}

func parseLanesTag(tags osm.Tags, key string) int {
	value := tags.Find(key)
	if value == "" {
		return -1
	}
	lanes, err := strconv.Atoi(value)
	if err != nil {
		return -1
	}
	return lanes
}

// getWayLanes evaluates lanes number per direction from 'oneway', 'lanes', 'lanes:forward' and 'lanes:backward' tags
func getWayLanes(tags osm.Tags, cfg *OSMConfiguration) wayLanes {
	tag := tags.Find(cfg.EntityName)
	class := getRoadClass(tag)
	ans := wayLanes{}
	oneway := onewayDefaultByRoadClass[class]
	switch tags.Find("oneway") {
	case "yes", "1", "true":
		oneway = true
	case "-1", "reverse":
		oneway = true
		ans.reversed = true
	case "no", "0", "false":
		oneway = false
	}
	if tags.Find("junction") == "roundabout" {
		oneway = true
	}
	lanes := parseLanesTag(tags, "lanes")
	lanesForward := parseLanesTag(tags, "lanes:forward")
	lanesBackward := parseLanesTag(tags, "lanes:backward")
	if oneway {
		ans.forward = lanes
	} else {
		if lanesForward > 0 {
			ans.forward = lanesForward
		} else if lanes > 0 {
			ans.forward = int(math.Ceil(float64(lanes) / 2.0))
		}
		if lanesBackward > 0 {
			ans.backward = lanesBackward
		} else if lanes > 0 {
			ans.backward = int(math.Ceil(float64(lanes) / 2.0))
		}
		if ans.backward <= 0 {
			ans.backward = cfg.defaultLanes(tag)
		}
	}
	if ans.forward <= 0 {
		ans.forward = cfg.defaultLanes(tag)
	}
	return ans
}

// ImportWay creates road from OSM way. Nodes are projected into local metric frame around configuration origin
// (the first node of the way becomes the origin when it is not set). Forward lanes become right lanes,
// backward lanes become left lanes.
func (session *Session) ImportWay(way *osm.Way, nodes map[osm.NodeID]*osm.Node, cfg *OSMConfiguration) (*Road, error) {
	line := make(orb.LineString, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		node, ok := nodes[wayNode.ID]
		if !ok {
			return nil, errors.Wrapf(ErrUnresolvedReference, "way %d: node %d not found", way.ID, wayNode.ID)
		}
		line = append(line, orb.Point{node.Lon, node.Lat})
	}
	return session.importLine(way.ID, way.Tags, line, cfg)
}

// importLine creates road from WGS84 polyline of the way (or a part of it)
func (session *Session) importLine(wayID osm.WayID, tags osm.Tags, line orb.LineString, cfg *OSMConfiguration) (*Road, error) {
	if len(line) < 2 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "way %d: needs at least two nodes, got %d", wayID, len(line))
	}
	if cfg.Origin == nil {
		origin := line[0]
		cfg.Origin = &origin
	}
	lanes := getWayLanes(tags, cfg)
	if lanes.reversed {
		line = reversedLine(line)
	}
	points := make([]orb.Point, len(line))
	for i, pt := range line {
		points[i] = pointToLocal(pt, *cfg.Origin)
	}
	return session.importPoints(wayID, tags, points, line, lanes, cfg)
}

func (session *Session) importPoints(wayID osm.WayID, tags osm.Tags, points []orb.Point, geoLine orb.LineString, lanes wayLanes, cfg *OSMConfiguration) (*Road, error) {
	pts := dedupPoints(points, continuityTolerance)
	if len(pts) < 2 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "way %d: needs at least two distinct nodes", wayID)
	}
	primitives, err := FilletPrimitives(pts, cfg.FilletRadius)
	if err != nil {
		return nil, errors.Wrapf(err, "way %d", wayID)
	}
	start := Pose{X: pts[0].X(), Y: pts[0].Y(), Heading: headingOf(pts[0], pts[1])}
	width := cfg.LaneWidth
	if width <= 0 {
		width = session.defaultLaneWidth
	}
	road, err := session.CreateRoad(start, primitives, lanes.backward, lanes.forward, width)
	if err != nil {
		return nil, errors.Wrapf(err, "way %d", wayID)
	}
	road.Name = tags.Find("name")
	laneType := getRoadClass(tags.Find(cfg.EntityName)).laneType()
	for _, lane := range road.laneSections[0].lanes() {
		lane.Type = laneType
	}
	if session.verbose && len(geoLine) > 1 {
		spherical := getSphericalLength(geoLine) * 1000.0
		planarLength := planar.Length(orb.LineString(pts))
		if spherical > 0 && math.Abs(planarLength-spherical)/spherical > projectionDistortion {
			fmt.Printf("\n\t[WARNING]: way %d: planar length %f differs from spherical length %f, origin is probably too far", wayID, planarLength, spherical)
		}
	}
	return road, nil
}

func reversedLine(line orb.LineString) orb.LineString {
	ans := make(orb.LineString, len(line))
	for i := range line {
		ans[i] = line[len(line)-1-i]
	}
	return ans
}

// cutLineStart drops first d meters of polyline
func cutLineStart(points []orb.Point, d float64) []orb.Point {
	for i := 1; i < len(points); i++ {
		segment := planar.Distance(points[i-1], points[i])
		if segment > d {
			ratio := d / segment
			cut := orb.Point{
				points[i-1].X() + (points[i].X()-points[i-1].X())*ratio,
				points[i-1].Y() + (points[i].Y()-points[i-1].Y())*ratio,
			}
			return append([]orb.Point{cut}, points[i:]...)
		}
		d -= segment
	}
	return nil
}

// cutLineEnd drops last d meters of polyline
func cutLineEnd(points []orb.Point, d float64) []orb.Point {
	reversed := make([]orb.Point, len(points))
	for i := range points {
		reversed[i] = points[len(points)-1-i]
	}
	cut := cutLineStart(reversed, d)
	ans := make([]orb.Point, len(cut))
	for i := range cut {
		ans[i] = cut[len(cut)-1-i]
	}
	return ans
}
