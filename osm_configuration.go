package roadgen

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"
)

// OSMConfiguration Allows to filter ways by certain tags from OSM data and tells how to shape imported roads
type OSMConfiguration struct {
	EntityName string // Currrently we support 'highway' only
	Tags       []string
	// DefaultLanes overrides lanes number per direction by tag value when way has no lanes tags
	DefaultLanes map[string]int
	LaneWidth    float64
	// FilletRadius is the radius of arcs replacing polyline corners
	FilletRadius float64
	// JunctionOffset is the distance roads are cut back from a node shared by three or more road ends
	JunctionOffset float64
	// Origin is WGS84 point mapped to (0, 0). When not set the first imported node is used
	Origin *orb.Point
}

// DefaultOSMConfiguration returns configuration for motor roads
func DefaultOSMConfiguration() *OSMConfiguration {
	return &OSMConfiguration{
		EntityName:     "highway",
		Tags:           []string{"motorway", "motorway_link", "trunk", "trunk_link", "primary", "primary_link", "secondary", "secondary_link", "tertiary", "tertiary_link", "residential", "living_street", "service", "unclassified"},
		DefaultLanes:   map[string]int{},
		LaneWidth:      laneWidth,
		FilletRadius:   15.0,
		JunctionOffset: indentationThreshold,
	}
}

// String returns pretty printed value for OSMConfiguration
func (cfg *OSMConfiguration) String() string {
	origin := "first node"
	if cfg.Origin != nil {
		origin = fmt.Sprintf("%f %f", cfg.Origin.Lon(), cfg.Origin.Lat())
	}
	return fmt.Sprintf("entity: '%s' | tags: '%s' | lane_width: %f | fillet_radius: %f | junction_offset: %f | origin: %s", cfg.EntityName, strings.Join(cfg.Tags, ","), cfg.LaneWidth, cfg.FilletRadius, cfg.JunctionOffset, origin)
}

// CheckTag Checks if incoming tag is represented in configuration
func (cfg *OSMConfiguration) CheckTag(tag string) bool {
	for i := range cfg.Tags {
		if cfg.Tags[i] == tag {
			return true
		}
	}
	return false
}

// defaultLanes returns lanes number per direction for the tag value
func (cfg *OSMConfiguration) defaultLanes(tag string) int {
	if lanes, ok := cfg.DefaultLanes[tag]; ok && lanes > 0 {
		return lanes
	}
	if lanes, ok := defaultLanesByRoadClass[getRoadClass(tag)]; ok {
		return lanes
	}
	return 1
}
