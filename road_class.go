package roadgen

// RoadClass is the functional class of an imported road
type RoadClass uint16

const (
	ROAD_CLASS_MOTORWAY = RoadClass(iota + 1)
	ROAD_CLASS_TRUNK
	ROAD_CLASS_PRIMARY
	ROAD_CLASS_SECONDARY
	ROAD_CLASS_TERTIARY
	ROAD_CLASS_RESIDENTIAL
	ROAD_CLASS_LIVING_STREET
	ROAD_CLASS_SERVICE
	ROAD_CLASS_CYCLEWAY
	ROAD_CLASS_FOOTWAY
	ROAD_CLASS_TRACK
	ROAD_CLASS_UNCLASSIFIED
)

func (iotaIdx RoadClass) String() string {
	return [...]string{"undefined", "motorway", "trunk", "primary", "secondary", "tertiary", "residential", "living_street", "service", "cycleway", "footway", "track", "unclassified"}[iotaIdx]
}

var (
	roadClassByHighway = map[string]RoadClass{
		"motorway":         ROAD_CLASS_MOTORWAY,
		"motorway_link":    ROAD_CLASS_MOTORWAY,
		"trunk":            ROAD_CLASS_TRUNK,
		"trunk_link":       ROAD_CLASS_TRUNK,
		"primary":          ROAD_CLASS_PRIMARY,
		"primary_link":     ROAD_CLASS_PRIMARY,
		"secondary":        ROAD_CLASS_SECONDARY,
		"secondary_link":   ROAD_CLASS_SECONDARY,
		"tertiary":         ROAD_CLASS_TERTIARY,
		"tertiary_link":    ROAD_CLASS_TERTIARY,
		"residential":      ROAD_CLASS_RESIDENTIAL,
		"residential_link": ROAD_CLASS_RESIDENTIAL,
		"living_street":    ROAD_CLASS_LIVING_STREET,
		"service":          ROAD_CLASS_SERVICE,
		"services":         ROAD_CLASS_SERVICE,
		"cycleway":         ROAD_CLASS_CYCLEWAY,
		"footway":          ROAD_CLASS_FOOTWAY,
		"pedestrian":       ROAD_CLASS_FOOTWAY,
		"steps":            ROAD_CLASS_FOOTWAY,
		"track":            ROAD_CLASS_TRACK,
		"unclassified":     ROAD_CLASS_UNCLASSIFIED,
	}
	onewayDefaultByRoadClass = map[RoadClass]bool{
		ROAD_CLASS_MOTORWAY:      false,
		ROAD_CLASS_TRUNK:         false,
		ROAD_CLASS_PRIMARY:       false,
		ROAD_CLASS_SECONDARY:     false,
		ROAD_CLASS_TERTIARY:      false,
		ROAD_CLASS_RESIDENTIAL:   false,
		ROAD_CLASS_LIVING_STREET: false,
		ROAD_CLASS_SERVICE:       false,
		ROAD_CLASS_CYCLEWAY:      true,
		ROAD_CLASS_FOOTWAY:       true,
		ROAD_CLASS_TRACK:         true,
		ROAD_CLASS_UNCLASSIFIED:  false,
	}
	defaultLanesByRoadClass = map[RoadClass]int{
		ROAD_CLASS_MOTORWAY:      4,
		ROAD_CLASS_TRUNK:         3,
		ROAD_CLASS_PRIMARY:       3,
		ROAD_CLASS_SECONDARY:     2,
		ROAD_CLASS_TERTIARY:      2,
		ROAD_CLASS_RESIDENTIAL:   1,
		ROAD_CLASS_LIVING_STREET: 1,
		ROAD_CLASS_SERVICE:       1,
		ROAD_CLASS_CYCLEWAY:      1,
		ROAD_CLASS_FOOTWAY:       1,
		ROAD_CLASS_TRACK:         1,
		ROAD_CLASS_UNCLASSIFIED:  1,
	}
	laneTypeByRoadClass = map[RoadClass]LaneType{
		ROAD_CLASS_CYCLEWAY: LANE_BIKING,
		ROAD_CLASS_FOOTWAY:  LANE_SIDEWALK,
	}
)

func getRoadClass(highway string) RoadClass {
	if found, ok := roadClassByHighway[highway]; ok {
		return found
	}
	return 0
}

// laneType returns type of lanes for roads of the class
func (iotaIdx RoadClass) laneType() LaneType {
	if laneType, ok := laneTypeByRoadClass[iotaIdx]; ok {
		return laneType
	}
	return LANE_DRIVING
}
