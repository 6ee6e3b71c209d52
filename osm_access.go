package roadgen

import (
	"github.com/paulmach/osm"
)

// AccessType is the OSM key which restricts access to a way
type AccessType uint16

const (
	ACCESS_MOTOR_VEHICLE = AccessType(iota + 1)
	ACCESS_MOTORCAR
	ACCESS_OSM_ACCESS
	ACCESS_SERVICE
	ACCESS_UNDEFINED = AccessType(0)
)

func (iotaIdx AccessType) String() string {
	return [...]string{"undefined", "motor_vehicle", "motorcar", "access", "service"}[iotaIdx]
}

var (
	accessIncludeValues = map[AccessType]map[string]struct{}{
		ACCESS_MOTOR_VEHICLE: {
			"yes": struct{}{},
		},
		ACCESS_MOTORCAR: {
			"yes": struct{}{},
		},
	}

	accessExcludeValues = map[AccessType]map[string]struct{}{
		ACCESS_MOTOR_VEHICLE: {
			"no": struct{}{},
		},
		ACCESS_MOTORCAR: {
			"no": struct{}{},
		},
		ACCESS_OSM_ACCESS: {
			"no":      struct{}{},
			"private": struct{}{},
		},
		ACCESS_SERVICE: {
			"parking":          struct{}{},
			"parking_aisle":    struct{}{},
			"driveway":         struct{}{},
			"private":          struct{}{},
			"emergency_access": struct{}{},
		},
	}
)

// accessAllowed returns false for ways closed to general traffic. Explicit permission wins over restriction
func accessAllowed(tags osm.Tags) bool {
	for accessType, values := range accessIncludeValues {
		if _, ok := values[tags.Find(accessType.String())]; ok {
			return true
		}
	}
	for accessType, values := range accessExcludeValues {
		if _, ok := values[tags.Find(accessType.String())]; ok {
			return false
		}
	}
	return true
}
