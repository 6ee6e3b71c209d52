package roadgen

import (
	"math"

	"github.com/paulmach/orb"
)

const (
	earthR = 20037508.34
)

func epsg4326To3857(lon, lat float64) (float64, float64) {
	x := lon * earthR / 180
	y := math.Log(math.Tan((90+lat)*math.Pi/360)) / (math.Pi / 180)
	y = y * earthR / 180
	return x, y
}

func pointToEuclidean(pt orb.Point) orb.Point {
	euclideanX, euclideanY := epsg4326To3857(pt.Lon(), pt.Lat())
	return orb.Point{euclideanX, euclideanY}
}

// pointToLocal projects WGS84 point into Web Mercator relative to the projected origin
// and rescales by cos(origin latitude) so distances near the origin are in meters
func pointToLocal(pt orb.Point, origin orb.Point) orb.Point {
	projected := pointToEuclidean(pt)
	projectedOrigin := pointToEuclidean(origin)
	scale := math.Cos(degreesToRadians(origin.Lat()))
	return orb.Point{(projected.X() - projectedOrigin.X()) * scale, (projected.Y() - projectedOrigin.Y()) * scale}
}
