package roadgen

import (
	"fmt"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/go.geojson"
)

func lineStringCoords(line orb.LineString) [][]float64 {
	pts2d := make([][]float64, len(line))
	for i := range line {
		pts2d[i] = []float64{line[i].X(), line[i].Y()}
	}
	return pts2d
}

// PrepareGeoJSONLinestring returns GeoJSON representation of LineString
func PrepareGeoJSONLinestring(line orb.LineString) string {
	b, err := geojson.NewLineStringGeometry(lineStringCoords(line)).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}

// PrepareGeoJSONPoint returns GeoJSON representation of pose position
func PrepareGeoJSONPoint(pose Pose) string {
	b, err := geojson.NewPointGeometry([]float64{pose.X, pose.Y}).MarshalJSON()
	if err != nil {
		fmt.Printf("Warning. Can not convert geometry to geojson format: %s", err.Error())
		return ""
	}
	return string(b)
}
