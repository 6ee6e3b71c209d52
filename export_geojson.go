package roadgen

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
)

// ExportToGeoJSON returns finalized network as a feature collection in the local metric frame:
// one feature per reference line, one per lane center line and a feature without geometry per junction
func (session *Session) ExportToGeoJSON() ([]byte, error) {
	exporter := &geojsonExporter{
		collection: geojson.NewFeatureCollection(),
	}
	if err := session.Walk(exporter); err != nil {
		return nil, errors.Wrap(err, "Can't export network")
	}
	b, err := exporter.collection.MarshalJSON()
	if err != nil {
		return nil, errors.Wrap(err, "Can't marshal feature collection")
	}
	return b, nil
}

type geojsonExporter struct {
	collection *geojson.FeatureCollection
}

func (exporter *geojsonExporter) VisitRoad(road *Road) error {
	feature := geojson.NewLineStringFeature(lineStringCoords(road.planView.Sample(exportStep)))
	feature.SetProperty("kind", "road")
	feature.SetProperty("road_id", int(road.ID))
	feature.SetProperty("name", road.Name)
	feature.SetProperty("length", road.Length())
	if id, ok := road.Junction(); ok {
		feature.SetProperty("junction_id", int(id))
	}
	exporter.collection.AddFeature(feature)
	return nil
}

func (exporter *geojsonExporter) VisitLaneSection(road *Road, idx int, section *LaneSection) error {
	for _, lane := range section.lanes() {
		line, err := road.LaneCenterLine(idx, lane.ID, exportStep)
		if err != nil {
			return err
		}
		feature := geojson.NewLineStringFeature(lineStringCoords(line))
		feature.SetProperty("kind", "lane")
		feature.SetProperty("road_id", int(road.ID))
		feature.SetProperty("lane_section_id", section.ID)
		feature.SetProperty("lane_id", lane.ID)
		feature.SetProperty("type", lane.Type.String())
		exporter.collection.AddFeature(feature)
	}
	return nil
}

func (exporter *geojsonExporter) VisitJunction(junction *Junction) error {
	feature := geojson.NewFeature(nil)
	feature.SetProperty("kind", "junction")
	feature.SetProperty("junction_id", int(junction.ID))
	feature.SetProperty("name", junction.Name)
	feature.SetProperty("connections", len(junction.connections))
	exporter.collection.AddFeature(feature)
	return nil
}
