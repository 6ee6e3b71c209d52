package roadgen

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// exportStep is the sampling step (meters) of exported polylines
	exportStep = 1.0
)

// ExportToCSV writes finalized network into four ';'-separated files next to fname:
// *_roads.csv, *_geometries.csv, *_lanes.csv and *_connections.csv
func (session *Session) ExportToCSV(fname string) error {
	fnameParts := strings.Split(fname, ".csv")
	exporter := &csvExporter{}
	defer exporter.close()
	for _, part := range []struct {
		suffix string
		writer **csv.Writer
		header []string
	}{
		{"_roads.csv", &exporter.roads, []string{"id", "name", "junction_id", "predecessor", "successor", "length", "lane_sections", "elevation", "geom"}},
		{"_geometries.csv", &exporter.geometries, []string{"road_id", "s", "x", "y", "hdg", "length", "type", "params", "geom"}},
		{"_lanes.csv", &exporter.lanes, []string{"road_id", "lane_section_id", "s", "lane_id", "type", "predecessor", "successor", "widths", "road_marks", "geom"}},
		{"_connections.csv", &exporter.connections, []string{"junction_id", "junction_name", "connection_id", "incoming_road", "incoming_contact", "connecting_road", "connecting_contact", "lane_links", "movement", "movement_composite_type"}},
	} {
		file, err := os.Create(fnameParts[0] + part.suffix)
		if err != nil {
			return errors.Wrap(err, "Can't create file")
		}
		exporter.files = append(exporter.files, file)
		writer := csv.NewWriter(file)
		writer.Comma = ';'
		*part.writer = writer
		err = writer.Write(part.header)
		if err != nil {
			return errors.Wrap(err, "Can't write header")
		}
	}
	if err := session.Walk(exporter); err != nil {
		return errors.Wrap(err, "Can't export network")
	}
	return exporter.flush()
}

type csvExporter struct {
	files       []*os.File
	roads       *csv.Writer
	geometries  *csv.Writer
	lanes       *csv.Writer
	connections *csv.Writer
	currentRoad RoadID
}

func (exporter *csvExporter) flush() error {
	for _, writer := range []*csv.Writer{exporter.roads, exporter.geometries, exporter.lanes, exporter.connections} {
		writer.Flush()
		if err := writer.Error(); err != nil {
			return errors.Wrap(err, "Can't flush file")
		}
	}
	return nil
}

func (exporter *csvExporter) close() {
	for _, file := range exporter.files {
		file.Close()
	}
}

func linkString(link RoadLink, ok bool) string {
	if !ok {
		return ""
	}
	return link.String()
}

func (exporter *csvExporter) VisitRoad(road *Road) error {
	exporter.currentRoad = road.ID
	junction := ""
	if id, ok := road.Junction(); ok {
		junction = fmt.Sprintf("%d", id)
	}
	elevation := make([]string, 0, len(road.elevations.records))
	for _, rec := range road.elevations.records {
		elevation = append(elevation, fmt.Sprintf("%f:%f,%f,%f,%f", rec.SOffset, rec.A, rec.B, rec.C, rec.D))
	}
	err := exporter.roads.Write([]string{
		fmt.Sprintf("%d", road.ID),
		road.Name,
		junction,
		linkString(road.Predecessor()),
		linkString(road.Successor()),
		fmt.Sprintf("%f", road.Length()),
		fmt.Sprintf("%d", len(road.laneSections)),
		strings.Join(elevation, "|"),
		PrepareWKTLinestring(road.planView.Sample(exportStep)),
	})
	if err != nil {
		return errors.Wrap(err, "Can't write road")
	}
	return nil
}

func (exporter *csvExporter) writeGeometry(geom Geometry, params string) error {
	err := exporter.geometries.Write([]string{
		fmt.Sprintf("%d", exporter.currentRoad),
		fmt.Sprintf("%f", geom.sOffset),
		fmt.Sprintf("%f", geom.start.X),
		fmt.Sprintf("%f", geom.start.Y),
		fmt.Sprintf("%f", geom.start.Heading),
		fmt.Sprintf("%f", geom.length),
		geom.kind.String(),
		params,
		PrepareWKTPoint(geom.start),
	})
	if err != nil {
		return errors.Wrap(err, "Can't write geometry")
	}
	return nil
}

func (exporter *csvExporter) VisitLine(geom Geometry) error {
	return exporter.writeGeometry(geom, "")
}

func (exporter *csvExporter) VisitArc(geom Geometry) error {
	return exporter.writeGeometry(geom, fmt.Sprintf("curvature=%f", geom.curvature))
}

func (exporter *csvExporter) VisitSpiral(geom Geometry) error {
	return exporter.writeGeometry(geom, fmt.Sprintf("curvStart=%f,curvEnd=%f", geom.curvStart, geom.curvEnd))
}

func (exporter *csvExporter) VisitPoly3(geom Geometry) error {
	return exporter.writeGeometry(geom, fmt.Sprintf("a=%f,b=%f,c=%f,d=%f", geom.a, geom.b, geom.c, geom.d))
}

func (exporter *csvExporter) VisitParamPoly3(geom Geometry) error {
	c := geom.pp
	pRange := "arcLength"
	if geom.normalized {
		pRange = "normalized"
	}
	return exporter.writeGeometry(geom, fmt.Sprintf("aU=%f,bU=%f,cU=%f,dU=%f,aV=%f,bV=%f,cV=%f,dV=%f,pRange=%s", c.AU, c.BU, c.CU, c.DU, c.AV, c.BV, c.CV, c.DV, pRange))
}

func (exporter *csvExporter) VisitLaneSection(road *Road, idx int, section *LaneSection) error {
	for _, lane := range section.lanes() {
		widths := make([]string, 0, len(lane.widths.records))
		for _, rec := range lane.widths.records {
			widths = append(widths, fmt.Sprintf("%f:%f,%f,%f,%f", rec.SOffset, rec.A, rec.B, rec.C, rec.D))
		}
		marks := make([]string, 0, len(lane.roadMarks))
		for _, mark := range lane.roadMarks {
			marks = append(marks, mark.Type.String())
		}
		pred, succ := "", ""
		if id, ok := lane.Predecessor(); ok {
			pred = fmt.Sprintf("%d", id)
		}
		if id, ok := lane.Successor(); ok {
			succ = fmt.Sprintf("%d", id)
		}
		line, err := road.LaneCenterLine(idx, lane.ID, exportStep)
		if err != nil {
			return err
		}
		err = exporter.lanes.Write([]string{
			fmt.Sprintf("%d", road.ID),
			fmt.Sprintf("%d", section.ID),
			fmt.Sprintf("%f", section.SOffset),
			fmt.Sprintf("%d", lane.ID),
			lane.Type.String(),
			pred,
			succ,
			strings.Join(widths, "|"),
			strings.Join(marks, ","),
			PrepareWKTLinestring(line),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write lane")
		}
	}
	return nil
}

func (exporter *csvExporter) VisitJunction(junction *Junction) error {
	for _, conn := range junction.connections {
		links := make([]string, 0, len(conn.LaneLinks))
		for _, link := range conn.LaneLinks {
			links = append(links, link.String())
		}
		err := exporter.connections.Write([]string{
			fmt.Sprintf("%d", junction.ID),
			junction.Name,
			fmt.Sprintf("%d", conn.ID),
			fmt.Sprintf("%d", conn.IncomingRoad),
			conn.IncomingContact.String(),
			fmt.Sprintf("%d", conn.ConnectingRoad),
			conn.ConnectingContact.String(),
			strings.Join(links, ","),
			conn.MovementType.String(),
			conn.MovementCompositeType.String(),
		})
		if err != nil {
			return errors.Wrap(err, "Can't write connection")
		}
	}
	return nil
}
