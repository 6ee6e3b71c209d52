package roadgen

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Layout is a declarative description of a road network. Roads are referenced by their names
type Layout struct {
	Roads     []RoadLayout     `yaml:"roads"`
	Links     []LinkLayout     `yaml:"links"`
	Junctions []JunctionLayout `yaml:"junctions"`
}

// PoseLayout is a pose with heading in radians
type PoseLayout struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

// EndLayout is a road end
type EndLayout struct {
	Road    string `yaml:"road"`
	Contact string `yaml:"contact"`
}

// GeometryLayout is a primitive; Type is one of line, arc, spiral, poly3 and parampoly3
type GeometryLayout struct {
	Type           string  `yaml:"type"`
	Length         float64 `yaml:"length"`
	Curvature      float64 `yaml:"curvature"`
	CurvatureStart float64 `yaml:"curvature_start"`
	CurvatureEnd   float64 `yaml:"curvature_end"`
	A              float64 `yaml:"a"`
	B              float64 `yaml:"b"`
	C              float64 `yaml:"c"`
	D              float64 `yaml:"d"`
	AU             float64 `yaml:"au"`
	BU             float64 `yaml:"bu"`
	CU             float64 `yaml:"cu"`
	DU             float64 `yaml:"du"`
	AV             float64 `yaml:"av"`
	BV             float64 `yaml:"bv"`
	CV             float64 `yaml:"cv"`
	DV             float64 `yaml:"dv"`
	Normalized     bool    `yaml:"normalized"`
}

// CubicLayout is a cubic record
type CubicLayout struct {
	S      float64 `yaml:"s"`
	Length float64 `yaml:"length"`
	A      float64 `yaml:"a"`
	B      float64 `yaml:"b"`
	C      float64 `yaml:"c"`
	D      float64 `yaml:"d"`
}

// LaneChangeLayout is a lane merge or split
type LaneChangeLayout struct {
	SStart     float64 `yaml:"s_start"`
	SEnd       float64 `yaml:"s_end"`
	LanesStart int     `yaml:"lanes_start"`
	LanesEnd   int     `yaml:"lanes_end"`
	SubLane    int     `yaml:"sub_lane"`
}

// RoadLayout describes a road. Start pose is either given explicitly or taken from
// the outward boundary pose of an already described road end (After)
type RoadLayout struct {
	Name             string             `yaml:"name"`
	Start            *PoseLayout        `yaml:"start"`
	After            *EndLayout         `yaml:"after"`
	Geometry         []GeometryLayout   `yaml:"geometry"`
	LeftLanes        int                `yaml:"left_lanes"`
	RightLanes       int                `yaml:"right_lanes"`
	LaneWidth        float64            `yaml:"lane_width"`
	LeftLaneChanges  []LaneChangeLayout `yaml:"left_lane_changes"`
	RightLaneChanges []LaneChangeLayout `yaml:"right_lane_changes"`
	Elevation        []CubicLayout      `yaml:"elevation"`
	Superelevation   []CubicLayout      `yaml:"superelevation"`
}

// LinkLayout links two road ends directly
type LinkLayout struct {
	From EndLayout `yaml:"from"`
	To   EndLayout `yaml:"to"`
}

// ConnectionLayout connects incoming road end with outgoing road end through a generated connecting road
type ConnectionLayout struct {
	Incoming EndLayout `yaml:"incoming"`
	Outgoing EndLayout `yaml:"outgoing"`
}

// JunctionLayout describes a junction
type JunctionLayout struct {
	Name        string             `yaml:"name"`
	Connections []ConnectionLayout `yaml:"connections"`
}

// LoadLayout reads layout from YAML. Unknown fields are rejected
func LoadLayout(r io.Reader) (*Layout, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var layout Layout
	if err := decoder.Decode(&layout); err != nil {
		return nil, errors.Wrap(err, "Can't parse layout YAML")
	}
	return &layout, nil
}

// LoadLayoutFile reads layout from YAML file
func LoadLayoutFile(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "File open")
	}
	defer f.Close()
	return LoadLayout(f)
}

func parseContact(contact string) (ContactPoint, error) {
	switch strings.ToLower(contact) {
	case "start":
		return CONTACT_START, nil
	case "end", "":
		return CONTACT_END, nil
	}
	return 0, errors.Wrapf(ErrInvalidTopology, "unknown contact point '%s'", contact)
}

// Primitive converts layout into validated primitive
func (g GeometryLayout) Primitive() (Primitive, error) {
	switch strings.ToLower(g.Type) {
	case "line":
		return NewLine(g.Length)
	case "arc":
		return NewArc(g.Curvature, g.Length)
	case "spiral":
		return NewSpiral(g.CurvatureStart, g.CurvatureEnd, g.Length)
	case "poly3":
		return NewPoly3(g.A, g.B, g.C, g.D, g.Length)
	case "parampoly3":
		return NewParamPoly3(ParamPoly3Coeffs{
			AU: g.AU, BU: g.BU, CU: g.CU, DU: g.DU,
			AV: g.AV, BV: g.BV, CV: g.CV, DV: g.DV,
		}, g.Normalized, g.Length)
	}
	return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "unknown geometry type '%s'", g.Type)
}

func laneChanges(changes []LaneChangeLayout) []LaneDef {
	ans := make([]LaneDef, len(changes))
	for i, change := range changes {
		ans[i] = LaneDef{
			SStart:     change.SStart,
			SEnd:       change.SEnd,
			LanesStart: change.LanesStart,
			LanesEnd:   change.LanesEnd,
			SubLane:    change.SubLane,
		}
	}
	return ans
}

// layoutBuilder keeps track of names while layout is being built
type layoutBuilder struct {
	session *Session
	roads   map[string]RoadID
}

func (builder *layoutBuilder) end(end EndLayout) (RoadID, ContactPoint, error) {
	id, ok := builder.roads[end.Road]
	if !ok {
		return 0, 0, errors.Wrapf(ErrUnresolvedReference, "road '%s' not found", end.Road)
	}
	contact, err := parseContact(end.Contact)
	if err != nil {
		return 0, 0, err
	}
	return id, contact, nil
}

// Build creates every road, link and junction of the layout in the session.
// Returned map resolves road names into identifiers
func (layout *Layout) Build(session *Session) (map[string]RoadID, error) {
	builder := &layoutBuilder{
		session: session,
		roads:   make(map[string]RoadID, len(layout.Roads)),
	}
	for i, roadLayout := range layout.Roads {
		name := roadLayout.Name
		if name == "" {
			name = fmt.Sprintf("road_%d", i)
		}
		if _, ok := builder.roads[name]; ok {
			return nil, errors.Wrapf(ErrInvalidTopology, "road name '%s' is used twice", name)
		}
		road, err := builder.buildRoad(roadLayout)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't build road '%s'", name)
		}
		road.Name = name
		builder.roads[name] = road.ID
	}
	for i, link := range layout.Links {
		from, fromContact, err := builder.end(link.From)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't build link %d", i)
		}
		to, toContact, err := builder.end(link.To)
		if err != nil {
			return nil, errors.Wrapf(err, "Can't build link %d", i)
		}
		if err := session.LinkRoads(from, fromContact, to, toContact); err != nil {
			return nil, errors.Wrapf(err, "Can't build link %d", i)
		}
	}
	for i, junctionLayout := range layout.Junctions {
		junction, err := session.NewJunction(junctionLayout.Name)
		if err != nil {
			return nil, err
		}
		for j, conn := range junctionLayout.Connections {
			in, inContact, err := builder.end(conn.Incoming)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't build connection %d of junction %d", j, i)
			}
			out, outContact, err := builder.end(conn.Outgoing)
			if err != nil {
				return nil, errors.Wrapf(err, "Can't build connection %d of junction %d", j, i)
			}
			if _, err := session.ConnectRoads(junction.ID, in, inContact, out, outContact); err != nil {
				return nil, errors.Wrapf(err, "Can't build connection %d of junction %d", j, i)
			}
		}
	}
	return builder.roads, nil
}

func (builder *layoutBuilder) buildRoad(roadLayout RoadLayout) (*Road, error) {
	var start Pose
	switch {
	case roadLayout.After != nil:
		id, contact, err := builder.end(*roadLayout.After)
		if err != nil {
			return nil, err
		}
		start, err = builder.session.BoundaryPose(id, contact)
		if err != nil {
			return nil, err
		}
	case roadLayout.Start != nil:
		start = Pose{X: roadLayout.Start.X, Y: roadLayout.Start.Y, Heading: roadLayout.Start.Heading}
	}
	road, err := builder.session.NewRoad(start)
	if err != nil {
		return nil, err
	}
	for i, geomLayout := range roadLayout.Geometry {
		primitive, err := geomLayout.Primitive()
		if err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}
		if _, err := road.AppendGeometry(primitive); err != nil {
			return nil, errors.Wrapf(err, "geometry %d", i)
		}
	}
	width := roadLayout.LaneWidth
	if width <= 0 {
		width = builder.session.defaultLaneWidth
	}
	right := LaneProfile{Lanes: roadLayout.RightLanes, Changes: laneChanges(roadLayout.RightLaneChanges)}
	left := LaneProfile{Lanes: roadLayout.LeftLanes, Changes: laneChanges(roadLayout.LeftLaneChanges)}
	if err := road.ApplyLaneDefs(right, left, width); err != nil {
		return nil, err
	}
	for _, rec := range roadLayout.Elevation {
		if err := road.AddElevation(rec.S, rec.Length, rec.A, rec.B, rec.C, rec.D); err != nil {
			return nil, err
		}
	}
	for _, rec := range roadLayout.Superelevation {
		if err := road.AddSuperelevation(rec.S, rec.Length, rec.A, rec.B, rec.C, rec.D); err != nil {
			return nil, err
		}
	}
	return road, nil
}
