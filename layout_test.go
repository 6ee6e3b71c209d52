package roadgen

import (
	"math"
	"strings"
	"testing"

	"github.com/cheekybits/is"
	"github.com/pkg/errors"
)

const testLayout = `
roads:
  - name: approach
    start: {x: 0, y: 0, heading: 0}
    geometry:
      - {type: line, length: 50}
    left_lanes: 1
    right_lanes: 2
    right_lane_changes:
      - {s_start: 20, s_end: 40, lanes_start: 2, lanes_end: 1, sub_lane: 2}
  - name: straight
    after: {road: approach, contact: end}
    geometry:
      - {type: line, length: 30}
      - {type: arc, length: 10, curvature: 0.01}
    left_lanes: 1
    right_lanes: 1
    lane_width: 3
    elevation:
      - {s: 0, length: 40, a: 1}
  - name: side
    start: {x: 100, y: 10, heading: 1.5707963267948966}
    geometry:
      - {type: line, length: 40}
    left_lanes: 1
    right_lanes: 1
links:
  - from: {road: approach, contact: end}
    to: {road: straight, contact: start}
junctions:
  - name: corner
    connections:
      - incoming: {road: straight}
        outgoing: {road: side, contact: start}
`

func TestLayoutBuild(t *testing.T) {
	is := is.New(t)
	layout, err := LoadLayout(strings.NewReader(testLayout))
	is.NoErr(err)
	is.Equal(len(layout.Roads), 3)

	session := NewSession()
	names, err := layout.Build(session)
	is.NoErr(err)
	is.Equal(len(names), 3)
	is.Equal(len(session.Roads()), 4)

	approach, _ := session.Road(names["approach"])
	is.Equal(approach.Name, "approach")
	is.Equal(len(approach.LaneSections()), 3)

	straight, _ := session.Road(names["straight"])
	is.True(posesClose(straight.StartPose(), Pose{X: 50, Y: 0, Heading: 0}, 1e-9))
	is.True(math.Abs(straight.Length()-40) < 1e-9)
	h, err := straight.ElevationAt(10)
	is.NoErr(err)
	is.Equal(h, 1.0)
	pred, ok := straight.Predecessor()
	is.True(ok)
	is.Equal(pred, LinkToRoad(approach.ID, CONTACT_END))
	section, _ := straight.LaneSection(0)
	lane, _ := section.Lane(-1)
	is.Equal(lane.WidthAt(0), 3.0)

	junctions := session.Junctions()
	is.Equal(len(junctions), 1)
	is.Equal(junctions[0].Name, "corner")
	conns := junctions[0].Connections()
	is.Equal(len(conns), 1)
	is.Equal(conns[0].IncomingRoad, straight.ID)
	is.Equal(conns[0].IncomingContact, CONTACT_END)

	is.NoErr(session.Finalize())
}

func TestLayoutErrors(t *testing.T) {
	cases := []struct {
		name    string
		yaml    string
		correct error
	}{
		{
			name: "unknown road",
			yaml: `
roads:
  - name: a
    after: {road: nowhere}
    geometry: [{type: line, length: 10}]
    right_lanes: 1
`,
			correct: ErrUnresolvedReference,
		},
		{
			name: "duplicated name",
			yaml: `
roads:
  - name: a
    geometry: [{type: line, length: 10}]
    right_lanes: 1
  - name: a
    geometry: [{type: line, length: 10}]
    right_lanes: 1
`,
			correct: ErrInvalidTopology,
		},
		{
			name: "unknown geometry",
			yaml: `
roads:
  - name: a
    geometry: [{type: clothoid, length: 10}]
    right_lanes: 1
`,
			correct: ErrInvalidGeometry,
		},
		{
			name: "bad contact",
			yaml: `
roads:
  - name: a
    geometry: [{type: line, length: 10}]
    right_lanes: 1
  - name: b
    start: {x: 10}
    geometry: [{type: line, length: 10}]
    right_lanes: 1
links:
  - from: {road: a, contact: middle}
    to: {road: b, contact: start}
`,
			correct: ErrInvalidTopology,
		},
	}
	for _, c := range cases {
		layout, err := LoadLayout(strings.NewReader(c.yaml))
		if err != nil {
			t.Errorf("%s: %s", c.name, err)
			continue
		}
		if _, err := layout.Build(NewSession()); !errors.Is(err, c.correct) {
			t.Errorf("%s: should give %v, but got %v", c.name, c.correct, err)
		}
	}
}

func TestLoadLayoutUnknownField(t *testing.T) {
	_, err := LoadLayout(strings.NewReader("roads:\n  - name: a\n    lanes: 3\n"))
	if err == nil {
		t.Errorf("Unknown field should be rejected")
	}
}

func TestGeometryLayoutPrimitive(t *testing.T) {
	is := is.New(t)
	primitive, err := GeometryLayout{Type: "Spiral", Length: 10, CurvatureStart: 0, CurvatureEnd: 0.1}.Primitive()
	is.NoErr(err)
	is.Equal(primitive.Kind(), GEOMETRY_SPIRAL)
	primitive, err = GeometryLayout{Type: "parampoly3", Length: 10, BU: 10, Normalized: true}.Primitive()
	is.NoErr(err)
	is.Equal(primitive.Kind(), GEOMETRY_PARAMPOLY3)
	_, err = GeometryLayout{Type: "line", Length: -1}.Primitive()
	is.True(errors.Is(err, ErrInvalidGeometry))
}
