package roadgen

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
	"github.com/pkg/errors"
)

// continuityTolerance is the numeric tolerance for s-offsets and pose continuity between geometries
const continuityTolerance = 1e-6

// PlanView is an append-only sequence of geometries forming a continuous reference line.
// Every appended geometry starts exactly at the pose where the previous one ends.
type PlanView struct {
	start      Pose
	end        Pose
	length     float64
	geometries []Geometry
}

// NewPlanView creates empty reference line starting at the given pose
func NewPlanView(start Pose) *PlanView {
	start.Heading = normalizeHeading(start.Heading)
	return &PlanView{
		start: start,
		end:   start,
	}
}

// Append places primitive at the current end state and advances it
func (pv *PlanView) Append(primitive Primitive) (Geometry, error) {
	if primitive.kind == 0 {
		return Geometry{}, errors.Wrap(ErrInvalidGeometry, "Can't append zero-value primitive (use New* constructors)")
	}
	geom := Geometry{
		Primitive: primitive,
		start:     pv.end,
		sOffset:   pv.length,
	}
	pv.geometries = append(pv.geometries, geom)
	pv.end = geom.End()
	pv.length += primitive.length
	return geom, nil
}

// EndState returns pose at the end of reference line and its total length
func (pv *PlanView) EndState() (Pose, float64) {
	return pv.end, pv.length
}

// Start returns pose at s = 0
func (pv *PlanView) Start() Pose {
	return pv.start
}

// Length returns total length of reference line
func (pv *PlanView) Length() float64 {
	return pv.length
}

// Len returns number of geometries
func (pv *PlanView) Len() int {
	return len(pv.geometries)
}

// Geometries returns copy of placed geometries in order
func (pv *PlanView) Geometries() []Geometry {
	ans := make([]Geometry, len(pv.geometries))
	copy(ans, pv.geometries)
	return ans
}

// Evaluate returns global pose at s. Both ends are inclusive
func (pv *PlanView) Evaluate(s float64) (Pose, error) {
	if len(pv.geometries) == 0 {
		return Pose{}, errors.Wrapf(ErrPositionOutOfRange, "s %f: reference line has no geometries", s)
	}
	if !isFinite(s) || s < -continuityTolerance || s > pv.length+continuityTolerance {
		return Pose{}, errors.Wrapf(ErrPositionOutOfRange, "s %f is not in [0; %f]", s, pv.length)
	}
	s = math.Max(0, math.Min(s, pv.length))
	idx := sort.Search(len(pv.geometries), func(i int) bool {
		geom := pv.geometries[i]
		return geom.sOffset+geom.length >= s
	})
	if idx == len(pv.geometries) {
		idx = len(pv.geometries) - 1
	}
	geom := pv.geometries[idx]
	return geom.Evaluate(math.Min(s-geom.sOffset, geom.length))
}

// Sample returns reference line as a polyline with vertices not further than step apart along s.
// Geometry boundaries are always included.
func (pv *PlanView) Sample(step float64) orb.LineString {
	line := orb.LineString{pv.start.Point()}
	for _, geom := range pv.geometries {
		for _, ds := range sampleOffsets(geom.length, step) {
			line = append(line, geom.start.transform(geom.local(ds)).Point())
		}
	}
	return line
}

// sampleOffsets returns offsets in (0; length] not further than step apart
func sampleOffsets(length, step float64) []float64 {
	if step <= 0 {
		step = length
	}
	n := int(math.Ceil(length / step))
	if n < 1 {
		n = 1
	}
	ans := make([]float64, 0, n)
	for i := 1; i <= n; i++ {
		ans = append(ans, length*float64(i)/float64(n))
	}
	return ans
}
