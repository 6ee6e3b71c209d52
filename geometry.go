package roadgen

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// GeometryKind is the shape family of a reference line primitive
type GeometryKind uint16

const (
	GEOMETRY_LINE = GeometryKind(iota + 1)
	GEOMETRY_ARC
	GEOMETRY_SPIRAL
	GEOMETRY_POLY3
	GEOMETRY_PARAMPOLY3
)

func (iotaIdx GeometryKind) String() string {
	return [...]string{"undefined", "line", "arc", "spiral", "poly3", "paramPoly3"}[iotaIdx]
}

const (
	// straightCurvature is the curvature below which an arc is evaluated as a line
	straightCurvature = 1e-12
	// poly3Steps is the number of Simpson intervals for poly3 arc length
	poly3Steps = 64
)

// ParamPoly3Coeffs are the coefficients of u(p) = AU + BU*p + CU*p^2 + DU*p^3 and v(p) likewise
type ParamPoly3Coeffs struct {
	AU, BU, CU, DU float64
	AV, BV, CV, DV float64
}

// Primitive is an immutable, validated curve segment described in its own local frame:
// it starts at origin looking along X axis. Use New* constructors to obtain one.
type Primitive struct {
	kind   GeometryKind
	length float64

	// arc
	curvature float64
	// spiral
	curvStart float64
	curvEnd   float64
	// poly3
	a, b, c, d float64
	// paramPoly3
	pp         ParamPoly3Coeffs
	normalized bool
}

func isFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func validateLength(kind GeometryKind, length float64) error {
	if !isFinite(length) || length <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "%s: length must be finite and positive, got %f", kind, length)
	}
	return nil
}

// NewLine creates straight segment
func NewLine(length float64) (Primitive, error) {
	if err := validateLength(GEOMETRY_LINE, length); err != nil {
		return Primitive{}, err
	}
	return Primitive{kind: GEOMETRY_LINE, length: length}, nil
}

// NewArc creates constant curvature segment. Positive curvature turns left
func NewArc(curvature, length float64) (Primitive, error) {
	if err := validateLength(GEOMETRY_ARC, length); err != nil {
		return Primitive{}, err
	}
	if !isFinite(curvature) {
		return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "arc: curvature must be finite, got %f", curvature)
	}
	return Primitive{kind: GEOMETRY_ARC, length: length, curvature: curvature}, nil
}

// NewSpiral creates clothoid segment with curvature changing linearly from curvStart to curvEnd
func NewSpiral(curvStart, curvEnd, length float64) (Primitive, error) {
	if err := validateLength(GEOMETRY_SPIRAL, length); err != nil {
		return Primitive{}, err
	}
	if !isFinite(curvStart, curvEnd) {
		return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "spiral: curvatures must be finite, got %f and %f", curvStart, curvEnd)
	}
	return Primitive{kind: GEOMETRY_SPIRAL, length: length, curvStart: curvStart, curvEnd: curvEnd}, nil
}

// NewPoly3 creates cubic segment v(u) = a + b*u + c*u^2 + d*u^3. Length is measured along the curve.
// The segment is placed with its point u = 0 at the start pose and its tangent there along the start heading,
// so a and b shift and rotate the curve but never break continuity of a reference line.
func NewPoly3(a, b, c, d, length float64) (Primitive, error) {
	if err := validateLength(GEOMETRY_POLY3, length); err != nil {
		return Primitive{}, err
	}
	if !isFinite(a, b, c, d) {
		return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "poly3: coefficients must be finite, got [%f, %f, %f, %f]", a, b, c, d)
	}
	return Primitive{kind: GEOMETRY_POLY3, length: length, a: a, b: b, c: c, d: d}, nil
}

// NewParamPoly3 creates parametric cubic segment. When normalized is set the parameter runs over [0; 1],
// otherwise over [0; length]. As for poly3 the curve start and its start tangent are aligned with the start pose.
func NewParamPoly3(coeffs ParamPoly3Coeffs, normalized bool, length float64) (Primitive, error) {
	if err := validateLength(GEOMETRY_PARAMPOLY3, length); err != nil {
		return Primitive{}, err
	}
	if !isFinite(coeffs.AU, coeffs.BU, coeffs.CU, coeffs.DU, coeffs.AV, coeffs.BV, coeffs.CV, coeffs.DV) {
		return Primitive{}, errors.Wrapf(ErrInvalidGeometry, "paramPoly3: coefficients must be finite, got %+v", coeffs)
	}
	return Primitive{kind: GEOMETRY_PARAMPOLY3, length: length, pp: coeffs, normalized: normalized}, nil
}

// Kind returns shape family
func (p Primitive) Kind() GeometryKind {
	return p.kind
}

// Length returns arc length of the primitive
func (p Primitive) Length() float64 {
	return p.length
}

// Curvature returns arc curvature (zero for other kinds)
func (p Primitive) Curvature() float64 {
	return p.curvature
}

// SpiralCurvatures returns curvature at start and at end of a spiral
func (p Primitive) SpiralCurvatures() (float64, float64) {
	return p.curvStart, p.curvEnd
}

// Poly3Coeffs returns coefficients of cubic segment
func (p Primitive) Poly3Coeffs() (a, b, c, d float64) {
	return p.a, p.b, p.c, p.d
}

// ParamPoly3 returns coefficients of parametric cubic segment and its parameter range flag
func (p Primitive) ParamPoly3() (ParamPoly3Coeffs, bool) {
	return p.pp, p.normalized
}

// String returns pretty printed value for Primitive
func (p Primitive) String() string {
	switch p.kind {
	case GEOMETRY_ARC:
		return fmt.Sprintf("%s(length: %f, curvature: %f)", p.kind, p.length, p.curvature)
	case GEOMETRY_SPIRAL:
		return fmt.Sprintf("%s(length: %f, curvStart: %f, curvEnd: %f)", p.kind, p.length, p.curvStart, p.curvEnd)
	case GEOMETRY_POLY3:
		return fmt.Sprintf("%s(length: %f, a: %f, b: %f, c: %f, d: %f)", p.kind, p.length, p.a, p.b, p.c, p.d)
	case GEOMETRY_PARAMPOLY3:
		return fmt.Sprintf("%s(length: %f, normalized: %t, %+v)", p.kind, p.length, p.normalized, p.pp)
	default:
		return fmt.Sprintf("%s(length: %f)", p.kind, p.length)
	}
}

// local evaluates the primitive at ds in its own frame. ds is expected to be within [0; length]
func (p Primitive) local(ds float64) Pose {
	switch p.kind {
	case GEOMETRY_ARC:
		if math.Abs(p.curvature) < straightCurvature {
			return Pose{X: ds}
		}
		theta := p.curvature * ds
		return Pose{
			X:       math.Sin(theta) / p.curvature,
			Y:       (1 - math.Cos(theta)) / p.curvature,
			Heading: theta,
		}
	case GEOMETRY_SPIRAL:
		return spiralLocal(p.curvStart, p.curvEnd, p.length, ds)
	case GEOMETRY_POLY3, GEOMETRY_PARAMPOLY3:
		return p.curve(0).relative(p.curve(ds))
	default:
		return Pose{X: ds}
	}
}

// curve evaluates polynomial curve in (u, v) coordinates of its coefficients.
// The curve start generally is not at the origin of that frame
func (p Primitive) curve(ds float64) Pose {
	if p.kind == GEOMETRY_POLY3 {
		u := p.poly3U(ds)
		v := p.a + p.b*u + p.c*u*u + p.d*u*u*u
		return Pose{X: u, Y: v, Heading: math.Atan(p.poly3Slope(u))}
	}
	t := ds
	if p.normalized {
		t = ds / p.length
	}
	c := p.pp
	u := c.AU + c.BU*t + c.CU*t*t + c.DU*t*t*t
	v := c.AV + c.BV*t + c.CV*t*t + c.DV*t*t*t
	// first non-vanishing derivative gives the direction where the velocity is zero
	derivatives := [][2]float64{
		{c.BU + 2*c.CU*t + 3*c.DU*t*t, c.BV + 2*c.CV*t + 3*c.DV*t*t},
		{2*c.CU + 6*c.DU*t, 2*c.CV + 6*c.DV*t},
		{c.DU, c.DV},
	}
	heading := 0.0
	for _, d := range derivatives {
		if d[0] != 0 || d[1] != 0 {
			heading = math.Atan2(d[1], d[0])
			break
		}
	}
	return Pose{X: u, Y: v, Heading: heading}
}

func (p Primitive) poly3Slope(u float64) float64 {
	return p.b + 2*p.c*u + 3*p.d*u*u
}

// poly3ArcLength integrates sqrt(1 + v'(u)^2) over [0; u] with Simpson's rule
func (p Primitive) poly3ArcLength(u float64) float64 {
	if u == 0 {
		return 0
	}
	h := u / poly3Steps
	sum := 0.0
	for i := 0; i <= poly3Steps; i++ {
		slope := p.poly3Slope(float64(i) * h)
		f := math.Sqrt(1 + slope*slope)
		switch {
		case i == 0 || i == poly3Steps:
			sum += f
		case i%2 == 1:
			sum += 4 * f
		default:
			sum += 2 * f
		}
	}
	return sum * h / 3
}

// poly3U finds u such that arc length from 0 to u equals ds (Newton iterations)
func (p Primitive) poly3U(ds float64) float64 {
	u := ds
	for i := 0; i < 50; i++ {
		slope := p.poly3Slope(u)
		diff := p.poly3ArcLength(u) - ds
		if math.Abs(diff) < 1e-10 {
			break
		}
		u -= diff / math.Sqrt(1+slope*slope)
		if u < 0 {
			u = 0
		}
	}
	return u
}

// Geometry is a primitive placed on the plane: it knows its start pose and the s-offset
// of its start along the reference line it belongs to
type Geometry struct {
	Primitive
	start   Pose
	sOffset float64
}

// Start returns pose at the beginning of the geometry
func (g Geometry) Start() Pose {
	return g.start
}

// SOffset returns s-coordinate of geometry start along the reference line
func (g Geometry) SOffset() float64 {
	return g.sOffset
}

// End returns pose at the end of the geometry
func (g Geometry) End() Pose {
	return g.start.transform(g.local(g.length))
}

// Evaluate returns global pose at ds (relative to the geometry start)
func (g Geometry) Evaluate(ds float64) (Pose, error) {
	if !isFinite(ds) || ds < -continuityTolerance || ds > g.length+continuityTolerance {
		return Pose{}, errors.Wrapf(ErrPositionOutOfRange, "%s: ds %f is not in [0; %f]", g.kind, ds, g.length)
	}
	ds = math.Max(0, math.Min(ds, g.length))
	return g.start.transform(g.local(ds)), nil
}

// Accept dispatches the geometry to the visitor method of its kind
func (g Geometry) Accept(visitor GeometryVisitor) error {
	switch g.kind {
	case GEOMETRY_LINE:
		return visitor.VisitLine(g)
	case GEOMETRY_ARC:
		return visitor.VisitArc(g)
	case GEOMETRY_SPIRAL:
		return visitor.VisitSpiral(g)
	case GEOMETRY_POLY3:
		return visitor.VisitPoly3(g)
	case GEOMETRY_PARAMPOLY3:
		return visitor.VisitParamPoly3(g)
	default:
		return errors.Wrapf(ErrInvalidGeometry, "unknown geometry kind %d", g.kind)
	}
}
