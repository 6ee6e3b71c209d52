package roadgen

import (
	"fmt"
	"math"

	"github.com/golang/geo/s1"
	"github.com/paulmach/orb"
)

// Pose is a position on the plane together with a heading (radians, counter-clockwise from X axis)
type Pose struct {
	X       float64
	Y       float64
	Heading float64
}

// String returns pretty printed value for Pose
func (p Pose) String() string {
	return fmt.Sprintf("X: %f | Y: %f | Heading: %f", p.X, p.Y, p.Heading)
}

// Point returns position part of the pose
func (p Pose) Point() orb.Point {
	return orb.Point{p.X, p.Y}
}

// Reversed returns the same position looking the opposite way
func (p Pose) Reversed() Pose {
	return Pose{X: p.X, Y: p.Y, Heading: normalizeHeading(p.Heading + math.Pi)}
}

// transform places pose given in the local frame of p into the global frame
func (p Pose) transform(local Pose) Pose {
	sinH, cosH := math.Sincos(p.Heading)
	return Pose{
		X:       p.X + local.X*cosH - local.Y*sinH,
		Y:       p.Y + local.X*sinH + local.Y*cosH,
		Heading: normalizeHeading(p.Heading + local.Heading),
	}
}

// relative expresses global pose in the local frame of p (inverse of transform)
func (p Pose) relative(global Pose) Pose {
	sinH, cosH := math.Sincos(p.Heading)
	dx, dy := global.X-p.X, global.Y-p.Y
	return Pose{
		X:       dx*cosH + dy*sinH,
		Y:       -dx*sinH + dy*cosH,
		Heading: normalizeHeading(global.Heading - p.Heading),
	}
}

// lateral returns pose shifted by t to the left of the heading direction
func (p Pose) lateral(t float64) Pose {
	sinH, cosH := math.Sincos(p.Heading)
	return Pose{X: p.X - t*sinH, Y: p.Y + t*cosH, Heading: p.Heading}
}

// normalizeHeading maps heading into (-pi, pi]
func normalizeHeading(heading float64) float64 {
	return float64(s1.Angle(heading).Normalized())
}

// headingDiff returns signed difference (to - from) mapped into (-pi, pi]
func headingDiff(from, to float64) float64 {
	return normalizeHeading(to - from)
}
