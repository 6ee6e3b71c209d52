package roadgen

import (
	"math"
)

const (
	// spiralTolerance is the convergence threshold between two consecutive Simpson estimates.
	// Resulting positions are accurate well within 1e-6 of the exact clothoid.
	spiralTolerance = 1e-7
	spiralMinSteps  = 16
	spiralMaxSteps  = 1 << 16
)

// spiralLocal evaluates clothoid in its local frame. Heading is integrated analytically:
// theta(s) = k0*s + (k1-k0)/(2L) * s^2, position is the integral of (cos theta, sin theta).
func spiralLocal(curvStart, curvEnd, length, ds float64) Pose {
	rate := (curvEnd - curvStart) / length
	heading := curvStart*ds + 0.5*rate*ds*ds
	if ds == 0 {
		return Pose{}
	}
	steps := spiralMinSteps
	x, y := spiralSimpson(curvStart, rate, ds, steps)
	for steps < spiralMaxSteps {
		steps *= 2
		nextX, nextY := spiralSimpson(curvStart, rate, ds, steps)
		converged := math.Hypot(nextX-x, nextY-y) < spiralTolerance
		x, y = nextX, nextY
		if converged {
			break
		}
	}
	return Pose{X: x, Y: y, Heading: heading}
}

func spiralSimpson(curvStart, rate, ds float64, steps int) (float64, float64) {
	h := ds / float64(steps)
	sumX, sumY := 0.0, 0.0
	for i := 0; i <= steps; i++ {
		t := float64(i) * h
		sinT, cosT := math.Sincos(curvStart*t + 0.5*rate*t*t)
		w := 2.0
		switch {
		case i == 0 || i == steps:
			w = 1.0
		case i%2 == 1:
			w = 4.0
		}
		sumX += w * cosT
		sumY += w * sinT
	}
	return sumX * h / 3, sumY * h / 3
}
