package roadgen

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/pkg/errors"
)

const (
	earthRadius = 6370.986884258304
	pi180       = math.Pi / 180.0
	// reversalThreshold is the turn angle above which polyline vertex is treated as going back
	reversalThreshold = math.Pi - 1e-6
)

// degreesToRadians deg = r * pi / 180
func degreesToRadians(d float64) float64 {
	return d * pi180
}

// greatCircleDistance returns distance between two WGS84 points (kilometers)
func greatCircleDistance(p, q orb.Point) float64 {
	lat1 := degreesToRadians(p.Lat())
	lon1 := degreesToRadians(p.Lon())
	lat2 := degreesToRadians(q.Lat())
	lon2 := degreesToRadians(q.Lon())
	diffLat := lat2 - lat1
	diffLon := lon2 - lon1
	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	ans := c * earthRadius
	return ans
}

// getSphericalLength returns length for given WGS84 line (kilometers)
func getSphericalLength(line orb.LineString) float64 {
	totalLength := 0.0
	if len(line) < 2 {
		return totalLength
	}
	for i := 1; i < len(line); i++ {
		totalLength += greatCircleDistance(line[i-1], line[i])
	}
	return totalLength
}

// headingOf returns heading of segment p -> q
func headingOf(p, q orb.Point) float64 {
	return math.Atan2(q.Y()-p.Y(), q.X()-p.X())
}

// dedupPoints drops consecutive points closer than tolerance
func dedupPoints(points []orb.Point, tolerance float64) []orb.Point {
	ans := make([]orb.Point, 0, len(points))
	for _, pt := range points {
		if len(ans) > 0 && planar.Distance(ans[len(ans)-1], pt) <= tolerance {
			continue
		}
		ans = append(ans, pt)
	}
	return ans
}

// FilletPrimitives converts polyline (metric coordinates) into lines joined by tangent arcs.
// Each corner gets an arc of the given radius; radius is shrunk when arc tangents would
// take more than half of an adjacent segment. Resulting reference line starts at the first point
// heading along the first segment and ends at the last point heading along the last segment.
func FilletPrimitives(points []orb.Point, radius float64) ([]Primitive, error) {
	if !isFinite(radius) || radius <= 0 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "fillet radius must be finite and positive, got %f", radius)
	}
	pts := dedupPoints(points, continuityTolerance)
	if len(pts) < 2 {
		return nil, errors.Wrapf(ErrInvalidGeometry, "polyline needs at least two distinct points, got %d", len(pts))
	}
	segments := len(pts) - 1
	lengths := make([]float64, segments)
	headings := make([]float64, segments)
	for i := 0; i < segments; i++ {
		lengths[i] = planar.Distance(pts[i], pts[i+1])
		headings[i] = headingOf(pts[i], pts[i+1])
	}
	// tangents[i] is tangent length at vertex i+1 (between segments i and i+1)
	tangents := make([]float64, segments)
	turns := make([]float64, segments)
	radii := make([]float64, segments)
	for i := 0; i < segments-1; i++ {
		turn := headingDiff(headings[i], headings[i+1])
		if math.Abs(turn) > reversalThreshold {
			return nil, errors.Wrapf(ErrInvalidGeometry, "polyline reverses direction at vertex %d", i+1)
		}
		if math.Abs(turn) < straightCurvature {
			continue
		}
		r := radius
		halfTan := math.Tan(math.Abs(turn) / 2)
		maxTangent := math.Min(lengths[i], lengths[i+1]) / 2
		if r*halfTan > maxTangent {
			r = maxTangent / halfTan
		}
		turns[i], radii[i], tangents[i] = turn, r, r*halfTan
	}
	primitives := make([]Primitive, 0, 2*segments)
	for i := 0; i < segments; i++ {
		lineLength := lengths[i] - tangents[i]
		if i > 0 {
			lineLength -= tangents[i-1]
		}
		if lineLength > continuityTolerance {
			line, err := NewLine(lineLength)
			if err != nil {
				return nil, err
			}
			primitives = append(primitives, line)
		}
		if i < segments-1 && turns[i] != 0 {
			curvature := 1 / radii[i]
			if turns[i] < 0 {
				curvature = -curvature
			}
			arc, err := NewArc(curvature, radii[i]*math.Abs(turns[i]))
			if err != nil {
				return nil, err
			}
			primitives = append(primitives, arc)
		}
	}
	if len(primitives) == 0 {
		return nil, errors.Wrap(ErrInvalidGeometry, "polyline collapsed to nothing")
	}
	return primitives, nil
}
