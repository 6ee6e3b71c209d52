package roadgen

import (
	"github.com/pkg/errors"
)

// AddElevation appends elevation record. sOffset is relative to the road start and
// must equal the end of the previous record
func (road *Road) AddElevation(sOffset, length, a, b, c, d float64) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't add elevation", road.ID)
	}
	rec := CubicRecord{SOffset: sOffset, Length: length, A: a, B: b, C: c, D: d}
	if err := road.elevations.add(rec, road.planView.length, road.tolerance); err != nil {
		return errors.Wrapf(err, "road %d: elevation", road.ID)
	}
	return nil
}

// AddSuperelevation appends superelevation (roll angle, radians) record
func (road *Road) AddSuperelevation(sOffset, length, a, b, c, d float64) error {
	if road.finalized {
		return errors.Wrapf(ErrRoadFinalized, "road %d: can't add superelevation", road.ID)
	}
	rec := CubicRecord{SOffset: sOffset, Length: length, A: a, B: b, C: c, D: d}
	if err := road.superelevations.add(rec, road.planView.length, road.tolerance); err != nil {
		return errors.Wrapf(err, "road %d: superelevation", road.ID)
	}
	return nil
}

// Elevations returns copy of elevation records
func (road *Road) Elevations() []CubicRecord {
	return road.elevations.copyRecords()
}

// Superelevations returns copy of superelevation records
func (road *Road) Superelevations() []CubicRecord {
	return road.superelevations.copyRecords()
}

// ElevationAt returns height of reference line at s. Zero when the road has no elevation profile
func (road *Road) ElevationAt(s float64) (float64, error) {
	if !isFinite(s) || s < -road.tolerance || s > road.planView.length+road.tolerance {
		return 0, errors.Wrapf(ErrPositionOutOfRange, "road %d: s %f is not in [0; %f]", road.ID, s, road.planView.length)
	}
	return road.elevations.value(s), nil
}

// SuperelevationAt returns roll angle of road cross section at s
func (road *Road) SuperelevationAt(s float64) (float64, error) {
	if !isFinite(s) || s < -road.tolerance || s > road.planView.length+road.tolerance {
		return 0, errors.Wrapf(ErrPositionOutOfRange, "road %d: s %f is not in [0; %f]", road.ID, s, road.planView.length)
	}
	return road.superelevations.value(s), nil
}
