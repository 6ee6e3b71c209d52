package roadgen

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// CubicRecord is a cubic polynomial f(ds) = A + B*ds + C*ds^2 + D*ds^3 valid over [SOffset; SOffset+Length).
// ds is measured from SOffset. Used for lane widths (SOffset relative to the lane section start)
// as well as for elevation and superelevation profiles (SOffset relative to the road start).
type CubicRecord struct {
	SOffset float64
	Length  float64
	A       float64
	B       float64
	C       float64
	D       float64
}

// End returns offset where record stops being valid
func (rec CubicRecord) End() float64 {
	return rec.SOffset + rec.Length
}

// Evaluate returns polynomial value at ds (relative to SOffset)
func (rec CubicRecord) Evaluate(ds float64) float64 {
	return rec.A + rec.B*ds + rec.C*ds*ds + rec.D*ds*ds*ds
}

// String returns pretty printed value for CubicRecord
func (rec CubicRecord) String() string {
	return fmt.Sprintf("sOffset: %f | length: %f | a: %f | b: %f | c: %f | d: %f", rec.SOffset, rec.Length, rec.A, rec.B, rec.C, rec.D)
}

// Poly3Coeffs returns coefficients of a cubic changing from startValue to endValue over length
// with zero slope at both ends. Used for lane tapers on merges and splits.
func Poly3Coeffs(length, startValue, endValue float64) (a, b, c, d float64) {
	diff := endValue - startValue
	return startValue, 0, 3 * diff / (length * length), -2 * diff / (length * length * length)
}

// cubicProfile is an ordered gapless sequence of cubic records
type cubicProfile struct {
	records []CubicRecord
	covered float64
}

// add appends record keeping the profile contiguous. Negative limit means no upper bound
func (profile *cubicProfile) add(rec CubicRecord, limit, tolerance float64) error {
	if !isFinite(rec.SOffset, rec.Length, rec.A, rec.B, rec.C, rec.D) {
		return errors.Wrapf(ErrInvalidGeometry, "record (%s) has non-finite values", rec)
	}
	if rec.Length <= 0 {
		return errors.Wrapf(ErrInvalidGeometry, "record (%s) has non-positive length", rec)
	}
	if rec.SOffset < profile.covered-tolerance {
		return errors.Wrapf(ErrOverlappingWidthRange, "record starts at %f but range is already covered up to %f", rec.SOffset, profile.covered)
	}
	if rec.SOffset > profile.covered+tolerance {
		return errors.Wrapf(ErrGapInWidthRange, "record starts at %f but range is covered only up to %f", rec.SOffset, profile.covered)
	}
	if limit >= 0 && rec.End() > limit+tolerance {
		return errors.Wrapf(ErrOverlappingWidthRange, "record ends at %f beyond range end %f", rec.End(), limit)
	}
	profile.records = append(profile.records, rec)
	profile.covered = rec.End()
	return nil
}

// value evaluates the record containing offset. Offsets past coverage extrapolate the last record
func (profile *cubicProfile) value(offset float64) float64 {
	if len(profile.records) == 0 {
		return 0
	}
	rec := profile.records[0]
	for _, candidate := range profile.records[1:] {
		if candidate.SOffset > offset {
			break
		}
		rec = candidate
	}
	return rec.Evaluate(offset - rec.SOffset)
}

// complete checks that profile covers [0; extent] without gaps
func (profile *cubicProfile) complete(extent, tolerance float64) error {
	if math.Abs(profile.covered-extent) > tolerance {
		return errors.Wrapf(ErrGapInWidthRange, "records cover [0; %f] but range is [0; %f]", profile.covered, extent)
	}
	return nil
}

func (profile *cubicProfile) copyRecords() []CubicRecord {
	ans := make([]CubicRecord, len(profile.records))
	copy(ans, profile.records)
	return ans
}
