package roadgen

import (
	"math"
	"testing"

	"github.com/pkg/errors"
)

func TestPlanViewContinuity(t *testing.T) {
	must := mustPrimitive(t)
	pv := NewPlanView(Pose{X: -5, Y: 3, Heading: 0.3})
	primitives := []Primitive{
		must(NewLine(10)),
		must(NewArc(0.05, 20)),
		must(NewSpiral(0.05, -0.02, 25)),
		must(NewPoly3(0, 0, 0.01, -0.0002, 12)),
		must(NewParamPoly3(ParamPoly3Coeffs{BU: 8, CU: 1, DU: -1, CV: 2, DV: -1}, true, 9)),
		must(NewPoly3(1, 0.5, 0.01, -0.0002, 12)),
		must(NewParamPoly3(ParamPoly3Coeffs{AU: 2, AV: 3, BU: 1, BV: 1, CV: 0.01}, false, 10)),
		must(NewArc(-0.1, 40)),
	}
	total := 0.0
	for _, p := range primitives {
		if _, err := pv.Append(p); err != nil {
			t.Fatal(err)
		}
		total += p.Length()
	}
	geoms := pv.Geometries()
	for i := 0; i < len(geoms)-1; i++ {
		end, err := geoms[i].Evaluate(geoms[i].Length())
		if err != nil {
			t.Error(err)
		}
		start, err := geoms[i+1].Evaluate(0)
		if err != nil {
			t.Error(err)
		}
		if !posesClose(end, start, 1e-9) {
			t.Errorf("Geometry %d should start at %v, but got %v", i+1, end, start)
		}
		if math.Abs(geoms[i+1].SOffset()-(geoms[i].SOffset()+geoms[i].Length())) > 1e-9 {
			t.Errorf("Geometry %d s-offset should be %f, but got %f", i+1, geoms[i].SOffset()+geoms[i].Length(), geoms[i+1].SOffset())
		}
	}
	endPose, length := pv.EndState()
	if math.Abs(length-total) > 1e-9 {
		t.Errorf("Length should be %f, but got %f", total, length)
	}
	lastEnd := geoms[len(geoms)-1].End()
	if !posesClose(endPose, lastEnd, 1e-9) {
		t.Errorf("End state should be %v, but got %v", lastEnd, endPose)
	}
	if endPose.Heading <= -math.Pi || endPose.Heading > math.Pi {
		t.Errorf("Heading should be normalized into (-pi; pi], but got %f", endPose.Heading)
	}
}

func TestPlanViewSingleLine(t *testing.T) {
	must := mustPrimitive(t)
	start := Pose{X: 3, Y: 4, Heading: 0.5}
	pv := NewPlanView(start)
	if _, err := pv.Append(must(NewLine(10))); err != nil {
		t.Fatal(err)
	}
	end, length := pv.EndState()
	correct := Pose{X: 3 + 10*math.Cos(0.5), Y: 4 + 10*math.Sin(0.5), Heading: 0.5}
	if !posesClose(end, correct, 1e-9) || length != 10 {
		t.Errorf("End state should be %v (10), but got %v (%f)", correct, end, length)
	}
	pose, err := pv.Evaluate(0)
	if err != nil {
		t.Error(err)
	}
	if !posesClose(pose, start, 1e-12) {
		t.Errorf("Pose at s = 0 should be %v, but got %v", start, pose)
	}
}

func TestPlanViewEvaluate(t *testing.T) {
	must := mustPrimitive(t)
	pv := NewPlanView(Pose{})
	if _, err := pv.Evaluate(0); !errors.Is(err, ErrPositionOutOfRange) {
		t.Errorf("Empty reference line should not be evaluable, but got %v", err)
	}
	if _, err := pv.Append(must(NewLine(10))); err != nil {
		t.Fatal(err)
	}
	if _, err := pv.Append(must(NewArc(0.1, math.Pi*5))); err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		s       float64
		correct Pose
	}{
		{5, Pose{X: 5}},
		{10, Pose{X: 10}},
		{10 + math.Pi*5, Pose{X: 20, Y: 10, Heading: math.Pi / 2}},
	}
	for _, c := range cases {
		pose, err := pv.Evaluate(c.s)
		if err != nil {
			t.Error(err)
			continue
		}
		if !posesClose(pose, c.correct, 1e-9) {
			t.Errorf("Pose at %f should be %v, but got %v", c.s, c.correct, pose)
		}
	}
	for _, s := range []float64{-1, 10 + math.Pi*5 + 1} {
		if _, err := pv.Evaluate(s); !errors.Is(err, ErrPositionOutOfRange) {
			t.Errorf("Pose at %f should be out of range, but got %v", s, err)
		}
	}
}

func TestPlanViewRejectsZeroPrimitive(t *testing.T) {
	pv := NewPlanView(Pose{})
	if _, err := pv.Append(Primitive{}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Zero-value primitive should be rejected, but got %v", err)
	}
	if pv.Len() != 0 {
		t.Errorf("Rejected primitive should not be appended")
	}
}

func TestPlanViewSample(t *testing.T) {
	must := mustPrimitive(t)
	pv := NewPlanView(Pose{})
	if _, err := pv.Append(must(NewLine(10))); err != nil {
		t.Fatal(err)
	}
	line := pv.Sample(1)
	if len(line) != 11 {
		t.Errorf("Samples number should be %d, but got %d", 11, len(line))
	}
	if math.Abs(line[len(line)-1].X()-10) > 1e-9 {
		t.Errorf("Last sample should be at %f, but got %f", 10.0, line[len(line)-1].X())
	}
}
