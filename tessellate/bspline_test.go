package tessellate

import (
	"testing"

	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

func TestBSplineTooFewControls(t *testing.T) {
	control := []v3.Vec{{X: 0}, {X: 1}, {X: 2}}
	out := BSpline(control, 3, 20)
	if len(out) != len(control) {
		t.Fatalf("expected unchanged controls, got %d points", len(out))
	}
	for i := range control {
		if out[i] != control[i] {
			t.Fatalf("point %d mutated: %+v != %+v", i, out[i], control[i])
		}
	}
}

func TestBSplineSampleCount(t *testing.T) {
	control := []v3.Vec{{X: 0}, {X: 1, Y: 1}, {X: 2, Y: -1}, {X: 3}, {X: 4, Y: 1}}
	out := BSpline(control, 3, 20)
	if len(out) != 20 {
		t.Fatalf("got %d samples, want 20", len(out))
	}
}

func TestBSplineQuadraticSymmetricMidpoint(t *testing.T) {
	// A degree-2, 5-control uniform B-spline has exactly one interior span
	// boundary pair flanking control[2], so its u=0.5 sample is the span
	// midpoint of that span, evaluated by the quadratic corner-cutting mask
	// (1/8, 6/8, 1/8) over (control[1], control[2], control[3]) -- two
	// rounds of the de Boor 1/4,3/4 corner cut followed by an even 1/2,1/2
	// blend, independent of how the recursion indexes its knots.
	control := []v3.Vec{{X: -2}, {X: -1}, {X: 0, Y: 2}, {X: 1}, {X: 2}}
	const k = 21 // odd, so sample index k/2 lands exactly at u=0.5
	out := BSpline(control, 2, k)

	mid := out[k/2]
	want := control[1].Scale(0.125).Add(control[2].Scale(0.75)).Add(control[3].Scale(0.125))
	if d := mid.Sub(want); d.Length() > 1e-9 {
		t.Fatalf("midpoint = %+v, want %+v", mid, want)
	}

	// The control polygon and knot vector are both symmetric about X=0, so
	// the sampled curve must be too.
	for i := 0; i <= k/2; i++ {
		a := out[i]
		b := out[k-1-i]
		if df := a.X + b.X; df > 1e-9 || df < -1e-9 {
			t.Fatalf("sample %d not mirror-symmetric with %d: X %v vs %v", i, k-1-i, a.X, b.X)
		}
		if df := a.Y - b.Y; df > 1e-9 || df < -1e-9 {
			t.Fatalf("sample %d not mirror-symmetric with %d: Y %v vs %v", i, k-1-i, a.Y, b.Y)
		}
	}
}

func TestBSplineLinearDegree1InterpolatesEndControls(t *testing.T) {
	// A degree-1 B-spline with a clamped uniform knot vector starts exactly
	// at the first control point and ends exactly at the last.
	control := []v3.Vec{{X: 0}, {X: 1}, {X: 3}, {X: 6}}
	out := BSpline(control, 1, 3*len(control))
	if out[0] != control[0] {
		t.Fatalf("start point %+v != %+v", out[0], control[0])
	}
	last := out[len(out)-1]
	if last != control[len(control)-1] {
		t.Fatalf("end point %+v != %+v", last, control[len(control)-1])
	}
}
