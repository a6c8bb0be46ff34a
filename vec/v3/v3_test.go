package v3

import "testing"

func TestNormalizeZeroBelowEpsilon(t *testing.T) {
	got := Vec{1e-13, 0, 0}.Normalize()
	if got != (Vec{}) {
		t.Fatalf("expected zero vector, got %+v", got)
	}
}

func TestNormalizeUnit(t *testing.T) {
	got := Vec{3, 4, 0}.Normalize()
	want := Vec{0.6, 0.8, 0}
	if abs(got.X-want.X) > 1e-9 || abs(got.Y-want.Y) > 1e-9 || abs(got.Z-want.Z) > 1e-9 {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestCrossDot(t *testing.T) {
	x := Vec{1, 0, 0}
	y := Vec{0, 1, 0}
	z := x.Cross(y)
	if z != (Vec{0, 0, 1}) {
		t.Fatalf("cross(x,y) = %+v, want (0,0,1)", z)
	}
	if x.Dot(y) != 0 {
		t.Fatalf("dot(x,y) = %v, want 0", x.Dot(y))
	}
}

func TestDistance(t *testing.T) {
	a := Vec{0, 0, 0}
	b := Vec{3, 4, 0}
	if a.Distance(b) != 5 {
		t.Fatalf("distance = %v, want 5", a.Distance(b))
	}
}

func TestBoundingBox(t *testing.T) {
	pts := []Vec{{1, -1, 0}, {-2, 3, 5}, {0, 0, -4}}
	bb := BoundingBox(pts)
	if bb.Min != (Vec{-2, -1, -4}) || bb.Max != (Vec{1, 3, 5}) {
		t.Fatalf("got min=%+v max=%+v", bb.Min, bb.Max)
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
