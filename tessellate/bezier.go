package tessellate

import (
	"math"

	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

// CubicBezier adaptively samples a cubic Bézier curve (p0, p1, p2, p3) using
// de Casteljau subdivision, stopping a branch once both interior control
// points are within tol of the chord p0-p3 (the "flatness" predicate).
// Output order is p0, recurse(left), midpoint, recurse(right), p3 — so the
// result is always non-empty and starts/ends at the curve's endpoints.
func CubicBezier(p0, p1, p2, p3 v3.Vec, tol float64) []v3.Vec {
	pts := []v3.Vec{p0}
	pts = subdivideCubic(pts, p0, p1, p2, p3, tol, 0)
	return append(pts, p3)
}

// maxBezierDepth bounds recursion depth so a pathological (e.g. looping)
// input curve cannot recurse forever.
const maxBezierDepth = 24

func subdivideCubic(dst []v3.Vec, p0, p1, p2, p3 v3.Vec, tol float64, depth int) []v3.Vec {
	if depth >= maxBezierDepth || isFlat(p0, p1, p2, p3, tol) {
		return dst
	}

	// de Casteljau subdivision at t=0.5.
	p01 := mid(p0, p1)
	p12 := mid(p1, p2)
	p23 := mid(p2, p3)
	p012 := mid(p01, p12)
	p123 := mid(p12, p23)
	p0123 := mid(p012, p123)

	dst = subdivideCubic(dst, p0, p01, p012, p0123, tol, depth+1)
	dst = append(dst, p0123)
	dst = subdivideCubic(dst, p0123, p123, p23, p3, tol, depth+1)
	return dst
}

func mid(a, b v3.Vec) v3.Vec {
	return a.Add(b).Scale(0.5)
}

// isFlat reports whether both interior control points of a cubic segment
// lie within tol of the chord p0-p3.
func isFlat(p0, p1, p2, p3 v3.Vec, tol float64) bool {
	return perpendicularDistance(p1, p0, p3) <= tol && perpendicularDistance(p2, p0, p3) <= tol
}

func perpendicularDistance(p, a, b v3.Vec) float64 {
	return v3.PerpendicularDistance(p, a, b)
}

//-----------------------------------------------------------------------------

// QuadraticBezier samples a quadratic Bézier curve (p0, p1, p2) by
// promoting it to an equivalent cubic and delegating to CubicBezier.
func QuadraticBezier(p0, p1, p2 v3.Vec, tol float64) []v3.Vec {
	cp1 := p0.Add(p1.Sub(p0).Scale(2.0 / 3.0))
	cp2 := p2.Add(p1.Sub(p2).Scale(2.0 / 3.0))
	return CubicBezier(p0, cp1, cp2, p2, tol)
}

//-----------------------------------------------------------------------------

// flatness returns the maximum perpendicular distance from p1 and p2 to the
// chord p0-p3, matching the glossary definition. It is exposed for tests
// and diagnostics; the sampler itself inlines the same check via isFlat.
func flatness(p0, p1, p2, p3 v3.Vec) float64 {
	return math.Max(perpendicularDistance(p1, p0, p3), perpendicularDistance(p2, p0, p3))
}
