package tessellate

import (
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

// zeroDivisionEpsilon guards the Cox-de Boor recursion's basis-function
// denominators. When a denominator is within this distance of zero, the
// corresponding term is skipped (contributes 0) rather than divided: this
// is the "skip-term" policy for the open question in the distilled spec's
// §9 ("B-spline division can be zero at multiple interior knots") — it is
// numerically equivalent to the conventional 0/0 := 0 convention in the
// Cox-de Boor recursion, and does not perturb well-conditioned knots.
const zeroDivisionEpsilon = 1e-12

// BSpline samples a uniform B-spline of the given degree at k uniformly
// spaced parameter values, using the standard Cox-de Boor recursion. If
// there are fewer than degree+1 control points, the control points are
// returned unchanged (the curve is underdetermined).
func BSpline(control []v3.Vec, degree, k int) []v3.Vec {
	n := len(control) - 1
	if n < degree {
		out := make([]v3.Vec, len(control))
		copy(out, control)
		return out
	}
	if k < 2 {
		k = 2
	}

	knots := uniformKnots(n, degree)

	out := make([]v3.Vec, k)
	uStart := knots[degree]
	uEnd := knots[n+1]
	for i := 0; i < k; i++ {
		t := float64(i) / float64(k-1)
		u := uStart + t*(uEnd-uStart)
		out[i] = evalBSpline(control, knots, degree, n, u)
	}
	return out
}

// uniformKnots builds the clamped uniform knot vector of n+degree+2
// entries described in the distilled spec: degree+1 zeros, interior knots
// spaced uniformly, then degree+1 ones.
func uniformKnots(n, degree int) []float64 {
	m := n + degree + 2
	knots := make([]float64, m)
	for i := 0; i <= degree; i++ {
		knots[i] = 0
	}
	for i := degree + 1; i <= n; i++ {
		knots[i] = float64(i-degree) / float64(n-degree+1)
	}
	for i := n + 1; i < m; i++ {
		knots[i] = 1
	}
	return knots
}

// findSpan returns the smallest i >= degree such that u < knots[i+1], or n
// if no such index exists (u at or beyond the curve's end).
func findSpan(knots []float64, degree, n int, u float64) int {
	for i := degree; i <= n; i++ {
		if u < knots[i+1] {
			return i
		}
	}
	return n
}

// evalBSpline blends the degree+1 controls around the knot span containing
// u using the Cox-de Boor recursion (de Boor's algorithm, triangular form).
func evalBSpline(control []v3.Vec, knots []float64, degree, n int, u float64) v3.Vec {
	span := findSpan(knots, degree, n, u)
	return deBoor(control, knots, degree, span, u)
}

// deBoor evaluates the de Boor-Cox basis blend of control points
// [span-degree .. span] at parameter u.
func deBoor(control []v3.Vec, knots []float64, degree, span int, u float64) v3.Vec {
	d := make([]v3.Vec, degree+1)
	for j := 0; j <= degree; j++ {
		d[j] = control[span-degree+j]
	}

	for r := 1; r <= degree; r++ {
		for j := degree; j >= r; j-- {
			left := knots[span+j-degree]
			right := knots[span+1+j-r]
			denom := right - left
			if denom < zeroDivisionEpsilon && denom > -zeroDivisionEpsilon {
				// Skip-term policy: contribute 0, leave d[j] unblended at
				// this step's left operand, i.e. no movement toward d[j-1].
				continue
			}
			alpha := (u - left) / denom
			d[j] = d[j-1].Scale(1 - alpha).Add(d[j].Scale(alpha))
		}
	}
	return d[degree]
}
