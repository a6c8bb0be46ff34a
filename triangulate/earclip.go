package triangulate

import v3 "github.com/deadsy/dxf2gltf/vec/v3"

// Triangulate triangulates a simple (non-self-intersecting) closed polygon
// given as 3D points (no repeated closing vertex), returning a flat
// sequence of indices into pts, 3 per triangle.
//
// For fewer than 3 points the result is empty; for exactly 3 points the
// result is [0,1,2]. The polygon is projected to 2D via Newell's method
// plus a planar basis (see project.go) so the ear test can be a simple 2D
// convexity + containment check.
func Triangulate(pts []v3.Vec) []int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return []int{0, 1, 2}
	}

	proj, _, _, _ := project3To2(pts)

	// Ensure counter-clockwise winding in the projection plane; ear
	// clipping's convexity test assumes CCW order.
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if signedArea2(proj) < 0 {
		reverse(order)
	}

	var tris []int
	// Safety cap matches the distilled spec: at most n^2 iterations of the
	// outer scan, after which we stop rather than loop forever on
	// pathological (self-intersecting, or floating-point-degenerate)
	// input.
	maxIterations := n * n
	iterations := 0
	remaining := order

	for len(remaining) > 3 && iterations < maxIterations {
		iterations++
		earFound := false
		m := len(remaining)
		for i := 0; i < m; i++ {
			ai := remaining[(i-1+m)%m]
			bi := remaining[i]
			ci := remaining[(i+1)%m]
			if !isEar(proj, remaining, ai, bi, ci) {
				continue
			}
			tris = append(tris, ai, bi, ci)
			remaining = append(append([]int{}, remaining[:i]...), remaining[i+1:]...)
			earFound = true
			break
		}
		if !earFound {
			break
		}
	}

	if len(remaining) == 3 {
		tris = append(tris, remaining[0], remaining[1], remaining[2])
	} else if len(remaining) > 3 {
		// No ear found in a full pass (degenerate/self-intersecting
		// input): best-effort emit one triangle from the first 3
		// remaining vertices, leaving the rest untriangulated rather than
		// looping forever.
		tris = append(tris, remaining[0], remaining[1], remaining[2])
	}

	return tris
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// isEar reports whether vertex b (with polygon neighbors a, c) is an ear:
// convex, and containing no other polygon vertex inside triangle (a,b,c).
func isEar(proj []point2, ring []int, ai, bi, ci int) bool {
	a, b, c := proj[ai], proj[bi], proj[ci]
	if cross2(sub2(b, a), sub2(c, a)) <= 0 {
		return false
	}
	for _, vi := range ring {
		if vi == ai || vi == bi || vi == ci {
			continue
		}
		if pointInTriangle(proj[vi], a, b, c) {
			return false
		}
	}
	return true
}

func sub2(a, b point2) point2 { return point2{a.X - b.X, a.Y - b.Y} }

func cross2(a, b point2) float64 { return a.X*b.Y - a.Y*b.X }

// pointInTriangle uses same-sign edge-function tests (barycentric sign
// test), treating points exactly on an edge as outside so a shared vertex
// of the polygon lying on an edge doesn't block a valid ear.
func pointInTriangle(p, a, b, c point2) bool {
	d1 := edgeSign(p, a, b)
	d2 := edgeSign(p, b, c)
	d3 := edgeSign(p, c, a)

	allNeg := d1 < 0 && d2 < 0 && d3 < 0
	allPos := d1 > 0 && d2 > 0 && d3 > 0
	return allNeg || allPos
}

func edgeSign(p, a, b point2) float64 {
	return (p.X-b.X)*(a.Y-b.Y) - (a.X-b.X)*(p.Y-b.Y)
}
