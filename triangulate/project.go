// Package triangulate implements ear-clipping triangulation of simple
// polygons given as 3D points, including Newell's method for estimating a
// best-fit plane normal and a robust 3D-to-2D planar projection so the
// clipping itself can run in 2D.
package triangulate

import v3 "github.com/deadsy/dxf2gltf/vec/v3"

//-----------------------------------------------------------------------------

// point2 is a point in the 2D projection plane.
type point2 struct{ X, Y float64 }

// newellNormal estimates the plane normal of a (possibly non-planar, e.g.
// due to floating point noise) polygon using Newell's method, which is
// robust to small deviations from planarity. Falls back to +Z when the
// accumulated normal is degenerate (e.g. fewer than 3 points, or a
// perfectly degenerate/collinear polygon).
func newellNormal(pts []v3.Vec) v3.Vec {
	var n v3.Vec
	count := len(pts)
	for i := 0; i < count; i++ {
		cur := pts[i]
		next := pts[(i+1)%count]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	if n.Length() < 1e-12 {
		return v3.Vec{Z: 1}
	}
	return n.Normalize()
}

// planarBasis picks an orthonormal (u, v) basis spanning the plane
// perpendicular to normal, using the same reference-axis-swap trick as the
// arc tessellator (§4.B) to stay well-conditioned near either pole.
func planarBasis(normal v3.Vec) (u, v v3.Vec) {
	ref := v3.Vec{Z: 1}
	if absf(normal.Z) >= 0.9 {
		ref = v3.Vec{X: 1}
	}
	u = normal.Cross(ref).Normalize()
	v = normal.Cross(u).Normalize()
	return u, v
}

func absf(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// project3To2 projects a 3D planar polygon onto its best-fit plane,
// returning the 2D coordinates, the plane normal used, and the basis
// vectors (so triangle indices computed in 2D can be trivially mapped back
// to the original 3D points, since projection preserves point identity and
// ordering).
func project3To2(pts []v3.Vec) (proj []point2, normal, u, v v3.Vec) {
	normal = newellNormal(pts)
	u, v = planarBasis(normal)
	proj = make([]point2, len(pts))
	for i, p := range pts {
		proj[i] = point2{X: p.Dot(u), Y: p.Dot(v)}
	}
	return proj, normal, u, v
}

// signedArea2 returns the signed area of a 2D polygon (positive for
// counter-clockwise winding under a standard right-handed u,v frame).
func signedArea2(pts []point2) float64 {
	var area float64
	n := len(pts)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}
