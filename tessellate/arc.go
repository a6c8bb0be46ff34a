// Package tessellate turns parametric curve primitives (arcs, circles,
// ellipses, Bézier and B-spline curves) into polylines under a chord-error
// contract, and samples splines under an adaptive flatness contract.
package tessellate

import (
	"math"

	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

// tau is a full turn in radians.
const tau = 2 * math.Pi

// ArcParams describes a 3D arc (or, with start=0, end=2*pi, a circle).
type ArcParams struct {
	Center     v3.Vec
	Radius     float64
	Start, End float64 // radians
	Normal     v3.Vec  // caller is not required to normalize
	ChordError float64
	MinSegs    int
	MaxSegs    int
}

// Arc tessellates a 3D arc into a polyline of n+1 points, under the chord
// error contract of segmentCount. The emitted points run from the start
// angle to the end angle; callers wanting a closed polyline (circles,
// ellipses) should drop the duplicated last point when Start==0 and
// sweep==tau.
func Arc(p ArcParams) []v3.Vec {
	sweep := p.End - p.Start
	if sweep < 0 {
		sweep += tau
	}
	n := segmentCount(sweep, p.Radius, p.ChordError, p.MinSegs, p.MaxSegs)

	u, v := basis(p.Normal)

	pts := make([]v3.Vec, n+1)
	step := sweep / float64(n)
	for i := 0; i <= n; i++ {
		theta := p.Start + float64(i)*step
		pts[i] = arcPoint(p.Center, u, v, p.Radius, theta)
	}
	return pts
}

func arcPoint(center, u, v v3.Vec, r, theta float64) v3.Vec {
	return center.Add(u.Scale(r * math.Cos(theta))).Add(v.Scale(r * math.Sin(theta)))
}

// segmentCount picks the number of segments for a sweep of the given
// angle, so that no chord deviates from the true arc by more than
// chordError, clamped into [minSegs, maxSegs].
func segmentCount(sweep, radius, chordError float64, minSegs, maxSegs int) int {
	if radius <= 0 || chordError <= 0 {
		return clampInt(minSegs, minSegs, maxSegs)
	}
	ratio := clampFloat(1-chordError/radius, -1, 1)
	maxAnglePerSeg := 2 * math.Acos(ratio)
	if maxAnglePerSeg <= 0 {
		return clampInt(maxSegs, minSegs, maxSegs)
	}
	n := int(math.Ceil(sweep / maxAnglePerSeg))
	return clampInt(n, minSegs, maxSegs)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// basis picks an orthonormal (u, v) pair spanning the plane perpendicular
// to normal, using a reference axis swap to stay well-conditioned when
// normal is nearly aligned with Z. u x v points along normal, and for a +Z
// normal u = +X and v = +Y, so angles are measured from +X toward +Y.
func basis(normal v3.Vec) (u, v v3.Vec) {
	ref := v3.Vec{X: 0, Y: 0, Z: 1}
	if math.Abs(normal.Z) >= 0.9 {
		ref = v3.Vec{X: 1, Y: 0, Z: 0}
	}
	v = normal.Cross(ref).Normalize()
	u = v.Cross(normal).Normalize()
	return u, v
}

//-----------------------------------------------------------------------------

// EllipseParams describes a full 3D ellipse.
type EllipseParams struct {
	Center           v3.Vec
	Major, Minor     float64
	Rotation         float64 // radians, in-plane rotation of the major axis
	Normal           v3.Vec
	ChordError       float64
	MinSegs, MaxSegs int
}

// Ellipse tessellates a full-turn 3D ellipse into a polyline of n+1 points
// (first == last). Segment count estimation uses the larger of the two
// radii, and the segment clamp range is doubled relative to a circular arc
// to account for the tighter curvature near the minor axis.
func Ellipse(p EllipseParams) []v3.Vec {
	major := math.Max(p.Major, p.Minor)
	n := segmentCount(tau, major, p.ChordError, p.MinSegs*2, p.MaxSegs*2)

	u, v := basis(p.Normal)
	cr, sr := math.Cos(p.Rotation), math.Sin(p.Rotation)
	ur := u.Scale(cr).Sub(v.Scale(sr))
	vr := u.Scale(sr).Add(v.Scale(cr))

	pts := make([]v3.Vec, n+1)
	step := tau / float64(n)
	for i := 0; i <= n; i++ {
		theta := float64(i) * step
		pts[i] = p.Center.
			Add(ur.Scale(p.Major * math.Cos(theta))).
			Add(vr.Scale(p.Minor * math.Sin(theta)))
	}
	return pts
}
