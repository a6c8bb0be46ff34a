// Package v3 implements a 3D vector of float64 components.
//
// It is the leaf-level math used by every other package in this module:
// curve tessellation, polyline simplification, triangulation, and mesh
// decimation all build on top of Vec.
package v3

import "math"

//-----------------------------------------------------------------------------

// Vec is a 3D vector (or point) with float64 components.
type Vec struct {
	X, Y, Z float64
}

//-----------------------------------------------------------------------------

// Add returns a + b.
func (a Vec) Add(b Vec) Vec {
	return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec {
	return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a * s.
func (a Vec) Scale(s float64) Vec {
	return Vec{a.X * s, a.Y * s, a.Z * s}
}

// Neg returns -a.
func (a Vec) Neg() Vec {
	return Vec{-a.X, -a.Y, -a.Z}
}

// Dot returns the scalar (dot) product of a and b.
func (a Vec) Dot(b Vec) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the vector (cross) product of a and b.
func (a Vec) Cross(b Vec) Vec {
	return Vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean length of a.
func (a Vec) Length() float64 {
	return math.Sqrt(a.Dot(a))
}

// Length2 returns the squared Euclidean length of a.
func (a Vec) Length2() float64 {
	return a.Dot(a)
}

// Distance returns the Euclidean distance between a and b.
func (a Vec) Distance(b Vec) float64 {
	return a.Sub(b).Length()
}

// Distance2 returns the squared Euclidean distance between a and b.
func (a Vec) Distance2(b Vec) float64 {
	return a.Sub(b).Length2()
}

// minNormalizableLength is the length below which Normalize returns the zero
// vector instead of dividing, avoiding NaNs from near-degenerate directions
// (e.g. a zero-length chord, or a badly specified arc normal).
const minNormalizableLength = 1e-12

// Normalize returns a unit vector in the direction of a, or the zero vector
// if a is too short to normalize reliably.
func (a Vec) Normalize() Vec {
	l := a.Length()
	if l < minNormalizableLength {
		return Vec{}
	}
	return a.Scale(1.0 / l)
}

// MaxComponent returns the largest of the 3 components.
func (a Vec) MaxComponent() float64 {
	return math.Max(a.X, math.Max(a.Y, a.Z))
}

// Min returns the componentwise minimum of a and b.
func (a Vec) Min(b Vec) Vec {
	return Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the componentwise maximum of a and b.
func (a Vec) Max(b Vec) Vec {
	return Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// Equals reports whether a and b are bitwise equal (exact, not approximate).
// This is intentionally strict: use it only on values that are known to be
// canonicalized (e.g. round-tripped through the same computation), never to
// compare independently-computed geometry.
func (a Vec) Equals(b Vec) bool {
	return a == b
}

//-----------------------------------------------------------------------------

// Box3 is an axis-aligned 3D bounding box.
type Box3 struct {
	Min, Max Vec
}

// Size returns the extent of the box along each axis.
func (b Box3) Size() Vec {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extend returns b grown to include p; b itself is not modified.
func (b Box3) Extend(p Vec) Box3 {
	return Box3{b.Min.Min(p), b.Max.Max(p)}
}

//-----------------------------------------------------------------------------

// PerpendicularDistance returns the distance from p to the segment a-b:
// project p-a onto b-a, clamp the parameter to [0,1], and return the
// distance from p to that clamped point. When a and b are within 1e-12
// squared-length of each other, it degrades to the distance from p to a.
// Shared by the RDP simplifier (D) and the Bézier flatness test (C), which
// both define "distance to a segment" identically.
func PerpendicularDistance(p, a, b Vec) float64 {
	ab := b.Sub(a)
	denom := ab.Length2()
	if denom < 1e-12 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return p.Distance(a.Add(ab.Scale(t)))
}

//-----------------------------------------------------------------------------

// BoundingBox computes the AABB of a non-empty point set.
// Callers must not pass an empty slice.
func BoundingBox(pts []Vec) Box3 {
	b := Box3{Min: pts[0], Max: pts[0]}
	for _, p := range pts[1:] {
		b = b.Extend(p)
	}
	return b
}
