// Package junkfilter implements the mesh "junk" removal pass: percentile
// bounding-box culling to drop stray outlier geometry, and connected
// component ("island") pruning via union-find to drop small disconnected
// fragments. Both sub-passes preserve layer and remap vertices so the
// output never carries unreferenced vertices.
package junkfilter

import (
	"sort"

	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/stat"
)

//-----------------------------------------------------------------------------

// DefaultPercentile and DefaultPadding match the documented defaults.
const (
	DefaultPercentile = 0.95
	DefaultPadding    = 0.10
)

// CullBoundingBox keeps only triangles with at least one vertex inside the
// percentile bounding box (padded by padding*extent per axis), dropping the
// rest and remapping vertices so none are left unreferenced. percentile is
// the fraction of vertices, per axis, that must fall within [min,max]
// before padding; percentile<=0 or >=1 falls back to the true min/max.
//
// Candidate triangles are first narrowed with an R-tree over each
// triangle's own AABB: any triangle with a vertex inside the target box
// necessarily has an AABB that intersects it, so SearchIntersect never
// prunes a true positive, only the many triangles whose AABB doesn't even
// touch the box. The exact per-vertex containment test still runs on every
// candidate the tree returns, so the R-tree only accelerates the scan; it
// never changes which triangles survive.
func CullBoundingBox(mesh geometry.Mesh, percentile, padding float64) geometry.Mesh {
	if len(mesh.Vertices) == 0 || mesh.TriangleCount() == 0 {
		return mesh
	}

	boxMin, boxMax := percentileBox(mesh.Vertices, percentile)
	extent := boxMax.Sub(boxMin)
	pad := v3.Vec{X: extent.X * padding, Y: extent.Y * padding, Z: extent.Z * padding}
	boxMin = boxMin.Sub(pad)
	boxMax = boxMax.Add(pad)

	queryRect, err := rtreego.NewRect(
		rtreego.Point{boxMin.X, boxMin.Y, boxMin.Z},
		[]float64{maxf(boxMax.X-boxMin.X, rtreego.DefaultTolerance), maxf(boxMax.Y-boxMin.Y, rtreego.DefaultTolerance), maxf(boxMax.Z-boxMin.Z, rtreego.DefaultTolerance)},
	)
	if err != nil {
		// Degenerate (zero-extent) query box: fall back to the exact test
		// over every triangle rather than skip culling outright.
		return cullExact(mesh, boxMin, boxMax, nil)
	}

	tree := rtreego.NewTree(3, 4, 16)
	for t := 0; t < mesh.TriangleCount(); t++ {
		tree.Insert(triangleBounds{index: t, rect: triangleAABB(mesh, t)})
	}

	candidates := make(map[int]bool, mesh.TriangleCount())
	for _, obj := range tree.SearchIntersect(queryRect) {
		candidates[obj.(triangleBounds).index] = true
	}

	return cullExact(mesh, boxMin, boxMax, candidates)
}

// cullExact runs the precise per-vertex containment test. When candidates
// is non-nil, only those triangle indices are tested (every other triangle
// is known to miss the box from the R-tree prefilter); when nil, every
// triangle is tested.
func cullExact(mesh geometry.Mesh, boxMin, boxMax v3.Vec, candidates map[int]bool) geometry.Mesh {
	keep := make([]bool, mesh.TriangleCount())
	anyDropped := false
	for t := 0; t < mesh.TriangleCount(); t++ {
		if candidates != nil && !candidates[t] {
			anyDropped = true
			continue
		}
		a, b, c := mesh.Triangle(t)
		if inBox(a, boxMin, boxMax) || inBox(b, boxMin, boxMax) || inBox(c, boxMin, boxMax) {
			keep[t] = true
		} else {
			anyDropped = true
		}
	}
	if !anyDropped {
		return mesh
	}
	return rebuildFromKeptTriangles(mesh, keep)
}

// triangleBounds wraps a triangle index for storage in the R-tree.
type triangleBounds struct {
	index int
	rect  *rtreego.Rect
}

func (t triangleBounds) Bounds() *rtreego.Rect { return t.rect }

func triangleAABB(mesh geometry.Mesh, t int) *rtreego.Rect {
	a, b, c := mesh.Triangle(t)
	box := v3.BoundingBox([]v3.Vec{a, b, c})
	size := box.Size()
	rect, err := rtreego.NewRect(
		rtreego.Point{box.Min.X, box.Min.Y, box.Min.Z},
		[]float64{maxf(size.X, rtreego.DefaultTolerance), maxf(size.Y, rtreego.DefaultTolerance), maxf(size.Z, rtreego.DefaultTolerance)},
	)
	if err != nil {
		// Degenerate (zero-volume) triangle AABB: substitute the minimum
		// tolerance on every axis so the R-tree still accepts the rect.
		rect, _ = rtreego.NewRect(
			rtreego.Point{box.Min.X, box.Min.Y, box.Min.Z},
			[]float64{rtreego.DefaultTolerance, rtreego.DefaultTolerance, rtreego.DefaultTolerance},
		)
	}
	return rect
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// percentileBox computes, per axis, the [low, high] percentile range of the
// vertex coordinates using gonum's empirical quantile estimator. Coordinates
// must be sorted before calling stat.Quantile.
func percentileBox(verts []v3.Vec, percentile float64) (min, max v3.Vec) {
	if percentile <= 0 || percentile >= 1 {
		box := v3.BoundingBox(verts)
		return box.Min, box.Max
	}

	xs := make([]float64, len(verts))
	ys := make([]float64, len(verts))
	zs := make([]float64, len(verts))
	for i, v := range verts {
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}
	sort.Float64s(xs)
	sort.Float64s(ys)
	sort.Float64s(zs)

	lowP := (1 - percentile) / 2
	highP := (1 + percentile) / 2

	min = v3.Vec{
		X: stat.Quantile(lowP, stat.Empirical, xs, nil),
		Y: stat.Quantile(lowP, stat.Empirical, ys, nil),
		Z: stat.Quantile(lowP, stat.Empirical, zs, nil),
	}
	max = v3.Vec{
		X: stat.Quantile(highP, stat.Empirical, xs, nil),
		Y: stat.Quantile(highP, stat.Empirical, ys, nil),
		Z: stat.Quantile(highP, stat.Empirical, zs, nil),
	}
	return min, max
}

func inBox(p, min, max v3.Vec) bool {
	return p.X >= min.X && p.X <= max.X &&
		p.Y >= min.Y && p.Y <= max.Y &&
		p.Z >= min.Z && p.Z <= max.Z
}

// rebuildFromKeptTriangles keeps only the triangles flagged in keep,
// remapping vertex indices so the output mesh carries no unreferenced
// vertices. Vertex order in the output follows first-reference order among
// the kept triangles.
func rebuildFromKeptTriangles(mesh geometry.Mesh, keep []bool) geometry.Mesh {
	oldToNew := make(map[uint32]uint32, len(mesh.Vertices))
	var vertices []v3.Vec
	var indices []uint32

	remap := func(old uint32) uint32 {
		if n, ok := oldToNew[old]; ok {
			return n
		}
		n := uint32(len(vertices))
		oldToNew[old] = n
		vertices = append(vertices, mesh.Vertices[old])
		return n
	}

	for t, k := range keep {
		if !k {
			continue
		}
		base := t * 3
		indices = append(indices,
			remap(mesh.TriangleIndices[base]),
			remap(mesh.TriangleIndices[base+1]),
			remap(mesh.TriangleIndices[base+2]))
	}

	return geometry.Mesh{Layer: mesh.Layer, Vertices: vertices, TriangleIndices: indices}
}
