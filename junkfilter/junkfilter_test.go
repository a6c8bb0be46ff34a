package junkfilter

import (
	"testing"

	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

func square(origin v3.Vec, layer string) ([]v3.Vec, []uint32) {
	verts := []v3.Vec{
		origin,
		origin.Add(v3.Vec{X: 1}),
		origin.Add(v3.Vec{X: 1, Y: 1}),
		origin.Add(v3.Vec{Y: 1}),
	}
	indices := []uint32{0, 1, 2, 0, 2, 3}
	_ = layer
	return verts, indices
}

func TestCullBoundingBoxDropsFarOutlier(t *testing.T) {
	// A cluster of many near-origin squares plus one square far away: with
	// a 0.95 percentile and modest padding, the outlier square should fall
	// entirely outside the expanded box.
	var verts []v3.Vec
	var indices []uint32
	for i := 0; i < 40; i++ {
		v, idx := square(v3.Vec{X: float64(i) * 0.01}, "l")
		base := uint32(len(verts))
		verts = append(verts, v...)
		for _, id := range idx {
			indices = append(indices, id+base)
		}
	}
	v, idx := square(v3.Vec{X: 1000}, "l")
	base := uint32(len(verts))
	verts = append(verts, v...)
	for _, id := range idx {
		indices = append(indices, id+base)
	}

	mesh := geometry.Mesh{Layer: "l", Vertices: verts, TriangleIndices: indices}
	out := CullBoundingBox(mesh, DefaultPercentile, DefaultPadding)

	for i := 0; i < out.TriangleCount(); i++ {
		a, b, c := out.Triangle(i)
		if a.X > 100 || b.X > 100 || c.X > 100 {
			t.Fatalf("outlier triangle survived culling: %+v %+v %+v", a, b, c)
		}
	}
	if out.TriangleCount() >= mesh.TriangleCount() {
		t.Fatalf("expected triangles to be dropped, got %d of %d", out.TriangleCount(), mesh.TriangleCount())
	}
}

func TestCullBoundingBoxNoChangeWhenNothingOutside(t *testing.T) {
	verts, indices := square(v3.Vec{}, "l")
	mesh := geometry.Mesh{Layer: "l", Vertices: verts, TriangleIndices: indices}
	out := CullBoundingBox(mesh, DefaultPercentile, DefaultPadding)
	if out.TriangleCount() != mesh.TriangleCount() {
		t.Fatalf("got %d triangles, want %d unchanged", out.TriangleCount(), mesh.TriangleCount())
	}
}

func TestRemoveIslandsKeepsLargeDropsSmall(t *testing.T) {
	var verts []v3.Vec
	var indices []uint32

	// A connected strip of 20 triangles (>= minTriangles) sharing edges.
	for i := 0; i < 11; i++ {
		verts = append(verts, v3.Vec{X: float64(i)}, v3.Vec{X: float64(i), Y: 1})
	}
	for i := 0; i < 10; i++ {
		a, b, c, d := uint32(i*2), uint32(i*2+1), uint32(i*2+3), uint32(i*2+2)
		indices = append(indices, a, b, c, a, c, d)
	}

	// One isolated triangle (component size 1), far away so bbox isn't the
	// reason it's distinguishable -- island removal is purely topological.
	base := uint32(len(verts))
	verts = append(verts, v3.Vec{X: 100}, v3.Vec{X: 101}, v3.Vec{X: 100, Y: 1})
	indices = append(indices, base, base+1, base+2)

	mesh := geometry.Mesh{Layer: "strip", Vertices: verts, TriangleIndices: indices}
	out := RemoveIslands(mesh, 5)

	if out.TriangleCount() != 20 {
		t.Fatalf("got %d triangles, want 20 (isolated triangle dropped)", out.TriangleCount())
	}
	for i := 0; i < out.TriangleCount(); i++ {
		a, b, c := out.Triangle(i)
		if a.X >= 100 || b.X >= 100 || c.X >= 100 {
			t.Fatalf("isolated triangle survived island removal")
		}
	}
}

func TestRemoveIslandsNoopBelowThresholdOfOne(t *testing.T) {
	verts, indices := square(v3.Vec{}, "l")
	mesh := geometry.Mesh{Layer: "l", Vertices: verts, TriangleIndices: indices}
	out := RemoveIslands(mesh, 1)
	if out.TriangleCount() != mesh.TriangleCount() {
		t.Fatalf("got %d triangles, want unchanged %d", out.TriangleCount(), mesh.TriangleCount())
	}
}

func TestUnionFindEquivalenceRelation(t *testing.T) {
	uf := newUnionFind(6)
	uf.union(0, 1)
	uf.union(1, 2)
	uf.union(3, 4)

	if uf.find(0) != uf.find(2) {
		t.Fatal("expected 0 and 2 in the same component (transitivity)")
	}
	if uf.find(0) == uf.find(3) {
		t.Fatal("expected 0 and 3 in different components")
	}
	if uf.find(5) != 5 {
		t.Fatal("expected singleton component to be its own representative")
	}

	sizes := uf.componentSizes()
	if sizes[0] != 3 || sizes[3] != 2 || sizes[5] != 1 {
		t.Fatalf("unexpected component sizes: %v", sizes)
	}
}
