package decimate

import (
	"testing"

	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

// gridMesh builds an n x n vertex grid (so (n-1) x (n-1) quads, 2 triangles
// each) spanning the unit cube [0,1] x [0,1] x {0}, the same shape used in
// scenario 6.
func gridMesh(n int) geometry.Mesh {
	var verts []v3.Vec
	var indices []uint32
	step := 1.0 / float64(n-1)
	idx := func(x, y int) uint32 {
		return uint32(y*n + x)
	}
	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			verts = append(verts, v3.Vec{X: float64(x) * step, Y: float64(y) * step})
		}
	}
	for y := 0; y < n-1; y++ {
		for x := 0; x < n-1; x++ {
			a, b, c, d := idx(x, y), idx(x+1, y), idx(x+1, y+1), idx(x, y+1)
			indices = append(indices, a, b, c, a, c, d)
		}
	}
	return geometry.Mesh{Layer: "grid", Vertices: verts, TriangleIndices: indices}
}

func TestDecimateCollapsesTenByTenGridToTwoByTwo(t *testing.T) {
	mesh := gridMesh(10)
	if mesh.TriangleCount() != 162 {
		t.Fatalf("fixture has %d triangles, want 162", mesh.TriangleCount())
	}

	out := Decimate(mesh, 2)
	if len(out.Vertices) > 8 {
		t.Fatalf("got %d vertices, want <= 8", len(out.Vertices))
	}
	if out.TriangleCount() >= 12 {
		t.Fatalf("got %d triangles, want < 12", out.TriangleCount())
	}
}

func TestDecimateClampsGridResolution(t *testing.T) {
	mesh := gridMesh(3)
	out := Decimate(mesh, 1)
	// grid=1 is clamped to MinGridResolution, so nothing should collapse
	// for a mesh this small and every vertex should survive distinctly.
	if len(out.Vertices) != len(mesh.Vertices) {
		t.Fatalf("got %d vertices, want %d (no collapsing expected)", len(out.Vertices), len(mesh.Vertices))
	}
}

func TestDecimateDropsDegenerateTriangles(t *testing.T) {
	// 3 points that collapse into 1 cell under a coarse grid collapse every
	// triangle referencing them to a degenerate, dropped triangle. Cell size
	// follows the bounding box, so an unreferenced far vertex stretches the
	// box until one cell at MinGridResolution is far wider than the 3 points.
	mesh := geometry.Mesh{
		Layer: "tiny",
		Vertices: []v3.Vec{
			{X: 0, Y: 0},
			{X: 0.001, Y: 0},
			{X: 0, Y: 0.001},
			{X: 10, Y: 10},
		},
		TriangleIndices: []uint32{0, 1, 2},
	}
	out := Decimate(mesh, MinGridResolution)
	if out.TriangleCount() != 0 {
		t.Fatalf("got %d triangles, want 0 (degenerate)", out.TriangleCount())
	}
}

func TestDecimateEmptyMeshUnchanged(t *testing.T) {
	mesh := geometry.Mesh{Layer: "empty"}
	out := Decimate(mesh, 64)
	if len(out.Vertices) != 0 || len(out.TriangleIndices) != 0 {
		t.Fatalf("expected empty mesh unchanged, got %+v", out)
	}
}
