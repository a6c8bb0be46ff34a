package writer

import (
	"bytes"
	"testing"

	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

func TestWrite3MFProducesOutput(t *testing.T) {
	geo := geometry.OptimizedGeometry{
		Polylines: []geometry.Polyline{
			{Layer: "outline", Points: []v3.Vec{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}, Closed: true},
			{Layer: "wire", Points: []v3.Vec{{X: 0}, {X: 5}}, Closed: false},
		},
		Meshes: []geometry.Mesh{
			{Layer: "solid", Vertices: []v3.Vec{{}, {X: 1}, {Y: 1}}, TriangleIndices: []uint32{0, 1, 2}},
		},
	}

	var buf bytes.Buffer
	if err := Write3MF(&buf, geo); err != nil {
		t.Fatalf("Write3MF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty 3MF output")
	}
}

func TestCenterOfEmptyGeometry(t *testing.T) {
	c := centerOf(geometry.OptimizedGeometry{})
	if c != (v3.Vec{}) {
		t.Fatalf("expected zero center for empty geometry, got %+v", c)
	}
}

func TestCenterOfSquare(t *testing.T) {
	geo := geometry.OptimizedGeometry{
		Polylines: []geometry.Polyline{
			{Layer: "l", Points: []v3.Vec{{X: 0}, {X: 2}, {X: 2, Y: 2}, {Y: 2}}, Closed: true},
		},
	}
	c := centerOf(geo)
	if c.X != 1 || c.Y != 1 {
		t.Fatalf("got center %+v, want (1,1,0)", c)
	}
}
