package writer

import (
	"io"

	"github.com/deadsy/dxf2gltf/geometry"
	"github.com/deadsy/dxf2gltf/triangulate"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
	"github.com/hpinc/go3mf"
)

//-----------------------------------------------------------------------------

// maxCenteringSamplePoints caps how many vertices are sampled when computing
// the AABB used to center the model at the origin, per §6's "computed over
// up to 100 000 sampled points for large inputs".
const maxCenteringSamplePoints = 100000

// Write3MF translates geo into a 3MF model: one build item and mesh object
// per layer (the corpus's substitute for the distilled spec's glTF/GLB
// writer -- no glTF library is available in the retrieval pack, and 3MF is
// an actual teacher dependency). Closed polylines are ear-clipped into
// triangle meshes (§4.E); open polylines have no solid-mesh representation
// in 3MF and are skipped (3MF has no line-primitive equivalent to glTF's
// LINES mode). Mesh-bearing layers pass through directly. Every object is
// translated by the negated centroid-sampled AABB center so the model sits
// at the origin.
func Write3MF(w io.Writer, geo geometry.OptimizedGeometry) error {
	center := centerOf(geo)

	model := &go3mf.Model{}
	model.Resources.Assets = append(model.Resources.Assets, &go3mf.BaseMaterialsResource{
		ID: 1,
		Materials: []go3mf.BaseMaterial{
			{Name: "flat-unlit", Color: go3mf.Color{R: 200, G: 200, B: 200, A: 255}},
		},
	})

	nextID := uint32(2)

	for _, p := range geo.Polylines {
		if !p.Closed || len(p.Points) < 3 {
			continue
		}
		idx := triangulate.Triangulate(p.Points)
		if len(idx) == 0 {
			continue
		}
		obj := meshObject(nextID, p.Layer, p.Points, idx, center)
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: nextID})
		nextID++
	}

	for _, m := range geo.Meshes {
		indices := make([]int, len(m.TriangleIndices))
		for i, v := range m.TriangleIndices {
			indices[i] = int(v)
		}
		obj := meshObject(nextID, m.Layer, m.Vertices, indices, center)
		model.Resources.Objects = append(model.Resources.Objects, obj)
		model.Build.Items = append(model.Build.Items, &go3mf.Item{ObjectID: nextID})
		nextID++
	}

	enc := go3mf.NewEncoder(w)
	return enc.Encode(model)
}

func meshObject(id uint32, layer string, verts []v3.Vec, triIdx []int, center v3.Vec) *go3mf.Object {
	mesh := &go3mf.Mesh{}
	mesh.Vertices.Vertex = make([]go3mf.Point3D, len(verts))
	for i, v := range verts {
		c := v.Sub(center)
		mesh.Vertices.Vertex[i] = go3mf.Point3D{float32(c.X), float32(c.Y), float32(c.Z)}
	}
	mesh.Triangles.Triangle = make([]go3mf.Triangle, 0, len(triIdx)/3)
	for t := 0; t+2 < len(triIdx); t += 3 {
		mesh.Triangles.Triangle = append(mesh.Triangles.Triangle, go3mf.Triangle{
			V1: uint32(triIdx[t]), V2: uint32(triIdx[t+1]), V3: uint32(triIdx[t+2]),
			PID: 1,
		})
	}
	return &go3mf.Object{ID: id, Name: layer, Mesh: mesh}
}

// centerOf computes the AABB center over up to maxCenteringSamplePoints
// sampled vertices across all polylines and meshes; meshObject subtracts
// it from every vertex.
func centerOf(geo geometry.OptimizedGeometry) v3.Vec {
	var sample []v3.Vec
	add := func(pts []v3.Vec) {
		for _, p := range pts {
			if len(sample) >= maxCenteringSamplePoints {
				return
			}
			sample = append(sample, p)
		}
	}
	for _, p := range geo.Polylines {
		add(p.Points)
	}
	for _, m := range geo.Meshes {
		add(m.Vertices)
	}
	if len(sample) == 0 {
		return v3.Vec{}
	}
	return v3.BoundingBox(sample).Center()
}
