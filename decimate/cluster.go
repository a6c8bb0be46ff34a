// Package decimate implements vertex-clustering mesh decimation: vertices
// are snapped onto a uniform 3D grid over the mesh's padded bounding box,
// every grid cell's vertices are merged to their centroid, and triangles are
// remapped onto the merged vertices, dropping any that degenerate (two or
// more corners landing in the same cell).
package decimate

import (
	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

const (
	// boundsPadding keeps vertices exactly on the bounding box's max face
	// from landing in an out-of-range cell due to floating point rounding.
	boundsPadding = 0.001
	// MinGridResolution and MaxGridResolution clamp the caller-supplied grid
	// resolution to a sane range.
	MinGridResolution = 32
	MaxGridResolution = 1024
)

// clusterAccum accumulates the vertex positions merging into one grid cell.
// Summation happens in input order, never reassociated, so results are
// reproducible across runs regardless of map iteration order.
type clusterAccum struct {
	sum   v3.Vec
	count int
}

// Decimate merges mesh's vertices that fall in the same cell of a grid
// clamped to [MinGridResolution, MaxGridResolution], replacing each cell's
// vertices with their centroid and remapping triangles accordingly.
// Triangles that degenerate (two or three corners merging to the same
// vertex) are dropped. A mesh with no triangles is returned unchanged.
func Decimate(mesh geometry.Mesh, grid int) geometry.Mesh {
	if grid < MinGridResolution {
		grid = MinGridResolution
	} else if grid > MaxGridResolution {
		grid = MaxGridResolution
	}
	if len(mesh.Vertices) == 0 || mesh.TriangleCount() == 0 {
		return mesh
	}

	box := v3.BoundingBox(mesh.Vertices)
	box.Min = box.Min.Sub(v3.Vec{X: boundsPadding, Y: boundsPadding, Z: boundsPadding})
	box.Max = box.Max.Add(v3.Vec{X: boundsPadding, Y: boundsPadding, Z: boundsPadding})
	size := box.Size()

	cellSize := v3.Vec{X: size.X / float64(grid), Y: size.Y / float64(grid), Z: size.Z / float64(grid)}
	// A flat mesh has zero extent along one axis; treat that axis as a
	// single cell rather than dividing by zero.
	if cellSize.X <= 0 {
		cellSize.X = 1
	}
	if cellSize.Y <= 0 {
		cellSize.Y = 1
	}
	if cellSize.Z <= 0 {
		cellSize.Z = 1
	}

	cellIndex := make(map[int]int, len(mesh.Vertices))
	accum := make([]clusterAccum, 0, len(mesh.Vertices))
	oldToNew := make([]int, len(mesh.Vertices))

	for i, v := range mesh.Vertices {
		cx := clampCell(int((v.X-box.Min.X)/cellSize.X), grid)
		cy := clampCell(int((v.Y-box.Min.Y)/cellSize.Y), grid)
		cz := clampCell(int((v.Z-box.Min.Z)/cellSize.Z), grid)
		id := cx + cy*grid + cz*grid*grid

		idx, ok := cellIndex[id]
		if !ok {
			idx = len(accum)
			cellIndex[id] = idx
			accum = append(accum, clusterAccum{})
		}
		accum[idx].sum = accum[idx].sum.Add(v)
		accum[idx].count++
		oldToNew[i] = idx
	}

	vertices := make([]v3.Vec, len(accum))
	for i, a := range accum {
		vertices[i] = a.sum.Scale(1.0 / float64(a.count))
	}

	indices := make([]uint32, 0, len(mesh.TriangleIndices))
	for t := 0; t*3+2 < len(mesh.TriangleIndices); t++ {
		base := t * 3
		na := uint32(oldToNew[mesh.TriangleIndices[base]])
		nb := uint32(oldToNew[mesh.TriangleIndices[base+1]])
		nc := uint32(oldToNew[mesh.TriangleIndices[base+2]])
		if na == nb || nb == nc || na == nc {
			continue
		}
		indices = append(indices, na, nb, nc)
	}

	return geometry.Mesh{Layer: mesh.Layer, Vertices: vertices, TriangleIndices: indices}
}

func clampCell(c, grid int) int {
	if c < 0 {
		return 0
	}
	if c >= grid {
		return grid - 1
	}
	return c
}
