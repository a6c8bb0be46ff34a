package junkfilter

import "github.com/deadsy/dxf2gltf/geometry"

// edgeKey is an undirected mesh edge, canonicalized so (a,b) and (b,a) key
// identically.
type edgeKey struct{ lo, hi uint32 }

func makeEdgeKey(a, b uint32) edgeKey {
	if a < b {
		return edgeKey{a, b}
	}
	return edgeKey{b, a}
}

// RemoveIslands keeps only triangles belonging to a connected component
// (triangles joined by a shared edge) with at least minTriangles members,
// remapping vertices so the output carries no unreferenced vertices.
// Components are found via union-find over triangle indices, unioning every
// pair of triangles that share an edge.
func RemoveIslands(mesh geometry.Mesh, minTriangles int) geometry.Mesh {
	triCount := mesh.TriangleCount()
	if triCount == 0 {
		return mesh
	}
	if minTriangles <= 1 {
		return mesh
	}

	edgeOwner := make(map[edgeKey]int, triCount*3)
	uf := newUnionFind(triCount)

	for t := 0; t < triCount; t++ {
		base := t * 3
		ia, ib, ic := mesh.TriangleIndices[base], mesh.TriangleIndices[base+1], mesh.TriangleIndices[base+2]
		for _, e := range [3]edgeKey{makeEdgeKey(ia, ib), makeEdgeKey(ib, ic), makeEdgeKey(ic, ia)} {
			if owner, ok := edgeOwner[e]; ok {
				uf.union(owner, t)
			} else {
				edgeOwner[e] = t
			}
		}
	}

	sizes := uf.componentSizes()
	keep := make([]bool, triCount)
	anyDropped := false
	for t := 0; t < triCount; t++ {
		if sizes[t] >= minTriangles {
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
