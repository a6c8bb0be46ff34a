// Package preprocess implements the orchestrator that ties every other
// pipeline stage together: it consumes an entitysource.Source and
// PreprocessorOptions, dispatches each entity by kind to the curve
// tessellator, spline sampler, and RDP simplifier, runs the near-point merge
// pass, and (when enabled) the mesh optimization pipeline, producing a
// single OptimizedGeometry bundle.
package preprocess

import (
	"fmt"
	"math"

	"github.com/deadsy/dxf2gltf/decimate"
	"github.com/deadsy/dxf2gltf/entitysource"
	"github.com/deadsy/dxf2gltf/geometry"
	"github.com/deadsy/dxf2gltf/junkfilter"
	"github.com/deadsy/dxf2gltf/simplify"
	"github.com/deadsy/dxf2gltf/tessellate"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

// largePolylineThreshold switches to the chunked RDP path above this many
// points, per §4.H's "large-polyline path".
const largePolylineThreshold = 500000

// face3DLayer is the layer every 3DFace entity's polyline is accumulated on,
// per §4.H.
const face3DLayer = "3DFace"

// Run drives the full pipeline over src, returning the assembled
// OptimizedGeometry. It never returns an error for data it can interpret;
// an error return is reserved for an error reported by src itself, or a
// mesh-bearing entity whose triangle index count is not a multiple of 3, a
// precondition violation in the data the parser handed the core (§7).
// Cancellation (opts.Cancel) stops at the
// next entity boundary and returns whatever was assembled so far, with a
// nil error.
func Run(src entitysource.Source, opts geometry.PreprocessorOptions) (geometry.OptimizedGeometry, error) {
	b := &builder{opts: opts, entityCounts: map[string]int{}, meshByLayer: map[string][]geometry.Mesh{}}

	for {
		if opts.Cancel != nil && opts.Cancel() {
			break
		}
		e, ok, err := src.Next()
		if err != nil {
			return b.finish(), err
		}
		if !ok {
			break
		}
		if !opts.LayerAllowed(e.Layer) {
			continue
		}
		b.originalEntities++
		if err := b.dispatch(e); err != nil {
			return b.finish(), err
		}
	}

	b.mergeNearPoints()
	if err := b.optimizeMeshes(); err != nil {
		return b.finish(), err
	}
	return b.finish(), nil
}

//-----------------------------------------------------------------------------

type builder struct {
	opts geometry.PreprocessorOptions

	polylines        []geometry.Polyline
	meshByLayer      map[string][]geometry.Mesh
	meshesOut        []geometry.Mesh
	entityCounts     map[string]int
	originalVertices int
	originalEntities int
}

func (b *builder) dispatch(e entitysource.Entity) error {
	switch e.Kind {
	case entitysource.KindLine:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += 2
		b.polylines = append(b.polylines, geometry.Polyline{
			Layer: e.Layer, Points: []v3.Vec{e.Start, e.End}, Closed: false,
		})

	case entitysource.KindLwPolyline:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += len(e.Points)
		pts := b.rdp(e.Points)
		if len(pts) > 0 {
			b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: e.Closed})
		}

	case entitysource.KindPolyline3D:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += len(e.Points)
		pts := b.rdp(e.Points)
		if len(pts) > 0 {
			b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: e.Closed})
		}

	case entitysource.KindArc:
		b.entityCounts[e.Kind.String()]++
		sweep := e.EndAngle - e.StartAngle
		if sweep < 0 {
			sweep += 2 * math.Pi
		}
		b.originalVertices += int(math.Ceil(sweep / (math.Pi / 18)))
		pts := tessellate.Arc(tessellate.ArcParams{
			Center: e.Center, Radius: e.Radius, Start: e.StartAngle, End: e.EndAngle,
			Normal: e.Normal, ChordError: b.opts.ArcChordError,
			MinSegs: b.opts.MinArcSegments, MaxSegs: b.opts.MaxArcSegments,
		})
		b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: false})

	case entitysource.KindCircle:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += 36
		pts := tessellate.Arc(tessellate.ArcParams{
			Center: e.Center, Radius: e.Radius, Start: 0, End: 2 * math.Pi,
			Normal: e.Normal, ChordError: b.opts.ArcChordError,
			MinSegs: b.opts.MinArcSegments, MaxSegs: b.opts.MaxArcSegments,
		})
		// Drop the repeated closing point; Closed implies the closing edge.
		pts = pts[:len(pts)-1]
		b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: true})

	case entitysource.KindEllipse:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += 72
		pts := tessellate.Ellipse(tessellate.EllipseParams{
			Center: e.Center, Major: e.Major, Minor: e.Minor, Rotation: e.Rotation,
			Normal: e.Normal, ChordError: b.opts.ArcChordError,
			MinSegs: b.opts.MinArcSegments, MaxSegs: b.opts.MaxArcSegments,
		})
		pts = pts[:len(pts)-1]
		b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: true})

	case entitysource.KindSpline:
		b.entityCounts[e.Kind.String()]++
		b.originalVertices += 10 * len(e.Control)
		var sampled []v3.Vec
		if e.Degree == 3 && len(e.Control) == 4 {
			sampled = tessellate.CubicBezier(e.Control[0], e.Control[1], e.Control[2], e.Control[3], b.opts.SplineTolerance)
		} else {
			k := 5 * len(e.Control)
			if k < 20 {
				k = 20
			}
			sampled = tessellate.BSpline(e.Control, e.Degree, k)
		}
		pts := b.rdp(sampled)
		if len(pts) > 0 {
			b.polylines = append(b.polylines, geometry.Polyline{Layer: e.Layer, Points: pts, Closed: false})
		}

	case entitysource.KindFace3D:
		b.entityCounts[e.Kind.String()]++
		corners := e.Corners[:]
		if corners[3] == corners[2] {
			corners = corners[:3]
		}
		b.originalVertices += len(corners)
		pts := b.rdp(mergeNearPoints(corners, b.opts.MergeDistance))
		if len(pts) > 0 {
			b.polylines = append(b.polylines, geometry.Polyline{Layer: face3DLayer, Points: pts, Closed: true})
		}

	case entitysource.KindMesh:
		b.entityCounts[e.Kind.String()]++
		if len(e.TriangleIndices)%3 != 0 {
			return fmt.Errorf("preprocess: mesh on layer %q has %d triangle indices, not a multiple of 3", e.Layer, len(e.TriangleIndices))
		}
		b.meshByLayer[e.Layer] = append(b.meshByLayer[e.Layer], geometry.Mesh{
			Layer: e.Layer, Vertices: e.Vertices, TriangleIndices: e.TriangleIndices,
		})
	}
	return nil
}

// rdp applies the simplifier, routing through the chunked variant above
// largePolylineThreshold per §4.H's large-polyline path.
func (b *builder) rdp(pts []v3.Vec) []v3.Vec {
	if len(pts) > largePolylineThreshold {
		return simplify.SimplifyChunked(pts, b.opts.PolylineEpsilon, simplify.DefaultChunkSize, b.opts.Progress)
	}
	return simplify.Simplify(pts, b.opts.PolylineEpsilon)
}

// mergeNearPoints runs the near-point merge pass over every accumulated
// polyline, in place, when MergeDistance > 0.
func (b *builder) mergeNearPoints() {
	if b.opts.MergeDistance <= 0 {
		return
	}
	for i := range b.polylines {
		b.polylines[i].Points = mergeNearPoints(b.polylines[i].Points, b.opts.MergeDistance)
	}
}

// mergeNearPoints keeps the first point and appends subsequent points only
// when farther than threshold from the last kept point, never reducing a
// polyline of >= 2 input points below 2 output points.
func mergeNearPoints(pts []v3.Vec, threshold float64) []v3.Vec {
	if len(pts) < 2 || threshold <= 0 {
		out := make([]v3.Vec, len(pts))
		copy(out, pts)
		return out
	}

	out := make([]v3.Vec, 0, len(pts))
	out = append(out, pts[0])
	threshold2 := threshold * threshold
	for _, p := range pts[1:] {
		if p.Distance2(out[len(out)-1]) > threshold2 {
			out = append(out, p)
		}
	}
	if len(out) < 2 {
		out = []v3.Vec{pts[0], pts[len(pts)-1]}
	}
	return out
}

// optimizeMeshes merges same-layer meshes, then applies the junk filter
// and/or vertex-clustering decimation per layer, per §4.H's "post-mesh
// optimization" rule.
func (b *builder) optimizeMeshes() error {
	if len(b.meshByLayer) == 0 {
		return nil
	}
	if !b.opts.EnableDecimation && !b.opts.EnableJunkFilter {
		for _, meshes := range b.meshByLayer {
			b.meshesOut = append(b.meshesOut, mergeMeshes(meshes))
		}
		return nil
	}

	for _, meshes := range b.meshByLayer {
		merged := mergeMeshes(meshes)

		if b.opts.EnableJunkFilter {
			merged = junkfilter.CullBoundingBox(merged, b.opts.BBoxPercentile, b.opts.BBoxPadding)
			merged = junkfilter.RemoveIslands(merged, b.opts.MinIslandTriangles)
		}
		if b.opts.EnableDecimation && merged.TriangleCount() > 1000 {
			merged = decimate.Decimate(merged, b.opts.GridResolution)
		}

		b.meshesOut = append(b.meshesOut, merged)
	}
	return nil
}

func mergeMeshes(meshes []geometry.Mesh) geometry.Mesh {
	if len(meshes) == 1 {
		return meshes[0]
	}
	var vertices []v3.Vec
	var indices []uint32
	layer := meshes[0].Layer
	for _, m := range meshes {
		base := uint32(len(vertices))
		vertices = append(vertices, m.Vertices...)
		for _, idx := range m.TriangleIndices {
			indices = append(indices, idx+base)
		}
	}
	return geometry.Mesh{Layer: layer, Vertices: vertices, TriangleIndices: indices}
}

func (b *builder) finish() geometry.OptimizedGeometry {
	optimizedVertices := 0
	for _, p := range b.polylines {
		optimizedVertices += len(p.Points)
	}
	triangleCount := 0
	for _, m := range b.meshesOut {
		optimizedVertices += len(m.Vertices)
		triangleCount += m.TriangleCount()
	}

	return geometry.OptimizedGeometry{
		Polylines: b.polylines,
		Meshes:    b.meshesOut,
		Stats: geometry.GeometryStats{
			OriginalVertices:   b.originalVertices,
			OptimizedVertices:  optimizedVertices,
			OriginalEntities:   b.originalEntities,
			OptimizedPolylines: len(b.polylines),
			MeshCount:          len(b.meshesOut),
			TriangleCount:      triangleCount,
			EntityCounts:       b.entityCounts,
		},
	}
}
