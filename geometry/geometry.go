// Package geometry holds the stable, shared data shapes that flow through
// the preprocessing pipeline: polylines, meshes, the optimization result
// bundle, and the options that drive the preprocessor. Every other package
// in the pipeline (tessellate, simplify, triangulate, decimate, junkfilter,
// preprocess) produces or consumes these value types; none of them alias or
// mutate a value once it has been handed to the next stage.
package geometry

import v3 "github.com/deadsy/dxf2gltf/vec/v3"

//-----------------------------------------------------------------------------

// Polyline is an ordered sequence of points on a named layer.
//
// Invariants: Points has at least 1 element. If Closed is true, the edge
// from the last point back to the first is implied, not duplicated in
// Points.
type Polyline struct {
	Layer  string
	Points []v3.Vec
	Closed bool
}

// Mesh is an indexed triangle mesh on a named layer.
//
// Invariants: len(TriangleIndices) % 3 == 0, and every index is a valid
// offset into Vertices. A triangle is degenerate iff its 3 indices are not
// pairwise distinct; optimizer stages drop degenerate triangles silently.
type Mesh struct {
	Layer           string
	Vertices        []v3.Vec
	TriangleIndices []uint32
}

// TriangleCount returns the number of triangles (not necessarily
// non-degenerate) encoded by TriangleIndices.
func (m *Mesh) TriangleCount() int {
	return len(m.TriangleIndices) / 3
}

// Triangle returns the 3 vertex positions of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c v3.Vec) {
	base := i * 3
	return m.Vertices[m.TriangleIndices[base]],
		m.Vertices[m.TriangleIndices[base+1]],
		m.Vertices[m.TriangleIndices[base+2]]
}

//-----------------------------------------------------------------------------

// GeometryStats summarizes a preprocessing run: original vs. optimized
// volume, for reporting reduction ratios to the caller.
type GeometryStats struct {
	OriginalVertices   int
	OptimizedVertices  int
	OriginalEntities   int
	OptimizedPolylines int
	MeshCount          int
	TriangleCount      int
	EntityCounts       map[string]int
}

// ReductionPercent returns (1 - optimized/original) * 100, or 0 when there
// were no original vertices to reduce.
func (s GeometryStats) ReductionPercent() float64 {
	if s.OriginalVertices <= 0 {
		return 0
	}
	return (1 - float64(s.OptimizedVertices)/float64(s.OriginalVertices)) * 100
}

//-----------------------------------------------------------------------------

// OptimizedGeometry is the output bundle handed to the asset writer.
type OptimizedGeometry struct {
	Polylines []Polyline
	Meshes    []Mesh
	Stats     GeometryStats
}

//-----------------------------------------------------------------------------

// PreprocessorOptions configures the preprocessing pipeline. The zero value
// is not directly usable; call DefaultOptions and override as needed.
type PreprocessorOptions struct {
	// PolylineEpsilon is the RDP tolerance, in source units.
	PolylineEpsilon float64
	// ArcChordError is the max chord error for arc/circle/ellipse tessellation.
	ArcChordError float64
	// SplineTolerance is the adaptive Bézier flatness threshold.
	SplineTolerance float64
	// MergeDistance is the near-point merge threshold; 0 disables merging.
	MergeDistance float64
	// IncludeLayers, if non-nil, is a case-insensitive layer allowlist.
	IncludeLayers map[string]bool
	// MinArcSegments and MaxArcSegments clamp tessellation segment counts.
	MinArcSegments int
	MaxArcSegments int

	// GridResolution is the vertex-clustering grid resolution, clamped to
	// [32, 1024].
	GridResolution int
	// EnableDecimation turns on vertex-clustering decimation of meshes with
	// more than 1000 triangles.
	EnableDecimation bool
	// EnableJunkFilter turns on percentile bounding-box culling + island
	// removal for meshes.
	EnableJunkFilter bool
	// MinIslandTriangles is the minimum connected-component size kept by
	// island removal.
	MinIslandTriangles int
	// BBoxPercentile is the percentile (e.g. 0.95) used for bounding-box
	// culling.
	BBoxPercentile float64
	// BBoxPadding is the fractional padding applied to the percentile box.
	BBoxPadding float64

	// Cancel, if non-nil, is polled before each entity. When it reports
	// true, preprocessing stops at that entity boundary and returns the
	// partial result assembled so far. It is not polled inside a chunked
	// RDP pass.
	Cancel func() bool

	// Progress, if non-nil, is invoked synchronously with (processed,
	// total) during long-running chunked passes. It must return quickly.
	Progress func(processed, total int)
}

// DefaultOptions returns the documented default PreprocessorOptions.
func DefaultOptions() PreprocessorOptions {
	return PreprocessorOptions{
		PolylineEpsilon:    0.1,
		ArcChordError:      0.01,
		SplineTolerance:    0.05,
		MergeDistance:      0.001,
		IncludeLayers:      nil,
		MinArcSegments:     8,
		MaxArcSegments:     128,
		GridResolution:     256,
		EnableDecimation:   false,
		EnableJunkFilter:   false,
		MinIslandTriangles: 100,
		BBoxPercentile:     0.95,
		BBoxPadding:        0.10,
	}
}

// LayerAllowed reports whether layer passes the IncludeLayers allowlist
// (case-insensitive). A nil or empty allowlist allows every layer.
func (o *PreprocessorOptions) LayerAllowed(layer string) bool {
	if len(o.IncludeLayers) == 0 {
		return true
	}
	return o.IncludeLayers[normalizeLayer(layer)]
}

func normalizeLayer(s string) string {
	// ASCII-fold to lower case; DXF layer names are conventionally ASCII.
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// NewLayerSet builds a case-insensitive layer allowlist from a list of
// layer names, suitable for PreprocessorOptions.IncludeLayers.
func NewLayerSet(layers []string) map[string]bool {
	if len(layers) == 0 {
		return nil
	}
	set := make(map[string]bool, len(layers))
	for _, l := range layers {
		set[normalizeLayer(l)] = true
	}
	return set
}
