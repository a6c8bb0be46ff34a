// Package writer implements the external asset writers the core hands its
// OptimizedGeometry off to: a stable JSON encoding for the file-based
// handoff, a 3MF binary asset writer (the corpus's substitute for a glTF/GLB
// writer -- see the design notes), and an SVG/PNG debug preview renderer.
package writer

import (
	"encoding/json"
	"io"
	"math"
	"sort"

	"github.com/deadsy/dxf2gltf/geometry"
)

//-----------------------------------------------------------------------------

// jsonPolyline and jsonStats mirror the stable wire shape from §6 exactly:
// snake_case field names, points as [x,y,z] triples, no library in the
// corpus offers a more declarative JSON mapping than struct tags, so this
// stays on encoding/json.
type jsonDocument struct {
	Polylines []jsonPolyline `json:"polylines"`
	Stats     jsonStats      `json:"stats"`
}

type jsonPolyline struct {
	Layer  string       `json:"layer"`
	Points [][3]float64 `json:"points"`
	Closed bool         `json:"closed"`
}

type jsonStats struct {
	OriginalVertices   int            `json:"original_vertices"`
	OptimizedVertices  int            `json:"optimized_vertices"`
	ReductionPercent   float64        `json:"reduction_percent"`
	OriginalEntities   int            `json:"original_entities"`
	OptimizedPolylines int            `json:"optimized_polylines"`
	EntityCounts       map[string]int `json:"entity_counts,omitempty"`
}

// WriteJSON encodes geo as the stable, pretty-printed JSON document
// described in §6, with entity_counts keys emitted in sorted order so the
// output is byte-identical across runs given identical input (encoding/json
// already sorts map keys when marshaling, so this is not separately
// implemented).
func WriteJSON(w io.Writer, geo geometry.OptimizedGeometry) error {
	doc := jsonDocument{
		Polylines: make([]jsonPolyline, len(geo.Polylines)),
		Stats: jsonStats{
			OriginalVertices:   geo.Stats.OriginalVertices,
			OptimizedVertices:  geo.Stats.OptimizedVertices,
			ReductionPercent:   round2(geo.Stats.ReductionPercent()),
			OriginalEntities:   geo.Stats.OriginalEntities,
			OptimizedPolylines: geo.Stats.OptimizedPolylines,
			EntityCounts:       geo.Stats.EntityCounts,
		},
	}
	for i, p := range geo.Polylines {
		pts := make([][3]float64, len(p.Points))
		for j, v := range p.Points {
			pts[j] = [3]float64{v.X, v.Y, v.Z}
		}
		doc.Polylines[i] = jsonPolyline{Layer: p.Layer, Points: pts, Closed: p.Closed}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// sortedKeys returns m's keys in ascending order. Exposed for tests that
// want to assert entity_counts serializes deterministically.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
