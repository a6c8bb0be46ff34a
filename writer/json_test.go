package writer

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/deadsy/dxf2gltf/geometry"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

func sampleGeometry() geometry.OptimizedGeometry {
	return geometry.OptimizedGeometry{
		Polylines: []geometry.Polyline{
			{Layer: "outline", Points: []v3.Vec{{X: 0}, {X: 1}}, Closed: false},
		},
		Stats: geometry.GeometryStats{
			OriginalVertices:   100,
			OptimizedVertices:  40,
			OriginalEntities:   10,
			OptimizedPolylines: 1,
			EntityCounts:       map[string]int{"Spline": 2, "Arc": 5, "Line": 3},
		},
	}
}

func TestWriteJSONFieldNamesAreSnakeCase(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleGeometry()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`"original_vertices"`, `"optimized_vertices"`, `"reduction_percent"`,
		`"original_entities"`, `"optimized_polylines"`, `"entity_counts"`, `"closed"`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing field %s:\n%s", want, out)
		}
	}
}

func TestWriteJSONReductionPercentRounded(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleGeometry()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	stats := doc["stats"].(map[string]interface{})
	if stats["reduction_percent"] != 60.0 {
		t.Fatalf("got reduction_percent=%v, want 60", stats["reduction_percent"])
	}
}

func TestWriteJSONIsIdempotentAcrossRuns(t *testing.T) {
	geo := sampleGeometry()
	var a, b bytes.Buffer
	if err := WriteJSON(&a, geo); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := WriteJSON(&b, geo); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if a.String() != b.String() {
		t.Fatal("two encodings of the same geometry were not byte-identical")
	}
}

func TestSortedKeysDeterministic(t *testing.T) {
	keys := sortedKeys(map[string]int{"c": 1, "a": 2, "b": 3})
	want := []string{"a", "b", "c"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("got %v, want %v", keys, want)
		}
	}
}
