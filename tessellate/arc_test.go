package tessellate

import (
	"math"
	"testing"

	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

func TestQuarterArc(t *testing.T) {
	pts := Arc(ArcParams{
		Center:     v3.Vec{},
		Radius:     1,
		Start:      0,
		End:        math.Pi / 2,
		Normal:     v3.Vec{Z: 1},
		ChordError: 0.01,
		MinSegs:    8,
		MaxSegs:    128,
	})
	if len(pts) < 9 || len(pts) > 17 {
		t.Fatalf("got %d points, want between 9 and 17", len(pts))
	}
	if d := pts[0].Distance(v3.Vec{X: 1, Y: 0, Z: 0}); d > 1e-9 {
		t.Fatalf("first point %+v too far from (1,0,0): %v", pts[0], d)
	}
	last := pts[len(pts)-1]
	if d := last.Distance(v3.Vec{X: 0, Y: 1, Z: 0}); d > 1e-9 {
		t.Fatalf("last point %+v too far from (0,1,0): %v", last, d)
	}
}

func TestFullCircleMinClamp(t *testing.T) {
	pts := Arc(ArcParams{
		Center:     v3.Vec{},
		Radius:     1,
		Start:      0,
		End:        2 * math.Pi,
		Normal:     v3.Vec{Z: 1},
		ChordError: 10,
		MinSegs:    8,
		MaxSegs:    128,
	})
	if len(pts) != 9 {
		t.Fatalf("got %d points, want 9 (8 segments)", len(pts))
	}
	if d := pts[0].Distance(pts[len(pts)-1]); d > 1e-9 {
		t.Fatalf("first/last point mismatch: %v", d)
	}
}

func TestSegmentCountDegenerate(t *testing.T) {
	if got := segmentCount(math.Pi, 0, 0.01, 8, 128); got != 8 {
		t.Fatalf("radius<=0: got %d, want min=8", got)
	}
	if got := segmentCount(math.Pi, 1, 0, 8, 128); got != 8 {
		t.Fatalf("chordError<=0: got %d, want min=8", got)
	}
}

func TestArcAccuracy(t *testing.T) {
	radius := 5.0
	chordError := 0.01
	pts := Arc(ArcParams{
		Center:     v3.Vec{},
		Radius:     radius,
		Start:      0,
		End:        math.Pi,
		Normal:     v3.Vec{Z: 1},
		ChordError: chordError,
		MinSegs:    8,
		MaxSegs:    256,
	})
	// Sample the true arc at a fine resolution, checking each true-arc
	// sample is within chordError (+ numerical slack) of the nearest
	// tessellated chord.
	const samples = 400
	for i := 0; i <= samples; i++ {
		theta := math.Pi * float64(i) / float64(samples)
		truePt := v3.Vec{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
		best := math.Inf(1)
		for j := 0; j < len(pts)-1; j++ {
			d := v3.PerpendicularDistance(truePt, pts[j], pts[j+1])
			if d < best {
				best = d
			}
		}
		if best > chordError+1e-9 {
			t.Fatalf("theta=%v: nearest chord distance %v exceeds chordError %v", theta, best, chordError)
		}
	}
}

func TestEllipseFullTurn(t *testing.T) {
	pts := Ellipse(EllipseParams{
		Center:     v3.Vec{},
		Major:      3,
		Minor:      1,
		Normal:     v3.Vec{Z: 1},
		ChordError: 0.01,
		MinSegs:    8,
		MaxSegs:    128,
	})
	if d := pts[0].Distance(pts[len(pts)-1]); d > 1e-9 {
		t.Fatalf("ellipse not closed: %v", d)
	}
}
