package entitysource

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
	"github.com/yofu/dxf/table"
	v3 "github.com/deadsy/dxf2gltf/vec/v3"
)

//-----------------------------------------------------------------------------

// acadVersionPeekLines bounds the header scan for $ACADVER per §9's "two
// parser backends" design note. With only one DXF library there is no
// backend to choose; the version found is recorded on the DXFSource and
// nothing else reads it.
const acadVersionPeekLines = 2000

// DXFSource adapts a github.com/yofu/dxf drawing into entitysource.Source.
type DXFSource struct {
	entities []*entity.Entity
	pos      int
	version  string
}

// OpenDXF opens path, peeks its $ACADVER header, and parses it via
// github.com/yofu/dxf. A single transient failure (the library surfaces
// some malformed sections as a first-read error that clears on a second
// pass) is retried once before being reported to the caller, matching the
// retry-then-fail-fatally shape of §9's two-backend design note degenerated
// to a single available backend. Unsupported entity kinds are never an
// error here; they're dropped later, per-entity, in convertEntity.
func OpenDXF(path string) (*DXFSource, error) {
	version, err := peekACADVersion(path)
	if err != nil {
		return nil, fmt.Errorf("entitysource: reading header of %s: %w", path, err)
	}

	drawing, err := dxf.Open(path)
	if err != nil {
		drawing, err = dxf.Open(path)
		if err != nil {
			return nil, fmt.Errorf("entitysource: parsing %s (retry also failed): %w", path, err)
		}
	}

	return &DXFSource{entities: drawing.Entities(), version: version}, nil
}

// Next implements Source.
func (s *DXFSource) Next() (Entity, bool, error) {
	for s.pos < len(s.entities) {
		raw := s.entities[s.pos]
		s.pos++

		e, ok := convertEntity(raw)
		if !ok {
			// Unsupported entity kind: skip rather than treating it as
			// fatal.
			continue
		}
		return e, true, nil
	}
	return Entity{}, false, nil
}

// peekACADVersion reads up to acadVersionPeekLines lines of path looking for
// the $ACADVER header variable, bounded so a pathological or binary file
// can't force an unbounded scan.
func peekACADVersion(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lines := 0
	sawMarker := false
	for scanner.Scan() && lines < acadVersionPeekLines {
		line := strings.TrimSpace(scanner.Text())
		lines++
		if sawMarker {
			return line, nil
		}
		if line == "$ACADVER" {
			sawMarker = true
		}
	}
	// No $ACADVER found within the bound is not itself an error: some
	// drawings omit it, and nothing depends on the version for
	// correctness.
	return "", nil
}

// convertEntity maps one github.com/yofu/dxf entity into the closed Entity
// sum type. The bool result is false for entity kinds outside §4.H's
// dispatch table (e.g. text, dimensions, hatches), which the preprocessor
// has no use for.
func convertEntity(raw *entity.Entity) (Entity, bool) {
	if raw == nil {
		return Entity{}, false
	}

	switch t := (*raw).(type) {
	case *entity.Line:
		return Entity{
			Layer: layerName(t),
			Kind:  KindLine,
			Start: v3.Vec{X: t.Start[0], Y: t.Start[1], Z: t.Start[2]},
			End:   v3.Vec{X: t.End[0], Y: t.End[1], Z: t.End[2]},
		}, true

	case *entity.LwPolyline:
		pts := make([]v3.Vec, len(t.Vertices))
		for i, p := range t.Vertices {
			pts[i] = v3.Vec{X: p[0], Y: p[1], Z: t.Elevation}
		}
		return Entity{
			Layer:  layerName(t),
			Kind:   KindLwPolyline,
			Points: pts,
			Closed: t.Closed,
		}, true

	case *entity.Polyline:
		pts := make([]v3.Vec, len(t.Vertices))
		for i, p := range t.Vertices {
			pts[i] = v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		return Entity{
			Layer:  layerName(t),
			Kind:   KindPolyline3D,
			Points: pts,
			Closed: t.Closed,
		}, true

	case *entity.Circle:
		return Entity{
			Layer:  layerName(t),
			Kind:   KindCircle,
			Center: v3.Vec{X: t.Center[0], Y: t.Center[1], Z: t.Center[2]},
			Radius: t.Radius,
			Normal: v3.Vec{Z: 1},
		}, true

	case *entity.Arc:
		return Entity{
			Layer:      layerName(t),
			Kind:       KindArc,
			Center:     v3.Vec{X: t.Center[0], Y: t.Center[1], Z: t.Center[2]},
			Radius:     t.Radius,
			StartAngle: t.Angle[0],
			EndAngle:   t.Angle[1],
			Normal:     v3.Vec{Z: 1},
		}, true

	case *entity.Spline:
		control := make([]v3.Vec, len(t.ControlPoints))
		for i, p := range t.ControlPoints {
			control[i] = v3.Vec{X: p[0], Y: p[1], Z: p[2]}
		}
		return Entity{
			Layer:   layerName(t),
			Kind:    KindSpline,
			Control: control,
			Degree:  t.Degree,
		}, true

	case *entity.Face3d:
		return Entity{
			Layer: layerName(t),
			Kind:  KindFace3D,
			Corners: [4]v3.Vec{
				{X: t.Points[0][0], Y: t.Points[0][1], Z: t.Points[0][2]},
				{X: t.Points[1][0], Y: t.Points[1][1], Z: t.Points[1][2]},
				{X: t.Points[2][0], Y: t.Points[2][1], Z: t.Points[2][2]},
				{X: t.Points[3][0], Y: t.Points[3][1], Z: t.Points[3][2]},
			},
		}, true

	default:
		return Entity{}, false
	}
}

// layerEntity is the subset of github.com/yofu/dxf entity behavior every
// concrete entity type shares: a reference to its owning layer.
type layerEntity interface {
	Layer() *table.Layer
}

func layerName(e interface{}) string {
	if le, ok := e.(layerEntity); ok && le.Layer() != nil {
		return le.Layer().Name
	}
	return ""
}
