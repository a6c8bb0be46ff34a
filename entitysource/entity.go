// Package entitysource defines the closed entity sum type the preprocessor
// dispatches on, and the Source iterator contract an adapter must satisfy.
// The preprocessor is agnostic to where entities come from; entitysource/dxf.go
// is one concrete adapter, built on a DXF parsing library, but any adapter
// producing the same Entity values works equally well.
package entitysource

import v3 "github.com/deadsy/dxf2gltf/vec/v3"

//-----------------------------------------------------------------------------

// Kind identifies which fields of an Entity are meaningful. Entity is a
// closed sum type (the distilled design's dynamic OfType<T> dispatch,
// realized here as an exhaustive switch over Kind) rather than an open
// interface, so the preprocessor's dispatch table can be exhaustive and
// adapters cannot introduce a kind the core doesn't know how to handle.
type Kind int

const (
	KindLine Kind = iota
	KindLwPolyline
	KindPolyline3D
	KindArc
	KindCircle
	KindEllipse
	KindSpline
	KindFace3D
	KindMesh
)

func (k Kind) String() string {
	switch k {
	case KindLine:
		return "Line"
	case KindLwPolyline:
		return "LwPolyline"
	case KindPolyline3D:
		return "Polyline"
	case KindArc:
		return "Arc"
	case KindCircle:
		return "Circle"
	case KindEllipse:
		return "Ellipse"
	case KindSpline:
		return "Spline"
	case KindFace3D:
		return "3DFace"
	case KindMesh:
		return "Mesh"
	default:
		return "Unknown"
	}
}

// Entity is a single CAD primitive. Only the fields relevant to Kind are
// populated; the rest are left zero. Layer applies to every kind.
type Entity struct {
	Layer string
	Kind  Kind

	// Line: two endpoints.
	Start, End v3.Vec

	// LwPolyline / Polyline3D: ordered vertices and closure flag.
	Points []v3.Vec
	Closed bool

	// Arc / Circle / Ellipse: center, plane normal, sweep (arc only), and
	// ellipse-only major/minor/rotation. Circle/Ellipse ignore StartAngle
	// and EndAngle (always a full turn).
	Center     v3.Vec
	Normal     v3.Vec
	Radius     float64
	StartAngle float64
	EndAngle   float64
	Major      float64
	Minor      float64
	Rotation   float64

	// Spline: control points and curve degree.
	Control []v3.Vec
	Degree  int

	// Face3D: up to 4 corners; a triangular face repeats its last corner.
	Corners [4]v3.Vec

	// Mesh (PolyfaceMesh / mesh-bearing entity): already-triangulated
	// vertices and indices, as handed off by the parser per §6.
	Vertices        []v3.Vec
	TriangleIndices []uint32
}

// Source is an abstract iterator over a parsed CAD entity set. Next returns
// (entity, true, nil) while entities remain, (zero, false, nil) at the end,
// and (zero, false, err) on an unrecoverable parse error.
type Source interface {
	Next() (Entity, bool, error)
}
