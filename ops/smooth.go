package ops

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/skeleton"
	"github.com/meshkit/nmmesh/topo"
)

const smoothDegenerateEpsilon = 1e-10

// DefaultSmoothingDamping is the damping factor used when an options
// struct doesn't override it (§4.4, §6).
const DefaultSmoothingDamping = 0.5

// SmoothResult reports whether a vertex actually moved: a
// position-fixed vertex is a no-op success, not a failure.
type SmoothResult struct {
	Result
	Moved bool
}

func movedOK() SmoothResult { return SmoothResult{Result: ok(), Moved: true} }
func notMoved() SmoothResult { return SmoothResult{Result: ok(), Moved: false} }

// Smooth relocates vertex v toward the centroid of its 1-ring
// neighbors, projected onto the tangent plane of its area-weighted
// average incident-face normal, damped by blending with its current
// position (§4.4). The target is then constrained by vertex class:
// Manifold vertices take it as-is; OpenBook vertices are projected
// onto their owning skeleton segment (or, absent one, the nearest
// segment in sk); branching/other vertices never move. A candidate
// that would collapse any incident face below smoothDegenerateEpsilon
// is rejected with ErrRelocationInvalid and the vertex is left alone.
func Smooth(m *topo.Mesh, sk *skeleton.Skeleton, v topo.VertexID, damping float64) SmoothResult {
	class := m.Vertex(v).Class
	if class.IsPositionFixed() {
		return notMoved()
	}

	neighbors := m.VertexNeighbors(v)
	if len(neighbors) == 0 {
		return notMoved()
	}

	current := m.Vertex(v).Position
	centroid := nmmesh.Vector{}
	for _, n := range neighbors {
		centroid = centroid.Add(m.Vertex(n).Position)
	}
	centroid = centroid.DivScalar(float64(len(neighbors)))

	normal := faceWeightedNormal(m, v)
	target := centroid
	if normal.Mag() > 0 {
		n := normal.Unit()
		target = centroid.Sub(n.MulScalar(n.Dot(centroid.Sub(current))))
	}

	damped := current.Lerp(target, damping)

	var candidate nmmesh.Vector
	switch class {
	case topo.VertexManifold:
		candidate = damped
	case topo.VertexOpenBook:
		candidate = projectOpenBook(m, sk, v, damped)
	default:
		return notMoved()
	}

	if wouldDegenerate(m, v, candidate) {
		return SmoothResult{Result: fail(nmmesh.ErrRelocationInvalid)}
	}

	m.SetPosition(v, candidate)
	return movedOK()
}

func faceWeightedNormal(m *topo.Mesh, v topo.VertexID) nmmesh.Vector {
	sum := nmmesh.Vector{}
	for _, f := range m.VertexFaces(v) {
		sum = sum.Add(m.FaceTriangle(f).Normal())
	}
	return sum
}

func projectOpenBook(m *topo.Mesh, sk *skeleton.Skeleton, v topo.VertexID, candidate nmmesh.Vector) nmmesh.Vector {
	if sk == nil {
		return candidate
	}

	if segIdx, found := sk.SegmentFor(v); found {
		proj := sk.ProjectPointOnSegment(m, segIdx, candidate)
		return proj.Point
	}

	if proj, found := sk.ProjectPoint(m, candidate); found {
		return proj.Point
	}

	return candidate
}

func wouldDegenerate(m *topo.Mesh, v topo.VertexID, candidate nmmesh.Vector) bool {
	original := m.Vertex(v).Position

	for _, f := range m.VertexFaces(v) {
		tri := m.FaceTriangle(f)
		tri = replaceVertexInTriangle(tri, original, candidate)
		if tri.Area() < smoothDegenerateEpsilon {
			return true
		}
	}

	return false
}

func replaceVertexInTriangle(tri nmmesh.Triangle, from, to nmmesh.Vector) nmmesh.Triangle {
	if tri.P == from {
		tri.P = to
	}
	if tri.Q == from {
		tri.Q = to
	}
	if tri.R == from {
		tri.R = to
	}
	return tri
}
