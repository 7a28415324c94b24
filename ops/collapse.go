package ops

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

// Collapse removes edge eid by folding one endpoint onto the other,
// subject to the link condition and position-fixed precondition of
// §4.4: neither endpoint may be position-fixed if both are (the edge
// would have nowhere to go), and the intersection of the two
// endpoints' neighbor sets (excluding themselves) must not exceed the
// edge's incident-face count, or folding would pinch the surface shut
// somewhere other than at the collapsed faces.
func Collapse(m *topo.Mesh, eid topo.EdgeID) Result {
	if !m.EdgeAlive(eid) {
		return fail(nmmesh.ErrMissingNeighbor)
	}

	v0, v1 := m.EdgeEndpoints(eid)
	c0 := m.Vertex(v0).Class
	c1 := m.Vertex(v1).Class

	if c0.IsPositionFixed() && c1.IsPositionFixed() {
		return fail(nmmesh.ErrLinkConditionViolated)
	}

	if !linkConditionHolds(m, eid, v0, v1) {
		return fail(nmmesh.ErrLinkConditionViolated)
	}

	survivor, removed := chooseSurvivor(v0, c0, v1, c1)
	position := survivorPosition(m, survivor, removed)

	m.Collapse(eid, survivor)
	m.SetPosition(survivor, position)

	for _, n := range m.VertexNeighbors(survivor) {
		m.ReclassifyVertex(n)
	}
	m.ReclassifyVertex(survivor)

	return ok()
}

func linkConditionHolds(m *topo.Mesh, eid topo.EdgeID, v0, v1 topo.VertexID) bool {
	shared := m.Edge(eid).NumFaces()

	n0 := neighborSet(m, v0, v1)
	n1 := neighborSet(m, v1, v0)

	common := 0
	for v := range n0 {
		if n1[v] {
			common++
		}
	}

	return common <= shared
}

func neighborSet(m *topo.Mesh, v, exclude topo.VertexID) map[topo.VertexID]bool {
	set := make(map[topo.VertexID]bool)
	for _, n := range m.VertexNeighbors(v) {
		if n != v && n != exclude {
			set[n] = true
		}
	}
	return set
}

// chooseSurvivor picks the surviving vertex by class priority:
// Branching/Other > OpenBook > Manifold (§4.4).
func chooseSurvivor(v0 topo.VertexID, c0 topo.VertexClass, v1 topo.VertexID, c1 topo.VertexClass) (survivor, removed topo.VertexID) {
	if classRank(c0) >= classRank(c1) {
		return v0, v1
	}
	return v1, v0
}

func classRank(c topo.VertexClass) int {
	switch c {
	case topo.VertexSkeletonBranching, topo.VertexNonManifoldOther:
		return 2
	case topo.VertexOpenBook:
		return 1
	default:
		return 0
	}
}

// survivorPosition implements §4.4's rule: the survivor's own position
// if it's position-fixed; the survivor's if it is OpenBook and the
// removed vertex is Manifold; otherwise the midpoint.
func survivorPosition(m *topo.Mesh, survivor, removed topo.VertexID) nmmesh.Vector {
	sv := m.Vertex(survivor)
	rv := m.Vertex(removed)

	if sv.Class.IsPositionFixed() {
		return sv.Position
	}

	if sv.Class == topo.VertexOpenBook && rv.Class == topo.VertexManifold {
		return sv.Position
	}

	return sv.Position.Lerp(rv.Position, 0.5)
}
