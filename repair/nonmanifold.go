package repair

import "github.com/meshkit/nmmesh/topo"

// NonManifoldStrategy selects how NonManifoldEdge resolves an edge
// with more than two incident faces (§4.6).
type NonManifoldStrategy int

const (
	// StrategyAuto splits if the edge is longer than the mesh's mean
	// edge length, otherwise collapses (§4.6).
	StrategyAuto NonManifoldStrategy = iota
	// StrategySplit duplicates a shared vertex per extra incident
	// face and rebuilds that face with the duplicate.
	StrategySplit
	// StrategyCollapse deletes the extra incident faces outright.
	StrategyCollapse
)

// NonManifoldEdge resolves edges with more than two incident faces
// down to a manifold or boundary edge (§4.6). Which endpoint gets
// duplicated under StrategySplit is the one arbitrary choice the spec
// leaves open (§9); this always duplicates the halfedge's target, a
// consistent and deterministic pick given the edge's halfedge order.
type NonManifoldEdge struct {
	Strategy NonManifoldStrategy
}

func (NonManifoldEdge) Name() string { return "NonManifoldEdge" }

func (n NonManifoldEdge) Detect(m *topo.Mesh) int {
	return len(nonManifoldEdges(m))
}

func (n NonManifoldEdge) Repair(m *topo.Mesh) int {
	targets := nonManifoldEdges(m)
	fixed := 0

	for _, eid := range targets {
		if !m.EdgeAlive(eid) {
			continue
		}
		n.resolve(m, eid)
		fixed++
	}

	return fixed
}

func nonManifoldEdges(m *topo.Mesh) []topo.EdgeID {
	var found []topo.EdgeID
	for e := 0; e < m.NumEdges(); e++ {
		eid := topo.EdgeID(e)
		if m.EdgeAlive(eid) && m.Edge(eid).Class == topo.EdgeNonManifold {
			found = append(found, eid)
		}
	}
	return found
}

func (n NonManifoldEdge) resolve(m *topo.Mesh, eid topo.EdgeID) {
	strategy := n.Strategy

	if strategy == StrategyAuto {
		if m.EdgeLength(eid) > m.MeanEdgeLength() {
			strategy = StrategySplit
		} else {
			strategy = StrategyCollapse
		}
	}

	if strategy == StrategySplit {
		splitExtraIncidentFaces(m, eid)
	} else {
		collapseExtraIncidentFaces(m, eid)
	}
}

// splitExtraIncidentFaces peels faces off the back of the edge's
// halfedge list one at a time, duplicating the peeled halfedge's
// target vertex and rebuilding that face on the duplicate — moving it
// onto a fresh edge with one fewer incident face — until only two
// halfedges remain on the original edge.
func splitExtraIncidentFaces(m *topo.Mesh, eid topo.EdgeID) {
	for m.EdgeAlive(eid) && m.Edge(eid).NumFaces() > 2 {
		halfedges := m.Edge(eid).Halfedges
		hid := halfedges[len(halfedges)-1]
		h := m.Halfedge(hid)

		face := h.Face
		src := m.Source(hid)
		tgt := h.Target
		opp := m.Halfedge(h.Next).Target

		dup := m.AddVertex(m.Vertex(tgt).Position)

		m.RemoveFace(face)
		m.AddFace(src, dup, opp)

		m.ReclassifyVertex(src)
		m.ReclassifyVertex(dup)
		m.ReclassifyVertex(opp)
		m.ReclassifyVertex(tgt)
	}
}

// collapseExtraIncidentFaces deletes faces off the back of the edge's
// halfedge list until only two remain.
func collapseExtraIncidentFaces(m *topo.Mesh, eid topo.EdgeID) {
	for m.EdgeAlive(eid) && m.Edge(eid).NumFaces() > 2 {
		halfedges := m.Edge(eid).Halfedges
		hid := halfedges[len(halfedges)-1]
		face := m.Halfedge(hid).Face
		touched := m.FaceVertices(face)

		m.RemoveFace(face)

		for _, v := range touched {
			m.ReclassifyVertex(v)
		}
	}
}
