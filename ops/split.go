package ops

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

// SplitResult carries the outcome of Split, plus the new vertex on
// success.
type SplitResult struct {
	Result
	Vertex topo.VertexID
}

// Split inserts a new vertex at lerp(v0, v1, t) on edge eid and, for
// every face incident to the edge, subdivides it into two triangles
// joining the new vertex to that face's opposite vertex (§4.4). The
// edge's classification (including a user-marked feature flag) is
// inherited by both resulting half-edges; affected vertices are
// reclassified.
func Split(m *topo.Mesh, eid topo.EdgeID, t float64) SplitResult {
	if !m.EdgeAlive(eid) {
		return SplitResult{Result: fail(nmmesh.ErrMissingNeighbor)}
	}

	v0, v1 := m.EdgeEndpoints(eid)
	p0 := m.Vertex(v0).Position
	p1 := m.Vertex(v1).Position
	wasFeature := m.EdgeIsFeature(eid)

	vm := m.AddVertex(p0.Lerp(p1, t))

	type incidentFace struct {
		src, tgt, opp topo.VertexID
	}

	halfedges := append([]topo.HalfedgeID(nil), m.Edge(eid).Halfedges...)
	faces := make([]incidentFace, 0, len(halfedges))
	touched := map[topo.VertexID]bool{v0: true, v1: true, vm: true}

	for _, hid := range halfedges {
		h := m.Halfedge(hid)
		src := m.Source(hid)
		tgt := h.Target
		opp := m.Halfedge(h.Next).Target
		faces = append(faces, incidentFace{src, tgt, opp})
		touched[opp] = true
	}

	for _, hid := range halfedges {
		m.RemoveFace(m.Halfedge(hid).Face)
	}

	for _, f := range faces {
		m.AddFace(f.src, vm, f.opp)
		m.AddFace(vm, f.tgt, f.opp)
	}

	if wasFeature {
		if e1, ok := m.FindEdge(v0, vm); ok {
			m.MarkFeature(e1)
		}
		if e2, ok := m.FindEdge(vm, v1); ok {
			m.MarkFeature(e2)
		}
	}

	for v := range touched {
		m.ReclassifyVertex(v)
	}

	return SplitResult{Result: ok(), Vertex: vm}
}
