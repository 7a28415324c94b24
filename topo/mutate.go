package topo

import "github.com/meshkit/nmmesh"

// AddVertex appends a new vertex at the given position and returns its
// id (used by edge split, §4.4).
func (m *Mesh) AddVertex(p nmmesh.Vector) VertexID {
	id := VertexID(len(m.vertices))
	m.vertices = append(m.vertices, Vertex{Position: p, Halfedge: None, alive: true})
	return id
}

// AddFace creates a new triangular face from three existing vertices,
// wiring its halfedges and resolving/creating the three undirected
// edges, then reassigns twins for each touched edge. Used by split
// (subdividing a face) and hole filling (ear-clip triangulation).
func (m *Mesh) AddFace(a, b, c VertexID) FaceID {
	id := m.appendTriangleFace([3]VertexID{a, b, c})

	for _, hid := range m.FaceHalfedges(id) {
		eid := m.halfedges[hid].Edge
		m.assignEdgeTwins(eid)
		m.EdgeLength(eid)
		m.ReclassifyEdge(eid)
	}

	return id
}

// RemoveFace detaches a face's three halfedges from their edges and
// tombstones the face and its halfedges. Any edge left with no
// remaining halfedges is tombstoned too. A vertex whose representative
// halfedge was removed is repointed to another of its remaining
// outgoing halfedges, or to None if it became isolated.
func (m *Mesh) RemoveFace(id FaceID) {
	halfedges := m.FaceHalfedges(id)
	touchedVertices := make(map[VertexID]bool)

	for _, hid := range halfedges {
		h := &m.halfedges[hid]
		eid := h.Edge

		touchedVertices[m.Source(hid)] = true
		touchedVertices[h.Target] = true

		if h.Twin.Valid() {
			m.halfedges[h.Twin].Twin = None
		}

		m.detachHalfedgeFromEdge(hid, eid)
		h.alive = false
	}

	m.faces[id].alive = false

	for v := range touchedVertices {
		m.fixVertexHalfedge(v)
	}
}

// detachHalfedgeFromEdge removes hid from edge eid's halfedge list,
// tombstoning the edge if it becomes empty, and otherwise fixing up
// its representative and reassigning twins.
func (m *Mesh) detachHalfedgeFromEdge(hid HalfedgeID, eid EdgeID) {
	e := &m.edges[eid]
	repHid := e.Representative
	a := m.halfedges[m.halfedges[repHid].Prev].Target
	b := m.halfedges[repHid].Target

	filtered := e.Halfedges[:0]

	for _, id := range e.Halfedges {
		if id != hid {
			filtered = append(filtered, id)
		}
	}

	e.Halfedges = filtered

	if len(e.Halfedges) == 0 {
		e.alive = false
		delete(m.edgeIndex, makeEdgeKey(a, b))
		return
	}

	if e.Representative == hid {
		e.Representative = e.Halfedges[0]
	}

	for _, id := range e.Halfedges {
		m.halfedges[id].Twin = None
	}

	m.assignEdgeTwins(eid)
	m.ReclassifyEdge(eid)
}

// fixVertexHalfedge repoints v's representative outgoing halfedge
// after a mutation, or clears it (None) if v became isolated.
func (m *Mesh) fixVertexHalfedge(v VertexID) {
	if !m.vertices[v].alive {
		return
	}

	outgoing := m.VertexOutgoingHalfedges(v)

	if len(outgoing) == 0 {
		m.vertices[v].Halfedge = None
		return
	}

	m.vertices[v].Halfedge = outgoing[0]
}

// RemoveVertex tombstones an isolated vertex (§4.6 IsolatedVertex repair).
func (m *Mesh) RemoveVertex(id VertexID) {
	m.vertices[id].alive = false
}

// RedirectHalfedgeTargets rewrites every halfedge currently targeting
// `from` to target `to` instead, used by edge collapse (§4.4) to fold
// the removed vertex's incident halfedges onto the surviving vertex.
func (m *Mesh) RedirectHalfedgeTargets(from, to VertexID) {
	for id := range m.halfedges {
		h := &m.halfedges[id]
		if h.alive && h.Target == from {
			h.Target = to
		}
	}
}

// RewireHalfedge overwrites a halfedge's Target/Next/Prev/Face in one
// step.
func (m *Mesh) RewireHalfedge(id HalfedgeID, target VertexID, next, prev HalfedgeID, face FaceID) {
	h := &m.halfedges[id]
	h.Target = target
	h.Next = next
	h.Prev = prev
	h.Face = face
}

// SetFaceRepresentative sets a face's representative halfedge.
func (m *Mesh) SetFaceRepresentative(id FaceID, hid HalfedgeID) {
	m.faces[id].Halfedge = hid
}

// SetVertexHalfedge sets a vertex's representative outgoing halfedge.
func (m *Mesh) SetVertexHalfedge(id VertexID, hid HalfedgeID) {
	m.vertices[id].Halfedge = hid
}

// RebindEdge replaces eid's halfedge list wholesale and reassigns
// twins/classification/length for it.
func (m *Mesh) RebindEdge(eid EdgeID, halfedges []HalfedgeID) {
	e := &m.edges[eid]
	e.Halfedges = halfedges
	e.Representative = halfedges[0]

	for _, id := range halfedges {
		m.halfedges[id].Edge = eid
		m.halfedges[id].Twin = None
	}

	m.assignEdgeTwins(eid)
	m.EdgeLength(eid)
	m.ReclassifyEdge(eid)
}

// MarkFeature marks an edge as a user feature edge (only takes effect
// while the edge is Manifold — Feature dominates Manifold, but a
// NonManifold or Boundary edge's class is unaffected per §3).
func (m *Mesh) MarkFeature(id EdgeID) {
	m.edges[id].marked = true
	m.ReclassifyEdge(id)
}

// RemoveEdgeIfOrphaned tombstones an edge that has no remaining
// halfedges.
func (m *Mesh) RemoveEdgeIfOrphaned(id EdgeID) {
	if len(m.edges[id].Halfedges) == 0 {
		m.edges[id].alive = false
	}
}

// DeleteEdgeKey removes an edge's lookup-table entry so a later
// operator reusing the same vertex pair allocates a fresh edge rather
// than resurrecting the tombstoned one.
func (m *Mesh) DeleteEdgeKey(a, b VertexID) {
	delete(m.edgeIndex, makeEdgeKey(a, b))
}

// Collapse folds `removed` onto `survivor` across edge eid (§4.4): the
// one or two faces shared by both endpoints are erased, every other
// halfedge that targeted `removed` is redirected to `survivor`, and
// `removed` is tombstoned. The edge-lookup table is remapped so every
// edge that used to connect `removed` to some third vertex now
// resolves under (survivor, third) — required for AddFace/split to
// keep finding the right edge afterward instead of fabricating a
// duplicate. Reclassification of the survivor and its new neighbors is
// the caller's responsibility (ops.Collapse does it after setting the
// survivor's final position).
func (m *Mesh) Collapse(eid EdgeID, survivor VertexID) {
	v0, v1 := m.EdgeEndpoints(eid)
	removed := v0
	if survivor == v0 {
		removed = v1
	}

	otherEdges := m.VertexEdges(removed)
	for _, oeid := range otherEdges {
		if oeid == eid {
			continue
		}
		a, b := m.EdgeEndpoints(oeid)
		other := a
		if a == removed {
			other = b
		}
		delete(m.edgeIndex, makeEdgeKey(removed, other))
		m.edgeIndex[makeEdgeKey(survivor, other)] = oeid
	}

	m.RedirectHalfedgeTargets(removed, survivor)

	for _, hid := range append([]HalfedgeID(nil), m.edges[eid].Halfedges...) {
		m.RemoveFace(m.halfedges[hid].Face)
	}

	delete(m.edgeIndex, makeEdgeKey(v0, v1))
	m.RemoveVertex(removed)
	m.fixVertexHalfedge(survivor)
}
