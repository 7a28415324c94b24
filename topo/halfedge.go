package topo

// Halfedge is directed from an implicit source (its Prev halfedge's
// Target) to an explicit Target vertex. It carries weak references to its parent
// Edge, the Face it bounds (None if dangling), the Next/Prev halfedge
// in its face loop, and a single Twin (None if unpaired) — the twin
// slot is a partial pairing once an edge carries more than two
// halfedges (§3, §9).
type Halfedge struct {
	Target VertexID
	Edge   EdgeID
	Face   FaceID
	Next   HalfedgeID
	Prev   HalfedgeID
	Twin   HalfedgeID

	alive bool
}

// IsBoundary reports whether the halfedge has no twin.
func (h Halfedge) IsBoundary() bool {
	return !h.Twin.Valid()
}

// Source returns the implicit source vertex of a halfedge: the
// target of its predecessor in the face loop.
func (m *Mesh) Source(id HalfedgeID) VertexID {
	h := m.halfedges[id]
	return m.halfedges[h.Prev].Target
}
