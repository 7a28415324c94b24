// Package topo implements the connectivity store: a halfedge-style
// mesh representation generalized past the classical two-face-per-edge
// assumption, plus the classifier and topology validator that operate
// over it.
package topo

// VertexID, HalfedgeID, EdgeID and FaceID are opaque arena indices.
// They are distinct types so a caller cannot accidentally pass a
// FaceID where a VertexID is expected; None is the sentinel for "no
// such element" (an isolated vertex's halfedge, a dangling halfedge's
// face, a halfedge with no twin).
type (
	VertexID   int
	HalfedgeID int
	EdgeID     int
	FaceID     int
)

// None is the sentinel value for an absent weak reference.
const None = -1

// Valid reports whether the id refers to an actual arena slot.
func (id VertexID) Valid() bool   { return id >= 0 }
func (id HalfedgeID) Valid() bool { return id >= 0 }
func (id EdgeID) Valid() bool     { return id >= 0 }
func (id FaceID) Valid() bool     { return id >= 0 }
