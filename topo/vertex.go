package topo

import "github.com/meshkit/nmmesh"

// Vertex holds a 3D position, a weak reference to one outgoing
// halfedge (None if isolated), a classification tag and a mark flag
// (§3). No operation in this module reads or writes Marked; its
// traversals keep their visited state in side maps.
type Vertex struct {
	Position nmmesh.Vector
	Halfedge HalfedgeID
	Class    VertexClass
	Marked   bool

	alive bool
}

// IsIsolated reports whether the vertex has no outgoing halfedge.
func (v Vertex) IsIsolated() bool {
	return !v.Halfedge.Valid()
}
