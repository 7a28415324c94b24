package repair

import "github.com/meshkit/nmmesh/topo"

// IsolatedVertex erases vertices with no outgoing halfedge (§4.6).
type IsolatedVertex struct{}

func (IsolatedVertex) Name() string { return "IsolatedVertex" }

func (IsolatedVertex) Detect(m *topo.Mesh) int {
	return len(isolatedVertices(m))
}

func (IsolatedVertex) Repair(m *topo.Mesh) int {
	targets := isolatedVertices(m)
	for _, v := range targets {
		m.RemoveVertex(v)
	}
	return len(targets)
}

func isolatedVertices(m *topo.Mesh) []topo.VertexID {
	var found []topo.VertexID
	for v := 0; v < m.NumVertices(); v++ {
		vid := topo.VertexID(v)
		if m.VertexAlive(vid) && m.Vertex(vid).IsIsolated() {
			found = append(found, vid)
		}
	}
	return found
}
