package topo

import (
	"github.com/meshkit/nmmesh"
)

// Mesh is the connectivity store: four arenas (vertices, halfedges,
// edges, faces) cross-referenced exclusively by identifier, generalized
// past the classical two-face-per-edge assumption (§3, §9). Arenas
// grow monotonically; deletion tombstones a slot rather than reusing
// it, so identifiers stay unambiguous for the lifetime of the mesh
// (§5 resource policy).
type Mesh struct {
	vertices  []Vertex
	halfedges []Halfedge
	edges     []Edge
	faces     []Face

	edgeIndex map[edgeKey]EdgeID
}

// NewMesh constructs an empty connectivity store.
func NewMesh() *Mesh {
	return &Mesh{
		edgeIndex: make(map[edgeKey]EdgeID),
	}
}

// Import builds a connectivity store from a host container's
// positions and triangle indices (§4.1), optionally marking a set of
// vertex-pair edges as user feature edges. Indices must have a length
// divisible by 3 and reference valid, finite positions; otherwise the
// import fails with ErrMalformedInput.
func Import(positions []nmmesh.Vector, indices []int, featureEdges [][2]int) (*Mesh, error) {
	data := nmmesh.MeshData{Positions: positions, Indices: indices}
	if err := data.Validate(); err != nil {
		return nil, err
	}

	m := NewMesh()
	m.vertices = make([]Vertex, len(positions))

	for i, p := range positions {
		m.vertices[i] = Vertex{Position: p, Halfedge: None, alive: true}
	}

	numTriangles := len(indices) / 3
	m.halfedges = make([]Halfedge, 0, numTriangles*3)
	m.faces = make([]Face, 0, numTriangles)

	for t := 0; t < numTriangles; t++ {
		tri := [3]VertexID{
			VertexID(indices[3*t]),
			VertexID(indices[3*t+1]),
			VertexID(indices[3*t+2]),
		}
		m.appendTriangleFace(tri)
	}

	for _, pair := range featureEdges {
		if id, ok := m.edgeIndex[makeEdgeKey(VertexID(pair[0]), VertexID(pair[1]))]; ok {
			m.edges[id].marked = true
		}
	}

	m.assignTwins()
	m.ReclassifyAll()
	m.RecomputeEdgeLengths()

	return m, nil
}

// appendTriangleFace creates one triangular face from three existing
// vertices, wiring its halfedges into a 3-cycle and resolving each
// side's undirected edge (§4.1 step 2). Twin assignment is deferred
// to assignTwins so construction can proceed edge-by-edge without
// assuming a fixed visitation order.
func (m *Mesh) appendTriangleFace(tri [3]VertexID) FaceID {
	faceID := FaceID(len(m.faces))
	base := HalfedgeID(len(m.halfedges))

	m.faces = append(m.faces, Face{Halfedge: base, alive: true})

	for j := 0; j < 3; j++ {
		next := base + HalfedgeID((j+1)%3)
		prev := base + HalfedgeID((j+2)%3)

		m.halfedges = append(m.halfedges, Halfedge{
			Target: tri[(j+1)%3],
			Face:   faceID,
			Next:   next,
			Prev:   prev,
			Twin:   None,
			alive:  true,
		})

		hid := base + HalfedgeID(j)
		eid := m.resolveOrCreateEdge(tri[j], tri[(j+1)%3])
		m.halfedges[hid].Edge = eid
		m.edges[eid].Halfedges = append(m.edges[eid].Halfedges, hid)
		m.edges[eid].Representative = hid

		if v := &m.vertices[tri[j]]; !v.Halfedge.Valid() {
			v.Halfedge = hid
		}
	}

	return faceID
}

// resolveOrCreateEdge looks up the undirected edge for vertex pair
// (a, b), creating it if this is the first halfedge to reference it.
func (m *Mesh) resolveOrCreateEdge(a, b VertexID) EdgeID {
	key := makeEdgeKey(a, b)

	if id, ok := m.edgeIndex[key]; ok {
		return id
	}

	id := EdgeID(len(m.edges))
	m.edges = append(m.edges, Edge{
		Halfedges: make([]HalfedgeID, 0, 2),
		alive:     true,
	})
	m.edgeIndex[key] = id
	return id
}

// assignTwins partitions each edge's halfedges into two direction
// bags and pairs them positionally (§4.1 step 3, §9): an edge with one
// halfedge stays boundary (twin None); with two, they become mutual
// twins; with more than two, halfedges are bucketed by which of the
// edge's two canonical endpoints they point toward, then paired off in
// bucket order, leaving any excess in the larger bucket without a twin.
func (m *Mesh) assignTwins() {
	for id := range m.edges {
		m.assignEdgeTwins(EdgeID(id))
	}
}

func (m *Mesh) assignEdgeTwins(id EdgeID) {
	e := &m.edges[id]

	if len(e.Halfedges) < 2 {
		return
	}

	if len(e.Halfedges) == 2 {
		a, b := e.Halfedges[0], e.Halfedges[1]
		m.halfedges[a].Twin = b
		m.halfedges[b].Twin = a
		return
	}

	v0, _ := m.EdgeEndpoints(id)

	var toward0, toward1 []HalfedgeID

	for _, hid := range e.Halfedges {
		if m.halfedges[hid].Target == v0 {
			toward0 = append(toward0, hid)
		} else {
			toward1 = append(toward1, hid)
		}
	}

	n := min(len(toward0), len(toward1))

	for i := 0; i < n; i++ {
		a, b := toward0[i], toward1[i]
		m.halfedges[a].Twin = b
		m.halfedges[b].Twin = a
	}
}

// --- Accessors ---

func (m *Mesh) NumVertices() int   { return len(m.vertices) }
func (m *Mesh) NumHalfedges() int  { return len(m.halfedges) }
func (m *Mesh) NumEdges() int      { return len(m.edges) }
func (m *Mesh) NumFaces() int      { return len(m.faces) }

func (m *Mesh) Vertex(id VertexID) *Vertex     { return &m.vertices[id] }
func (m *Mesh) Halfedge(id HalfedgeID) *Halfedge { return &m.halfedges[id] }
func (m *Mesh) Edge(id EdgeID) *Edge           { return &m.edges[id] }
func (m *Mesh) Face(id FaceID) *Face           { return &m.faces[id] }

// VertexAlive, EdgeAlive, FaceAlive, HalfedgeAlive report whether an
// id still refers to a live element (not removed by an operator).
func (m *Mesh) VertexAlive(id VertexID) bool     { return id.Valid() && m.vertices[id].alive }
func (m *Mesh) EdgeAlive(id EdgeID) bool         { return id.Valid() && m.edges[id].alive }
func (m *Mesh) FaceAlive(id FaceID) bool         { return id.Valid() && m.faces[id].alive }
func (m *Mesh) HalfedgeAlive(id HalfedgeID) bool { return id.Valid() && m.halfedges[id].alive }

// FaceHalfedges returns the (exactly three) halfedges bounding a face,
// in loop order starting from its representative.
func (m *Mesh) FaceHalfedges(id FaceID) []HalfedgeID {
	start := m.faces[id].Halfedge
	result := make([]HalfedgeID, 0, 3)
	current := start

	for {
		result = append(result, current)
		current = m.halfedges[current].Next

		if current == start {
			break
		}
	}

	return result
}

// FaceVertices returns a face's three vertices in winding order.
func (m *Mesh) FaceVertices(id FaceID) []VertexID {
	halfedges := m.FaceHalfedges(id)
	vertices := make([]VertexID, len(halfedges))

	for i, hid := range halfedges {
		vertices[i] = m.Source(hid)
	}

	return vertices
}

// FaceTriangle returns the geometric triangle for a face.
func (m *Mesh) FaceTriangle(id FaceID) nmmesh.Triangle {
	v := m.FaceVertices(id)
	return nmmesh.Triangle{
		P: m.vertices[v[0]].Position,
		Q: m.vertices[v[1]].Position,
		R: m.vertices[v[2]].Position,
	}
}

// TriangleOf returns the geometric triangle for an arbitrary vertex
// triple, independent of whether a face currently joins them — used
// by ear-clipping to test candidate ears before a face exists (§4.6).
func (m *Mesh) TriangleOf(a, b, c VertexID) nmmesh.Triangle {
	return nmmesh.Triangle{
		P: m.vertices[a].Position,
		Q: m.vertices[b].Position,
		R: m.vertices[c].Position,
	}
}

// VertexOutgoingHalfedges scans the halfedge arena for every live
// halfedge whose implicit source is v. A full scan is used rather than
// twin-chasing because non-manifold edges only pair halfedges
// partially, so no single traversal order is guaranteed to visit them
// all (§9).
func (m *Mesh) VertexOutgoingHalfedges(v VertexID) []HalfedgeID {
	var result []HalfedgeID

	for id := range m.halfedges {
		h := &m.halfedges[id]
		if !h.alive {
			continue
		}
		if m.halfedges[h.Prev].Target == v {
			result = append(result, HalfedgeID(id))
		}
	}

	return result
}

// VertexEdges returns the distinct edges incident to v.
func (m *Mesh) VertexEdges(v VertexID) []EdgeID {
	var result []EdgeID
	seen := make(map[EdgeID]bool)

	for id := range m.edges {
		e := &m.edges[id]
		if !e.alive {
			continue
		}

		a, b := m.EdgeEndpoints(EdgeID(id))
		if (a == v || b == v) && !seen[EdgeID(id)] {
			seen[EdgeID(id)] = true
			result = append(result, EdgeID(id))
		}
	}

	return result
}

// VertexNeighbors returns the distinct vertices adjacent to v via an edge.
func (m *Mesh) VertexNeighbors(v VertexID) []VertexID {
	var result []VertexID

	for _, eid := range m.VertexEdges(v) {
		a, b := m.EdgeEndpoints(eid)
		if a == v {
			result = append(result, b)
		} else {
			result = append(result, a)
		}
	}

	return result
}

// VertexFaces returns the distinct faces incident to v.
func (m *Mesh) VertexFaces(v VertexID) []FaceID {
	var result []FaceID
	seen := make(map[FaceID]bool)

	for _, hid := range m.VertexOutgoingHalfedges(v) {
		f := m.halfedges[hid].Face
		if f.Valid() && !seen[f] {
			seen[f] = true
			result = append(result, f)
		}
	}

	return result
}

// EdgeLength recomputes and caches the intrinsic length of an edge.
func (m *Mesh) EdgeLength(id EdgeID) float64 {
	a, b := m.EdgeEndpoints(id)
	length := m.vertices[a].Position.Distance(m.vertices[b].Position)
	m.edges[id].Length = length
	return length
}

// RecomputeEdgeLengths recomputes cached lengths for every live edge,
// e.g. after import or after any operator that moves a vertex.
func (m *Mesh) RecomputeEdgeLengths() {
	for id := range m.edges {
		if m.edges[id].alive {
			m.EdgeLength(EdgeID(id))
		}
	}
}

// SetPosition relocates a vertex and refreshes its incident edge
// lengths.
func (m *Mesh) SetPosition(id VertexID, p nmmesh.Vector) {
	m.vertices[id].Position = p
	for _, eid := range m.VertexEdges(id) {
		m.EdgeLength(eid)
	}
}

// EdgeKeyVertices exposes the canonical (v0, v1) ordering used to
// bucket a non-manifold edge's halfedges by direction (§9's note that
// twin pairing is positional and depends on deterministic input
// order).
func (m *Mesh) EdgeKeyVertices(id EdgeID) (VertexID, VertexID) {
	return m.EdgeEndpoints(id)
}

// MeanEdgeLength returns the mean cached length over all live edges,
// used by the non-manifold-edge repair's "auto" strategy (§4.6).
func (m *Mesh) MeanEdgeLength() float64 {
	var sum float64
	var n int

	for id := range m.edges {
		if m.edges[id].alive {
			sum += m.edges[id].Length
			n++
		}
	}

	if n == 0 {
		return 0
	}

	return sum / float64(n)
}
