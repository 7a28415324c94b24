package repair

import "github.com/meshkit/nmmesh/topo"

// DefaultMaxHoleSize is the default boundary-loop size above which a
// hole is left unfilled (§6).
const DefaultMaxHoleSize = 100

// HoleFiller triangulates boundary loops by ear-clipping (§4.6).
// Ear-clipping here tests area-positivity against the plain triangle
// area, without projecting the loop onto a best-fit plane first — for
// a near-planar hole this is exact, for a highly non-planar one the
// result depends on loop vertex order (§9 Open Questions).
type HoleFiller struct {
	// MaxHoleSize overrides DefaultMaxHoleSize when non-zero. Loops
	// with more boundary edges than this are skipped.
	MaxHoleSize int
}

func (HoleFiller) Name() string { return "HoleFiller" }

func (hf HoleFiller) maxHoleSize() int {
	if hf.MaxHoleSize > 0 {
		return hf.MaxHoleSize
	}
	return DefaultMaxHoleSize
}

func (hf HoleFiller) Detect(m *topo.Mesh) int {
	count := 0
	for _, loop := range boundaryLoops(m) {
		if len(loop) <= hf.maxHoleSize() {
			count++
		}
	}
	return count
}

func (hf HoleFiller) Repair(m *topo.Mesh) int {
	fixed := 0
	max := hf.maxHoleSize()

	for _, loop := range boundaryLoops(m) {
		if len(loop) > max {
			continue
		}

		verts := loopVertices(m, loop)
		// Reverse the boundary-walk direction so the filling faces'
		// winding is opposite the adjoining faces', matching their
		// orientation rather than duplicating it.
		reverseInPlace(verts)

		if earClipFill(m, verts) {
			fixed++
		}
	}

	return fixed
}

// boundaryLoops walks the mesh's boundary edges into closed polygonal
// loops (§4.6). Consecutive boundary halfedges chain head to tail —
// each loop's halfedges already form a cycle via Target/Source, the
// same 3-cycle property a lone triangle's three boundary edges show —
// so tracing one is a matter of following, from each halfedge's
// target, an unvisited boundary halfedge sourced there.
func boundaryLoops(m *topo.Mesh) [][]topo.HalfedgeID {
	bySource := make(map[topo.VertexID][]topo.HalfedgeID)

	for h := 0; h < m.NumHalfedges(); h++ {
		hid := topo.HalfedgeID(h)
		if !m.HalfedgeAlive(hid) {
			continue
		}
		eid := m.Halfedge(hid).Edge
		if m.Edge(eid).Class != topo.EdgeBoundary {
			continue
		}
		src := m.Source(hid)
		bySource[src] = append(bySource[src], hid)
	}

	visited := make(map[topo.HalfedgeID]bool)
	var loops [][]topo.HalfedgeID

	for h := 0; h < m.NumHalfedges(); h++ {
		start := topo.HalfedgeID(h)
		if !m.HalfedgeAlive(start) || visited[start] {
			continue
		}
		if m.Edge(m.Halfedge(start).Edge).Class != topo.EdgeBoundary {
			continue
		}

		var loop []topo.HalfedgeID
		current := start

		for {
			visited[current] = true
			loop = append(loop, current)
			target := m.Halfedge(current).Target

			next := topo.HalfedgeID(topo.None)
			for _, candidate := range bySource[target] {
				if !visited[candidate] {
					next = candidate
					break
				}
			}

			if !next.Valid() {
				break
			}
			current = next
			if current == start {
				break
			}
		}

		loops = append(loops, loop)
	}

	return loops
}

// loopVertices returns the source vertex of each halfedge in a
// boundary loop, in walk order.
func loopVertices(m *topo.Mesh, loop []topo.HalfedgeID) []topo.VertexID {
	verts := make([]topo.VertexID, len(loop))
	for i, hid := range loop {
		verts[i] = m.Source(hid)
	}
	return verts
}

func reverseInPlace(v []topo.VertexID) {
	for i, j := 0, len(v)-1; i < j; i, j = i+1, j-1 {
		v[i], v[j] = v[j], v[i]
	}
}

const earClipAreaEpsilon = 1e-10

// earClipFill triangulates a simple polygon by repeatedly clipping
// ears — a vertex whose triangle with its two neighbors has positive
// area and contains no other remaining loop vertex — until at most
// two vertices remain (§4.6). Returns false if the loop could not be
// fully closed (e.g. every remaining candidate is degenerate or
// non-convex under the area/containment test).
func earClipFill(m *topo.Mesh, verts []topo.VertexID) bool {
	remaining := append([]topo.VertexID(nil), verts...)
	iterLimit := len(verts)*len(verts) + 16

	for iter := 0; len(remaining) > 2 && iter < iterLimit; iter++ {
		n := len(remaining)
		clipped := false

		for i := 0; i < n; i++ {
			a := remaining[(i-1+n)%n]
			b := remaining[i]
			c := remaining[(i+1)%n]

			if !isEar(m, remaining, a, b, c) {
				continue
			}

			m.AddFace(a, b, c)
			remaining = append(append([]topo.VertexID(nil), remaining[:i]...), remaining[i+1:]...)
			clipped = true
			break
		}

		if !clipped {
			return false
		}
	}

	return len(remaining) <= 2
}

func isEar(m *topo.Mesh, loop []topo.VertexID, a, b, c topo.VertexID) bool {
	tri := m.TriangleOf(a, b, c)
	if tri.Area() < earClipAreaEpsilon {
		return false
	}

	for _, v := range loop {
		if v == a || v == b || v == c {
			continue
		}
		if tri.ContainsPoint(m.Vertex(v).Position) {
			return false
		}
	}

	return true
}
