// Package skeleton extracts and parameterizes the feature skeleton of
// a connectivity store (spec §3, §4.3): the union of non-manifold,
// feature and boundary edges, partitioned into segments between
// branching vertices (or closed loops that contain no branching
// vertex). Segments are derived data — they hold weak references
// (vertex/edge ids) into the topo.Mesh and are rebuilt on demand after
// any topological mutation, never owned by it.
package skeleton

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

// Segment is an ordered chain of vertices connected by skeleton edges,
// running between two branching vertices or closed into a loop.
// ArcLengths[i] is the cumulative length from Vertices[0] to
// Vertices[i]; ArcLengths[0] is always 0.
type Segment struct {
	Vertices   []topo.VertexID
	Edges      []topo.EdgeID
	ArcLengths []float64
	Closed     bool
}

// Length returns the segment's total arc length.
func (s Segment) Length() float64 {
	if len(s.ArcLengths) == 0 {
		return 0
	}
	return s.ArcLengths[len(s.ArcLengths)-1]
}

// Skeleton is the full set of segments traced from a mesh, plus a
// lookup from each interior open-book vertex to the segment it lies
// on (§4.3: "each OpenBook vertex interior to a segment maps to that
// segment; endpoints, being branching, do not").
type Skeleton struct {
	Segments []Segment
	byVertex map[topo.VertexID]int
}

// Build extracts the skeleton from m: skeleton-edge set = all edges
// with class NonManifold, Feature or Boundary (§4.3). Traces a
// segment from every branching vertex along each unvisited incident
// skeleton edge, continuing while the walk is on an open-book vertex,
// then sweeps any remaining unvisited skeleton edges as closed loops
// containing no branching vertex.
func Build(m *topo.Mesh) *Skeleton {
	visited := make(map[topo.EdgeID]bool)
	sk := &Skeleton{byVertex: make(map[topo.VertexID]int)}

	for v := 0; v < m.NumVertices(); v++ {
		vid := topo.VertexID(v)
		if !m.VertexAlive(vid) || m.Vertex(vid).Class != topo.VertexSkeletonBranching {
			continue
		}

		for _, eid := range skeletonEdges(m, vid) {
			if visited[eid] {
				continue
			}
			seg := traceFromBranch(m, vid, eid, visited)
			sk.addSegment(seg)
		}
	}

	for e := 0; e < m.NumEdges(); e++ {
		eid := topo.EdgeID(e)
		if visited[eid] || !m.EdgeAlive(eid) || !m.Edge(eid).Class.IsSkeleton() {
			continue
		}
		seg := traceClosedLoop(m, eid, visited)
		sk.addSegment(seg)
	}

	return sk
}

func (sk *Skeleton) addSegment(seg Segment) {
	idx := len(sk.Segments)
	sk.Segments = append(sk.Segments, seg)

	// Endpoints of an open segment are branching and don't map to any
	// single segment; interior vertices (and every vertex of a closed
	// loop, which has no distinguished endpoint) do.
	start, end := 0, len(seg.Vertices)
	if !seg.Closed {
		start, end = 1, len(seg.Vertices)-1
	}
	for i := start; i < end; i++ {
		sk.byVertex[seg.Vertices[i]] = idx
	}
}

// skeletonEdges returns the skeleton-classified edges incident to v.
func skeletonEdges(m *topo.Mesh, v topo.VertexID) []topo.EdgeID {
	var out []topo.EdgeID
	for _, eid := range m.VertexEdges(v) {
		if m.Edge(eid).Class.IsSkeleton() {
			out = append(out, eid)
		}
	}
	return out
}

func otherEndpoint(m *topo.Mesh, eid topo.EdgeID, v topo.VertexID) topo.VertexID {
	a, b := m.EdgeEndpoints(eid)
	if a == v {
		return b
	}
	return a
}

// traceFromBranch walks from a branching vertex along edge `start`,
// continuing through open-book vertices until it reaches another
// branching vertex or runs out of an unvisited continuation — or
// closes back on its own starting vertex, in which case the duplicate
// trailing vertex is dropped and the segment is marked closed (§4.3).
func traceFromBranch(m *topo.Mesh, origin topo.VertexID, start topo.EdgeID, visited map[topo.EdgeID]bool) Segment {
	seg := Segment{Vertices: []topo.VertexID{origin}}

	current := origin
	edge := start

	for {
		visited[edge] = true
		next := otherEndpoint(m, edge, current)
		seg.Vertices = append(seg.Vertices, next)
		seg.Edges = append(seg.Edges, edge)
		current = next

		if current == origin {
			seg.Vertices = seg.Vertices[:len(seg.Vertices)-1]
			seg.Closed = true
			break
		}

		if m.Vertex(current).Class != topo.VertexOpenBook {
			break
		}

		candidates := skeletonEdges(m, current)
		cont := topo.EdgeID(topo.None)
		for _, cand := range candidates {
			if !visited[cand] {
				cont = cand
				break
			}
		}

		if !cont.Valid() {
			break
		}
		edge = cont
	}

	computeArcLengths(m, &seg)
	return seg
}

// traceClosedLoop walks a closed skeleton loop with no branching
// vertex, starting at an arbitrary unvisited edge and continuing until
// it returns to the start.
func traceClosedLoop(m *topo.Mesh, start topo.EdgeID, visited map[topo.EdgeID]bool) Segment {
	a, _ := m.EdgeEndpoints(start)
	seg := Segment{Vertices: []topo.VertexID{a}, Closed: true}

	current := a
	edge := start

	for {
		visited[edge] = true
		next := otherEndpoint(m, edge, current)
		seg.Edges = append(seg.Edges, edge)
		current = next

		if current == a {
			break
		}
		seg.Vertices = append(seg.Vertices, current)

		cont := topo.EdgeID(topo.None)
		for _, cand := range skeletonEdges(m, current) {
			if !visited[cand] {
				cont = cand
				break
			}
		}
		if !cont.Valid() {
			break
		}
		edge = cont
	}

	computeArcLengths(m, &seg)
	return seg
}

func computeArcLengths(m *topo.Mesh, seg *Segment) {
	seg.ArcLengths = make([]float64, len(seg.Vertices))
	cumulative := 0.0

	n := len(seg.Vertices)
	limit := n - 1
	if seg.Closed {
		limit = n
	}

	for i := 0; i < limit; i++ {
		j := (i + 1) % n
		a := m.Vertex(seg.Vertices[i]).Position
		b := m.Vertex(seg.Vertices[j]).Position
		cumulative += a.Distance(b)
		if j != 0 {
			seg.ArcLengths[j] = cumulative
		}
	}

	if seg.Closed {
		// Append a synthetic closing arc length so parameterization
		// can treat the loop as a 0..1 range like an open segment.
		seg.ArcLengths = append(seg.ArcLengths, cumulative)
	}
}

// ExportLines flattens every segment edge into a line-segments
// position array, two Vectors per skeleton edge, for skeleton
// visualization in a host viewer (§6).
func (sk *Skeleton) ExportLines(m *topo.Mesh) []nmmesh.Vector {
	var out []nmmesh.Vector

	for _, seg := range sk.Segments {
		n := len(seg.Vertices)
		limit := n - 1
		if seg.Closed {
			limit = n
		}

		for i := 0; i < limit; i++ {
			j := (i + 1) % n
			a := m.Vertex(seg.Vertices[i]).Position
			b := m.Vertex(seg.Vertices[j]).Position
			out = append(out, a, b)
		}
	}

	return out
}

// Projection is the result of projecting a point onto the nearest
// skeleton-segment edge: the closest point itself, its arc-length
// parameter t in [0,1] along the owning segment, and the distance.
type Projection struct {
	Point    nmmesh.Vector
	Segment  int
	T        float64
	Distance float64
}

// ProjectPoint returns the closest point on any segment edge across
// the whole skeleton, with its arc-length parameter and distance
// (§4.3). Returns ok=false if the skeleton has no segments.
func (sk *Skeleton) ProjectPoint(m *topo.Mesh, p nmmesh.Vector) (Projection, bool) {
	best := Projection{Distance: -1}
	found := false

	for segIdx, seg := range sk.Segments {
		n := len(seg.Vertices)
		limit := n - 1
		if seg.Closed {
			limit = n
		}

		for i := 0; i < limit; i++ {
			j := (i + 1) % n
			a := m.Vertex(seg.Vertices[i]).Position
			b := m.Vertex(seg.Vertices[j]).Position

			closest, localT := closestPointOnSegment(p, a, b)
			dist := p.Distance(closest)

			if !found || dist < best.Distance {
				segLen := seg.ArcLengths[i+1] - seg.ArcLengths[i]
				t := 0.0
				if total := seg.Length(); total > 0 {
					t = (seg.ArcLengths[i] + localT*segLen) / total
				}

				best = Projection{Point: closest, Segment: segIdx, T: t, Distance: dist}
				found = true
			}
		}
	}

	return best, found
}

// ProjectPointOnSegment projects p onto one specific segment only,
// used by vertex smoothing's primary (owning-segment) projection
// before falling back to ProjectPoint across the whole skeleton (§4.4).
func (sk *Skeleton) ProjectPointOnSegment(m *topo.Mesh, segIdx int, p nmmesh.Vector) Projection {
	seg := sk.Segments[segIdx]
	n := len(seg.Vertices)
	limit := n - 1
	if seg.Closed {
		limit = n
	}

	best := Projection{Segment: segIdx, Distance: -1}

	for i := 0; i < limit; i++ {
		j := (i + 1) % n
		a := m.Vertex(seg.Vertices[i]).Position
		b := m.Vertex(seg.Vertices[j]).Position

		closest, localT := closestPointOnSegment(p, a, b)
		dist := p.Distance(closest)

		if best.Distance < 0 || dist < best.Distance {
			segLen := seg.ArcLengths[i+1] - seg.ArcLengths[i]
			t := 0.0
			if total := seg.Length(); total > 0 {
				t = (seg.ArcLengths[i] + localT*segLen) / total
			}
			best = Projection{Point: closest, Segment: segIdx, T: t, Distance: dist}
		}
	}

	return best
}

// SegmentFor returns the index of the segment a vertex lies on
// (interior to an open segment, or anywhere on a closed loop) and
// whether it was found at all — branching vertices are not interior
// to any segment (§4.3).
func (sk *Skeleton) SegmentFor(v topo.VertexID) (int, bool) {
	idx, ok := sk.byVertex[v]
	return idx, ok
}

func closestPointOnSegment(p, a, b nmmesh.Vector) (nmmesh.Vector, float64) {
	ab := b.Sub(a)
	length2 := ab.Dot(ab)
	if length2 == 0 {
		return a, 0
	}

	t := p.Sub(a).Dot(ab) / length2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return a.Add(ab.MulScalar(t)), t
}
