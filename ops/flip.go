package ops

import (
	"math"

	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

const flipEpsilon = 1e-10

// Flippable reports whether eid satisfies the flip preconditions of
// §4.4: Manifold class (not a skeleton edge), exactly two incident
// faces, both endpoints with valence greater than one, and a convex
// quadrilateral formed by the two triangles when projected onto the
// plane of their average normal. reason is nil iff ok is true;
// otherwise it distinguishes ErrNonConvexQuad (quad test failed) from
// ErrNotFlippable (every other precondition) per §7.
func Flippable(m *topo.Mesh, eid topo.EdgeID) (a, b, c, d topo.VertexID, ok bool, reason error) {
	if !m.EdgeAlive(eid) {
		return 0, 0, 0, 0, false, nmmesh.ErrNotFlippable
	}
	if m.Edge(eid).Class != topo.EdgeManifold {
		return 0, 0, 0, 0, false, nmmesh.ErrNotFlippable
	}
	if m.Edge(eid).NumFaces() != 2 {
		return 0, 0, 0, 0, false, nmmesh.ErrNotFlippable
	}

	h0, h1 := edgeHalfedgePair(m, eid)
	va := m.Source(h0)
	vb := m.Halfedge(h0).Target
	vc := m.Halfedge(m.Halfedge(h0).Next).Target
	vd := m.Halfedge(m.Halfedge(h1).Next).Target

	if len(m.VertexNeighbors(va)) <= 1 || len(m.VertexNeighbors(vb)) <= 1 {
		return 0, 0, 0, 0, false, nmmesh.ErrNotFlippable
	}

	if !quadIsConvex(m, va, vb, vc, vd) {
		return 0, 0, 0, 0, false, nmmesh.ErrNonConvexQuad
	}

	return va, vb, vc, vd, true, nil
}

func edgeHalfedgePair(m *topo.Mesh, eid topo.EdgeID) (topo.HalfedgeID, topo.HalfedgeID) {
	halfedges := m.Edge(eid).Halfedges
	return halfedges[0], halfedges[1]
}

func quadIsConvex(m *topo.Mesh, va, vb, vc, vd topo.VertexID) bool {
	pa := m.Vertex(va).Position
	pb := m.Vertex(vb).Position
	pc := m.Vertex(vc).Position
	pd := m.Vertex(vd).Position

	n0 := nmmesh.Triangle{P: pa, Q: pb, R: pc}.Normal()
	n1 := nmmesh.Triangle{P: pb, Q: pa, R: pd}.Normal()

	avg := n0.Unit().Add(n1.Unit())
	if avg.Mag() < flipEpsilon {
		return false
	}

	return nmmesh.IsConvexQuad(pa, pc, pb, pd, avg)
}

// Flip replaces edge eid (connecting va, vb) with the diagonal between
// the two triangles' opposite vertices vc, vd (§4.4): the two
// incident faces are torn down and rebuilt as (vd, vc, va) and (vc,
// vd, vb), which keeps the new faces' counter-clockwise winding and
// reuses the same resolve-or-create-edge/twin machinery as import and
// split rather than hand-rewiring next/prev/twin fields.
func Flip(m *topo.Mesh, eid topo.EdgeID) Result {
	va, vb, vc, vd, flippable, reason := Flippable(m, eid)
	if !flippable {
		return fail(reason)
	}

	h0, h1 := edgeHalfedgePair(m, eid)
	f0 := m.Halfedge(h0).Face
	f1 := m.Halfedge(h1).Face

	m.RemoveFace(f0)
	m.RemoveFace(f1)

	m.AddFace(vd, vc, va)
	m.AddFace(vc, vd, vb)

	m.ReclassifyVertex(va)
	m.ReclassifyVertex(vb)
	m.ReclassifyVertex(vc)
	m.ReclassifyVertex(vd)

	return ok()
}

// IsDelaunay reports whether eid satisfies the local Delaunay
// condition: the sum of the two angles opposite the edge (at each
// triangle's apex vertex) is at most π (§4.4, GLOSSARY).
func IsDelaunay(m *topo.Mesh, eid topo.EdgeID) bool {
	if m.Edge(eid).NumFaces() != 2 {
		return true
	}

	h0, h1 := edgeHalfedgePair(m, eid)
	va := m.Source(h0)
	vb := m.Halfedge(h0).Target
	vc := m.Halfedge(m.Halfedge(h0).Next).Target
	vd := m.Halfedge(m.Halfedge(h1).Next).Target

	angleC := apexAngle(m, vc, va, vb)
	angleD := apexAngle(m, vd, va, vb)

	return angleC+angleD <= math.Pi+1e-9
}

func apexAngle(m *topo.Mesh, apex, a, b topo.VertexID) float64 {
	pa := m.Vertex(a).Position
	pb := m.Vertex(b).Position
	papex := m.Vertex(apex).Position

	u := pa.Sub(papex)
	v := pb.Sub(papex)

	return math.Atan2(u.Cross(v).Mag(), u.Dot(v))
}

// DelaunayPass repeatedly scans live edges, flipping any that are
// flippable and not locally Delaunay, until a full pass changes
// nothing or a cap of 10x the edge count is hit (§4.4, §9: "explicit
// caps to bound worst-case behavior"). Returns the number of flips
// performed.
func DelaunayPass(m *topo.Mesh) int {
	limit := 10 * m.NumEdges()
	total := 0

	for pass := 0; pass < limit; pass++ {
		changed := false

		for e := 0; e < m.NumEdges(); e++ {
			eid := topo.EdgeID(e)
			if !m.EdgeAlive(eid) || IsDelaunay(m, eid) {
				continue
			}

			if _, _, _, _, flippable, _ := Flippable(m, eid); !flippable {
				continue
			}

			if Flip(m, eid).Success {
				changed = true
				total++
			}

			if total >= limit {
				return total
			}
		}

		if !changed {
			break
		}
	}

	return total
}
