package repair

import "github.com/meshkit/nmmesh/topo"

// NormalUnifier makes face orientation consistent across the mesh by
// BFS flood from a seed face per connected component, comparing
// directions across each shared manifold edge, then reversing the
// winding of every face found inconsistent with its seed (§4.6).
type NormalUnifier struct{}

func (NormalUnifier) Name() string { return "NormalUnifier" }

func (NormalUnifier) Detect(m *topo.Mesh) int {
	return len(inconsistentFaces(m))
}

func (NormalUnifier) Repair(m *topo.Mesh) int {
	targets := inconsistentFaces(m)

	for _, fid := range targets {
		verts := m.FaceVertices(fid)
		m.RemoveFace(fid)
		m.AddFace(verts[0], verts[2], verts[1])
	}

	return len(targets)
}

// inconsistentFaces floods every connected component from an
// arbitrary seed face, assigning each reached face a sign relative to
// the seed: crossing a shared edge whose two halfedges target the
// same vertex (traveling the same direction rather than opposite)
// flips the sign. Faces that end up with a negative sign disagree
// with their component's seed and are the ones Repair reverses.
func inconsistentFaces(m *topo.Mesh) []topo.FaceID {
	visited := make(map[topo.FaceID]bool)
	var flipped []topo.FaceID

	limit := 10*m.NumFaces() + 16

	for f := 0; f < m.NumFaces(); f++ {
		seed := topo.FaceID(f)
		if !m.FaceAlive(seed) || visited[seed] {
			continue
		}

		sign := map[topo.FaceID]int{seed: 1}
		queue := []topo.FaceID{seed}
		visited[seed] = true
		steps := 0

		for len(queue) > 0 && steps < limit {
			steps++
			cur := queue[0]
			queue = queue[1:]

			for _, hid := range m.FaceHalfedges(cur) {
				h := m.Halfedge(hid)
				if m.Edge(h.Edge).NumFaces() != 2 {
					continue
				}

				for _, other := range m.Edge(h.Edge).Halfedges {
					if other == hid {
						continue
					}
					otherFace := m.Halfedge(other).Face
					if !otherFace.Valid() || visited[otherFace] {
						continue
					}

					want := sign[cur]
					if h.Target == m.Halfedge(other).Target {
						want = -want
					}

					visited[otherFace] = true
					sign[otherFace] = want
					queue = append(queue, otherFace)
				}
			}
		}

		for fid, s := range sign {
			if s < 0 {
				flipped = append(flipped, fid)
			}
		}
	}

	return flipped
}
