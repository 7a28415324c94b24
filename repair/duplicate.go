package repair

import "github.com/meshkit/nmmesh/topo"

// DuplicateFace keeps one face among every group that shares the same
// canonical sorted vertex-ID triple, erasing the rest (§4.6).
type DuplicateFace struct{}

func (DuplicateFace) Name() string { return "DuplicateFace" }

func (DuplicateFace) Detect(m *topo.Mesh) int {
	_, extras := duplicateGroups(m)
	return extras
}

func (DuplicateFace) Repair(m *topo.Mesh) int {
	groups, _ := duplicateGroups(m)
	fixed := 0

	for _, faces := range groups {
		for _, f := range faces[1:] {
			m.RemoveFace(f)
			fixed++
		}
	}

	return fixed
}

type faceKey [3]topo.VertexID

func canonicalFaceKey(verts []topo.VertexID) faceKey {
	k := faceKey{verts[0], verts[1], verts[2]}
	// insertion sort over three elements
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	if k[1] > k[2] {
		k[1], k[2] = k[2], k[1]
	}
	if k[0] > k[1] {
		k[0], k[1] = k[1], k[0]
	}
	return k
}

// duplicateGroups returns, for every canonical key shared by two or
// more faces, the list of faces in discovery order, plus the total
// count of "extra" (i.e. removable) faces across all groups.
func duplicateGroups(m *topo.Mesh) (map[faceKey][]topo.FaceID, int) {
	seen := make(map[faceKey][]topo.FaceID)

	for f := 0; f < m.NumFaces(); f++ {
		fid := topo.FaceID(f)
		if !m.FaceAlive(fid) {
			continue
		}
		key := canonicalFaceKey(m.FaceVertices(fid))
		seen[key] = append(seen[key], fid)
	}

	groups := make(map[faceKey][]topo.FaceID)
	extras := 0

	for key, faces := range seen {
		if len(faces) > 1 {
			groups[key] = faces
			extras += len(faces) - 1
		}
	}

	return groups, extras
}
