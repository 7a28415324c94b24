package repair

import "github.com/meshkit/nmmesh/topo"

// DegenerateAreaThreshold is the default area/repeated-vertex epsilon
// below which a triangle is considered degenerate (§4.6, §9).
const DegenerateAreaThreshold = 1e-10

// DegenerateFace erases faces with near-zero area or a repeated
// vertex (§4.6).
type DegenerateFace struct {
	// Epsilon overrides DegenerateAreaThreshold when non-zero.
	Epsilon float64
}

func (DegenerateFace) Name() string { return "DegenerateFace" }

func (d DegenerateFace) epsilon() float64 {
	if d.Epsilon > 0 {
		return d.Epsilon
	}
	return DegenerateAreaThreshold
}

func (d DegenerateFace) Detect(m *topo.Mesh) int {
	return len(d.degenerateFaces(m))
}

func (d DegenerateFace) Repair(m *topo.Mesh) int {
	targets := d.degenerateFaces(m)
	for _, f := range targets {
		m.RemoveFace(f)
	}
	return len(targets)
}

func (d DegenerateFace) degenerateFaces(m *topo.Mesh) []topo.FaceID {
	eps := d.epsilon()
	var found []topo.FaceID
	for f := 0; f < m.NumFaces(); f++ {
		fid := topo.FaceID(f)
		if m.FaceAlive(fid) && m.FaceTriangle(fid).IsDegenerate(eps) {
			found = append(found, fid)
		}
	}
	return found
}
