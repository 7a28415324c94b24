package topo

import "github.com/meshkit/nmmesh"

// ColorMode selects what Export's per-vertex Colors attribute encodes
// (§6: "optional per-vertex color attribute, for classification or
// quality visualization").
type ColorMode int

const (
	// ColorNone omits the Colors attribute.
	ColorNone ColorMode = iota
	// ColorClassification encodes each vertex's VertexClass as a fixed
	// RGB triple (§3).
	ColorClassification
	// ColorQuality encodes the worst incident face's Quality() as a
	// red(bad)-to-green(good) gradient.
	ColorQuality
)

// ExportOptions controls which optional attributes Export populates.
type ExportOptions struct {
	// Normals populates MeshData.Normals with an area-weighted average
	// of each vertex's incident face normals.
	Normals bool
	// Colors selects the Colors attribute's content; ColorNone omits it.
	Colors ColorMode
}

var (
	colorManifold          = nmmesh.NewVector(0.7, 0.7, 0.7)
	colorOpenBook          = nmmesh.NewVector(0.2, 0.4, 1.0)
	colorSkeletonBranching = nmmesh.NewVector(1.0, 0.6, 0.0)
	colorNonManifoldOther  = nmmesh.NewVector(1.0, 0.1, 0.1)
)

func classificationColor(c VertexClass) nmmesh.Vector {
	switch c {
	case VertexOpenBook:
		return colorOpenBook
	case VertexSkeletonBranching:
		return colorSkeletonBranching
	case VertexNonManifoldOther:
		return colorNonManifoldOther
	default:
		return colorManifold
	}
}

// qualityColor maps q in [0,1] (0 = sliver, 1 = equilateral) to a
// red-to-green gradient, red at q=0.
func qualityColor(q float64) nmmesh.Vector {
	if q < 0 {
		q = 0
	}
	if q > 1 {
		q = 1
	}
	return nmmesh.NewVector(1-q, q, 0)
}

// Export walks the mesh's living vertices and faces into a MeshData
// host container, renumbering arena IDs into a compact 0..n-1 index
// space (dead/tombstoned arena slots are skipped entirely) and
// populating the optional Normals/Colors attributes per opts (§6).
// Grounded on the teacher's Mesh.ToMeshReader-style flattening
// (mesh.go's own Import, run in reverse).
func (m *Mesh) Export(opts ExportOptions) nmmesh.MeshData {
	remap := make(map[VertexID]int, m.NumVertices())
	positions := make([]nmmesh.Vector, 0, m.NumVertices())

	for v := 0; v < m.NumVertices(); v++ {
		vid := VertexID(v)
		if !m.VertexAlive(vid) {
			continue
		}
		remap[vid] = len(positions)
		positions = append(positions, m.Vertex(vid).Position)
	}

	indices := make([]int, 0, 3*m.NumFaces())
	for f := 0; f < m.NumFaces(); f++ {
		fid := FaceID(f)
		if !m.FaceAlive(fid) {
			continue
		}
		for _, vid := range m.FaceVertices(fid) {
			indices = append(indices, remap[vid])
		}
	}

	data := nmmesh.MeshData{Positions: positions, Indices: indices}

	if opts.Normals {
		data.Normals = m.exportNormals(remap, len(positions))
	}

	switch opts.Colors {
	case ColorClassification:
		data.Colors = m.exportClassificationColors(remap, len(positions))
	case ColorQuality:
		data.Colors = m.exportQualityColors(remap, len(positions))
	}

	return data
}

func (m *Mesh) exportNormals(remap map[VertexID]int, n int) []nmmesh.Vector {
	sums := make([]nmmesh.Vector, n)

	for f := 0; f < m.NumFaces(); f++ {
		fid := FaceID(f)
		if !m.FaceAlive(fid) {
			continue
		}

		tri := m.FaceTriangle(fid)
		// Normal() is twice the face area in magnitude, so summing it
		// directly area-weights the average before the final Unit().
		normal := tri.Normal()

		for _, vid := range m.FaceVertices(fid) {
			idx := remap[vid]
			sums[idx] = sums[idx].Add(normal)
		}
	}

	for i, s := range sums {
		if s.Mag() > 0 {
			sums[i] = s.Unit()
		}
	}

	return sums
}

func (m *Mesh) exportClassificationColors(remap map[VertexID]int, n int) []nmmesh.Vector {
	colors := make([]nmmesh.Vector, n)

	for vid, idx := range remap {
		colors[idx] = classificationColor(m.Vertex(vid).Class)
	}

	return colors
}

// exportQualityColors colors each vertex by the worst (lowest) Quality
// among its incident faces.
func (m *Mesh) exportQualityColors(remap map[VertexID]int, n int) []nmmesh.Vector {
	worst := make([]float64, n)
	for i := range worst {
		worst[i] = 1
	}

	for f := 0; f < m.NumFaces(); f++ {
		fid := FaceID(f)
		if !m.FaceAlive(fid) {
			continue
		}

		q := m.FaceTriangle(fid).Quality()

		for _, vid := range m.FaceVertices(fid) {
			idx := remap[vid]
			if q < worst[idx] {
				worst[idx] = q
			}
		}
	}

	colors := make([]nmmesh.Vector, n)
	for i, q := range worst {
		colors[i] = qualityColor(q)
	}

	return colors
}
