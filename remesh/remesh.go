// Package remesh implements the adaptive remeshing loop of §4.5: a
// fixed sequence of split, collapse, Delaunay flip and smoothing
// passes repeated until triangle quality stops improving or an
// iteration cap is hit. Grounded on the teacher's Orient() BFS
// driver — an explicit loop over a bounded queue, no recursion —
// applied here to the iteration driver instead of a face-visitation
// queue.
package remesh

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/ops"
	"github.com/meshkit/nmmesh/skeleton"
	"github.com/meshkit/nmmesh/topo"
)

// IterationStats reports what a single iteration did.
type IterationStats struct {
	Splits         int
	Collapses      int
	Flips          int
	Smoothed       int
	AverageQuality float64
	QualityDelta   float64
}

// Stats aggregates a full Run.
type Stats struct {
	Iterations []IterationStats
	Converged  bool
}

// Run executes the adaptive remeshing loop against m until quality
// converges or opts.Iterations is reached (§4.5). m is mutated in
// place.
func Run(m *topo.Mesh, opts Options) Stats {
	stats := Stats{}

	target := targetEdgeLength(allPositions(m), opts.TargetEdgeLength)
	minLen := target * opts.MinEdgeLengthRatio
	maxLen := target * opts.MaxEdgeLengthRatio

	prevQuality := averageQuality(m)

	for i := 0; i < opts.Iterations; i++ {
		iter := IterationStats{}

		iter.Splits = splitLongEdges(m, maxLen, opts.PreserveFeatures)
		iter.Collapses = collapseShortEdges(m, minLen)
		iter.Flips = ops.DelaunayPass(m)
		iter.Smoothed = smoothPass(m, opts.SmoothingDamping, opts.PreserveFeatures)

		if iter.Splits > 0 || iter.Collapses > 0 {
			m.ReclassifyAll()
		}

		quality := averageQuality(m)
		iter.AverageQuality = quality
		iter.QualityDelta = quality - prevQuality

		stats.Iterations = append(stats.Iterations, iter)

		converged := i > 0 && absFloat(iter.QualityDelta) < convergenceThreshold
		prevQuality = quality

		if converged {
			stats.Converged = true
			break
		}
	}

	return stats
}

// splitLongEdges subdivides every edge longer than maxLen. Skeleton
// edges (boundary, feature, non-manifold) split the same as manifold
// ones — Split preserves their classification across the cut — so
// preserveFeatures only gates smoothing, not subdivision.
func splitLongEdges(m *topo.Mesh, maxLen float64, preserveFeatures bool) int {
	count := 0
	n := m.NumEdges()

	for e := 0; e < n; e++ {
		eid := topo.EdgeID(e)
		if !m.EdgeAlive(eid) {
			continue
		}
		if m.EdgeLength(eid) <= maxLen {
			continue
		}

		if ops.Split(m, eid, 0.5).Success {
			count++
		}
	}

	return count
}

func collapseShortEdges(m *topo.Mesh, minLen float64) int {
	count := 0
	n := m.NumEdges()

	for e := 0; e < n; e++ {
		eid := topo.EdgeID(e)
		if !m.EdgeAlive(eid) {
			continue
		}
		if m.Edge(eid).Class != topo.EdgeManifold {
			continue
		}
		if m.EdgeLength(eid) >= minLen {
			continue
		}

		if ops.Collapse(m, eid).Success {
			count++
		}
	}

	return count
}

// smoothPass relaxes every Manifold and OpenBook vertex once. When
// preserveFeatures is set, an OpenBook vertex that sits on a
// user-marked feature edge is left untouched rather than slid along
// its segment.
func smoothPass(m *topo.Mesh, damping float64, preserveFeatures bool) int {
	sk := skeleton.Build(m)
	count := 0
	n := m.NumVertices()

	for v := 0; v < n; v++ {
		vid := topo.VertexID(v)
		if !m.VertexAlive(vid) {
			continue
		}
		class := m.Vertex(vid).Class
		if class != topo.VertexManifold && class != topo.VertexOpenBook {
			continue
		}
		if class == topo.VertexOpenBook && preserveFeatures && onFeatureEdge(m, vid) {
			continue
		}

		if ops.Smooth(m, sk, vid, damping).Moved {
			count++
		}
	}

	return count
}

func onFeatureEdge(m *topo.Mesh, v topo.VertexID) bool {
	for _, eid := range m.VertexEdges(v) {
		if m.EdgeIsFeature(eid) {
			return true
		}
	}
	return false
}

func averageQuality(m *topo.Mesh) float64 {
	sum := 0.0
	n := 0

	for f := 0; f < m.NumFaces(); f++ {
		fid := topo.FaceID(f)
		if !m.FaceAlive(fid) {
			continue
		}
		sum += m.FaceTriangle(fid).Quality()
		n++
	}

	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func allPositions(m *topo.Mesh) []nmmesh.Vector {
	positions := make([]nmmesh.Vector, 0, m.NumVertices())
	for v := 0; v < m.NumVertices(); v++ {
		vid := topo.VertexID(v)
		if m.VertexAlive(vid) {
			positions = append(positions, m.Vertex(vid).Position)
		}
	}
	return positions
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
