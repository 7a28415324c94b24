package remesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

func vec(x, y, z float64) nmmesh.Vector { return nmmesh.NewVector(x, y, z) }

func gridMesh(t *testing.T, n int, size float64) *topo.Mesh {
	t.Helper()

	var positions []nmmesh.Vector
	index := func(i, j int) int { return i*(n+1) + j }

	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			positions = append(positions, vec(float64(i)*size, float64(j)*size, 0))
		}
	}

	var indices []int
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b, c, d := index(i, j), index(i+1, j), index(i+1, j+1), index(i, j+1)
			indices = append(indices, a, b, c, a, c, d)
		}
	}

	m, err := topo.Import(positions, indices, nil)
	require.NoError(t, err)
	return m
}

func TestRunPreservesAreaOnUnitGrid(t *testing.T) {
	m := gridMesh(t, 4, 1.0)

	areaBefore := totalArea(m)

	opts := DefaultOptions()
	opts.TargetEdgeLength = 1.0
	opts.Iterations = 3

	stats := Run(m, opts)
	assert.NotEmpty(t, stats.Iterations)

	areaAfter := totalArea(m)
	assert.InDelta(t, areaBefore, areaAfter, areaBefore*0.01)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestRunConvergesWithinIterationCap(t *testing.T) {
	m := gridMesh(t, 3, 1.0)

	opts := DefaultOptions()
	opts.TargetEdgeLength = 1.0
	opts.Iterations = 5

	stats := Run(m, opts)
	assert.LessOrEqual(t, len(stats.Iterations), 5)
}

func TestSplitLongEdgesSubdividesAboveThreshold(t *testing.T) {
	m := gridMesh(t, 1, 4.0)
	n := splitLongEdges(m, 1.0, true)
	assert.Greater(t, n, 0)
}

func TestCollapseShortEdgesLeavesValidMesh(t *testing.T) {
	m := gridMesh(t, 4, 0.1)
	collapseShortEdges(m, 1.0)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func totalArea(m *topo.Mesh) float64 {
	sum := 0.0
	for f := 0; f < m.NumFaces(); f++ {
		fid := topo.FaceID(f)
		if m.FaceAlive(fid) {
			sum += m.FaceTriangle(fid).Area()
		}
	}
	return sum
}
