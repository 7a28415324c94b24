package topo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/nmmesh"
)

func vec(x, y, z float64) nmmesh.Vector { return nmmesh.NewVector(x, y, z) }

// Single triangle (§8 scenario 1): 3 boundary edges, 3 open-book
// vertices, Euler characteristic 1.
func TestImportSingleTriangle(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(0.5, 1, 0)},
		[]int{0, 1, 2},
		nil,
	)
	require.NoError(t, err)

	assert.Equal(t, 3, m.NumVertices())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, 3, m.NumEdges())

	for id := 0; id < m.NumEdges(); id++ {
		assert.Equal(t, EdgeBoundary, m.Edge(EdgeID(id)).Class)
	}

	for id := 0; id < m.NumVertices(); id++ {
		assert.Equal(t, VertexOpenBook, m.Vertex(VertexID(id)).Class)
	}

	euler := m.NumVertices() - m.NumEdges() + m.NumFaces()
	assert.Equal(t, 1, euler)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

// Two-triangle quad (§8 scenario 2): 4 boundary edges, 1 manifold edge.
func TestImportQuadTwoTriangles(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		nil,
	)
	require.NoError(t, err)

	var boundary, manifold, nonManifold int
	for id := 0; id < m.NumEdges(); id++ {
		switch m.Edge(EdgeID(id)).Class {
		case EdgeBoundary:
			boundary++
		case EdgeManifold:
			manifold++
		case EdgeNonManifold:
			nonManifold++
		}
	}

	assert.Equal(t, 4, boundary)
	assert.Equal(t, 1, manifold)
	assert.Equal(t, 0, nonManifold)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

// Non-manifold seam (§8 scenario 3): edge (0,1) shared by 3 faces.
func TestImportNonManifoldSeam(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{
			vec(0, 0, 0), vec(1, 0, 0), vec(0.5, 1, 0),
			vec(0.5, -1, 0), vec(0.5, 0.5, 1),
		},
		[]int{0, 1, 2, 0, 1, 3, 0, 1, 4},
		nil,
	)
	require.NoError(t, err)

	key := makeEdgeKey(0, 1)
	eid, ok := m.edgeIndex[key]
	require.True(t, ok)

	assert.Equal(t, EdgeNonManifold, m.Edge(eid).Class)
	assert.Equal(t, 3, m.Edge(eid).NumFaces())

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestImportRejectsOutOfRangeIndex(t *testing.T) {
	_, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)},
		[]int{0, 1, 5},
		nil,
	)
	assert.ErrorIs(t, err, nmmesh.ErrMalformedInput)
}

func TestImportRejectsNonFinitePosition(t *testing.T) {
	_, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(math.NaN(), 1, 0)},
		[]int{0, 1, 2},
		nil,
	)
	assert.ErrorIs(t, err, nmmesh.ErrMalformedInput)
}

func TestImportRejectsNonTriangularIndices(t *testing.T) {
	_, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0},
		nil,
	)
	assert.ErrorIs(t, err, nmmesh.ErrMalformedInput)
}

func TestImportMarksUserFeatureEdge(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		[][2]int{{0, 2}},
	)
	require.NoError(t, err)

	key := makeEdgeKey(0, 2)
	eid := m.edgeIndex[key]
	assert.Equal(t, EdgeFeature, m.Edge(eid).Class)
}

func TestClassifyingTwiceIsIdempotent(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		nil,
	)
	require.NoError(t, err)

	before := make([]VertexClass, m.NumVertices())
	for i := range before {
		before[i] = m.Vertex(VertexID(i)).Class
	}

	m.ReclassifyAll()

	for i := range before {
		assert.Equal(t, before[i], m.Vertex(VertexID(i)).Class)
	}
}

func TestFaceTriangleAndVertices(t *testing.T) {
	m, err := Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(0.5, 1, 0)},
		[]int{0, 1, 2},
		nil,
	)
	require.NoError(t, err)

	verts := m.FaceVertices(0)
	assert.ElementsMatch(t, []VertexID{0, 1, 2}, verts)

	tri := m.FaceTriangle(0)
	assert.InDelta(t, 0.5, tri.Area(), 1e-9)
}
