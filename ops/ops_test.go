package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/skeleton"
	"github.com/meshkit/nmmesh/topo"
)

func vec(x, y, z float64) nmmesh.Vector { return nmmesh.NewVector(x, y, z) }

func quadMesh(t *testing.T) *topo.Mesh {
	t.Helper()
	m, err := topo.Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		nil,
	)
	require.NoError(t, err)
	return m
}

// liveFaceCount counts non-tombstoned faces; NumFaces is the arena size.
func liveFaceCount(m *topo.Mesh) int {
	n := 0
	for f := 0; f < m.NumFaces(); f++ {
		if m.FaceAlive(topo.FaceID(f)) {
			n++
		}
	}
	return n
}

// liveEdgeCount counts non-tombstoned edges; NumEdges is the arena size.
func liveEdgeCount(m *topo.Mesh) int {
	n := 0
	for e := 0; e < m.NumEdges(); e++ {
		if m.EdgeAlive(topo.EdgeID(e)) {
			n++
		}
	}
	return n
}

func TestSplitMidpointSubdividesBothFaces(t *testing.T) {
	m := quadMesh(t)
	eid, ok := m.FindEdge(0, 2)
	require.True(t, ok)

	result := Split(m, eid, 0.5)
	assert.True(t, result.Success)
	assert.Equal(t, 4, liveFaceCount(m))

	newPos := m.Vertex(result.Vertex).Position
	assert.InDelta(t, 0.5, newPos.X(), 1e-9)
	assert.InDelta(t, 0.5, newPos.Y(), 1e-9)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestSplitPreservesFeatureClassification(t *testing.T) {
	m, err := topo.Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(1, 0, 0), vec(1, 1, 0), vec(0, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		[][2]int{{0, 2}},
	)
	require.NoError(t, err)

	eid, _ := m.FindEdge(0, 2)
	require.Equal(t, topo.EdgeFeature, m.Edge(eid).Class)

	result := Split(m, eid, 0.5)
	require.True(t, result.Success)

	e1, ok1 := m.FindEdge(0, result.Vertex)
	e2, ok2 := m.FindEdge(result.Vertex, 2)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, topo.EdgeFeature, m.Edge(e1).Class)
	assert.Equal(t, topo.EdgeFeature, m.Edge(e2).Class)
}

func TestCollapseInteriorEdgeSatisfiesLinkCondition(t *testing.T) {
	m := quadMesh(t)
	eid, ok := m.FindEdge(0, 2)
	require.True(t, ok)

	result := Collapse(m, eid)
	assert.True(t, result.Success)
	assert.Equal(t, 0, liveFaceCount(m))

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestCollapseRejectsLinkConditionViolation(t *testing.T) {
	// Edge (0,1) borders exactly two faces (0,1,2) and (0,1,3), but a
	// third vertex (4) is also a neighbor of both 0 and 1 through two
	// other faces that do not border edge (0,1) itself. Collapsing
	// (0,1) would identify those two paths to 4 into one, folding the
	// surface shut there — the classic link-condition counterexample.
	positions := []nmmesh.Vector{
		vec(0, 0, 0), vec(1, 0, 0), vec(0.5, 1, 0), vec(0.5, -1, 0), vec(0.5, 0.5, 1),
	}
	indices := []int{
		0, 1, 2,
		0, 1, 3,
		0, 2, 4,
		1, 2, 4,
	}
	m, err := topo.Import(positions, indices, nil)
	require.NoError(t, err)

	eid, ok := m.FindEdge(0, 1)
	require.True(t, ok)
	require.Equal(t, 2, m.Edge(eid).NumFaces())

	result := Collapse(m, eid)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Reason, nmmesh.ErrLinkConditionViolated)
}

func TestFlipReplacesQuadDiagonal(t *testing.T) {
	m := quadMesh(t)
	eid, ok := m.FindEdge(0, 2)
	require.True(t, ok)

	result := Flip(m, eid)
	assert.True(t, result.Success)

	_, stillThere := m.FindEdge(0, 2)
	assert.False(t, stillThere)

	_, nowThere := m.FindEdge(1, 3)
	assert.True(t, nowThere)

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestFlipRejectsSkeletonEdge(t *testing.T) {
	m := quadMesh(t)
	eid, _ := m.FindEdge(0, 1) // boundary edge, only 1 face
	result := Flip(m, eid)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Reason, nmmesh.ErrNotFlippable)
}

func TestFlipRejectsNonConvexQuad(t *testing.T) {
	// Edge (0,1) borders two triangles whose opposite vertices (2,
	// far side) and (3, pulled in close to vertex 1) form a dart: the
	// new diagonal (2,3) would not separate 0 and 1, so the quad fails
	// the convexity test in Flippable despite passing every other
	// precondition.
	positions := []nmmesh.Vector{
		vec(-1, 0, 0), vec(1, 0, 0), vec(0, 1, 0), vec(3, -1, 0),
	}
	indices := []int{
		0, 1, 2,
		1, 0, 3,
	}
	m, err := topo.Import(positions, indices, nil)
	require.NoError(t, err)

	eid, ok := m.FindEdge(0, 1)
	require.True(t, ok)
	require.Equal(t, topo.EdgeManifold, m.Edge(eid).Class)
	require.Equal(t, 2, m.Edge(eid).NumFaces())

	result := Flip(m, eid)
	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Reason, nmmesh.ErrNonConvexQuad)
}

func TestDelaunayPassPreservesCountsAndValidity(t *testing.T) {
	// An asymmetric trapezoid whose (0,2) diagonal makes a sliver on
	// one side; DelaunayPass should leave a valid, still-two-triangle
	// mesh regardless of which diagonal it settles on.
	m, err := topo.Import(
		[]nmmesh.Vector{vec(0, 0, 0), vec(10, 0, 0), vec(9, 1, 0), vec(1, 1, 0)},
		[]int{0, 1, 2, 0, 2, 3},
		nil,
	)
	require.NoError(t, err)

	DelaunayPass(m)

	assert.Equal(t, 2, liveFaceCount(m))
	assert.Equal(t, 5, liveEdgeCount(m))

	report := m.Validate()
	assert.True(t, report.IsValid(), "%v", report.Issues)
}

func TestDelaunayPassIsIdempotentOnAlreadyDelaunayMesh(t *testing.T) {
	m := quadMesh(t)
	before := DelaunayPass(m)
	after := DelaunayPass(m)
	assert.GreaterOrEqual(t, before, 0)
	assert.Equal(t, 0, after)
}

func TestSmoothMovesManifoldVertexTowardCentroid(t *testing.T) {
	positions := []nmmesh.Vector{
		vec(0, 0, 0), vec(2, 0, 0), vec(2, 2, 0), vec(0, 2, 0), vec(1, 0.1, 0),
	}
	indices := []int{
		0, 4, 3,
		4, 2, 3,
		0, 1, 4,
		1, 2, 4,
	}
	m, err := topo.Import(positions, indices, nil)
	require.NoError(t, err)

	sk := skeleton.Build(m)
	before := m.Vertex(4).Position

	result := Smooth(m, sk, 4, 1.0)
	require.True(t, result.Success)
	require.True(t, result.Moved)

	after := m.Vertex(4).Position
	assert.NotEqual(t, before, after)
	assert.InDelta(t, 1.0, after.X(), 1e-6)
	assert.InDelta(t, 1.0, after.Y(), 1e-6)
}

func TestSmoothNeverMovesBranchingVertex(t *testing.T) {
	m, err := topo.Import(
		[]nmmesh.Vector{
			vec(0, 0, 0), vec(1, 0, 0), vec(0.5, 1, 0),
			vec(0.5, -1, 0), vec(0.5, 0.5, 1),
		},
		[]int{0, 1, 2, 0, 1, 3, 0, 1, 4},
		nil,
	)
	require.NoError(t, err)

	require.Equal(t, topo.VertexSkeletonBranching, m.Vertex(0).Class)

	before := m.Vertex(0).Position
	result := Smooth(m, nil, 0, 0.5)
	assert.True(t, result.Success)
	assert.False(t, result.Moved)
	assert.Equal(t, before, m.Vertex(0).Position)
}
