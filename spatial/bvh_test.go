package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squareTriangles() []BVHTriangle {
	return []BVHTriangle{
		{V0: vec(0, 0, 0), V1: vec(1, 0, 0), V2: vec(0, 1, 0), Payload: "a"},
		{V0: vec(1, 0, 0), V1: vec(1, 1, 0), V2: vec(0, 1, 0), Payload: "b"},
		{V0: vec(10, 10, 0), V1: vec(11, 10, 0), V2: vec(10, 11, 0), Payload: "c"},
	}
}

func TestBVHEmptyClosestPoint(t *testing.T) {
	b := NewBVH(nil, 0)
	_, ok := b.ClosestPoint(vec(0, 0, 0))
	assert.False(t, ok)
}

func TestBVHClosestPointOnSurface(t *testing.T) {
	b := NewBVH(squareTriangles(), 1)

	result, ok := b.ClosestPoint(vec(0.25, 0.25, 5))
	require.True(t, ok)
	assert.InDelta(t, 5.0, result.Distance, 1e-9)
	assert.InDelta(t, 0.0, result.Point.Z(), 1e-9)
}

func TestBVHClosestPointPicksNearerTriangle(t *testing.T) {
	b := NewBVH(squareTriangles(), 1)

	result, ok := b.ClosestPoint(vec(10.25, 10.25, 1))
	require.True(t, ok)
	assert.Equal(t, 2, result.Index)
}

func TestBVHQueryRadius(t *testing.T) {
	b := NewBVH(squareTriangles(), 1)

	hits := b.QueryRadius(vec(0.25, 0.25, 0), 0.5)
	assert.Contains(t, hits, 0)
	assert.Contains(t, hits, 1)
	assert.NotContains(t, hits, 2)
}

func TestBVHQueryRadiusFindsFarTriangleWhenIncluded(t *testing.T) {
	b := NewBVH(squareTriangles(), 1)

	hits := b.QueryRadius(vec(10.25, 10.25, 0), 1.0)
	assert.Contains(t, hits, 2)
}

func TestBVHNumTriangles(t *testing.T) {
	b := NewBVH(squareTriangles(), 1)
	assert.Equal(t, 3, b.NumTriangles())
}
