package nmmesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Test a triangle area computation.
func TestTriangleArea(t *testing.T) {
	triangle := Triangle{
		P: NewVector(0, 0, 0),
		Q: NewVector(1, 0, 0),
		R: NewVector(1, 1, 0),
	}

	assert.Equal(t, 0.5, triangle.Area())
}

// Test a triangle normal computation.
func TestTriangleNormal(t *testing.T) {
	triangle := Triangle{
		P: NewVector(0, 0, 0),
		Q: NewVector(1, 0, 0),
		R: NewVector(1, 2, 0),
	}

	normal := triangle.Normal()
	assert.Equal(t, 0.0, normal[0])
	assert.Equal(t, 0.0, normal[1])
	assert.Equal(t, 2.0, normal[2])
}

// Test a triangle unit normal computation.
func TestTriangleUnitNormal(t *testing.T) {
	triangle := Triangle{
		P: NewVector(0, 0, 0),
		Q: NewVector(1, 0, 0),
		R: NewVector(1, 2, 0),
	}

	normal := triangle.UnitNormal()
	assert.Equal(t, 0.0, normal[0])
	assert.Equal(t, 0.0, normal[1])
	assert.Equal(t, 1.0, normal[2])
}

