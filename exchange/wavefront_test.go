package exchange

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quadOBJ = `
g patch0
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
f 1 2 3 4
`

func TestOBJReaderParsesQuadAsTwoTriangles(t *testing.T) {
	r := NewOBJReader(strings.NewReader(quadOBJ))
	require.NoError(t, r.Read())

	assert.Equal(t, 4, r.NumVertices())
	assert.Equal(t, 2, r.NumFaces())
	assert.Equal(t, 1, r.NumGroups())
	assert.Equal(t, []int{0, 1, 2, 0, 2, 3}, r.Indices())
}

func TestOBJReaderRejectsMalformedVertex(t *testing.T) {
	r := NewOBJReader(strings.NewReader("v 0 0\n"))
	assert.ErrorIs(t, r.Read(), ErrInvalidVertex)
}

func TestOBJReaderRejectsMalformedFace(t *testing.T) {
	r := NewOBJReader(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1\n"))
	assert.ErrorIs(t, r.Read(), ErrInvalidFace)
}

func TestOBJReaderStripsTextureNormalIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/1/1 2/2/1 3/3/1\n"
	r := NewOBJReader(strings.NewReader(src))
	require.NoError(t, r.Read())
	assert.Equal(t, []int{0, 1, 2}, r.Indices())
}

func TestOBJWriterRoundTrip(t *testing.T) {
	r := NewOBJReader(strings.NewReader(quadOBJ))
	require.NoError(t, r.Read())
	data := r.MeshData()

	var buf bytes.Buffer
	require.NoError(t, NewOBJWriter(&buf).Write(data))

	r2 := NewOBJReader(strings.NewReader(buf.String()))
	require.NoError(t, r2.Read())

	assert.Equal(t, data.Positions, r2.Vertices())
	assert.Equal(t, data.Indices, r2.Indices())
}
