// Package exchange is the I/O bridge (spec §6): it adapts between the
// host geometry container contract (positions + triangle indices) and
// concrete file formats, OBJ being the only one the teacher's
// wavefront.go implemented. The triangle-index/position shape is the
// only thing the core requires on import and produces on export; OBJ
// reading/writing sits on top of it as one adapter, same as the
// teacher's HalfEdgeMesh sits on top of meshx.MeshReader.
package exchange

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/meshkit/nmmesh"
)

const (
	PrefixVertex = "v"
	PrefixFace   = "f"
	PrefixGroup  = "g"
)

var (
	ErrInvalidVertex = errors.New("invalid vertex")
	ErrInvalidFace   = errors.New("invalid face")
)

// OBJReader parses an OBJ (Wavefront) file, ASCII or gzip-compressed
// by extension, into triangle indices — a face line with more than 3
// vertices is fan-triangulated around its first vertex so the result
// always satisfies the host container's triangle-index contract (§6).
type OBJReader struct {
	reader   io.Reader
	vertices []nmmesh.Vector
	indices  []int
	groups   []string
	faceSet  []int // group index per emitted triangle
}

// NewOBJReader constructs an OBJ reader over an io.Reader.
func NewOBJReader(reader io.Reader) *OBJReader {
	return &OBJReader{
		reader:   reader,
		vertices: make([]nmmesh.Vector, 0),
		indices:  make([]int, 0),
		groups:   make([]string, 0),
		faceSet:  make([]int, 0),
	}
}

// ReadOBJFromPath opens and reads an OBJ file from a path, transparently
// decompressing it if the extension is ".gz".
func ReadOBJFromPath(path string) (*OBJReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var reader io.Reader = file

	if strings.ToLower(filepath.Ext(path)) == ".gz" {
		gzipReader, err := gzip.NewReader(file)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	r := NewOBJReader(reader)
	if err := r.Read(); err != nil {
		return nil, err
	}

	return r, nil
}

// Read parses every line of the underlying reader.
func (r *OBJReader) Read() error {
	count := 1
	scanner := bufio.NewReader(r.reader)

	for {
		data, err := scanner.ReadBytes('\n')
		if len(data) > 0 {
			data = bytes.TrimSpace(data)
			prefix := r.parsePrefix(data)

			var lineErr error
			switch string(prefix) {
			case PrefixVertex:
				lineErr = r.parseVertex(data)
			case PrefixFace:
				lineErr = r.parseFace(data)
			case PrefixGroup:
				r.parseGroup(data)
			}

			if lineErr != nil {
				return fmt.Errorf("line %d: %w", count, lineErr)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return err
		}

		count++
	}

	return nil
}

func (r *OBJReader) parsePrefix(data []byte) []byte {
	for i := 0; i < len(data); i++ {
		value, _ := utf8.DecodeRune(data[i : i+1])
		if unicode.IsSpace(value) {
			return data[:i]
		}
	}
	return data
}

func (r *OBJReader) parseVertex(data []byte) error {
	fields := bytes.Fields(data[len(PrefixVertex):])
	if len(fields) < 3 {
		return ErrInvalidVertex
	}

	var values [3]float64
	for i := 0; i < 3; i++ {
		value, err := strconv.ParseFloat(string(fields[i]), 64)
		if err != nil {
			return ErrInvalidVertex
		}
		values[i] = value
	}

	r.vertices = append(r.vertices, nmmesh.NewVectorFromArray(values))
	return nil
}

// parseFace fan-triangulates an n-gon face line around its first
// vertex, discarding any texture/normal sub-indices after '/'.
func (r *OBJReader) parseFace(data []byte) error {
	fields := bytes.Fields(data[len(PrefixFace):])
	if len(fields) < 3 {
		return ErrInvalidFace
	}

	corners := make([]int, len(fields))
	for i, field := range fields {
		if idx := bytes.IndexByte(field, byte('/')); idx != -1 {
			field = field[:idx]
		}

		value, err := strconv.Atoi(string(field))
		if err != nil || value <= 0 {
			return ErrInvalidFace
		}

		corners[i] = value - 1
	}

	group := len(r.groups) - 1

	for i := 1; i < len(corners)-1; i++ {
		r.indices = append(r.indices, corners[0], corners[i], corners[i+1])
		r.faceSet = append(r.faceSet, group)
	}

	return nil
}

func (r *OBJReader) parseGroup(data []byte) {
	group := string(bytes.TrimSpace(data[len(PrefixGroup):]))
	r.groups = append(r.groups, group)
}

// Vertices returns the parsed positions.
func (r *OBJReader) Vertices() []nmmesh.Vector { return r.vertices }

// Indices returns the triangulated vertex-index triples.
func (r *OBJReader) Indices() []int { return r.indices }

// NumVertices returns the number of parsed vertices.
func (r *OBJReader) NumVertices() int { return len(r.vertices) }

// NumFaces returns the number of emitted (triangulated) faces.
func (r *OBJReader) NumFaces() int { return len(r.indices) / 3 }

// NumGroups returns the number of "g" group lines encountered.
func (r *OBJReader) NumGroups() int { return len(r.groups) }

// MeshData assembles the parsed result into the host container
// contract (§6).
func (r *OBJReader) MeshData() nmmesh.MeshData {
	return nmmesh.MeshData{Positions: r.vertices, Indices: r.indices}
}

// OBJWriter serializes a MeshData's positions and triangle indices to
// the OBJ text format; its Normals and Colors are not written. Mirrors
// the reader's prefix grammar; always emits one triangle per "f" line
// (no re-fanning).
type OBJWriter struct {
	writer io.Writer
}

// NewOBJWriter constructs an OBJ writer over an io.Writer.
func NewOBJWriter(writer io.Writer) *OBJWriter {
	return &OBJWriter{writer: writer}
}

// WriteOBJToPath writes mesh data to path, gzip-compressing it when
// the extension is ".gz".
func WriteOBJToPath(path string, data nmmesh.MeshData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var out io.Writer = file

	if strings.ToLower(filepath.Ext(path)) == ".gz" {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		out = gzipWriter
	}

	return NewOBJWriter(out).Write(data)
}

// Write emits positions as "v" lines and triangles as "f" lines
// (1-indexed, per the OBJ convention).
func (w *OBJWriter) Write(data nmmesh.MeshData) error {
	buf := bufio.NewWriter(w.writer)

	for _, p := range data.Positions {
		if _, err := fmt.Fprintf(buf, "v %.10g %.10g %.10g\n", p.X(), p.Y(), p.Z()); err != nil {
			return err
		}
	}

	for i := 0; i < data.NumTriangles(); i++ {
		a := data.Indices[3*i] + 1
		b := data.Indices[3*i+1] + 1
		c := data.Indices[3*i+2] + 1

		if _, err := fmt.Fprintf(buf, "f %d %d %d\n", a, b, c); err != nil {
			return err
		}
	}

	return buf.Flush()
}
