package remesh

import (
	"math"

	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/ops"
)

// Options configures the adaptive remeshing loop (§4.5, §6). A zero
// value is not usable directly — construct through DefaultOptions and
// override fields, since TargetEdgeLength of zero means "derive it
// from the mesh" rather than "collapse everything."
type Options struct {
	// TargetEdgeLength is the goal edge length. Zero means derive it
	// from the mesh as bbox-diagonal / sqrt(|V|).
	TargetEdgeLength float64

	MinEdgeLengthRatio float64
	MaxEdgeLengthRatio float64
	MinTriangleQuality float64
	Iterations         int
	SmoothingDamping   float64
	PreserveFeatures   bool
}

// DefaultOptions returns the table of defaults from §6.
func DefaultOptions() Options {
	return Options{
		MinEdgeLengthRatio: 0.4,
		MaxEdgeLengthRatio: 1.333,
		MinTriangleQuality: 0.3,
		Iterations:         5,
		SmoothingDamping:   ops.DefaultSmoothingDamping,
		PreserveFeatures:   true,
	}
}

// convergenceThreshold is the minimum average-quality change between
// iterations below which the loop is considered converged (§4.5).
const convergenceThreshold = 0.001

func targetEdgeLength(positions []nmmesh.Vector, configured float64) float64 {
	if configured > 0 {
		return configured
	}
	if len(positions) == 0 {
		return 1
	}

	box := nmmesh.NewAABBFromVectors(positions)
	diag := box.GetMaxBound().Distance(box.GetMinBound())
	n := math.Sqrt(float64(len(positions)))
	if n == 0 {
		return diag
	}
	return diag / n
}
