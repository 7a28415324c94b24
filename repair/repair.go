// Package repair implements the fixed-strategy repair operations of
// §4.6: isolated-vertex removal, degenerate- and duplicate-face
// removal, non-manifold-edge resolution, hole filling and normal
// unification. Each operation exposes detect/repair/execute, grounded
// on the teacher's one-method predicate interfaces in collision.go
// (IntersectsAABB, IntersectsRay, ...) generalized here to a
// detect/repair pair per concrete operator rather than an inheritance
// hierarchy (§9).
package repair

import (
	"time"

	"github.com/meshkit/nmmesh/topo"
)

// Operation is the common surface every repair operator implements.
// There is no shared base struct: each concrete type below is a plain
// value carrying only the parameters it needs.
type Operation interface {
	// Name identifies the operation for reporting.
	Name() string
	// Detect counts defects without modifying the mesh.
	Detect(m *topo.Mesh) int
	// Repair fixes as many defects as it can and returns the count fixed.
	Repair(m *topo.Mesh) int
}

// Stats aggregates one operation's execute() call (§4.6, §7).
type Stats struct {
	Name    string
	Found   int
	Fixed   int
	Elapsed time.Duration
	Success bool
	Reason  error
}

// Execute runs Detect then Repair, timing the whole call and recording
// a stats row. An operation never panics on a malformed mesh; Reason
// is populated only when the mesh fails validation afterward and the
// caller asked for per-step validation (see Options.ValidateEachStep,
// applied by RepairAll).
func Execute(op Operation, m *topo.Mesh) Stats {
	start := time.Now()
	found := op.Detect(m)
	fixed := op.Repair(m)

	return Stats{
		Name:    op.Name(),
		Found:   found,
		Fixed:   fixed,
		Elapsed: time.Since(start),
		Success: true,
	}
}
