package repair

import (
	"github.com/meshkit/nmmesh"
	"github.com/meshkit/nmmesh/topo"
)

// RepairAll runs the fixed-order repair pipeline of §4.6: isolated
// vertices, duplicate faces, degenerate faces, holes, then normal
// unification. The spec's fixed order omits NonManifoldEdge — running
// it automatically would force a strategy choice (split vs collapse)
// the caller may not want — so a non-manifold input should have
// Execute(NonManifoldEdge{...}, m) run explicitly first.
//
// After each step, if opts.ValidateEachStep is set, the topology
// validator runs and a failure downgrades that step's Success without
// aborting the remaining steps (§4.6, §7).
func RepairAll(m *topo.Mesh, opts Options) []Stats {
	pipeline := []Operation{
		IsolatedVertex{},
		DuplicateFace{},
		DegenerateFace{Epsilon: opts.DegenerateAreaThreshold},
		HoleFiller{MaxHoleSize: opts.MaxHoleSize},
		NormalUnifier{},
	}

	rows := make([]Stats, 0, len(pipeline))

	for _, op := range pipeline {
		row := Execute(op, m)

		if opts.ValidateEachStep {
			if report := m.Validate(); !report.IsValid() {
				row.Success = false
				row.Reason = nmmesh.ErrValidationFailed
			}
		}

		rows = append(rows, row)
	}

	return rows
}
