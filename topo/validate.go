package topo

import "fmt"

// ValidationSeverity distinguishes invariant violations that make a
// mesh invalid from ones that are merely flagged (§4.7, §7:
// "degenerate faces raise warnings only").
type ValidationSeverity int

const (
	SeverityError ValidationSeverity = iota
	SeverityWarning
)

func (s ValidationSeverity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// ValidationIssue is one element-scoped invariant violation. Exactly
// one of the ID fields is meaningful, selected by Kind.
type ValidationIssue struct {
	Severity ValidationSeverity
	Kind     string
	Message  string
	Vertex   VertexID
	Halfedge HalfedgeID
	Edge     EdgeID
	Face     FaceID
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.Kind, i.Message)
}

// ValidationReport aggregates every issue found by Validate. IsValid
// is false iff at least one error-severity issue was recorded —
// warnings alone do not invalidate the mesh (§4.7, §7 ErrValidationFailed).
type ValidationReport struct {
	Issues []ValidationIssue
}

func (r *ValidationReport) error(kind, msg string) {
	r.Issues = append(r.Issues, ValidationIssue{Severity: SeverityError, Kind: kind, Message: msg})
}

func (r *ValidationReport) errorAt(kind, msg string, set func(*ValidationIssue)) {
	issue := ValidationIssue{Severity: SeverityError, Kind: kind, Message: msg}
	set(&issue)
	r.Issues = append(r.Issues, issue)
}

func (r *ValidationReport) warnAt(kind, msg string, set func(*ValidationIssue)) {
	issue := ValidationIssue{Severity: SeverityWarning, Kind: kind, Message: msg}
	set(&issue)
	r.Issues = append(r.Issues, issue)
}

// IsValid reports whether the report contains no error-severity issue.
func (r *ValidationReport) IsValid() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors returns only the error-severity issues.
func (r *ValidationReport) Errors() []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

// Validate traverses every arena, reporting structured, element-scoped
// issues against the eight invariants of §3 / the checklist of §4.7.
// Degenerate faces are reported as warnings only; everything else that
// fails is an error.
func (m *Mesh) Validate() *ValidationReport {
	report := &ValidationReport{}

	m.validateVertices(report)
	m.validateHalfedges(report)
	m.validateEdges(report)
	m.validateFaces(report)

	return report
}

func (m *Mesh) validateVertices(r *ValidationReport) {
	for id := range m.vertices {
		v := &m.vertices[id]
		if !v.alive {
			continue
		}
		vid := VertexID(id)

		if !v.Position.IsFinite() {
			r.errorAt("vertex-position-finite", "position is not finite", func(i *ValidationIssue) { i.Vertex = vid })
		}

		if v.Halfedge.Valid() {
			if !m.HalfedgeAlive(v.Halfedge) {
				r.errorAt("vertex-halfedge-resolves", "representative halfedge is not alive", func(i *ValidationIssue) { i.Vertex = vid })
				continue
			}
			if m.Source(v.Halfedge) != vid {
				r.errorAt("vertex-halfedge-source", "representative halfedge does not source from this vertex", func(i *ValidationIssue) { i.Vertex = vid })
			}
		}
	}
}

func (m *Mesh) validateHalfedges(r *ValidationReport) {
	for id := range m.halfedges {
		h := &m.halfedges[id]
		if !h.alive {
			continue
		}
		hid := HalfedgeID(id)

		if !m.HalfedgeAlive(h.Next) || m.halfedges[h.Next].Prev != hid {
			r.errorAt("halfedge-next-prev", "next.prev does not point back to this halfedge", func(i *ValidationIssue) { i.Halfedge = hid })
		}

		if !m.HalfedgeAlive(h.Prev) || m.halfedges[h.Prev].Next != hid {
			r.errorAt("halfedge-prev-next", "prev.next does not point back to this halfedge", func(i *ValidationIssue) { i.Halfedge = hid })
		}

		if h.Twin.Valid() {
			if !m.HalfedgeAlive(h.Twin) || m.halfedges[h.Twin].Twin != hid {
				r.errorAt("halfedge-twin-symmetric", "twin's twin is not this halfedge", func(i *ValidationIssue) { i.Halfedge = hid })
			}
		}

		if !h.Target.Valid() || !m.VertexAlive(h.Target) {
			r.errorAt("halfedge-target-exists", "target vertex does not exist", func(i *ValidationIssue) { i.Halfedge = hid })
		}

		if !h.Edge.Valid() || !m.EdgeAlive(h.Edge) {
			r.errorAt("halfedge-edge-exists", "parent edge does not exist", func(i *ValidationIssue) { i.Halfedge = hid })
		} else if !containsHalfedge(m.edges[h.Edge].Halfedges, hid) {
			r.errorAt("halfedge-edge-membership", "parent edge does not list this halfedge", func(i *ValidationIssue) { i.Halfedge = hid })
		}

		if h.Face.Valid() && !m.FaceAlive(h.Face) {
			r.errorAt("halfedge-face-exists", "bound face does not exist", func(i *ValidationIssue) { i.Halfedge = hid })
		}
	}
}

func (m *Mesh) validateEdges(r *ValidationReport) {
	for id := range m.edges {
		e := &m.edges[id]
		if !e.alive {
			continue
		}
		eid := EdgeID(id)

		if len(e.Halfedges) == 0 {
			r.errorAt("edge-halfedges-nonempty", "edge has no associated halfedges", func(i *ValidationIssue) { i.Edge = eid })
			continue
		}

		for _, hid := range e.Halfedges {
			if !m.HalfedgeAlive(hid) || m.halfedges[hid].Edge != eid {
				r.errorAt("edge-halfedge-backref", "member halfedge does not reference this edge", func(i *ValidationIssue) { i.Edge = eid })
			}
		}

		if !containsHalfedge(e.Halfedges, e.Representative) {
			r.errorAt("edge-representative-membership", "representative halfedge is not in the halfedge list", func(i *ValidationIssue) { i.Edge = eid })
		}

		length := m.EdgeLength(eid)
		if isNaNOrInf(length) || length < 0 {
			r.errorAt("edge-length-finite", "edge length is not finite/non-negative", func(i *ValidationIssue) { i.Edge = eid })
		}

		expected := classifyEdge(len(e.Halfedges), e.marked)
		if e.Class != expected {
			r.errorAt("edge-class-matches-face-count", "cached class does not match incident-face count", func(i *ValidationIssue) { i.Edge = eid })
		}
	}
}

func (m *Mesh) validateFaces(r *ValidationReport) {
	for id := range m.faces {
		f := &m.faces[id]
		if !f.alive {
			continue
		}
		fid := FaceID(id)

		if !m.HalfedgeAlive(f.Halfedge) {
			r.errorAt("face-representative-alive", "representative halfedge is not alive", func(i *ValidationIssue) { i.Face = fid })
			continue
		}

		h0 := f.Halfedge
		h1 := m.halfedges[h0].Next
		h2 := m.halfedges[h1].Next
		h3 := m.halfedges[h2].Next

		if h3 != h0 {
			r.errorAt("face-three-cycle", "representative halfedge's next-cycle is not length 3", func(i *ValidationIssue) { i.Face = fid })
			continue
		}

		for _, hid := range []HalfedgeID{h0, h1, h2} {
			if m.halfedges[hid].Face != fid {
				r.errorAt("face-halfedge-backref", "loop halfedge does not reference this face", func(i *ValidationIssue) { i.Face = fid })
			}
		}

		tri := m.FaceTriangle(fid)
		if tri.IsDegenerate(1e-10) {
			r.warnAt("face-degenerate", "triangle area is below epsilon or has a repeated vertex", func(i *ValidationIssue) { i.Face = fid })
		}
	}
}

func containsHalfedge(list []HalfedgeID, id HalfedgeID) bool {
	for _, h := range list {
		if h == id {
			return true
		}
	}
	return false
}

func isNaNOrInf(f float64) bool {
	return f != f || f > 1e300 || f < -1e300
}
