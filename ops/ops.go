// Package ops implements the local topological operators (spec §4.4):
// edge split, edge collapse (with link condition), edge flip (with
// convex-quad and Delaunay tests), and tangential vertex smoothing
// under skeleton constraints. Each operator mutates a topo.Mesh in
// place and returns a small Result rather than panicking on a
// rejected precondition — only a corrupted arena (a missing
// next/prev/twin an invariant guarantees should exist) panics.
package ops

// Result is the uniform outcome of a local operator (§7): a success
// flag and, on failure, the sentinel reason from nmmesh's error kinds.
type Result struct {
	Success bool
	Reason  error
}

func ok() Result             { return Result{Success: true} }
func fail(err error) Result { return Result{Success: false, Reason: err} }
