package topo

// Face is triangular and owns one representative halfedge; the other
// two are reachable via Next (§3).
type Face struct {
	Halfedge HalfedgeID

	alive bool
}
