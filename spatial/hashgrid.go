// Package spatial implements the two accelerator contracts of §6: a
// uniform hash grid for point insert/remove/update/radius/k-nearest
// queries, and a static BVH for closest-point-on-mesh and radius
// queries over triangles. Both are leaf utilities — built on demand,
// holding only borrowed references, invalidated by any topological
// mutation (§5) — replacing the teacher's bounded octree, which only
// ever modeled AABB-intersecting insert with no update/remove and no
// point-distance query surface.
package spatial

import (
	"math"
	"sort"

	"github.com/meshkit/nmmesh"
)

// cell is an integer 3D grid cell coordinate.
type cell [3]int64

// HashGrid buckets items of any comparable type (item identity is
// reference equality — a pointer type is the common case) by an
// integer cell coordinate derived from dividing position by a fixed
// cell size (§6). Grounded on the teacher's map-of-buckets octree
// bookkeeping (spatial/octree.go's `nodes map[uint64]*OctreeNode`),
// adapted from a locational-code tree to a flat uniform grid since the
// contract here is point queries with mutation, not AABB membership.
type HashGrid[T comparable] struct {
	cellSize float64
	buckets  map[cell][]T
	pos      map[T]nmmesh.Vector
}

// NewHashGrid constructs a grid with the given positive cell size.
func NewHashGrid[T comparable](cellSize float64) *HashGrid[T] {
	if cellSize <= 0 {
		panic("spatial: hash grid cell size must be positive")
	}
	return &HashGrid[T]{
		cellSize: cellSize,
		buckets:  make(map[cell][]T),
		pos:      make(map[T]nmmesh.Vector),
	}
}

func (g *HashGrid[T]) cellOf(p nmmesh.Vector) cell {
	return cell{
		int64(math.Floor(p.X() / g.cellSize)),
		int64(math.Floor(p.Y() / g.cellSize)),
		int64(math.Floor(p.Z() / g.cellSize)),
	}
}

// Insert adds item at position p.
func (g *HashGrid[T]) Insert(item T, p nmmesh.Vector) {
	c := g.cellOf(p)
	g.buckets[c] = append(g.buckets[c], item)
	g.pos[item] = p
}

// Remove deletes item from the grid. A no-op if item was never inserted.
func (g *HashGrid[T]) Remove(item T) {
	p, ok := g.pos[item]
	if !ok {
		return
	}

	c := g.cellOf(p)
	bucket := g.buckets[c]

	for i, v := range bucket {
		if v == item {
			g.buckets[c] = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}

	if len(g.buckets[c]) == 0 {
		delete(g.buckets, c)
	}

	delete(g.pos, item)
}

// Update moves an already-inserted item to a new position.
func (g *HashGrid[T]) Update(item T, p nmmesh.Vector) {
	g.Remove(item)
	g.Insert(item, p)
}

// QueryRadius returns every item within r of center (§6).
func (g *HashGrid[T]) QueryRadius(center nmmesh.Vector, r float64) []T {
	var result []T

	span := int64(math.Ceil(r / g.cellSize))
	origin := g.cellOf(center)

	for dx := -span; dx <= span; dx++ {
		for dy := -span; dy <= span; dy++ {
			for dz := -span; dz <= span; dz++ {
				c := cell{origin[0] + dx, origin[1] + dy, origin[2] + dz}
				for _, item := range g.buckets[c] {
					if center.Distance(g.pos[item]) <= r {
						result = append(result, item)
					}
				}
			}
		}
	}

	return result
}

type gridHit[T comparable] struct {
	item T
	dist float64
}

// QueryKNearest returns up to k items sorted by ascending distance to
// center. maxRadius <= 0 means unbounded (§6).
func (g *HashGrid[T]) QueryKNearest(center nmmesh.Vector, k int, maxRadius float64) []T {
	if k <= 0 {
		return nil
	}

	var hits []gridHit[T]

	if maxRadius > 0 {
		for _, item := range g.QueryRadius(center, maxRadius) {
			hits = append(hits, gridHit[T]{item, center.Distance(g.pos[item])})
		}
	} else {
		for item, p := range g.pos {
			hits = append(hits, gridHit[T]{item, center.Distance(p)})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].dist < hits[j].dist })

	if len(hits) > k {
		hits = hits[:k]
	}

	result := make([]T, len(hits))
	for i, h := range hits {
		result[i] = h.item
	}
	return result
}
