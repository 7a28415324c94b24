package nmmesh

import "math"

// Triangle in three-dimension Cartesian space.
type Triangle struct {
	P Vector
	Q Vector
	R Vector
}

// Construct a Triangle from its three vertices.
func NewTriangle(p, q, r Vector) Triangle {
	return Triangle{p, q, r}
}

// Compute the area.
func (t Triangle) Area() float64 {
	u := t.Q.Sub(t.P)
	v := t.R.Sub(t.P)
	return u.Cross(v).Mag() * 0.5
}

// Compute the normal.
func (t Triangle) Normal() Vector {
	u := t.Q.Sub(t.P)
	v := t.R.Sub(t.P)
	return u.Cross(v)
}

// Compute the unit normal.
func (t Triangle) UnitNormal() Vector {
	return t.Normal().Unit()
}

// Compute the perimeter.
func (t Triangle) Perimeter() float64 {
	return t.P.Distance(t.Q) + t.Q.Distance(t.R) + t.R.Distance(t.P)
}

// Compute the inradius (radius of the inscribed circle).
func (t Triangle) Inradius() float64 {
	s := t.Perimeter() * 0.5
	if s == 0 {
		return 0
	}
	return t.Area() / s
}

// Compute the circumradius (radius of the circumscribed circle).
func (t Triangle) Circumradius() float64 {
	a := t.Q.Distance(t.R)
	b := t.R.Distance(t.P)
	c := t.P.Distance(t.Q)
	area := t.Area()
	if area == 0 {
		return 0
	}
	return (a * b * c) / (4 * area)
}

// Compute the quality metric 2*inradius/circumradius, clamped to
// [0,1]. An equilateral triangle scores 1; a degenerate one scores 0.
func (t Triangle) Quality() float64 {
	circumradius := t.Circumradius()
	if circumradius == 0 {
		return 0
	}
	q := 2 * t.Inradius() / circumradius
	return math.Max(0, math.Min(1, q))
}

// Return true if the triangle is degenerate: zero area or a repeated
// vertex within the given epsilon.
func (t Triangle) IsDegenerate(epsilon float64) bool {
	if t.Area() < epsilon {
		return true
	}
	return t.P.Distance(t.Q) < epsilon || t.Q.Distance(t.R) < epsilon || t.R.Distance(t.P) < epsilon
}

// Compute the barycentric coordinates of a point relative to the
// triangle, projected onto the triangle's own plane.
func (t Triangle) Barycentric(p Vector) (u, v, w float64) {
	v0 := t.Q.Sub(t.P)
	v1 := t.R.Sub(t.P)
	v2 := p.Sub(t.P)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if denom == 0 {
		return 0, 0, 0
	}

	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return
}

// Return true if the point lies within the triangle (including its
// boundary), once projected onto the triangle's plane.
func (t Triangle) ContainsPoint(p Vector) bool {
	const epsilon = -1e-10
	u, v, w := t.Barycentric(p)
	return u >= epsilon && v >= epsilon && w >= epsilon
}

// ClosestPoint returns the closest point on the (filled) triangle to p.
func (t Triangle) ClosestPoint(p Vector) Vector {
	u, v, w := t.Barycentric(p)

	if u >= 0 && v >= 0 && w >= 0 {
		return t.P.MulScalar(u).Add(t.Q.MulScalar(v)).Add(t.R.MulScalar(w))
	}

	best := t.P
	bestDist := p.Distance(t.P)

	for _, edge := range [][2]Vector{{t.P, t.Q}, {t.Q, t.R}, {t.R, t.P}} {
		candidate := closestPointOnSegment(p, edge[0], edge[1])
		if d := p.Distance(candidate); d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	return best
}

func closestPointOnSegment(p, a, b Vector) Vector {
	ab := b.Sub(a)
	length2 := ab.Dot(ab)
	if length2 == 0 {
		return a
	}

	t := p.Sub(a).Dot(ab) / length2
	t = math.Max(0, math.Min(1, t))
	return a.Add(ab.MulScalar(t))
}

// CotangentAt returns the cotangent of the angle at apex between the
// directions to P and to Q (R is not used), as needed by
// cotangent-weighted discretizations of the Laplacian.
func (t Triangle) CotangentAt(apex Vector) float64 {
	u := t.P.Sub(apex)
	v := t.Q.Sub(apex)

	cos := u.Dot(v)
	sin := u.Cross(v).Mag()

	if sin == 0 {
		return 0
	}

	return cos / sin
}

// IsConvexQuad returns true if the quadrilateral a-b-c-d (in order)
// is convex when projected onto the plane with the given normal: the
// two diagonals a-c and b-d must separate the opposite vertex pairs.
func IsConvexQuad(a, b, c, d, normal Vector) bool {
	n := normal.Unit()

	cross := func(p, q, r Vector) float64 {
		return q.Sub(p).Cross(r.Sub(p)).Dot(n)
	}

	const epsilon = 1e-10

	s1 := cross(a, c, b)
	s2 := cross(a, c, d)
	s3 := cross(b, d, a)
	s4 := cross(b, d, c)

	if math.Abs(s1) < epsilon || math.Abs(s2) < epsilon || math.Abs(s3) < epsilon || math.Abs(s4) < epsilon {
		return false
	}

	return (s1*s2 < 0) && (s3*s4 < 0)
}
