// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import "math"

// PointInTriEps is the barycentric sign tolerance used by PointInTriangle
// and by the ear-clipping test for "contains no other polygon vertex."
const PointInTriEps = 1e-6

// SignedArea2 returns twice the signed area of triangle (a,b,c) in the
// (u,v) plane: positive for counter-clockwise winding.
func SignedArea2(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// SignedArea3 returns the area of triangle (a,b,c) embedded in 3D, via the
// magnitude of the cross product of its two edge vectors; the result is
// never negative.
func SignedArea3(a, b, c Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Norm()
}

// Centroid3 returns the arithmetic mean of a, b, c.
func Centroid3(a, b, c Vec3) Vec3 {
	return Vec3{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3, (a.Z + b.Z + c.Z) / 3}
}

// Centroid2 returns the arithmetic mean of a, b, c.
func Centroid2(a, b, c Vec2) Vec2 {
	return Vec2{(a.X + b.X + c.X) / 3, (a.Y + b.Y + c.Y) / 3}
}

// PolygonArea returns the signed area of a simple polygon via a fan
// triangulation from vertex 0.
func PolygonArea(pts []Vec2) float64 {
	if len(pts) < 3 {
		return 0
	}
	sum := 0.0
	for i := 1; i < len(pts)-1; i++ {
		sum += SignedArea2(pts[0], pts[i], pts[i+1])
	}
	return 0.5 * sum
}

// Circumcenter3 returns the circumcenter and circumradius of triangle
// (a,b,c) in 3D, using the standard barycentric circumcenter formula.
func Circumcenter3(a, b, c Vec3) (center Vec3, radius float64) {
	ab := b.Sub(a)
	ac := c.Sub(a)
	abXac := ab.Cross(ac)
	denom := 2 * abXac.Dot(abXac)
	if denom < 1e-300 {
		return Centroid3(a, b, c), 0
	}
	// (|AC|^2 ((AB x AC) x AB) + |AB|^2 (AC x (AB x AC))) / (2 |AB x AC|^2)
	term1 := abXac.Cross(ab).Scale(ac.Dot(ac))
	term2 := ac.Cross(abXac).Scale(ab.Dot(ab))
	toCenter := term1.Add(term2).Scale(1 / denom)
	center = a.Add(toCenter)
	radius = toCenter.Norm()
	return
}

// PointInTriangle reports whether p lies inside (or on, within eps) the
// triangle (a,b,c) using a barycentric sign test.
func PointInTriangle(p, a, b, c Vec2) bool {
	d1 := SignedArea2(a, b, p)
	d2 := SignedArea2(b, c, p)
	d3 := SignedArea2(c, a, p)
	hasNeg := d1 < -PointInTriEps || d2 < -PointInTriEps || d3 < -PointInTriEps
	hasPos := d1 > PointInTriEps || d2 > PointInTriEps || d3 > PointInTriEps
	return !(hasNeg && hasPos)
}

// IsConvexAt reports whether vertex v (with neighbors prev, next) is convex
// with respect to polygon normal n: the turn from (prev->v) to (v->next)
// agrees with n.
func IsConvexAt(prev, v, next, n Vec3) bool {
	e1 := v.Sub(prev)
	e2 := next.Sub(v)
	return e1.Cross(e2).Dot(n) > -1e-9
}

// Magnitude is a tiny helper kept for readability at call sites that only
// need |v| without importing math directly.
func Magnitude(v Vec3) float64 { return math.Sqrt(v.Dot(v)) }
