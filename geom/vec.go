// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package geom implements 2D/3D vector arithmetic and the triangle/polygon
// primitives the mesh kernel and energy kernels build on: area, centroid,
// circumradius/center, point-in-triangle, ear-clipping triangulation.
// Every operation here is numeric with no hidden failure modes.
package geom

import "math"

// Vec2 is a 2D point/vector, used for the (u,v) parameter domain.
type Vec2 struct{ X, Y float64 }

// Vec3 is a 3D point/vector, used for reference positions.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Scale(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Dot(b Vec2) float64   { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec2) Norm() float64        { return math.Sqrt(a.Dot(a)) }
func (a Vec2) Dist(b Vec2) float64  { return a.Sub(b).Norm() }
func (a Vec2) Dist2(b Vec2) float64 { d := a.Sub(b); return d.Dot(d) }

// Normalize returns a unit-length copy of a, or the zero vector if a is
// (numerically) zero-length.
func (a Vec2) Normalize() Vec2 {
	n := a.Norm()
	if n < 1e-300 {
		return Vec2{}
	}
	return a.Scale(1 / n)
}

// Lerp2 linearly interpolates between a and b at parameter t in [0,1],
// carried from the original Vector2::Lerp used by the boundary mapper.
func Lerp2(a, b Vec2, t float64) Vec2 {
	return Vec2{a.X + t*(b.X-a.X), a.Y + t*(b.Y-a.Y)}
}

func (a Vec3) Add(b Vec3) Vec3 { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}
func (a Vec3) Norm() float64        { return math.Sqrt(a.Dot(a)) }
func (a Vec3) Dist(b Vec3) float64  { return a.Sub(b).Norm() }
func (a Vec3) Dist2(b Vec3) float64 { d := a.Sub(b); return d.Dot(d) }

// Normalize returns a unit-length copy of a, or the zero vector if a is
// (numerically) zero-length.
func (a Vec3) Normalize() Vec3 {
	n := a.Norm()
	if n < 1e-300 {
		return Vec3{}
	}
	return a.Scale(1 / n)
}

// Lerp3 linearly interpolates between a and b at parameter t in [0,1].
func Lerp3(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a.X + t*(b.X-a.X),
		a.Y + t*(b.Y-a.Y),
		a.Z + t*(b.Z-a.Z),
	}
}

// ClosestPointOnSegment projects p onto the segment [a,b] and clamps the
// projection parameter to [0,1], returning the clamped point and parameter.
func ClosestPointOnSegment(p, a, b Vec3) (Vec3, float64) {
	ab := b.Sub(a)
	denom := ab.Dot(ab)
	if denom < 1e-300 {
		return a, 0
	}
	t := p.Sub(a).Dot(ab) / denom
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Lerp3(a, b, t), t
}
