// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignedAreaUnitTriangle(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{1, 0}
	c := Vec2{0, 1}
	assert.InDelta(t, 1.0, SignedArea2(a, b, c), 1e-12)
}

func TestPointInTriangle(t *testing.T) {
	a := Vec2{0, 0}
	b := Vec2{4, 0}
	c := Vec2{0, 4}
	assert.True(t, PointInTriangle(Vec2{1, 1}, a, b, c))
	assert.False(t, PointInTriangle(Vec2{3, 3}, a, b, c))
}

func TestPolygonAreaSquare(t *testing.T) {
	sq := []Vec2{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	assert.InDelta(t, 1.0, PolygonArea(sq), 1e-12)
}

func TestTriangulateEarClipSquare(t *testing.T) {
	sq := []Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	tris := TriangulateEarClip(sq)
	require.Len(t, tris, 2)
}

func TestTriangulateEarClipLShape(t *testing.T) {
	// a non-convex L-shaped hexagon: ear-clipping must still produce
	// n-2 triangles and never pick the reflex corner as an ear.
	poly := []Vec3{
		{0, 0, 0}, {2, 0, 0}, {2, 1, 0},
		{1, 1, 0}, {1, 2, 0}, {0, 2, 0},
	}
	tris := TriangulateEarClip(poly)
	assert.Len(t, tris, len(poly)-2)
}

func TestCircumcenterEquilateral(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{1, 0, 0}
	c := Vec3{0.5, 0.8660254037844386, 0}
	center, radius := Circumcenter3(a, b, c)
	assert.InDelta(t, 0.5, center.X, 1e-9)
	assert.InDelta(t, 1/1.7320508075688772, radius, 1e-6)
}

func TestLerp2Midpoint(t *testing.T) {
	got := Lerp2(Vec2{0, 0}, Vec2{2, 4}, 0.5)
	assert.Equal(t, Vec2{1, 2}, got)
}
