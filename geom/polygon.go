// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package geom

// ReflexEps is the tolerance on the polygon-normal projection used to
// classify a vertex as reflex.
const ReflexEps = 1e-9

// PolygonNormal computes a weighted Newell-style normal for a (possibly
// non-planar, nearly-planar) polygon given in traversal order.
func PolygonNormal(pts []Vec3) Vec3 {
	var n Vec3
	if len(pts) < 3 {
		return n
	}
	v0 := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		n = n.Add(pts[i].Sub(v0).Cross(pts[i+1].Sub(v0)))
	}
	return n.Normalize()
}

// IsReflex reports whether vertex i of the polygon pts is reflex with
// respect to normal n: cross(prev-v, next-v) . n < -eps.
func IsReflex(pts []Vec3, i int, n Vec3) bool {
	np := len(pts)
	prev := pts[(i-1+np)%np]
	v := pts[i]
	next := pts[(i+1)%np]
	c := prev.Sub(v).Cross(next.Sub(v))
	return c.Dot(n) < -ReflexEps
}

// project3To2 drops pts into a local 2D frame aligned with normal n, for
// the point-in-triangle containment test used while ear-clipping.
func project3To2(pts []Vec3, n Vec3) []Vec2 {
	// pick the basis axis least aligned with n to build an orthonormal
	// in-plane frame (u,v).
	var ref Vec3
	if absF(n.X) <= absF(n.Y) && absF(n.X) <= absF(n.Z) {
		ref = Vec3{1, 0, 0}
	} else if absF(n.Y) <= absF(n.Z) {
		ref = Vec3{0, 1, 0}
	} else {
		ref = Vec3{0, 0, 1}
	}
	u := n.Cross(ref).Normalize()
	v := n.Cross(u)
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = Vec2{p.Dot(u), p.Dot(v)}
	}
	return out
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// TriangulateFan returns the fan triangulation from vertex 0 of a polygon
// with n vertices, as index triples; it does not look at positions, unlike
// the general ear-clipping path below.
func TriangulateFan(n int) [][3]int {
	if n < 3 {
		return nil
	}
	tris := make([][3]int, 0, n-2)
	for i := 1; i < n-1; i++ {
		tris = append(tris, [3]int{0, i, i + 1})
	}
	return tris
}

// TriangulateEarClip triangulates a simple, possibly non-convex polygon
// given by 3D points in traversal order, returning index triples into pts.
// Projects pts into the plane of the PolygonNormal normal, skips reflex
// corners of the projected polygon (isReflex2), and uses a point-in-triangle
// containment check guarding against clipping an ear that actually
// contains another vertex.
func TriangulateEarClip(pts []Vec3) [][3]int {
	n := len(pts)
	if n < 3 {
		return nil
	}
	if n == 3 {
		return [][3]int{{0, 1, 2}}
	}
	normal := PolygonNormal(pts)
	proj := project3To2(pts, normal)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	var tris [][3]int
	guard := 0
	maxGuard := n * n * 2
	for len(idx) > 3 && guard < maxGuard {
		guard++
		clipped := false
		m := len(idx)
		for k := 0; k < m; k++ {
			ip := idx[(k-1+m)%m]
			ic := idx[k]
			in := idx[(k+1)%m]
			if isReflex2(proj[ip], proj[ic], proj[in]) {
				continue
			}
			if earContainsOther(proj, idx, ip, ic, in) {
				continue
			}
			tris = append(tris, [3]int{ip, ic, in})
			idx = append(idx[:k], idx[k+1:]...)
			clipped = true
			break
		}
		if !clipped {
			break // degenerate/self-intersecting input; stop rather than loop forever
		}
	}
	if len(idx) == 3 {
		tris = append(tris, [3]int{idx[0], idx[1], idx[2]})
	}
	return tris
}

func isReflex2(prev, v, next Vec2) bool {
	e1 := v.Sub(prev)
	e2 := next.Sub(v)
	return e1.Cross(e2) < -ReflexEps
}

func earContainsOther(proj []Vec2, idx []int, ip, ic, in int) bool {
	a, b, c := proj[ip], proj[ic], proj[in]
	for _, j := range idx {
		if j == ip || j == ic || j == in {
			continue
		}
		if PointInTriangle(proj[j], a, b, c) {
			return true
		}
	}
	return false
}
