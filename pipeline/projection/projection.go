// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package projection implements the pipeline driver's initial (u,v)
// projection step, selected by kind: planar (direct scaled projection),
// circular (boundary-to-circle plus damped laplacian smoothing), or uv
// (use the mesh's current (u,v), correcting global orientation). Apply
// picks the kind with a switch on Config.Kind; there is no registry of
// kinds.
package projection

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/numerigo/paramesh/mesh"
)

// Kind selects the initial projection strategy.
type Kind int

const (
	Planar   Kind = 0
	Circular Kind = 1
	UV       Kind = 2
)

// Config holds the tunables the driver passes into Apply.
type Config struct {
	Kind    Kind
	Scale   float64 // m_Scale divisor for planar projection
	UnIters int     // laplacian smoothing iterations for circular projection
}

// Apply projects the first nFree vertices of m (the free partition, per
// the pipeline's [free|pinned] ordering invariant established by
// mesh.SwapVertex) into the (u,v) plane, in place.
func Apply(cfg Config, m *mesh.Mesh, nFree int) error {
	switch cfg.Kind {
	case Planar:
		applyPlanar(m, nFree, cfg.Scale)
		return nil
	case Circular:
		return applyCircular(m, nFree, cfg.UnIters)
	case UV:
		applyUV(m, nFree)
		return nil
	default:
		return chk.Err("projection: unknown kind %d", cfg.Kind)
	}
}

func applyPlanar(m *mesh.Mesh, nFree int, scale float64) {
	if scale == 0 {
		scale = 1
	}
	verts := m.Vertices()
	for i := 0; i < nFree && i < len(verts); i++ {
		v := verts[i]
		v.U = v.Pos.X / scale
		v.V = v.Pos.Y / scale
	}
	// pinned vertices (index >= nFree) keep whatever (u,v) they already
	// carry, per the spec's "for pinned, use their (u,v) directly".
}

func applyCircular(m *mesh.Mesh, nFree int, unIters int) error {
	loops := boundaryLoops(m)
	longest := longestLoop(loops)
	if len(longest) == 0 {
		return chk.Err("projection: circular projection requested but no free boundary loop was found")
	}

	cx, cy, radius := boundingCircle(m)

	fixed := make(map[uint64]bool, len(longest))
	n := len(longest)
	for i, v := range longest {
		theta := 2 * math.Pi * float64(i) / float64(n)
		v.U = radius * math.Cos(theta)
		v.V = radius * math.Sin(theta)
		fixed[v.UID()] = true
	}

	verts := m.Vertices()
	for i := 0; i < nFree; i++ {
		v := verts[i]
		if fixed[v.UID()] {
			continue
		}
		// warm start: place at the position's planar offset from the
		// circle's center before the laplacian iteration runs
		v.U = v.Pos.X - cx
		v.V = v.Pos.Y - cy
	}

	for iter := 0; iter < unIters; iter++ {
		newU := make(map[uint64]float64)
		newV := make(map[uint64]float64)
		for i := 0; i < nFree; i++ {
			v := verts[i]
			if fixed[v.UID()] {
				continue
			}
			su, sv, sw := 0.0, 0.0, 0.0
			for _, e := range v.Edges() {
				nb := e.Other(v)
				w := tutteWeight(v, nb)
				su += w * nb.U
				sv += w * nb.V
				sw += w
			}
			if sw <= 0 {
				newU[v.UID()], newV[v.UID()] = v.U, v.V
				continue
			}
			newU[v.UID()] = su / sw
			newV[v.UID()] = sv / sw
		}
		for i := 0; i < nFree; i++ {
			v := verts[i]
			if fixed[v.UID()] {
				continue
			}
			v.U, v.V = newU[v.UID()], newV[v.UID()]
		}
	}
	return nil
}

// tutteWeight returns the uniform (Tutte) smoothing weight between two
// incident vertices; every neighbor contributes equally.
func tutteWeight(v, neighbor *mesh.Vertex) float64 {
	return 1
}

func applyUV(m *mesh.Mesh, nFree int) {
	reversed, total := 0, 0
	for _, f := range m.Faces() {
		verts := f.OrientedVertices()
		if len(verts) < 3 {
			continue
		}
		total++
		a, b, c := verts[0], verts[1], verts[2]
		det := (b.U-a.U)*(c.V-a.V) - (b.V-a.V)*(c.U-a.U)
		if det < 0 {
			reversed++
		}
	}
	if total > 0 && 2*reversed >= total {
		for _, f := range m.Faces() {
			m.FlipFace(f)
		}
	}
}

// boundaryLoops walks the boundary of the free vertex region: an edge
// between two free (unpinned) vertices counts as a boundary edge if at
// most one of its incident faces has every corner free. On a mesh with
// a literal geometric boundary and no pinned vertices this reduces to
// mesh.IsFree; on a closed mesh with one or more pinned anchor vertices
// it instead picks out the one-ring(s) separating the free region from
// the pinned anchors, which is what lets circular projection work on a
// closed surface pinned at an interior point.
func boundaryLoops(m *mesh.Mesh) [][]*mesh.Vertex {
	visited := make(map[uint64]bool)
	var loops [][]*mesh.Vertex
	for _, v := range m.Vertices() {
		if visited[v.UID()] || v.Pinned {
			continue
		}
		if !hasBoundaryEdge(v) {
			continue
		}
		loop := walkLoop(v, visited)
		if len(loop) > 0 {
			loops = append(loops, loop)
		}
	}
	return loops
}

func isFullyFree(f *mesh.Face) bool {
	for _, v := range f.OrientedVertices() {
		if v.Pinned {
			return false
		}
	}
	return true
}

// isRegionBoundaryEdge reports whether e separates the free vertex
// region from a pinned anchor (or from nothing, i.e. a literal mesh
// boundary): both endpoints must be free, and at most one of e's
// incident faces may have every corner free.
func isRegionBoundaryEdge(e *mesh.Edge) bool {
	if e.V0().Pinned || e.V1().Pinned {
		return false
	}
	freeFaces := 0
	for _, f := range e.Faces() {
		if isFullyFree(f) {
			freeFaces++
		}
	}
	return freeFaces <= 1
}

func hasBoundaryEdge(v *mesh.Vertex) bool {
	for _, e := range v.Edges() {
		if isRegionBoundaryEdge(e) {
			return true
		}
	}
	return false
}

func walkLoop(start *mesh.Vertex, visited map[uint64]bool) []*mesh.Vertex {
	var loop []*mesh.Vertex
	var prev *mesh.Vertex
	cur := start
	for cur != nil && !visited[cur.UID()] {
		visited[cur.UID()] = true
		loop = append(loop, cur)
		next := nextBoundaryNeighbor(cur, prev)
		prev, cur = cur, next
	}
	return loop
}

func nextBoundaryNeighbor(v, exclude *mesh.Vertex) *mesh.Vertex {
	for _, e := range v.Edges() {
		if !isRegionBoundaryEdge(e) {
			continue
		}
		other := e.Other(v)
		if other == exclude {
			continue
		}
		return other
	}
	return nil
}

func longestLoop(loops [][]*mesh.Vertex) []*mesh.Vertex {
	var best []*mesh.Vertex
	for _, l := range loops {
		if len(l) > len(best) {
			best = l
		}
	}
	return best
}

// boundingCircle returns the center and radius (max of the bbox width
// and height, per the spec) of the mesh's 3D positions projected onto
// the (x,y) plane.
func boundingCircle(m *mesh.Mesh) (cx, cy, radius float64) {
	verts := m.Vertices()
	if len(verts) == 0 {
		return 0, 0, 1
	}
	minX, maxX := verts[0].Pos.X, verts[0].Pos.X
	minY, maxY := verts[0].Pos.Y, verts[0].Pos.Y
	for _, v := range verts {
		if v.Pos.X < minX {
			minX = v.Pos.X
		}
		if v.Pos.X > maxX {
			maxX = v.Pos.X
		}
		if v.Pos.Y < minY {
			minY = v.Pos.Y
		}
		if v.Pos.Y > maxY {
			maxY = v.Pos.Y
		}
	}
	width, height := maxX-minX, maxY-minY
	radius = width
	if height > radius {
		radius = height
	}
	if radius <= 0 {
		radius = 1
	}
	return (minX + maxX) / 2, (minY + maxY) / 2, radius
}
