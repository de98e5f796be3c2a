// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/numerigo/paramesh/geom"
)

// SwapVertex exchanges a's and b's positions in the mesh vertex sequence.
// Unique ids are unchanged; only the index fields and slice slots swap.
// Used by the pipeline driver to partition vertices into [free | pinned].
func (m *Mesh) SwapVertex(a, b *Vertex) {
	if a.mesh != m || b.mesh != m {
		chk.Panic("mesh: SwapVertex on vertex not owned by this mesh")
	}
	ia, ib := a.index, b.index
	m.verts[ia], m.verts[ib] = b, a
	a.index, b.index = ib, ia
}

// SplitEdge inserts a new vertex at P(v0) + t*(P(v1)-P(v0)) and replaces
// every face incident to e with either a face that has the new vertex
// inserted between e's endpoints (triangulate=false) or a fan of triangles
// through the new vertex (triangulate=true).
func (m *Mesh) SplitEdge(e *Edge, t float64, triangulate bool) *Vertex {
	if e.mesh != m {
		chk.Panic("mesh: SplitEdge on edge not owned by this mesh")
	}
	pos := geom.Lerp3(e.v0.Pos, e.v1.Pos, t)
	uv := geom.Lerp2(geom.Vec2{X: e.v0.U, Y: e.v0.V}, geom.Vec2{X: e.v1.U, Y: e.v1.V}, t)
	vNew := NewVertex(pos)
	vNew.U, vNew.V = uv.X, uv.Y
	m.AddVertex(vNew)

	faces := append([]*Face{}, e.faces...)
	v0, v1 := e.v0, e.v1

	for _, f := range faces {
		rebuildSplitFace(m, f, v0, v1, vNew, triangulate)
	}
	for _, f := range faces {
		m.RemoveFace(f)
	}
	m.RemoveEdge(e)
	return vNew
}

// rebuildSplitFace reconstructs a face that used to traverse directly from
// v0 to v1 (or v1 to v0) so that it now passes through vNew, either as a
// plain (n+1)-gon or — if triangulate — as a fan of triangles anchored at
// vNew. The new faces are added alongside f; the caller removes f.
func rebuildSplitFace(m *Mesh, f *Face, v0, v1, vNew *Vertex, triangulate bool) {
	oldVerts := f.OrientedVertices()
	n := len(oldVerts)
	var newVerts []*Vertex
	for i := 0; i < n; i++ {
		a, b := oldVerts[i], oldVerts[(i+1)%n]
		newVerts = append(newVerts, a)
		if (a == v0 && b == v1) || (a == v1 && b == v0) {
			newVerts = append(newVerts, vNew)
		}
	}
	if !triangulate || len(newVerts) <= 3 {
		m.AddFace(newVerts)
		return
	}
	// fan triangulation anchored at vNew's index within newVerts
	anchor := 0
	for i, v := range newVerts {
		if v == vNew {
			anchor = i
			break
		}
	}
	nn := len(newVerts)
	for i := 1; i < nn-1; i++ {
		a := newVerts[anchor]
		b := newVerts[(anchor+i)%nn]
		c := newVerts[(anchor+i+1)%nn]
		m.AddFace([]*Vertex{a, b, c})
	}
}

// JoinEdge collapses e onto vertex v (one of e's endpoints): every face
// incident to e's other endpoint that is not incident to e is rebuilt with
// v substituted for the other endpoint, then e's incident faces (which
// still reference the collapsed pair directly) are removed.
func (m *Mesh) JoinEdge(e *Edge, v *Vertex) {
	if e.mesh != m {
		chk.Panic("mesh: JoinEdge on edge not owned by this mesh")
	}
	if !e.Has(v) {
		chk.Panic("mesh: JoinEdge target vertex is not an endpoint of e")
	}
	other := e.Other(v)
	otherFaces := append([]*Edge{}, other.edges...)
	var toRebuild []*Face
	seen := make(map[uint64]bool)
	for _, oe := range otherFaces {
		for _, f := range oe.faces {
			if seen[f.uid] {
				continue
			}
			seen[f.uid] = true
			if !faceHasEdge(f, e) {
				toRebuild = append(toRebuild, f)
			}
		}
	}
	for _, f := range toRebuild {
		verts := f.OrientedVertices()
		for i, vv := range verts {
			if vv == other {
				verts[i] = v
			}
		}
		m.AddFace(verts)
		m.RemoveFace(f)
	}
	for _, f := range append([]*Face{}, e.faces...) {
		m.RemoveFace(f)
	}
	m.RemoveEdge(e)
}

func faceHasEdge(f *Face, e *Edge) bool {
	for _, fe := range f.edges {
		if fe == e {
			return true
		}
	}
	return false
}

// SplitFace divides f into two faces along the chord (v0,v1): both
// vertices must belong to f and must not already be adjacent within f.
func (m *Mesh) SplitFace(f *Face, v0, v1 *Vertex) *Edge {
	verts := f.OrientedVertices()
	i0, i1 := -1, -1
	for i, v := range verts {
		if v == v0 {
			i0 = i
		}
		if v == v1 {
			i1 = i
		}
	}
	if i0 < 0 || i1 < 0 {
		chk.Panic("mesh: SplitFace chord endpoints must belong to the face")
	}
	n := len(verts)
	if (i1-i0+n)%n == 1 || (i0-i1+n)%n == 1 {
		chk.Panic("mesh: SplitFace chord endpoints are already adjacent")
	}
	var a, b []*Vertex
	for i := i0; ; i = (i + 1) % n {
		a = append(a, verts[i])
		if i == i1 {
			break
		}
	}
	for i := i1; ; i = (i + 1) % n {
		b = append(b, verts[i])
		if i == i0 {
			break
		}
	}
	m.AddFace(a)
	m.AddFace(b)
	m.RemoveFace(f)
	return m.findOrCreateEdge(v0, v1)
}

// JoinFace merges f0 and f1 if they share exactly one edge, returning the
// merged face. If they share a different number of edges, f0 is returned
// unchanged (the merge fails silently, per spec).
//
// Orientation is preserved via the shared-edge parity rule: if f0 and f1
// traverse the shared edge in the same direction, f1's extra vertices are
// inserted in reverse order; otherwise forward.
func (m *Mesh) JoinFace(f0, f1 *Face) *Face {
	shared := sharedEdges(f0, f1)
	if len(shared) != 1 {
		return f0
	}
	e := shared[0]
	v0v, v1v := f0.OrientedVertices(), f1.OrientedVertices()
	i0 := edgePosInFace(f0, e)
	j0 := edgePosInFace(f1, e)

	// does f0 traverse e as (v0.v0->v0.v1) i.e. forward canonical?
	f0Forward := f0.orient[i0]
	f1Forward := f1.orient[j0]
	sameDirection := f0Forward == f1Forward

	n0, n1 := len(v0v), len(v1v)
	// extra vertices of f1, i.e. all vertices except the two endpoints
	// of the shared edge, starting just after the edge.
	start := (j0 + 2) % n1
	extra := make([]*Vertex, 0, n1-2)
	for k := 0; k < n1-2; k++ {
		extra = append(extra, v1v[(start+k)%n1])
	}
	if sameDirection {
		reverseVerts(extra)
	}
	insertAt := (i0 + 1) % n0
	merged := make([]*Vertex, 0, n0+len(extra))
	merged = append(merged, v0v[:insertAt]...)
	merged = append(merged, extra...)
	merged = append(merged, v0v[insertAt:]...)

	joined := m.AddFace(merged)
	m.RemoveFace(f0)
	m.RemoveFace(f1)
	return joined
}

func sharedEdges(f0, f1 *Face) []*Edge {
	set := make(map[uint64]*Edge, len(f0.edges))
	for _, e := range f0.edges {
		set[e.uid] = e
	}
	var out []*Edge
	for _, e := range f1.edges {
		if _, ok := set[e.uid]; ok {
			out = append(out, e)
		}
	}
	return out
}

func edgePosInFace(f *Face, e *Edge) int {
	for i, fe := range f.edges {
		if fe == e {
			return i
		}
	}
	return -1
}

func reverseVerts(vs []*Vertex) {
	for i, j := 0, len(vs)-1; i < j; i, j = i+1, j-1 {
		vs[i], vs[j] = vs[j], vs[i]
	}
}

// FlipFace reverses f's traversal direction: the edge order is reversed
// and every edge orientation bit is negated.
func (m *Mesh) FlipFace(f *Face) {
	n := len(f.orient)
	reordered := make([]*Edge, n)
	reorientedBits := make([]bool, n)
	for i := 0; i < n; i++ {
		reordered[i] = f.edges[n-1-i]
		reorientedBits[i] = !f.orient[n-1-i]
	}
	f.edges = reordered
	f.orient = reorientedBits
}
