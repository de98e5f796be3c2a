// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import "github.com/cpmech/gosl/chk"

// AddVertex transfers ownership of v into the mesh and assigns its index.
// Idempotent if v already belongs to this mesh.
func (m *Mesh) AddVertex(v *Vertex) int {
	if v.mesh == m {
		return v.index
	}
	if v.mesh != nil {
		chk.Panic("mesh: vertex already belongs to another mesh")
	}
	v.uid = m.allocUID()
	v.index = len(m.verts)
	v.mesh = m
	v.freestanding = false
	m.verts = append(m.verts, v)
	return v.index
}

// findOrCreateEdge returns the canonical edge between a and b, creating a
// new free-standing edge (and registering it with the mesh) if none exists
// yet for this vertex pair.
func (m *Mesh) findOrCreateEdge(a, b *Vertex) *Edge {
	k0, k1 := canonKey(a, b)
	if e, ok := m.edgeByKey[[2]uint64{k0, k1}]; ok {
		return e
	}
	v0, v1 := a, b
	if b.uid < a.uid {
		v0, v1 = b, a
	}
	e := &Edge{v0: v0, v1: v1, uid: m.allocUID(), mesh: m}
	e.index = len(m.edges)
	m.edges = append(m.edges, e)
	m.edgeByKey[[2]uint64{v0.uid, v1.uid}] = e
	v0.edges = append(v0.edges, e)
	v1.edges = append(v1.edges, e)
	return e
}

// AddFace transfers ownership of a face built from an ordered, oriented
// cycle of vertices (each already belonging to m, via AddVertex) into the
// mesh. Any edge in the cycle that already exists (by canonical vertex
// pair) is reused — structural sharing — rather than duplicated; new
// edges are registered. The face is appended to each of its edges' face
// lists, and each newly created edge is appended to each endpoint's edge
// list (findOrCreateEdge does the latter).
func (m *Mesh) AddFace(verts []*Vertex) *Face {
	if len(verts) < 3 {
		chk.Panic("mesh: face must have at least 3 vertices, got %d", len(verts))
	}
	n := len(verts)
	f := &Face{
		edges:  make([]*Edge, n),
		orient: make([]bool, n),
		uid:    m.allocUID(),
		mesh:   m,
	}
	for i := 0; i < n; i++ {
		a := verts[i]
		b := verts[(i+1)%n]
		e := m.findOrCreateEdge(a, b)
		f.edges[i] = e
		f.orient[i] = e.v0 == a
		e.faces = append(e.faces, f)
	}
	f.index = len(m.faces)
	m.faces = append(m.faces, f)
	return f
}

// RemoveFace detaches f from the mesh: removes it from each of its edges'
// face lists, then cascades into RemoveEdge for any edge left face-less.
func (m *Mesh) RemoveFace(f *Face) {
	if f.mesh != m {
		return
	}
	edges := append([]*Edge{}, f.edges...)
	removeFaceAt(m, f.index)
	for _, e := range edges {
		e.faces = removeFaceFromSlice(e.faces, f)
		if len(e.faces) == 0 {
			m.RemoveEdge(e)
		}
	}
}

// RemoveEdge detaches e from the mesh: removes any remaining incident
// faces first (RemoveFace, which would otherwise leave dangling
// references), removes e from each endpoint's edge list, then cascades
// into RemoveVertex for any endpoint left edge-less that was originally
// added as a free-standing vertex.
func (m *Mesh) RemoveEdge(e *Edge) {
	if e.mesh != m {
		return
	}
	for _, f := range append([]*Face{}, e.faces...) {
		m.RemoveFace(f)
	}
	if e.index < 0 || e.index >= len(m.edges) || m.edges[e.index] != e {
		return // already removed by the face cascade above
	}
	delete(m.edgeByKey, [2]uint64{e.v0.uid, e.v1.uid})
	removeEdgeAt(m, e.index)
	e.v0.edges = removeEdgeFromSlice(e.v0.edges, e)
	e.v1.edges = removeEdgeFromSlice(e.v1.edges, e)
	for _, v := range [2]*Vertex{e.v0, e.v1} {
		if len(v.edges) == 0 {
			m.RemoveVertex(v)
		}
	}
}

// RemoveVertex detaches v from the mesh. Any remaining incident edges are
// removed first via RemoveEdge.
func (m *Mesh) RemoveVertex(v *Vertex) {
	if v.mesh != m {
		return
	}
	for _, e := range append([]*Edge{}, v.edges...) {
		m.RemoveEdge(e)
	}
	if v.index < 0 || v.index >= len(m.verts) || m.verts[v.index] != v {
		return // already removed by the edge cascade above
	}
	removeVertexAt(m, v.index)
	v.mesh = nil
}

func removeVertexAt(m *Mesh, i int) {
	last := len(m.verts) - 1
	moved := m.verts[last]
	m.verts[i] = moved
	moved.index = i
	m.verts = m.verts[:last]
}

func removeEdgeAt(m *Mesh, i int) {
	last := len(m.edges) - 1
	moved := m.edges[last]
	m.edges[i] = moved
	moved.index = i
	m.edges = m.edges[:last]
}

func removeFaceAt(m *Mesh, i int) {
	last := len(m.faces) - 1
	moved := m.faces[last]
	m.faces[i] = moved
	moved.index = i
	m.faces = m.faces[:last]
}

func removeFaceFromSlice(s []*Face, f *Face) []*Face {
	out := s[:0]
	for _, x := range s {
		if x != f {
			out = append(out, x)
		}
	}
	return out
}

func removeEdgeFromSlice(s []*Edge, e *Edge) []*Edge {
	out := s[:0]
	for _, x := range s {
		if x != e {
			out = append(out, x)
		}
	}
	return out
}
