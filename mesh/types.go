// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements the non-manifold surface representation the
// parameterization pipeline edits: an arena of vertices/edges/faces indexed
// by position, with a stable unique id surviving reordering and removal.
//
// The mesh owns its entities in three slices (the arena), and each
// entity's index is its position there. Adjacency is held as direct
// pointers (vertex -> edges, edge -> vertices and faces, face -> edges),
// not as indices into those slices; entities only point to siblings owned
// by the same *Mesh.
package mesh

import "github.com/numerigo/paramesh/geom"

// Vertex is a mesh vertex: a 3D position, an optional parameterized (u,v),
// a pinned flag, and the insertion-ordered list of incident edges.
type Vertex struct {
	uid   uint64
	index int

	Pos    geom.Vec3
	U, V   float64
	Pinned bool
	Tag    int

	// Weights holds per-neighbor barycentric or conformal weights, keyed
	// by the neighbor vertex's unique id, normalized to sum to 1.
	Weights map[uint64]float64

	edges []*Edge // insertion order

	mesh    *Mesh
	freestanding bool // true until AddVertex transfers ownership
}

// UID returns the vertex's stable unique id, usable as a hash key across
// any sequence of add/remove/swap edits.
func (v *Vertex) UID() uint64 { return v.uid }

// Index returns the vertex's current position in the mesh's vertex slice.
// Invalid once the vertex has been removed.
func (v *Vertex) Index() int { return v.index }

// Edges returns the vertex's incident edges in insertion order. Callers
// must not mutate the returned slice.
func (v *Vertex) Edges() []*Edge { return v.edges }

// NewVertex creates a free-standing vertex at position p. It must be
// passed to Mesh.AddVertex (directly, or via AddFace) before it takes part
// in any mesh topology.
func NewVertex(p geom.Vec3) *Vertex {
	return &Vertex{Pos: p, Weights: make(map[uint64]float64), freestanding: true}
}

// Edge is an unordered pair of vertex references stored in canonical form:
// the vertex with the smaller unique id is always v0.
type Edge struct {
	uid   uint64
	index int

	v0, v1 *Vertex
	faces  []*Face // insertion order; 0, 1, 2 or >=3 (t-join)

	mesh *Mesh
}

func (e *Edge) UID() uint64   { return e.uid }
func (e *Edge) Index() int    { return e.index }
func (e *Edge) V0() *Vertex   { return e.v0 }
func (e *Edge) V1() *Vertex   { return e.v1 }
func (e *Edge) Faces() []*Face { return e.faces }

// Other returns the endpoint of e that is not v.
func (e *Edge) Other(v *Vertex) *Vertex {
	if v == e.v0 {
		return e.v1
	}
	return e.v0
}

// Has reports whether v is one of e's endpoints.
func (e *Edge) Has(v *Vertex) bool { return v == e.v0 || v == e.v1 }

// canonKey returns the canonical (v0.uid, v1.uid) pair used to look up a
// structurally-shared edge for a given unordered vertex pair.
func canonKey(a, b *Vertex) (uint64, uint64) {
	if a.uid <= b.uid {
		return a.uid, b.uid
	}
	return b.uid, a.uid
}

// Face is an ordered cycle of edges of length >= 3, with an orientation
// bit per edge: true if the edge's canonical v0 coincides with the face's
// traversal direction at that position.
type Face struct {
	uid   uint64
	index int

	edges  []*Edge
	orient []bool
	Tag    int

	mesh *Mesh
}

func (f *Face) UID() uint64 { return f.uid }
func (f *Face) Index() int  { return f.index }

// Edges returns the face's incident edges in traversal order. Callers
// must not mutate the returned slice.
func (f *Face) Edges() []*Edge { return f.edges }

// N returns the number of edges (== number of vertices) of the face.
func (f *Face) N() int { return len(f.edges) }

// OrientedVertices returns the face's vertices in traversal order.
func (f *Face) OrientedVertices() []*Vertex {
	n := len(f.edges)
	out := make([]*Vertex, n)
	for i, e := range f.edges {
		if f.orient[i] {
			out[i] = e.v0
		} else {
			out[i] = e.v1
		}
	}
	return out
}

// OrientedPoints returns the 3D positions of OrientedVertices.
func (f *Face) OrientedPoints() []geom.Vec3 {
	vs := f.OrientedVertices()
	out := make([]geom.Vec3, len(vs))
	for i, v := range vs {
		out[i] = v.Pos
	}
	return out
}

// Mesh owns three arenas — vertices, edges, faces — each indexed by
// position; an entity's Index() always equals its position in the
// matching slice, recomputed whenever the slice is reordered.
type Mesh struct {
	verts []*Vertex
	edges []*Edge
	faces []*Face

	edgeByKey map[[2]uint64]*Edge
	nextUID   uint64
}

// NewMesh returns an empty mesh.
func NewMesh() *Mesh {
	return &Mesh{edgeByKey: make(map[[2]uint64]*Edge)}
}

func (m *Mesh) allocUID() uint64 {
	m.nextUID++
	return m.nextUID
}

// Vertices, Edges and Faces return the mesh's entity slices in index
// order. Callers must not mutate the returned slices.
func (m *Mesh) Vertices() []*Vertex { return m.verts }
func (m *Mesh) Edges() []*Edge      { return m.edges }
func (m *Mesh) Faces() []*Face      { return m.faces }

func (m *Mesh) NumVertices() int { return len(m.verts) }
func (m *Mesh) NumEdges() int    { return len(m.edges) }
func (m *Mesh) NumFaces() int    { return len(m.faces) }
