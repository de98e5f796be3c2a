// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"testing"

	"github.com/numerigo/paramesh/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildQuad() (*Mesh, [4]*Vertex) {
	m := NewMesh()
	var vs [4]*Vertex
	pts := []geom.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	for i, p := range pts {
		vs[i] = NewVertex(p)
		m.AddVertex(vs[i])
	}
	m.AddFace([]*Vertex{vs[0], vs[1], vs[2], vs[3]})
	return m, vs
}

func TestAddFaceSharesEdges(t *testing.T) {
	m, vs := buildQuad()
	require.Equal(t, 4, m.NumVertices())
	require.Equal(t, 4, m.NumEdges())
	require.Equal(t, 1, m.NumFaces())
	require.NoError(t, m.Validate())

	// add a second triangle sharing edge (v1,v2): must not duplicate it
	v4 := NewVertex(geom.Vec3{2, 0.5, 0})
	m.AddVertex(v4)
	m.AddFace([]*Vertex{vs[1], v4, vs[2]})
	assert.Equal(t, 6, m.NumEdges(), "shared edge (v1,v2) must not be duplicated")
	require.NoError(t, m.Validate())
}

func TestEdgeCanonicity(t *testing.T) {
	m, _ := buildQuad()
	for _, e := range m.Edges() {
		assert.LessOrEqual(t, e.v0.uid, e.v1.uid)
	}
}

func TestIsFreeAndLocked(t *testing.T) {
	m, vs := buildQuad()
	for _, e := range m.Edges() {
		assert.True(t, IsFree(e), "single-face quad: every edge is a boundary edge")
	}
	for _, v := range vs {
		assert.True(t, IsLocked(v), "all vertices on a one-face mesh are locked (all incident edges free)")
	}
}

func TestSplitEdgeThenJoinEdgeRoundTrips(t *testing.T) {
	m, vs := buildQuad()
	e01 := findEdge(m, vs[0], vs[1])
	require.NotNil(t, e01)

	nv, nf := m.NumVertices(), m.NumFaces()
	vNew := m.SplitEdge(e01, 0.5, false)
	require.NoError(t, m.Validate())
	assert.Equal(t, nv+1, m.NumVertices())
	assert.Equal(t, nf, m.NumFaces())

	// join back onto the original endpoint
	eNew := findEdge(m, vs[0], vNew)
	require.NotNil(t, eNew)
	m.JoinEdge(eNew, vs[0])
	require.NoError(t, m.Validate())
	assert.Equal(t, nv, m.NumVertices())
	assert.Equal(t, nf, m.NumFaces())
}

func TestSplitFaceThenJoinFaceRestoresFace(t *testing.T) {
	m, vs := buildQuad()
	f := m.Faces()[0]
	m.SplitFace(f, vs[0], vs[2])
	require.NoError(t, m.Validate())
	require.Equal(t, 2, m.NumFaces())

	f0, f1 := m.Faces()[0], m.Faces()[1]
	merged := m.JoinFace(f0, f1)
	require.NoError(t, m.Validate())
	assert.Equal(t, 1, m.NumFaces())
	assert.Equal(t, 4, merged.N())
}

func TestFlipFaceIsInvolution(t *testing.T) {
	m, _ := buildQuad()
	f := m.Faces()[0]
	orig := append([]bool{}, f.orient...)
	m.FlipFace(f)
	m.FlipFace(f)
	assert.Equal(t, orig, f.orient)
}

func TestSwapVertexPreservesUID(t *testing.T) {
	m, vs := buildQuad()
	uid0, uid1 := vs[0].UID(), vs[1].UID()
	m.SwapVertex(vs[0], vs[1])
	assert.Equal(t, uid0, vs[0].UID())
	assert.Equal(t, uid1, vs[1].UID())
	assert.Equal(t, 1, vs[0].Index())
	assert.Equal(t, 0, vs[1].Index())
}

func TestRemoveFaceCascadesToFreeStandingVertex(t *testing.T) {
	m, vs := buildQuad()
	f := m.Faces()[0]
	m.RemoveFace(f)
	assert.Equal(t, 0, m.NumFaces())
	assert.Equal(t, 0, m.NumEdges())
	assert.Equal(t, 0, m.NumVertices())
	for _, v := range vs {
		assert.Nil(t, v.mesh)
	}
}

func findEdge(m *Mesh, a, b *Vertex) *Edge {
	for _, e := range m.Edges() {
		if e.Has(a) && e.Has(b) {
			return e
		}
	}
	return nil
}
