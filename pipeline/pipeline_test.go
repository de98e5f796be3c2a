// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numerigo/paramesh/energy"
	"github.com/numerigo/paramesh/geom"
	"github.com/numerigo/paramesh/mesh"
	"github.com/numerigo/paramesh/pipeline/projection"
)

func buildPlanarQuad() *mesh.Mesh {
	m := mesh.NewMesh()
	v0 := mesh.NewVertex(geom.Vec3{X: 0, Y: 0, Z: 0})
	v1 := mesh.NewVertex(geom.Vec3{X: 1, Y: 0, Z: 0})
	v2 := mesh.NewVertex(geom.Vec3{X: 1, Y: 1, Z: 0})
	v3 := mesh.NewVertex(geom.Vec3{X: 0, Y: 1, Z: 0})
	for _, v := range []*mesh.Vertex{v0, v1, v2, v3} {
		m.AddVertex(v)
	}
	m.AddFace([]*mesh.Vertex{v0, v1, v2, v3})
	return m
}

func buildTetrahedron() *mesh.Mesh {
	m := mesh.NewMesh()
	apex := mesh.NewVertex(geom.Vec3{X: 0, Y: 0, Z: 1})
	b0 := mesh.NewVertex(geom.Vec3{X: 0, Y: 0, Z: 0})
	b1 := mesh.NewVertex(geom.Vec3{X: 1, Y: 0, Z: 0})
	b2 := mesh.NewVertex(geom.Vec3{X: 0, Y: 1, Z: 0})
	for _, v := range []*mesh.Vertex{apex, b0, b1, b2} {
		m.AddVertex(v)
	}
	m.AddFace([]*mesh.Vertex{b0, b1, b2})
	m.AddFace([]*mesh.Vertex{apex, b1, b0})
	m.AddFace([]*mesh.Vertex{apex, b2, b1})
	m.AddFace([]*mesh.Vertex{apex, b0, b2})
	return m
}

func defaultOptions(kind projection.Kind) Options {
	return Options{
		FreeBoundaries: true,
		ProjectionKind: kind,
		PlanarScale:    1,
		EnergyType:     "isometric",
		Theta:          1,
		OptIters:       50,
		UnIters:        2000,
		ScaleIters:     0,
		C1:             0.4,
		Memory:         5,
	}
}

func TestRunPlanarQuadProducesUnitSquare(t *testing.T) {
	m := buildPlanarQuad()
	opts := defaultOptions(projection.Planar)
	res, err := Run(opts, m)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 4, res.NFree)
	assert.Equal(t, 1, res.NQuads+res.NTriangles/2)

	verts := m.Vertices()
	maxEdgeErr := 0.0
	expected := [][2]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}}
	for i := 0; i < 4; i++ {
		j := (i + 1) % 4
		dx := verts[j].U - verts[i].U
		dy := verts[j].V - verts[i].V
		got := dx*dx + dy*dy
		ex := (expected[j][0]-expected[i][0])*(expected[j][0]-expected[i][0]) +
			(expected[j][1]-expected[i][1])*(expected[j][1]-expected[i][1])
		d := got - ex
		if d < 0 {
			d = -d
		}
		if d > maxEdgeErr {
			maxEdgeErr = d
		}
	}
	assert.Less(t, maxEdgeErr, 1e-4)
}

func TestRunTetrahedronWithPinnedVertexCircularProjection(t *testing.T) {
	m := buildTetrahedron()
	b0 := m.Vertices()[1]
	b0.Pinned = true
	b0.U, b0.V = 0, 0

	opts := defaultOptions(projection.Circular)
	opts.EnergyType = "isometric"
	opts.OptIters = 200
	opts.UnIters = 2000
	res, err := Run(opts, m)
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 0.0, b0.U)
	assert.Equal(t, 0.0, b0.V)

	seen := make(map[[2]float64]bool)
	for _, v := range m.Vertices() {
		seen[[2]float64{v.U, v.V}] = true
	}
	assert.Equal(t, m.NumVertices(), len(seen))
}

func TestRunRejectsEmptyMesh(t *testing.T) {
	m := mesh.NewMesh()
	_, err := Run(defaultOptions(projection.Planar), m)
	assert.Error(t, err)
}

func TestRunRejectsUnsupportedFaceValence(t *testing.T) {
	m := mesh.NewMesh()
	verts := make([]*mesh.Vertex, 5)
	for i := range verts {
		verts[i] = mesh.NewVertex(geom.Vec3{X: float64(i), Y: 0, Z: 0})
		m.AddVertex(verts[i])
	}
	m.AddFace(verts)
	_, err := Run(defaultOptions(projection.UV), m)
	assert.Error(t, err)
}

func TestSetAsideFacesSkipsWhenFreeBoundaries(t *testing.T) {
	m := buildPlanarQuad()
	aside := setAsideFaces(m, true)
	assert.Nil(t, aside)
}

func TestPartitionFreePinnedOrdersFreeBeforePinned(t *testing.T) {
	m := buildPlanarQuad()
	verts := m.Vertices()
	verts[1].Pinned = true
	verts[3].Pinned = true

	nFree := partitionFreePinned(m, true)
	assert.Equal(t, 2, nFree)
	for i, v := range m.Vertices() {
		if i < nFree {
			assert.False(t, v.Pinned)
		} else {
			assert.True(t, v.Pinned)
		}
	}
}

func TestBuildIncidenceCountsPerVertexTriangles(t *testing.T) {
	m := buildTetrahedron()
	nFree := partitionFreePinned(m, true)
	tris, _, unTris, err := buildPrimitives(m, map[uint64]bool{}, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 4, len(unTris))
	assert.Equal(t, nFree, m.NumVertices())

	table := energy.BuildTriIncidence(tris, nFree)
	require.Len(t, table.IA, nFree+1)
	// every vertex of a tetrahedron touches exactly 3 of its 4 faces
	for v := 0; v < nFree; v++ {
		assert.Equal(t, 3, table.IA[v+1]-table.IA[v])
	}
}
