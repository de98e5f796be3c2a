// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numerigo/paramesh/geom"
	"github.com/numerigo/paramesh/mesh"
)

func buildQuad() *mesh.Mesh {
	m := mesh.NewMesh()
	v0 := mesh.NewVertex(geom.Vec3{X: 0, Y: 0, Z: 0})
	v1 := mesh.NewVertex(geom.Vec3{X: 1, Y: 0, Z: 0})
	v2 := mesh.NewVertex(geom.Vec3{X: 1, Y: 1, Z: 0})
	v3 := mesh.NewVertex(geom.Vec3{X: 0, Y: 1, Z: 0})
	for _, v := range []*mesh.Vertex{v0, v1, v2, v3} {
		m.AddVertex(v)
	}
	m.AddFace([]*mesh.Vertex{v0, v1, v2, v3})
	v0.U, v0.V = 0, 0
	v1.U, v1.V = 1, 0
	v2.U, v2.V = 1, 1
	v3.U, v3.V = 0, 1
	return m
}

func TestOBJRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.obj")
	m := buildQuad()

	require.NoError(t, SaveOBJ(path, m))
	loaded, err := LoadOBJ(path)
	require.NoError(t, err)

	assert.Equal(t, m.NumVertices(), loaded.NumVertices())
	assert.Equal(t, m.NumFaces(), loaded.NumFaces())
	for i, v := range m.Vertices() {
		lv := loaded.Vertices()[i]
		assert.InDelta(t, v.Pos.X, lv.Pos.X, 1e-6)
		assert.InDelta(t, v.U, lv.U, 1e-6)
		assert.InDelta(t, v.V, lv.V, 1e-6)
	}
}

func TestOFFRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quad.off")
	m := buildQuad()

	require.NoError(t, SaveOFF(path, m))
	loaded, err := LoadOFF(path)
	require.NoError(t, err)

	assert.Equal(t, m.NumVertices(), loaded.NumVertices())
	assert.Equal(t, m.NumFaces(), loaded.NumFaces())
	assert.Equal(t, 4, loaded.Faces()[0].N())
}

func TestLoadPinnedSkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pins.txt")
	content := "x 2 0.5 0.5\nnot enough tokens\nx 3 bad 1.0\nx 1 0.1 0.2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	pins, err := LoadPinned(path)
	require.NoError(t, err)
	require.Len(t, pins, 2)
	assert.Equal(t, 2, pins[0].ID)
	assert.Equal(t, 1, pins[1].ID)
}

func TestApplyPinnedSetsFlagAndCoordinates(t *testing.T) {
	m := buildQuad()
	pins := []PinnedVertex{{ID: 2, U: 0.5, V: 0.5}}
	require.NoError(t, ApplyPinned(m, pins))

	v2 := m.Vertices()[2]
	assert.True(t, v2.Pinned)
	assert.Equal(t, 0.5, v2.U)
	assert.Equal(t, 0.5, v2.V)

	for i, v := range m.Vertices() {
		if i != 2 {
			assert.False(t, v.Pinned)
		}
	}
}

func TestApplyPinnedRejectsOutOfRangeID(t *testing.T) {
	m := buildQuad()
	err := ApplyPinned(m, []PinnedVertex{{ID: 99, U: 0, V: 0}})
	assert.Error(t, err)
}
