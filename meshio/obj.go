// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package meshio implements the OBJ/OFF mesh formats and the pinned
// vertex list format the pipeline driver consumes and produces, reading
// line-oriented text the way the teacher's inp package reads ad hoc data
// files: tolerant of blank/comment lines, reporting InputError-class
// failures via gosl/chk rather than panicking on malformed input.
package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/numerigo/paramesh/geom"
	"github.com/numerigo/paramesh/mesh"
)

// LoadOBJ reads a Wavefront OBJ file into a new *mesh.Mesh: `v` lines
// become vertex positions, the i-th `vt` line becomes the i-th vertex's
// (u,v), and `f` lines (1-based, optionally `i/t[/n]`) become faces; the
// `t` index of a face corner is not used.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("meshio: cannot open OBJ file %q: %v", path, err)
	}
	defer f.Close()

	m := mesh.NewMesh()
	var verts []*mesh.Vertex
	var uvs [][2]float64

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			p, perr := parseVec3(fields[1:])
			if perr != nil {
				return nil, chk.Err("meshio: OBJ %q line %d: %v", path, lineNo, perr)
			}
			v := mesh.NewVertex(p)
			m.AddVertex(v)
			verts = append(verts, v)
		case "vt":
			uv, perr := parseVec2(fields[1:])
			if perr != nil {
				return nil, chk.Err("meshio: OBJ %q line %d: %v", path, lineNo, perr)
			}
			uvs = append(uvs, uv)
		case "f":
			idx, perr := parseFaceIndices(fields[1:], len(verts))
			if perr != nil {
				return nil, chk.Err("meshio: OBJ %q line %d: %v", path, lineNo, perr)
			}
			corners := make([]*mesh.Vertex, len(idx))
			for i, vi := range idx {
				corners[i] = verts[vi]
			}
			m.AddFace(corners)
		}
	}
	if serr := scanner.Err(); serr != nil {
		return nil, chk.Err("meshio: OBJ %q: %v", path, serr)
	}

	for i, v := range verts {
		if i < len(uvs) {
			v.U, v.V = uvs[i][0], uvs[i][1]
		}
	}
	return m, nil
}

// SaveOBJ writes m to path: one `v` per vertex position, one `vt` per
// (u,v), and one `f` per face referencing both by the same 1-based index.
func SaveOBJ(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("meshio: cannot create OBJ file %q: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, v := range m.Vertices() {
		fmt.Fprintf(w, "v %.17g %.17g %.17g\n", v.Pos.X, v.Pos.Y, v.Pos.Z)
	}
	for _, v := range m.Vertices() {
		fmt.Fprintf(w, "vt %.17g %.17g\n", v.U, v.V)
	}
	for _, face := range m.Faces() {
		w.WriteString("f")
		for _, v := range face.OrientedVertices() {
			fmt.Fprintf(w, " %d/%d", v.Index()+1, v.Index()+1)
		}
		w.WriteString("\n")
	}
	if err := w.Flush(); err != nil {
		return chk.Err("meshio: cannot write OBJ file %q: %v", path, err)
	}
	return nil
}

func parseVec3(fields []string) (geom.Vec3, error) {
	if len(fields) < 3 {
		return geom.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(fields))
	}
	x, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return geom.Vec3{}, err
	}
	y, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return geom.Vec3{}, err
	}
	z, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{X: x, Y: y, Z: z}, nil
}

func parseVec2(fields []string) ([2]float64, error) {
	if len(fields) < 2 {
		return [2]float64{}, fmt.Errorf("expected 2 coordinates, got %d", len(fields))
	}
	u, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return [2]float64{}, err
	}
	v, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return [2]float64{}, err
	}
	return [2]float64{u, v}, nil
}

// parseFaceIndices parses an OBJ face's vertex references (`i`, `i/t`,
// `i/t/n`, or `i//n`), taking only the position index and converting
// from 1-based to 0-based.
func parseFaceIndices(fields []string, nverts int) ([]int, error) {
	if len(fields) < 3 {
		return nil, fmt.Errorf("face needs at least 3 vertices, got %d", len(fields))
	}
	out := make([]int, len(fields))
	for i, tok := range fields {
		posTok := strings.SplitN(tok, "/", 2)[0]
		n, err := strconv.Atoi(posTok)
		if err != nil {
			return nil, fmt.Errorf("bad face index %q: %v", tok, err)
		}
		idx := n - 1
		if idx < 0 || idx >= nverts {
			return nil, fmt.Errorf("face index %d out of range [0,%d)", idx, nverts)
		}
		out[i] = idx
	}
	return out, nil
}
