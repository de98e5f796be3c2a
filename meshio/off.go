// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package meshio

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"

	"github.com/numerigo/paramesh/mesh"
)

// LoadOFF reads a Geomview OFF file: an "OFF" header, a counts line
// (n_v n_f n_e), n_v position lines, then n_f face lines of the form
// `k i1 ... ik`.
func LoadOFF(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("meshio: cannot open OFF file %q: %v", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lines := offTokenizer{scanner: scanner}

	header, ok := lines.next()
	if !ok || strings.TrimSpace(header) != "OFF" {
		return nil, chk.Err("meshio: OFF file %q missing 'OFF' header", path)
	}

	counts, ok := lines.next()
	if !ok {
		return nil, chk.Err("meshio: OFF file %q missing counts line", path)
	}
	nv, nf, _, err := parseOFFCounts(counts)
	if err != nil {
		return nil, chk.Err("meshio: OFF file %q: %v", path, err)
	}

	m := mesh.NewMesh()
	verts := make([]*mesh.Vertex, nv)
	for i := 0; i < nv; i++ {
		line, ok := lines.next()
		if !ok {
			return nil, chk.Err("meshio: OFF file %q: expected %d vertex lines, ran out at %d", path, nv, i)
		}
		p, perr := parseVec3(strings.Fields(line))
		if perr != nil {
			return nil, chk.Err("meshio: OFF file %q vertex %d: %v", path, i, perr)
		}
		v := mesh.NewVertex(p)
		m.AddVertex(v)
		verts[i] = v
	}

	for i := 0; i < nf; i++ {
		line, ok := lines.next()
		if !ok {
			return nil, chk.Err("meshio: OFF file %q: expected %d face lines, ran out at %d", path, nf, i)
		}
		fields := strings.Fields(line)
		if len(fields) < 1 {
			return nil, chk.Err("meshio: OFF file %q face %d: empty line", path, i)
		}
		k, kerr := strconv.Atoi(fields[0])
		if kerr != nil || len(fields) < 1+k {
			return nil, chk.Err("meshio: OFF file %q face %d: malformed vertex count", path, i)
		}
		corners := make([]*mesh.Vertex, k)
		for j := 0; j < k; j++ {
			idx, ierr := strconv.Atoi(fields[1+j])
			if ierr != nil || idx < 0 || idx >= nv {
				return nil, chk.Err("meshio: OFF file %q face %d: bad vertex index %q", path, i, fields[1+j])
			}
			corners[j] = verts[idx]
		}
		m.AddFace(corners)
	}
	return m, nil
}

// SaveOFF writes m in Geomview OFF format, with n_e reported as the mesh's
// edge count.
func SaveOFF(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("meshio: cannot create OFF file %q: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	w.WriteString("OFF\n")
	fmt.Fprintf(w, "%d %d %d\n", m.NumVertices(), m.NumFaces(), m.NumEdges())
	for _, v := range m.Vertices() {
		fmt.Fprintf(w, "%.17g %.17g %.17g\n", v.Pos.X, v.Pos.Y, v.Pos.Z)
	}
	for _, face := range m.Faces() {
		verts := face.OrientedVertices()
		fmt.Fprintf(w, "%d", len(verts))
		for _, v := range verts {
			fmt.Fprintf(w, " %d", v.Index())
		}
		w.WriteString("\n")
	}
	if err := w.Flush(); err != nil {
		return chk.Err("meshio: cannot write OFF file %q: %v", path, err)
	}
	return nil
}

func parseOFFCounts(line string) (nv, nf, ne int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("counts line needs 3 integers, got %d", len(fields))
	}
	nv, err = strconv.Atoi(fields[0])
	if err != nil {
		return
	}
	nf, err = strconv.Atoi(fields[1])
	if err != nil {
		return
	}
	ne, err = strconv.Atoi(fields[2])
	return
}

// offTokenizer skips blank and comment ("#") lines, the only tolerance
// the OFF format needs beyond strict line counting.
type offTokenizer struct {
	scanner *bufio.Scanner
}

func (t *offTokenizer) next() (string, bool) {
	for t.scanner.Scan() {
		line := strings.TrimSpace(t.scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line, true
	}
	return "", false
}
