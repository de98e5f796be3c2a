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
	"github.com/cpmech/gosl/io"

	"github.com/numerigo/paramesh/mesh"
)

// PinnedVertex names a vertex id (into the mesh's vertex index space at
// load time) and the (u,v) it should be pinned to.
type PinnedVertex struct {
	ID   int
	U, V float64
}

// LoadPinned reads whitespace-separated `ignored id u v` lines, one per
// pinned vertex. Lines without exactly 4 tokens are silently skipped;
// lines with 4 tokens but unparseable numbers are skipped with a logged
// warning, per the format's documented tolerance.
func LoadPinned(path string) ([]PinnedVertex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, chk.Err("meshio: cannot open pinned-vertex file %q: %v", path, err)
	}
	defer f.Close()

	var out []PinnedVertex
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 4 {
			continue
		}
		id, idErr := strconv.Atoi(fields[1])
		u, uErr := strconv.ParseFloat(fields[2], 64)
		v, vErr := strconv.ParseFloat(fields[3], 64)
		if idErr != nil || uErr != nil || vErr != nil {
			io.Pf("meshio: pinned-vertex file %q line %d: skipping unparseable line %q\n", path, lineNo, line)
			continue
		}
		out = append(out, PinnedVertex{ID: id, U: u, V: v})
	}
	if serr := scanner.Err(); serr != nil {
		return nil, chk.Err("meshio: pinned-vertex file %q: %v", path, serr)
	}
	return out, nil
}

// SavePinned writes pins in the same `p id u v` format LoadPinned reads.
func SavePinned(path string, pins []PinnedVertex) error {
	f, err := os.Create(path)
	if err != nil {
		return chk.Err("meshio: cannot create pinned-vertex file %q: %v", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range pins {
		fmt.Fprintf(w, "p %d %.17g %.17g\n", p.ID, p.U, p.V)
	}
	if err := w.Flush(); err != nil {
		return chk.Err("meshio: cannot write pinned-vertex file %q: %v", path, err)
	}
	return nil
}

// ApplyPinned sets verts[p.ID].Pinned = true and (u,v) = (p.U, p.V) for
// every pin whose ID is a valid index into m's current vertex slice;
// out-of-range IDs are reported as an InputError rather than silently
// dropped, since the pinned file is expected to reference this exact
// mesh.
func ApplyPinned(m *mesh.Mesh, pins []PinnedVertex) error {
	verts := m.Vertices()
	for _, p := range pins {
		if p.ID < 0 || p.ID >= len(verts) {
			return chk.Err("meshio: pinned vertex id %d out of range [0,%d)", p.ID, len(verts))
		}
		v := verts[p.ID]
		v.Pinned = true
		v.U, v.V = p.U, p.V
	}
	return nil
}
