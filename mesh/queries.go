// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/cpmech/gosl/chk"
	"github.com/numerigo/paramesh/geom"
)

// IsFree reports whether e is a boundary edge: it has at most one
// incident face.
func IsFree(e *Edge) bool { return len(e.faces) <= 1 }

// IsTjoin reports whether e is shared by three or more faces.
func IsTjoin(e *Edge) bool { return len(e.faces) >= 3 }

// IsLocked reports whether v is locked: every incident edge is free or a
// t-join, or v has no edges at all.
func IsLocked(v *Vertex) bool {
	if len(v.edges) == 0 {
		return true
	}
	for _, e := range v.edges {
		if !IsFree(e) && !IsTjoin(e) {
			return false
		}
	}
	return true
}

// IncidentFaces returns the faces touching v, visiting each face exactly
// once even when multiple of v's incident edges border the same face.
func (v *Vertex) IncidentFaces() []*Face {
	seen := make(map[uint64]bool)
	var out []*Face
	for _, e := range v.edges {
		for _, f := range e.faces {
			if !seen[f.uid] {
				seen[f.uid] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// AdjacentFaces returns the faces neighboring f across any of its
// incident edges, excluding f itself.
func (f *Face) AdjacentFaces() []*Face {
	seen := map[uint64]bool{f.uid: true}
	var out []*Face
	for _, e := range f.edges {
		for _, g := range e.faces {
			if !seen[g.uid] {
				seen[g.uid] = true
				out = append(out, g)
			}
		}
	}
	return out
}

// Normal computes the face normal with the weighted Newell-style sum:
// take v0 = the first traversed vertex, and sum cross(p[i+1]-v0, p[i]-v0)
// for i=1..n-2, normalized.
func (f *Face) Normal() geom.Vec3 {
	pts := f.OrientedPoints()
	n := len(pts)
	if n < 3 {
		return geom.Vec3{}
	}
	v0 := pts[0]
	var sum geom.Vec3
	for i := 1; i < n-1; i++ {
		sum = sum.Add(pts[i+1].Sub(v0).Cross(pts[i].Sub(v0)))
	}
	return sum.Normalize()
}

// Triangulate ear-clips f (assumed simple, non-convex allowed) and returns
// the resulting triangle faces as new mesh faces; f itself is removed.
func (m *Mesh) Triangulate(f *Face) []*Face {
	verts := f.OrientedVertices()
	pts := make([]geom.Vec3, len(verts))
	for i, v := range verts {
		pts[i] = v.Pos
	}
	tris := geom.TriangulateEarClip(pts)
	out := make([]*Face, 0, len(tris))
	for _, t := range tris {
		out = append(out, m.AddFace([]*Vertex{verts[t[0]], verts[t[1]], verts[t[2]]}))
	}
	m.RemoveFace(f)
	return out
}

// Validate re-derives every reverse index from scratch and compares it
// against the live adjacency tables, returning the first inconsistency
// found. Intended for tests and for debug-build assertions after batches
// of Euler edits, mirroring the original mesh's CheckConsistency pass.
func (m *Mesh) Validate() error {
	for i, v := range m.verts {
		if v.index != i {
			return chk.Err("mesh: vertex index mismatch: slot %d holds vertex with index %d", i, v.index)
		}
	}
	for i, e := range m.edges {
		if e.index != i {
			return chk.Err("mesh: edge index mismatch: slot %d holds edge with index %d", i, e.index)
		}
		if e.v0.uid > e.v1.uid {
			return chk.Err("mesh: edge %d is not canonical: v0.uid=%d > v1.uid=%d", e.uid, e.v0.uid, e.v1.uid)
		}
	}
	for i, f := range m.faces {
		if f.index != i {
			return chk.Err("mesh: face index mismatch: slot %d holds face with index %d", i, f.index)
		}
		for _, e := range f.edges {
			if !faceHasEdge(f, e) {
				return chk.Err("mesh: face %d missing edge %d in its own edge list", f.uid, e.uid)
			}
			found := false
			for _, ef := range e.faces {
				if ef == f {
					found = true
					break
				}
			}
			if !found {
				return chk.Err("mesh: edge %d does not list face %d that references it", e.uid, f.uid)
			}
		}
	}
	for _, v := range m.verts {
		for _, e := range v.edges {
			if !e.Has(v) {
				return chk.Err("mesh: vertex %d's edge list contains edge %d that does not touch it", v.uid, e.uid)
			}
		}
	}
	return nil
}
