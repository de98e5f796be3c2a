// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pipeline wires the projection, untangling and optimization
// stages into the one end-to-end driver the CLI calls: partition
// vertices into [free|pinned], project an initial (u,v), remove any
// inverted primitives, minimize the assembled distortion energy, and
// write the result back onto the mesh — generalized from fem.Domain's
// setup-solve-writeback sequencing into a geometry-only pipeline.
package pipeline

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/numerigo/paramesh/energy"
	"github.com/numerigo/paramesh/linesearch"
	"github.com/numerigo/paramesh/mesh"
	"github.com/numerigo/paramesh/optimize"
	"github.com/numerigo/paramesh/pipeline/projection"
	"github.com/numerigo/paramesh/untangle"
	"github.com/numerigo/paramesh/vecops"
)

// Options configures one end-to-end parameterization run, named
// directly from the CLI's option table.
type Options struct {
	FreeBoundaries bool
	ProjectionKind projection.Kind
	PlanarScale    float64
	EnergyType     string  // "mips", "isometric", "smooth"
	Theta          float64 // isometric/MIPS blend; ignored by "smooth"
	OptIters       int
	UnIters        int
	ScaleIters     int
	C1             float64
	Memory         int
	Backend        vecops.Backend
}

// Result reports what the run did, for the CLI to log.
type Result struct {
	NFree, NPinned int
	NTriangles     int
	NQuads         int
	NSetAside      int
	UntangleIters  int
	Untangled      bool
	Optimize       *optimize.Result
}

// Run partitions m's vertices, projects an initial (u,v), untangles any
// inverted primitives, runs the optimizer, and writes the final (u,v)
// back onto m in place.
func Run(opts Options, m *mesh.Mesh) (*Result, error) {
	if m.NumVertices() == 0 {
		return nil, chk.Err("pipeline: mesh has no vertices")
	}

	aside := setAsideFaces(m, opts.FreeBoundaries)
	asideSet := make(map[uint64]bool, len(aside))
	for _, f := range aside {
		asideSet[f.UID()] = true
	}

	nFree := partitionFreePinned(m, opts.FreeBoundaries)
	nTotal := m.NumVertices()
	res := &Result{NFree: nFree, NPinned: nTotal - nFree, NSetAside: len(aside)}
	io.Pf("pipeline: %d free, %d pinned vertices, %d set-aside faces\n", nFree, res.NPinned, len(aside))

	model, err := energy.New(opts.EnergyType, opts.Theta)
	if err != nil {
		return nil, err
	}
	quadModel, _ := model.(energy.QuadModel)

	projCfg := projection.Config{Kind: opts.ProjectionKind, Scale: opts.PlanarScale, UnIters: opts.UnIters}
	if err := projection.Apply(projCfg, m, nFree); err != nil {
		return nil, chk.Err("pipeline: initial projection failed: %v", err)
	}

	tris, quads, unTris, err := buildPrimitives(m, asideSet, quadModel, 0)
	if err != nil {
		return nil, err
	}
	res.NTriangles, res.NQuads = len(tris), len(quads)

	table := energy.BuildTriIncidence(tris, nFree)
	if nFree > 0 {
		io.Pf("pipeline: %d triangles, %d quads, avg vertex valence %.2f\n",
			len(tris), len(quads), float64(len(table.JA))/float64(nFree))
	}

	u, v := make([]float64, nTotal), make([]float64, nTotal)
	for i, vert := range m.Vertices() {
		u[i], v[i] = vert.U, vert.V
	}

	delta := energy.ComputeDelta(tris, u, v)
	if delta < 0 {
		flow := untangle.New(unTris, nFree, opts.UnIters)
		iters, converged := flow.Run(u, v)
		res.UntangleIters, res.Untangled = iters, converged
		delta = flow.Delta(u, v)
		applyDelta(tris, quads, -delta)
		io.Pf("pipeline: untangler ran %d iterations, converged=%v, remaining delta=%v\n", iters, converged, delta)
	} else {
		res.Untangled = true
	}

	if opts.OptIters > 0 && nFree > 0 {
		optRes, err := runOptimizer(opts, model, quadModel, tris, quads, nFree, u, v)
		if err != nil {
			return nil, err
		}
		res.Optimize = optRes
	}

	for i, vert := range m.Vertices() {
		vert.U, vert.V = u[i], v[i]
	}
	return res, nil
}

// runOptimizer assembles the energy and gradient callback and the rescale
// callback, and drives the L-BFGS-CG optimizer for up to opts.OptIters
// outer iterations. The rescale callback runs only when the driver calls
// it (every opts.ScaleIters outer iterations); no rescale is performed
// before the first iteration.
func runOptimizer(opts Options, model energy.Model, quadModel energy.QuadModel, tris []energy.Triangle, quads []energy.Quad, nFree int, u, v []float64) (*optimize.Result, error) {
	asm := &energy.Assembler{Model: model, QuadModel: quadModel, Tris: tris, Quads: quads, NFree: nFree, Backend: opts.Backend}
	n := 2 * nFree
	x0 := make([]float64, n)
	copy(x0[:nFree], u[:nFree])
	copy(x0[nFree:], v[:nFree])

	eval := func(x []float64) (float64, []float64) {
		copy(u[:nFree], x[:nFree])
		copy(v[:nFree], x[nFree:])
		f, gu, gv := asm.Evaluate(u, v)
		grad := make([]float64, n)
		copy(grad[:nFree], gu)
		copy(grad[nFree:], gv)
		return f, grad
	}

	scaleState := 1.0
	baseU := append([]float64(nil), u[:nFree]...)
	baseV := append([]float64(nil), v[:nFree]...)
	rescale := func() (float64, bool, error) {
		phi := func(trial float64) float64 {
			for i := 0; i < nFree; i++ {
				u[i] = baseU[i] * trial
				v[i] = baseV[i] * trial
			}
			f, _, _ := asm.Evaluate(u, v)
			return f
		}
		best, _, err := linesearch.Minimize(phi, 0.1*scaleState, scaleState, 5*scaleState, 1e-6, 30)
		if err != nil {
			return 1, false, chk.Err("pipeline: rescale search failed: %v", err)
		}
		factor := best / scaleState
		scaleState = best
		phi(best) // leave u,v at the chosen scale
		return factor, true, nil
	}

	driver := optimize.New(optimize.Config{Memory: opts.Memory, C1: opts.C1, ScaleIters: opts.ScaleIters, MaxIters: opts.OptIters, Backend: opts.Backend})
	optRes, err := driver.Run(eval, rescale, x0)
	if err != nil {
		return nil, chk.Err("pipeline: optimizer failed: %v", err)
	}
	copy(u[:nFree], optRes.X[:nFree])
	copy(v[:nFree], optRes.X[nFree:])
	return optRes, nil
}

func applyDelta(tris []energy.Triangle, quads []energy.Quad, delta float64) {
	for i := range tris {
		tris[i].Constants.Delta = delta
	}
	for i := range quads {
		quads[i].Delta = delta
	}
}

// setAsideFaces identifies faces whose every vertex is pinned or locked
// when the mesh has no free boundary: such a face can't move regardless,
// so it is excluded from the primitive tables and left untouched on m.
func setAsideFaces(m *mesh.Mesh, freeBoundaries bool) []*mesh.Face {
	if freeBoundaries {
		return nil
	}
	var aside []*mesh.Face
	for _, f := range m.Faces() {
		fixed := true
		for _, vert := range f.OrientedVertices() {
			if !vert.Pinned && !mesh.IsLocked(vert) {
				fixed = false
				break
			}
		}
		if fixed {
			aside = append(aside, f)
		}
	}
	return aside
}

// partitionFreePinned reorders m's vertex slice in place into
// [free | pinned] via SwapVertex and returns the number of free
// vertices. pinned = v.Pinned || (!freeBoundaries && IsLocked(v)).
func partitionFreePinned(m *mesh.Mesh, freeBoundaries bool) int {
	verts := m.Vertices()
	nFree := 0
	for i := 0; i < len(verts); i++ {
		v := verts[i]
		pinned := v.Pinned || (!freeBoundaries && mesh.IsLocked(v))
		if !pinned {
			if i != nFree {
				m.SwapVertex(verts[nFree], verts[i])
			}
			nFree++
		}
	}
	return nFree
}

// buildPrimitives walks every non-set-aside face, building one
// energy.Triangle per triangular face, one energy.Quad per quad face
// when the model has a quad term (triangulating otherwise), and one
// untangle.Triangle per resulting triangle (quads contribute their two
// diagonal-split triangles) for the untangler's inversion test.
func buildPrimitives(m *mesh.Mesh, aside map[uint64]bool, quadModel energy.QuadModel, delta float64) (tris []energy.Triangle, quads []energy.Quad, unTris []untangle.Triangle, err error) {
	for _, f := range m.Faces() {
		if aside[f.UID()] {
			continue
		}
		verts := f.OrientedVertices()
		switch len(verts) {
		case 3:
			t := triangleFromVerts(verts, delta)
			tris = append(tris, t)
			unTris = append(unTris, untangle.Triangle{VertIdx: t.VertIdx})
		case 4:
			if quadModel != nil {
				quads = append(quads, energy.Quad{Delta: delta, VertIdx: quadIndices(verts)})
				unTris = append(unTris, splitQuadTriangles(verts)...)
			} else {
				t1, t2 := triangulateQuad(verts, delta)
				tris = append(tris, t1, t2)
				unTris = append(unTris, untangle.Triangle{VertIdx: t1.VertIdx}, untangle.Triangle{VertIdx: t2.VertIdx})
			}
		default:
			return nil, nil, nil, chk.Err("pipeline: face with %d vertices is not supported by the energy kernels (triangles and quads only)", len(verts))
		}
	}
	return tris, quads, unTris, nil
}

func triangleFromVerts(verts []*mesh.Vertex, delta float64) energy.Triangle {
	return energy.Triangle{
		Constants: energy.PrecomputeTriangle(verts[0].Pos, verts[1].Pos, verts[2].Pos, delta),
		VertIdx:   [3]int{verts[0].Index(), verts[1].Index(), verts[2].Index()},
	}
}

func triangulateQuad(verts []*mesh.Vertex, delta float64) (energy.Triangle, energy.Triangle) {
	t1 := triangleFromVerts([]*mesh.Vertex{verts[0], verts[1], verts[2]}, delta)
	t2 := triangleFromVerts([]*mesh.Vertex{verts[0], verts[2], verts[3]}, delta)
	return t1, t2
}

func splitQuadTriangles(verts []*mesh.Vertex) []untangle.Triangle {
	idx := quadIndices(verts)
	return []untangle.Triangle{
		{VertIdx: [3]int{idx[0], idx[1], idx[2]}},
		{VertIdx: [3]int{idx[0], idx[2], idx[3]}},
	}
}

func quadIndices(verts []*mesh.Vertex) [4]int {
	return [4]int{verts[0].Index(), verts[1].Index(), verts[2].Index(), verts[3].Index()}
}

