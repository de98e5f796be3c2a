// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package untangle implements the damped laplacian/barrier flow that
// removes inverted (negative-signed-area) triangles from an initial
// projection before the nonlinear optimizer runs, generalized from
// msolid's iterative stress-update drivers into a pure-geometry fixed
// point iteration over the sum-of-squared-negative-areas functional.
package untangle

import "github.com/numerigo/paramesh/energy"

// Triangle names one primitive's three corners in the combined
// [free|pinned] (u,v) coordinate arrays, mirroring energy.Triangle.
type Triangle struct {
	VertIdx [3]int
}

// Flow drives the damped step that minimizes the sum of squared signed
// areas over every currently-inverted triangle.
type Flow struct {
	Tris      []Triangle
	NFree     int     // corner indices in [0,NFree) are free and move; the rest are pinned
	UnFactor  float64 // damping factor in (0,1], halved on stall
	EvalEvery int     // functional re-evaluation cadence, spec default 1000
	MaxIters  int
}

// New returns a Flow at the spec's defaults (UnFactor=1, EvalEvery=1000).
func New(tris []Triangle, nFree, maxIters int) *Flow {
	return &Flow{Tris: tris, NFree: nFree, UnFactor: 1, EvalEvery: 1000, MaxIters: maxIters}
}

// Functional returns the sum of squared signed areas over every
// inverted (negative-area) triangle; 0 means the mesh is untangled.
func (o *Flow) Functional(u, v []float64) float64 {
	f := 0.0
	for _, t := range o.Tris {
		a := signedArea(u, v, t.VertIdx)
		if a < 0 {
			f += a * a
		}
	}
	return f
}

// Run iterates the damped flow in place over u,v until the functional
// stalls (per-eval-window decrease <= 1e-12) while either UnFactor <= 1e-5
// or the functional did not change at all over the window, or MaxIters is
// exhausted. A stall with UnFactor > 1e-5 and a changed functional halves
// UnFactor instead. It returns the number of iterations taken and
// whether the flow terminated by stalling (as opposed to exhausting
// MaxIters).
func (o *Flow) Run(u, v []float64) (iters int, converged bool) {
	weight := make([]float64, o.NFree)
	for _, t := range o.Tris {
		for _, idx := range t.VertIdx {
			if idx < o.NFree {
				weight[idx]++
			}
		}
	}

	fPrev := o.Functional(u, v)
	updateU := make([]float64, o.NFree)
	updateV := make([]float64, o.NFree)

	for iters = 0; iters < o.MaxIters; iters++ {
		for i := range updateU {
			updateU[i] = 0
			updateV[i] = 0
		}

		for _, t := range o.Tris {
			a, gU, gV := areaGrad(u, v, t.VertIdx)
			if a >= 0 {
				continue // barrier: only inverted triangles exert a pull
			}
			// descent on a^2: update -= d(a^2)/dv = 2*a*grad(a)
			for k, idx := range t.VertIdx {
				if idx >= o.NFree {
					continue
				}
				updateU[idx] -= 2 * a * gU[k]
				updateV[idx] -= 2 * a * gV[k]
			}
		}

		for i := 0; i < o.NFree; i++ {
			if weight[i] <= 0 {
				continue
			}
			u[i] += o.UnFactor * updateU[i] / weight[i]
			v[i] += o.UnFactor * updateV[i] / weight[i]
		}

		if (iters+1)%o.EvalEvery != 0 {
			continue
		}
		f := o.Functional(u, v)
		moved := f != fPrev
		if fPrev-f <= 1e-12 {
			if o.UnFactor > 1e-5 && moved {
				o.UnFactor *= 0.5
			} else {
				return iters + 1, true
			}
		}
		fPrev = f
	}
	return iters, false
}

// Delta recomputes the untangling parameter by delegating to energy's
// scan; 0 indicates the mesh is fully untangled and NLO may proceed.
func (o *Flow) Delta(u, v []float64) float64 {
	tris := make([]energy.Triangle, len(o.Tris))
	for i, t := range o.Tris {
		tris[i] = energy.Triangle{VertIdx: t.VertIdx}
	}
	return energy.ComputeDelta(tris, u, v)
}

// signedArea returns twice the signed area of the parameter-domain
// triangle named by idx, i.e. the cross product of its two edge vectors.
func signedArea(u, v []float64, idx [3]int) float64 {
	abU, abV := u[idx[1]]-u[idx[0]], v[idx[1]]-v[idx[0]]
	acU, acV := u[idx[2]]-u[idx[0]], v[idx[2]]-v[idx[0]]
	return abU*acV - abV*acU
}

// areaGrad returns signedArea alongside its gradient w.r.t. each of the
// three corners.
func areaGrad(u, v []float64, idx [3]int) (area float64, gU, gV [3]float64) {
	area = signedArea(u, v, idx)
	a0, a1, a2 := idx[0], idx[1], idx[2]
	gU[0] = v[a1] - v[a2]
	gU[1] = v[a2] - v[a0]
	gU[2] = v[a0] - v[a1]
	gV[0] = u[a2] - u[a1]
	gV[1] = u[a0] - u[a2]
	gV[2] = u[a1] - u[a0]
	return
}
