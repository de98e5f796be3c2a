// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import "github.com/numerigo/paramesh/vecops"

// Triangle bundles one primitive's precomputed constants with the
// indices of its three corners into the combined [free|pinned] (u,v)
// coordinate arrays: every index is valid (no sentinel), and a corner is
// free to move only if its index is below the Assembler's NFree.
type Triangle struct {
	Constants *Constants
	VertIdx   [3]int
}

// Quad parallels Triangle for the Knupp quad term.
type Quad struct {
	Delta   float64
	VertIdx [4]int
}

// Assembler accumulates f_T = sum(model.Value)/N_T and f_Q =
// sum(model.ValueQuad)/(4*N_Q) and their gradients w.r.t. every free
// vertex, via the per-triangle scatter / per-inner-vertex gather
// pattern: each primitive's local corner gradient is computed once and
// scattered into the global gradient array at the corner's free-vertex
// index (pinned corners are read for position but never scattered into),
// then every free vertex's total gradient is the gather (sum) of all
// scattered contributions touching it — the same two-phase assembly
// ele.Elem residual/stiffness scatter-gather uses for FEM assembly,
// generalized from per-element-DOF to per-triangle-corner.
type Assembler struct {
	Model     Model
	QuadModel QuadModel // nil if the model has no quad term
	Tris      []Triangle
	Quads     []Quad
	NFree     int // corner indices in [0,NFree) are optimized; [NFree,len(u)) are pinned
	Backend   vecops.Backend

	// triInc/quadInc cache the CSR gather tables built from Tris/Quads on
	// first use; Tris/Quads are fixed for the life of an Assembler, so the
	// table is built once rather than on every Evaluate call.
	triInc, quadInc *Incidence
}

// Evaluate returns the combined, normalized energy value and its gradient
// w.r.t. the NFree free-vertex (u,v) coordinates. u and v hold every
// vertex's coordinate (free vertices first, then pinned), per the
// pipeline's [free|pinned] ordering invariant.
//
// The returned value is offset by -(N_T>0) - (N_Q>0) so that the minimum
// reachable value is 0, attained only at an isometric embedding: with no
// quad term this is the isometric cost (1/N_T)*Sum(f_T) - 1, and with a
// quad term present it is the Knupp cost (1/N_T)*Sum(f_T) +
// (1/(4*N_Q))*Sum(f_Q) - (N_T>0) - (N_Q>0).
func (o *Assembler) Evaluate(u, v []float64) (f float64, gradU, gradV []float64) {
	gradU = make([]float64, o.NFree)
	gradV = make([]float64, o.NFree)

	nT := len(o.Tris)
	if nT > 0 {
		invNT := 1.0 / float64(nT)
		triF := make([]float64, nT)
		triG := make([][3]Grad2, nT)
		dispatch(o.Backend, nT, func(i int) {
			t := o.Tris[i]
			p := cornersOf3(t.VertIdx, u, v)
			triF[i] = o.Model.Value(t.Constants, p)
			triG[i] = o.Model.Grad(t.Constants, p)
		})
		for i := 0; i < nT; i++ {
			f += triF[i] * invNT
		}
		if o.triInc == nil || len(o.triInc.IA) != o.NFree+1 {
			o.triInc = BuildTriIncidence(o.Tris, o.NFree)
		}
		for idx := 0; idx < o.NFree; idx++ {
			for j := o.triInc.IA[idx]; j < o.triInc.IA[idx+1]; j++ {
				ti, c := o.triInc.JA[j], o.triInc.Corner[j]
				gradU[idx] += triG[ti][c].DU * invNT
				gradV[idx] += triG[ti][c].DV * invNT
			}
		}
		f -= 1
	}

	nQ := len(o.Quads)
	if nQ > 0 && o.QuadModel != nil {
		invFourNQ := 1.0 / (4.0 * float64(nQ))
		quadF := make([]float64, nQ)
		quadG := make([][4]Grad2, nQ)
		dispatch(o.Backend, nQ, func(i int) {
			q := o.Quads[i]
			p := cornersOf4(q.VertIdx, u, v)
			quadF[i] = o.QuadModel.ValueQuad(q.Delta, p)
			quadG[i] = o.QuadModel.GradQuad(q.Delta, p)
		})
		for i := 0; i < nQ; i++ {
			f += quadF[i] * invFourNQ
		}
		if o.quadInc == nil || len(o.quadInc.IA) != o.NFree+1 {
			o.quadInc = BuildQuadIncidence(o.Quads, o.NFree)
		}
		for idx := 0; idx < o.NFree; idx++ {
			for j := o.quadInc.IA[idx]; j < o.quadInc.IA[idx+1]; j++ {
				qi, c := o.quadInc.JA[j], o.quadInc.Corner[j]
				gradU[idx] += quadG[qi][c].DU * invFourNQ
				gradV[idx] += quadG[qi][c].DV * invFourNQ
			}
		}
		f -= 1
	}
	return
}

// dispatch fans n independent calls out to backend, falling back to a
// plain sequential loop when the Assembler was built without one.
func dispatch(backend vecops.Backend, n int, fn func(i int)) {
	if backend == nil {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	backend.Dispatch(n, fn)
}

func cornersOf3(idx [3]int, u, v []float64) [3]Point {
	return [3]Point{
		{u[idx[0]], v[idx[0]]},
		{u[idx[1]], v[idx[1]]},
		{u[idx[2]], v[idx[2]]},
	}
}

func cornersOf4(idx [4]int, u, v []float64) [4]Point {
	return [4]Point{
		{u[idx[0]], v[idx[0]]},
		{u[idx[1]], v[idx[1]]},
		{u[idx[2]], v[idx[2]]},
		{u[idx[3]], v[idx[3]]},
	}
}

// ComputeDelta scans every triangle's current signed parameter-domain
// area and returns min(det, 0) over the whole set: 0 once no primitive is
// inverted, strictly negative otherwise, the value the untangler drives
// toward zero and which feeds Constants.Delta for the energy barrier.
func ComputeDelta(tris []Triangle, u, v []float64) float64 {
	worst := 0.0
	for _, t := range tris {
		p := cornersOf3(t.VertIdx, u, v)
		d := rawDet(p)
		if d < worst {
			worst = d
		}
	}
	return worst
}
