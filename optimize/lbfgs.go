// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package optimize implements the L-BFGS-preconditioned nonlinear
// conjugate gradient driver that advances the parameterization toward a
// local minimum of the assembled distortion energy, calling into
// linesearch for each step and into a caller-supplied energy evaluator —
// generalized from fem.Solver's time-stepping loop (snapshot state,
// advance, record history, check convergence) to an iteration-stepping
// optimization loop.
package optimize

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/numerigo/paramesh/linesearch"
	"github.com/numerigo/paramesh/vecops"
)

// EvalFunc evaluates the assembled energy and its gradient at x.
type EvalFunc func(x []float64) (f float64, grad []float64)

// RescaleFunc performs EK's rescale step (a small Brent search over a
// scale factor) and reports the factor actually applied; ok is false
// when the caller has nothing to rescale (e.g. no isometric term).
type RescaleFunc func() (factor float64, ok bool, err error)

// Config holds the driver's tunable constants, all named directly from
// the optimizer's per-outer-iteration protocol.
type Config struct {
	Memory     int     // m: number of (s,y) correction pairs retained
	C1         float64 // Armijo constant in [0.3, 0.5]
	ScaleIters int     // k % ScaleIters == 0 triggers a rescale attempt
	MaxIters   int     // outer iteration cap (opt_iters)
	Backend    vecops.Backend
}

// Result reports how the driver terminated.
type Result struct {
	X          []float64
	F          float64
	Iterations int
	Converged  bool
	Reason     string
}

// ring holds the limited-memory correction pairs as parallel slices of
// length m, indexed modulo m via end/bound.
type ring struct {
	s, y   [][]float64
	rho    []float64
	hscale []float64
	end    int
	bound  int
}

func newRing(m, n int) *ring {
	r := &ring{s: make([][]float64, m), y: make([][]float64, m), rho: make([]float64, m), hscale: make([]float64, m)}
	for i := 0; i < m; i++ {
		r.s[i] = make([]float64, n)
		r.y[i] = make([]float64, n)
	}
	return r
}

func (r *ring) clear() { r.end, r.bound = 0, 0 }

// Driver runs the L-BFGS-preconditioned CG loop described by the
// optimizer's state machine; construct with New and call Run once.
type Driver struct {
	cfg Config
	ls  *linesearch.Searcher
}

// New returns a Driver with a fresh line searcher.
func New(cfg Config) *Driver {
	return &Driver{cfg: cfg, ls: linesearch.New(cfg.C1)}
}

// Run drives x0 toward a local minimum of eval, optionally rescaling via
// rescale every ScaleIters outer iterations, for up to cfg.MaxIters
// outer iterations.
func (o *Driver) Run(eval EvalFunc, rescale RescaleFunc, x0 []float64) (*Result, error) {
	n := len(x0)
	if n == 0 {
		return nil, chk.Err("optimize: x0 must be non-empty")
	}
	m := o.cfg.Memory
	if m < 1 {
		m = 1
	}
	rb := newRing(m, n)
	b := o.cfg.Backend
	if b == nil {
		b = vecops.NewCPUBackend(0)
	}

	x := append([]float64(nil), x0...)
	f, g := eval(x)
	gPrev := append([]float64(nil), g...)
	d := append([]float64(nil), g...) // initial search direction: steepest descent
	dPrev := append([]float64(nil), d...)
	xPrev := append([]float64(nil), x...)

	scalesDisabled := false
	alpha := 0.0

	for k := 1; k <= o.cfg.MaxIters; k++ {
		copy(xPrev, x)
		copy(dPrev, d)
		gDotD := vecops.Dot(b, gPrev, d)

		tol, maxInner := 1e-6, 8
		if k == 1 {
			tol, maxInner = 1e-16, 30
		}

		phi := func(a float64) float64 {
			trial := make([]float64, n)
			for i := range trial {
				trial[i] = x[i] + a*d[i]
			}
			fv, _ := eval(trial)
			return fv
		}

		var err error
		alpha, f, err = o.ls.Search(phi, f, gDotD, tol, maxInner)
		if err != nil {
			return nil, chk.Err("optimize: line search failed at outer iter %d: %v", k, err)
		}

		if o.cfg.ScaleIters > 0 && !scalesDisabled && k%o.cfg.ScaleIters == 0 && rescale != nil {
			factor, ok, rerr := rescale()
			if rerr != nil {
				return nil, chk.Err("optimize: rescale failed at outer iter %d: %v", k, rerr)
			}
			if ok {
				o.ls.Restart()
				copy(d, gPrev)
				rb.clear()
				if absF(factor-1) < 1e-3 {
					scalesDisabled = true
				}
				continue
			}
		}

		if alpha >= -1e-16 {
			if k == 1 {
				return nil, chk.Err("optimize: no descent direction found on the first outer iteration")
			}
			io.Pf("optimize: restarting at outer iter %d (alpha=%v indicates a failed descent step)\n", k, alpha)
			o.ls.Restart()
			copy(d, gPrev)
			rb.clear()
			continue
		}

		for i := range x {
			x[i] = x[i] + alpha*d[i]
		}
		f, g = eval(x)

		sNew := rb.s[rb.end]
		yNew := rb.y[rb.end]
		for i := range x {
			sNew[i] = x[i] - xPrev[i]
			yNew[i] = g[i] - gPrev[i]
		}
		copy(gPrev, g)

		beta := 0.0
		yDotDPrev := vecops.Dot(b, yNew, dPrev)
		if absF(yDotDPrev) >= 1e-12 {
			beta = vecops.Dot(b, yNew, g) / yDotDPrev
		}
		if beta > 1e4 {
			beta = 0
		}
		if n > 0 && k%n == 0 {
			beta = 0
		}

		ySDot := vecops.Dot(b, yNew, sNew)
		if absF(ySDot) > 1e-300 {
			rb.rho[rb.end] = 1 / ySDot
		}
		yyDot := vecops.Dot(b, yNew, yNew)
		if yyDot > 1e-300 {
			rb.hscale[rb.end] = ySDot / yyDot
		}
		nextSlot := (rb.end + 1) % m
		gamma := rb.hscale[rb.end]
		if rb.hscale[nextSlot] > gamma {
			gamma = rb.hscale[nextSlot]
		}

		q := append([]float64(nil), g...)
		alphas := make([]float64, rb.bound)
		for step := 0; step < rb.bound; step++ {
			idx := (rb.end - step + m) % m
			alphas[step] = rb.rho[idx] * vecops.Dot(b, rb.s[idx], q)
			for i := range q {
				q[i] -= alphas[step] * rb.y[idx][i]
			}
		}
		for i := range q {
			q[i] *= gamma
		}
		for step := rb.bound - 1; step >= 0; step-- {
			idx := (rb.end - step + m) % m
			betaI := rb.rho[idx] * vecops.Dot(b, rb.y[idx], q)
			for i := range q {
				q[i] += (alphas[step] - betaI) * rb.s[idx][i]
			}
		}

		for i := range d {
			d[i] = q[i] + beta*dPrev[i]
		}

		rb.end = (rb.end + 1) % m
		if rb.bound < m {
			rb.bound++
		}
	}

	return &Result{X: x, F: f, Iterations: o.cfg.MaxIters, Converged: false, Reason: "reached max iterations"}, nil
}

func absF(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
