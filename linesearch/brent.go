// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linesearch implements the bounded 1-D minimizer the nonlinear
// optimizer calls along each search direction: a fast Wolfe-style
// sufficient-decrease check at the canonical step alpha=-1, falling back
// to Brent's combined parabolic-interpolation / golden-section search,
// generalized from msolid.Driver's central-difference consistency
// checking into a production-path minimizer.
package linesearch

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Func evaluates phi(alpha) = f(x + alpha*d) for the caller's current
// point x and search direction d, both closed over by the caller.
type Func func(alpha float64) float64

const (
	zeps  = 1e-12
	cgold = 0.3819660112501051 // (3-sqrt(5))/2
)

// Minimize exposes brent to callers outside the package that need a
// one-off bounded 1-D minimization rather than the stateful per-outer-
// iteration Searcher protocol — the pipeline driver's rescale step is one
// such caller.
func Minimize(phi Func, ax, bx, cx, tol float64, maxIters int) (xmin, fmin float64, err error) {
	return brent(phi, ax, bx, cx, tol, maxIters)
}

// brent finds the abscissa minimizing phi within the bracket [ax,cx]
// (with bx an initial interior guess: 0 from Searcher, the current scale
// from the pipeline's rescale step), per Numerical Recipes' combined
// parabolic/golden-section algorithm.
func brent(phi Func, ax, bx, cx, tol float64, maxIters int) (xmin, fmin float64, err error) {
	a, b := ax, cx
	if a > b {
		a, b = b, a
	}
	x, w, v := bx, bx, bx
	fx := phi(x)
	fw, fv := fx, fx
	var d, e float64

	for iter := 0; iter < maxIters; iter++ {
		xm := 0.5 * (a + b)
		tol1 := tol*math.Abs(x) + zeps
		tol2 := 2 * tol1
		if math.Abs(x-xm) <= tol2-0.5*(b-a) {
			return x, fx, nil
		}

		useGolden := true
		if math.Abs(e) > tol1 {
			r := (x - w) * (fx - fv)
			q := (x - v) * (fx - fw)
			p := (x-v)*q - (x-w)*r
			q = 2 * (q - r)
			if q > 0 {
				p = -p
			}
			q = math.Abs(q)
			etemp := e
			e = d
			if math.Abs(p) < math.Abs(0.5*q*etemp) && p > q*(a-x) && p < q*(b-x) {
				d = p / q
				u := x + d
				if u-a < tol2 || b-u < tol2 {
					d = signedMag(tol1, xm-x)
				}
				useGolden = false
			}
		}
		if useGolden {
			if x >= xm {
				e = a - x
			} else {
				e = b - x
			}
			d = cgold * e
		}

		var u float64
		if math.Abs(d) >= tol1 {
			u = x + d
		} else {
			u = x + signedMag(tol1, d)
		}
		fu := phi(u)

		if fu <= fx {
			if u >= x {
				a = x
			} else {
				b = x
			}
			v, w, x = w, x, u
			fv, fw, fx = fw, fx, fu
		} else {
			if u < x {
				a = u
			} else {
				b = u
			}
			if fu <= fw || w == x {
				v, w = w, u
				fv, fw = fw, fu
			} else if fu <= fv || v == x || v == w {
				v = u
				fv = fu
			}
		}
	}
	return x, fx, chk.Err("linesearch: brent exceeded %d iterations without converging to tol=%v", maxIters, tol)
}

func signedMag(mag, sign float64) float64 {
	if sign >= 0 {
		return math.Abs(mag)
	}
	return -math.Abs(mag)
}
