// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import "github.com/numerigo/paramesh/vecops"

const (
	initAlphaLo = -1.0
	initAlphaHi = 1e-13
	minAlphaLo  = -100.0
	maxAlphaLo  = -1e-6
)

// Searcher is the stateful bounded 1-D minimizer NLO calls once per outer
// iteration, carrying the adaptive bracket [AlphaLo, AlphaHi] and a
// 3-entry history ring across calls.
type Searcher struct {
	AlphaLo float64 // negative lower bound, adapted by history
	AlphaHi float64 // small positive upper bound
	C1      float64 // Armijo sufficient-decrease constant, in [0.3, 0.5]

	history  [3]float64
	histNext int
	histFill int
}

// New returns a Searcher at its initial bracket with c1 as the Armijo
// constant.
func New(c1 float64) *Searcher {
	return &Searcher{AlphaLo: initAlphaLo, AlphaHi: initAlphaHi, C1: c1}
}

// Restart resets the bracket to its initial values and clears the
// history ring; NLO calls this on search-direction failure.
func (o *Searcher) Restart() {
	o.AlphaLo = initAlphaLo
	o.AlphaHi = initAlphaHi
	o.histNext = 0
	o.histFill = 0
}

// Search runs the LS protocol: try the canonical full step alpha=-1
// under the Armijo sufficient-decrease test; if it fails, fall back to
// Brent's bounded minimization over [AlphaLo, 0, AlphaHi]. gDotD is the
// directional derivative <g,d> at the current point; fPrev is f(x)
// before the step.
func (o *Searcher) Search(phi Func, fPrev, gDotD, tol float64, maxIters int) (alpha, fAlpha float64, err error) {
	wolfeAcc := o.C1 * gDotD
	fFull := phi(-1)
	if vecops.Finite(fFull) && fFull <= fPrev-wolfeAcc {
		o.pushHistory(-1)
		return -1, fFull, nil
	}

	alpha, fAlpha, err = brent(phi, o.AlphaLo, 0, o.AlphaHi, tol, maxIters)
	if err != nil {
		return alpha, fAlpha, err
	}
	o.pushHistory(alpha)
	return alpha, fAlpha, nil
}

// pushHistory records the accepted alpha and widens or narrows AlphaLo
// based on the running mean of the last (up to 3) accepted steps: a mean
// much more negative than AlphaLo means the bracket is biting, so it
// expands; a mean close to zero means it is too wide, so it contracts.
func (o *Searcher) pushHistory(alpha float64) {
	o.history[o.histNext] = alpha
	o.histNext = (o.histNext + 1) % len(o.history)
	if o.histFill < len(o.history) {
		o.histFill++
	}

	sum := 0.0
	for i := 0; i < o.histFill; i++ {
		sum += o.history[i]
	}
	avg := sum / float64(o.histFill)

	if avg < 0.5*o.AlphaLo {
		o.AlphaLo *= 2
		if o.AlphaLo < minAlphaLo {
			o.AlphaLo = minAlphaLo
		}
	} else if avg > 0.25*o.AlphaLo {
		o.AlphaLo *= 0.5
		if o.AlphaLo > maxAlphaLo {
			o.AlphaLo = maxAlphaLo
		}
	}
}
