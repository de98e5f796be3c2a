// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecops

import "math"

// Copy sets y[i] = x[i] for all i.
func Copy[T Real](b Backend, x, y []T) {
	n := sameLen(x, y)
	b.Dispatch(n, func(i int) { y[i] = x[i] })
}

// Scal scales x in place: x <- alpha*x. alpha == 1 is a no-op fast path.
func Scal[T Real](b Backend, alpha T, x []T) {
	if alpha == 1 {
		return
	}
	b.Dispatch(len(x), func(i int) { x[i] *= alpha })
}

// Axpy computes y <- y + alpha*x. alpha == 0 is a no-op fast path.
func Axpy[T Real](b Backend, alpha T, x, y []T) {
	if alpha == 0 {
		return
	}
	n := sameLen(x, y)
	b.Dispatch(n, func(i int) { y[i] += alpha * x[i] })
}

// Xmy computes z <- x - y.
func Xmy[T Real](b Backend, x, y, z []T) {
	n := sameLen(x, y)
	if len(z) != n {
		mustPositive(-1, "xmy: length mismatch")
	}
	b.Dispatch(n, func(i int) { z[i] = x[i] - y[i] })
}

// Dot returns the Kahan-compensated inner product of x and y.
func Dot[T Real](b Backend, x, y []T) T {
	n := sameLen(x, y)
	return reduceCompensated(b, n, func(i int) T { return x[i] * y[i] })
}

// Sum returns the Kahan-compensated sum of x.
func Sum[T Real](b Backend, x []T) T {
	return reduceCompensated(b, len(x), func(i int) T { return x[i] })
}

// Avg returns Sum(x)/len(x).
func Avg[T Real](b Backend, x []T) T {
	n := len(x)
	if n == 0 {
		return 0
	}
	return Sum(b, x) / T(n)
}

// Amax returns max|x[i]|.
func Amax[T Real](b Backend, x []T) T {
	return extremum(b, x, false)
}

// Amin returns min|x[i]|.
func Amin[T Real](b Backend, x []T) T {
	return extremum(b, x, true)
}

func extremum[T Real](b Backend, x []T, wantMin bool) T {
	n := len(x)
	if n == 0 {
		return 0
	}
	workers := b.NumWorkers()
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	partials := make([]T, workers)
	chunk := (n + workers - 1) / workers
	b.Dispatch(workers, func(w int) {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			partials[w] = absT(x[0])
			return
		}
		best := absT(x[lo])
		for i := lo + 1; i < hi; i++ {
			v := absT(x[i])
			if (wantMin && v < best) || (!wantMin && v > best) {
				best = v
			}
		}
		partials[w] = best
	})
	best := partials[0]
	for _, p := range partials[1:] {
		if (wantMin && p < best) || (!wantMin && p > best) {
			best = p
		}
	}
	return best
}

func absT[T Real](v T) T {
	if v < 0 {
		return -v
	}
	return v
}

// Finite reports whether v is neither NaN nor infinite, used by the line
// search's finite(phi(-1)) guard.
func Finite[T Real](v T) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func sameLen[T Real](x, y []T) int {
	if len(x) != len(y) {
		mustPositive(-1, "length mismatch")
	}
	return len(x)
}
