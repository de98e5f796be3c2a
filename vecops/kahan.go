// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecops

// maxHostPartials is the cutoff below which a reduction's workgroup-local
// partial sums are swept on the host with a single Kahan pass; above it,
// the partials themselves are reduced on-device by recursing into Sum.
// See the dot/sum correctness contract in the package doc.
const maxHostPartials = 4096

// kahanAcc is a single Kahan compensated accumulator: running sum plus a
// running correction term for the low-order bits lost on each addition.
type kahanAcc[T Real] struct {
	sum T
	c   T
}

func (a *kahanAcc[T]) add(v T) {
	y := v - a.c
	t := a.sum + y
	a.c = (t - a.sum) - y
	a.sum = t
}

// kahan4 holds four independent Kahan accumulators — one per SIMD-style
// lane — combined only at the very end, so that the compensation itself
// never becomes a sequential bottleneck across workgroups.
type kahan4[T Real] [4]kahanAcc[T]

func (k *kahan4[T]) add(lane int, v T) {
	k[lane&3].add(v)
}

func (k *kahan4[T]) total() T {
	var acc kahanAcc[T]
	for i := range k {
		acc.add(k[i].sum)
		acc.add(k[i].c)
	}
	return acc.sum
}

// reduceCompensated computes the Kahan-compensated sum of fn(0)..fn(n-1),
// splitting work into one workgroup per backend worker, each producing one
// partial from local 4-way accumulators, and finishing with either a
// host-side Kahan sweep (at most 4096 partials) or, when the backend has
// more workers than that, a recursive on-device reduction of the partials
// themselves — the same two-tier policy Dot, Sum and Avg all share.
func reduceCompensated[T Real](b Backend, n int, fn func(i int) T) T {
	mustPositive(n, "reduce")
	if n == 0 {
		return 0
	}
	workers := b.NumWorkers()
	if workers < 1 {
		workers = 1
	}
	// one workgroup per worker, each with its own 4-way compensated partial
	partials := make([]T, workers)
	chunk := (n + workers - 1) / workers
	b.Dispatch(workers, func(w int) {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			return
		}
		var k kahan4[T]
		for i := lo; i < hi; i++ {
			k.add(i, fn(i))
		}
		partials[w] = k.total()
	})
	if len(partials) <= maxHostPartials {
		var acc kahanAcc[T]
		for _, p := range partials {
			acc.add(p)
		}
		return acc.sum
	}
	// degenerate in practice (workers is bounded by hardware concurrency
	// far below 4096) but kept for contract fidelity: recurse into a
	// plain on-device reduction of the partials.
	return reduceCompensated(b, len(partials), func(i int) T { return partials[i] })
}
