// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package vecops implements dense real-valued vector primitives dispatched
// to a pluggable compute backend: dot, axpy, scal, xmy, sum/avg, amax/amin,
// all with Kahan-compensated finite-sum reductions.
package vecops

import (
	"runtime"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"
	"github.com/cpmech/gosl/chk"
)

// Real is the scalar type VP operates over; every VP operation is generic
// over Real, so choosing float32 or float64 is a type-parameter choice, not
// a build tag. The Backend interface itself is untyped, and the energy and
// optimize packages work in float64.
type Real interface {
	~float32 | ~float64
}

// Backend is the device-agnostic dispatch point named in the concurrency
// model: a batch operation fans n independent per-element computations out
// to the backend and blocks until all of them complete before returning.
type Backend interface {
	// Dispatch calls fn(i) for every i in [0,n), possibly in parallel, and
	// returns only once every call has completed.
	Dispatch(n int, fn func(i int))

	// NumWorkers reports the backend's parallelism, used to decide the
	// host-sweep-vs-recurse threshold in Kahan reductions.
	NumWorkers() int
}

// CPUBackend is the reference backend: a persistent worker pool over
// GOMAXPROCS (or a caller-supplied workgroup size), mirroring the
// workgroup-sized dispatch the CLI's -workgroup option controls.
type CPUBackend struct {
	pool *workerpool.Pool
}

// NewCPUBackend allocates a worker pool with the given number of workers.
// workgroup <= 0 defaults to runtime.GOMAXPROCS(0).
func NewCPUBackend(workgroup int) *CPUBackend {
	if workgroup <= 0 {
		workgroup = runtime.GOMAXPROCS(0)
	}
	return &CPUBackend{pool: workerpool.New(workgroup)}
}

// Dispatch implements Backend.
func (o *CPUBackend) Dispatch(n int, fn func(i int)) {
	if n <= 0 {
		return
	}
	if n == 1 || o.pool.NumWorkers() <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}
	o.pool.ParallelFor(n, fn)
}

// NumWorkers implements Backend.
func (o *CPUBackend) NumWorkers() int {
	return o.pool.NumWorkers()
}

// Close releases the worker pool's goroutines.
func (o *CPUBackend) Close() {
	o.pool.Close()
}

// mustPositive panics (BackendFailure territory, §7) if n is negative;
// a zero length is accepted (a reduction over it returns 0). Callers pass
// -1 to report a length mismatch between buffers.
func mustPositive(n int, op string) {
	if n < 0 {
		chk.Panic("vecops: %s: negative length %d", op, n)
	}
}
