// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vecops

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
)

func testBackend() *CPUBackend {
	return NewCPUBackend(4)
}

func TestDotNonNegative(t *testing.T) {
	b := testBackend()
	defer b.Close()
	x := []float64{1, -2, 3.5, 0, -7}
	d := Dot(b, x, x)
	if d < 0 {
		t.Fatalf("dot(x,x) = %v, want >= 0", d)
	}
	zero := make([]float64, 5)
	chk.Scalar(t, "dot(0,0)", 1e-15, Dot(b, zero, zero), 0)
}

func TestAxpyIdentity(t *testing.T) {
	b := testBackend()
	defer b.Close()
	x := []float64{1, 2, 3, 4}
	zeros := make([]float64, 4)
	alpha := 2.5
	Axpy(b, alpha, x, zeros)
	for i := range x {
		chk.Scalar(t, "axpy", 1e-14, zeros[i], alpha*x[i])
	}
}

func TestScalFastPath(t *testing.T) {
	b := testBackend()
	defer b.Close()
	x := []float64{1, 2, 3}
	Scal(b, 1, x)
	chk.Vector(t, "scal(1,x)==x", 1e-15, x, []float64{1, 2, 3})
}

func TestSumPermutationInvariance(t *testing.T) {
	b := testBackend()
	defer b.Close()
	rng := rand.New(rand.NewSource(42))
	x := make([]float64, 2000)
	for i := range x {
		x[i] = rng.NormFloat64() * 1e6
	}
	s1 := Sum(b, x)
	perm := append([]float64{}, x...)
	rng.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	s2 := Sum(b, perm)
	if s1 != s2 {
		t.Fatalf("kahan sum not permutation-invariant on this backend: %v != %v", s1, s2)
	}
}

func TestAmaxAminMonotone(t *testing.T) {
	b := testBackend()
	defer b.Close()
	x := []float64{3}
	chk.Scalar(t, "amax single", 0, Amax(b, x), 3)
	chk.Scalar(t, "amin single", 0, Amin(b, x), 3)
	x = append(x, -10)
	if Amax(b, x) < 10 {
		t.Fatalf("amax did not grow after appending larger magnitude element")
	}
	if Amin(b, x) > 3 {
		t.Fatalf("amin grew after appending an element")
	}
}

func TestFinite(t *testing.T) {
	if !Finite(1.0) {
		t.Fatalf("1.0 should be finite")
	}
	if Finite(math.NaN()) {
		t.Fatalf("NaN should not be finite")
	}
	if Finite(math.Inf(1)) {
		t.Fatalf("+Inf should not be finite")
	}
}
