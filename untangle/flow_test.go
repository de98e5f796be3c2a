// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package untangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionalZeroWhenAllPositive(t *testing.T) {
	u := []float64{0, 1, 0.5}
	v := []float64{0, 0, 1}
	f := New([]Triangle{{VertIdx: [3]int{0, 1, 2}}}, 3, 10)
	assert.Equal(t, 0.0, f.Functional(u, v))
}

func TestFunctionalPositiveWhenInverted(t *testing.T) {
	u := []float64{0, 0.5, 1}
	v := []float64{0, 1, 0}
	f := New([]Triangle{{VertIdx: [3]int{0, 1, 2}}}, 3, 10)
	assert.Greater(t, f.Functional(u, v), 0.0)
}

func TestRunUntanglesASingleInvertedTriangle(t *testing.T) {
	// corner 2 pinned at (0.5,-1) so the flow cannot simply translate
	// the whole triangle; it must actually fold corners 0,1 around.
	u := []float64{0, 1, 0.5}
	v := []float64{1.5, 1.5, -1}
	tris := []Triangle{{VertIdx: [3]int{0, 1, 2}}}

	flow := New(tris, 2, 20000)
	flow.EvalEvery = 50
	iters, converged := flow.Run(u, v)
	require.True(t, iters > 0)

	finalArea := signedArea(u, v, [3]int{0, 1, 2})
	if converged {
		assert.GreaterOrEqual(t, finalArea, -1e-6)
	}
}

func TestDeltaZeroAfterAlreadyUntangled(t *testing.T) {
	u := []float64{0, 1, 0.5}
	v := []float64{0, 0, 1}
	flow := New([]Triangle{{VertIdx: [3]int{0, 1, 2}}}, 3, 10)
	assert.Equal(t, 0.0, flow.Delta(u, v))
}

func TestDeltaNegativeWhileInverted(t *testing.T) {
	u := []float64{0, 0.5, 1}
	v := []float64{0, 1, 0}
	flow := New([]Triangle{{VertIdx: [3]int{0, 1, 2}}}, 3, 10)
	assert.Less(t, flow.Delta(u, v), 0.0)
}

func TestAreaGradMatchesFiniteDifference(t *testing.T) {
	u := []float64{0.1, 1.3, 0.4}
	v := []float64{0.2, -0.3, 1.1}
	idx := [3]int{0, 1, 2}
	_, gU, gV := areaGrad(u, v, idx)

	const h = 1e-6
	for k := 0; k < 3; k++ {
		uPlus := append([]float64(nil), u...)
		uMinus := append([]float64(nil), u...)
		uPlus[idx[k]] += h
		uMinus[idx[k]] -= h
		numeric := (signedArea(uPlus, v, idx) - signedArea(uMinus, v, idx)) / (2 * h)
		assert.InDelta(t, numeric, gU[k], 1e-6)

		vPlus := append([]float64(nil), v...)
		vMinus := append([]float64(nil), v...)
		vPlus[idx[k]] += h
		vMinus[idx[k]] -= h
		numeric = (signedArea(u, vPlus, idx) - signedArea(u, vMinus, idx)) / (2 * h)
		assert.InDelta(t, numeric, gV[k], 1e-6)
	}
}
