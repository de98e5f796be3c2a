// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numerigo/paramesh/geom"
)

// equilateralConstants builds the Constants for a unit-edge equilateral
// triangle lying flat in 3D, used as the reference geometry for several
// checks below.
func equilateralConstants() *Constants {
	a := geom.Vec3{X: 0, Y: 0, Z: 0}
	b := geom.Vec3{X: 1, Y: 0, Z: 0}
	c := geom.Vec3{X: 0.5, Y: math.Sqrt(3) / 2, Z: 0}
	return PrecomputeTriangle(a, b, c, 0)
}

// equilateralParam returns the (u,v) placement of the same equilateral
// triangle's corners, i.e. the identity map from 3D onto the plane.
func equilateralParam() [3]Point {
	return [3]Point{
		{0, 0},
		{1, 0},
		{0.5, math.Sqrt(3) / 2},
	}
}

func TestMIPSEqualsOneAtIdentityMap(t *testing.T) {
	c := equilateralConstants()
	m, err := New("mips", 0)
	require.NoError(t, err)
	f := m.Value(c, equilateralParam())
	assert.InDelta(t, 1.0, f, 1e-9, "MIPS numerator/denominator both equal 2*A0 at the identity map, so f_MIPS=1 is its minimum")
}

func TestIsometricMatchesMIPSAtTheta0(t *testing.T) {
	c := equilateralConstants()
	mips, err := New("mips", 0)
	require.NoError(t, err)
	iso, err := New("isometric", 0)
	require.NoError(t, err)
	p := equilateralParam()
	assert.InDelta(t, mips.Value(c, p), iso.Value(c, p), 1e-12)
}

func TestIsometricBlendVariesWithTheta(t *testing.T) {
	c := equilateralConstants()
	p := equilateralParam()
	// perturb one corner so MIPS and the pure-isometric term disagree
	p[2].U += 0.3

	half, err := New("isometric", 0.5)
	require.NoError(t, err)
	full, err := New("isometric", 1.0)
	require.NoError(t, err)
	zero, err := New("mips", 0)
	require.NoError(t, err)

	fHalf := half.Value(c, p)
	fFull := full.Value(c, p)
	fZero := zero.Value(c, p)
	assert.NotEqual(t, fHalf, fFull)
	assert.NotEqual(t, fHalf, fZero)
}

func TestMIPSGradientMatchesCentralDifference(t *testing.T) {
	c := equilateralConstants()
	m, err := New("mips", 0)
	require.NoError(t, err)
	p := equilateralParam()
	p[0].U += 0.07
	p[1].V -= 0.11
	p[2].U += 0.03

	checker := NewDerivChecker(1e-5)
	mismatches, err := checker.Check(m, c, p)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestIsometricGradientMatchesCentralDifference(t *testing.T) {
	c := equilateralConstants()
	m, err := New("isometric", 0.6)
	require.NoError(t, err)
	p := equilateralParam()
	p[0].V += 0.05
	p[1].U -= 0.09
	p[2].V += 0.02

	checker := NewDerivChecker(1e-5)
	mismatches, err := checker.Check(m, c, p)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestKnuppGradientMatchesCentralDifference(t *testing.T) {
	c := &Constants{Delta: 0}
	m, err := New("smooth", 0)
	require.NoError(t, err)
	p := [3]Point{{0, 0}, {1, 0.1}, {0.2, 0.9}}

	checker := NewDerivChecker(1e-5)
	mismatches, err := checker.Check(m, c, p)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestKnuppGradientWithUntanglingDelta(t *testing.T) {
	c := &Constants{Delta: 0.25}
	m, err := New("smooth", 0)
	require.NoError(t, err)
	p := [3]Point{{0, 0}, {1, 0.1}, {0.2, 0.9}}

	checker := NewDerivChecker(1e-5)
	mismatches, err := checker.Check(m, c, p)
	require.NoError(t, err)
	assert.Empty(t, mismatches)
}

func TestUnregisteredModelNameErrors(t *testing.T) {
	_, err := New("does-not-exist", 0)
	assert.Error(t, err)
}

func TestComputeDeltaZeroWhenAllPositive(t *testing.T) {
	u := []float64{0, 1, 0.5}
	v := []float64{0, 0, 1}
	tris := []Triangle{{VertIdx: [3]int{0, 1, 2}}}
	assert.Equal(t, 0.0, ComputeDelta(tris, u, v))
}

func TestComputeDeltaNegativeWhenInverted(t *testing.T) {
	u := []float64{0, 0.5, 1} // order reversed relative to v's winding: inverts the triangle
	v := []float64{0, 1, 0}
	tris := []Triangle{{VertIdx: [3]int{0, 1, 2}}}
	d := ComputeDelta(tris, u, v)
	assert.Less(t, d, 0.0)
}

func TestAssemblerEvaluateSingleTriangleMatchesModelValue(t *testing.T) {
	c := equilateralConstants()
	m, err := New("mips", 0)
	require.NoError(t, err)
	p := equilateralParam()
	u := []float64{p[0].U, p[1].U, p[2].U}
	v := []float64{p[0].V, p[1].V, p[2].V}

	asm := &Assembler{
		Model: m,
		Tris:  []Triangle{{Constants: c, VertIdx: [3]int{0, 1, 2}}},
		NFree: 3,
	}
	f, gradU, gradV := asm.Evaluate(u, v)
	assert.InDelta(t, m.Value(c, p)-1, f, 1e-12)
	require.Len(t, gradU, 3)
	require.Len(t, gradV, 3)
}

func TestAssemblerPinnedCornerReceivesNoGradient(t *testing.T) {
	c := equilateralConstants()
	m, err := New("mips", 0)
	require.NoError(t, err)
	p := equilateralParam()
	// corners 0,1 are free (indices 0,1); corner 2 is pinned and lives
	// at index 2, at or past NFree=2, so it contributes position but no
	// gradient slot.
	u := []float64{p[0].U, p[1].U, p[2].U}
	v := []float64{p[0].V, p[1].V, p[2].V}

	asm := &Assembler{
		Model: m,
		Tris: []Triangle{{
			Constants: c,
			VertIdx:   [3]int{0, 1, 2},
		}},
		NFree: 2,
	}
	f, gradU, gradV := asm.Evaluate(u, v)
	assert.InDelta(t, m.Value(c, p)-1, f, 1e-12)
	assert.Len(t, gradU, 2)
	assert.Len(t, gradV, 2)
}
