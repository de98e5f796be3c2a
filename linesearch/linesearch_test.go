// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linesearch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrentFindsQuadraticMinimum(t *testing.T) {
	phi := func(alpha float64) float64 { return (alpha - 0.3) * (alpha - 0.3) }
	x, f, err := brent(phi, -1, 0, 1, 1e-10, 100)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, x, 1e-5)
	assert.InDelta(t, 0.0, f, 1e-8)
}

func TestBrentRespectsBracket(t *testing.T) {
	// minimum of this quadratic sits outside the bracket, so the best
	// Brent can do is converge to the nearest bracket edge.
	phi := func(alpha float64) float64 { return (alpha - 5) * (alpha - 5) }
	x, _, err := brent(phi, -1, 0, 1, 1e-10, 100)
	require.NoError(t, err)
	assert.True(t, x >= -1 && x <= 1)
}

func TestSearchAcceptsFullStepWhenSufficientDecrease(t *testing.T) {
	// phi is linear with phi'(0)=1 (gDotD=1); the Armijo bound at
	// alpha=-1 is easily beaten by phi(-1)=-1.
	phi := func(alpha float64) float64 { return alpha }
	s := New(0.4)
	alpha, fAlpha, err := s.Search(phi, 0, 1, 1e-8, 30)
	require.NoError(t, err)
	assert.Equal(t, -1.0, alpha)
	assert.Equal(t, -1.0, fAlpha)
}

func TestSearchFallsBackToBrentWhenFullStepInsufficient(t *testing.T) {
	// phi(-1) is large, far from any useful decrease, so the Armijo
	// check must fail and Brent must engage instead.
	phi := func(alpha float64) float64 { return alpha * alpha }
	s := New(0.4)
	alpha, _, err := s.Search(phi, 0, -1, 1e-8, 30)
	require.NoError(t, err)
	assert.True(t, alpha > s.AlphaLo && alpha < s.AlphaHi)
}

func TestRestartResetsBracketAndHistory(t *testing.T) {
	s := New(0.4)
	s.AlphaLo = -50
	s.pushHistory(-40)
	s.Restart()
	assert.Equal(t, initAlphaLo, s.AlphaLo)
	assert.Equal(t, initAlphaHi, s.AlphaHi)
	assert.Equal(t, 0, s.histFill)
}

func TestPushHistoryExpandsLowerBoundWhenStepsAreDeep(t *testing.T) {
	s := New(0.4)
	s.AlphaLo = -1
	s.pushHistory(-0.9)
	s.pushHistory(-0.9)
	s.pushHistory(-0.9)
	assert.True(t, s.AlphaLo < -1, "a consistently deep step should expand the lower bound")
}

func TestPushHistoryContractsLowerBoundWhenStepsAreShallow(t *testing.T) {
	s := New(0.4)
	s.AlphaLo = -10
	s.pushHistory(-0.01)
	s.pushHistory(-0.01)
	s.pushHistory(-0.01)
	assert.True(t, s.AlphaLo > -10, "a consistently shallow step should contract the lower bound")
}
