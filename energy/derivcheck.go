// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/num"
)

// DerivChecker compares a Model's analytical gradient against a central
// difference approximation, generalized from msolid.Driver's CheckD /
// TolD / VerD / UseDfwd consistent-tangent-matrix check.
type DerivChecker struct {
	Tol     float64 // acceptable |analytical - numerical| per component
	H       float64 // central difference step; defaults to 1e-8
	Verbose bool    // print every component, not just failures
}

// NewDerivChecker returns a checker with the spec's default h=1e-8.
func NewDerivChecker(tol float64) *DerivChecker {
	return &DerivChecker{Tol: tol, H: 1e-8}
}

// Mismatch describes one gradient component that failed the check.
type Mismatch struct {
	Corner   int
	Coord    string // "u" or "v"
	Analytic float64
	Numeric  float64
	Diff     float64
}

// Check runs the central-difference comparison for model m at corners p
// and returns every component exceeding Tol.
func (o *DerivChecker) Check(m Model, c *Constants, p [3]Point) ([]Mismatch, error) {
	if o.H <= 0 {
		return nil, chk.Err("energy: DerivChecker.H must be positive")
	}
	analytic := m.Grad(c, p)
	var mismatches []Mismatch
	for corner := 0; corner < 3; corner++ {
		for _, coord := range [2]string{"u", "v"} {
			numeric, err := centralDiff(m, c, p, corner, coord, o.H)
			if err != nil {
				return nil, chk.Err("energy: central difference failed at corner=%d coord=%s: %v", corner, coord, err)
			}
			var ana float64
			if coord == "u" {
				ana = analytic[corner].DU
			} else {
				ana = analytic[corner].DV
			}
			diff := ana - numeric
			if diff < 0 {
				diff = -diff
			}
			if o.Verbose {
				io.Pf("corner=%d coord=%s analytic=%v numeric=%v diff=%v\n", corner, coord, ana, numeric, diff)
			}
			if diff > o.Tol {
				mismatches = append(mismatches, Mismatch{corner, coord, ana, numeric, diff})
			}
		}
	}
	return mismatches, nil
}

// centralDiff delegates to num.DerivCentral, the same central-difference
// driver msolid.Driver and mdl/solid.Driver use for their consistent-
// tangent checks.
func centralDiff(m Model, c *Constants, p [3]Point, corner int, coord string, h float64) (float64, error) {
	pc := p
	f := func(x float64, args ...interface{}) float64 {
		switch coord {
		case "u":
			pc[corner].U = x
		case "v":
			pc[corner].V = x
		}
		return m.Value(c, pc)
	}
	x0 := p[corner].U
	if coord == "v" {
		x0 = p[corner].V
	}
	return num.DerivCentral(f, x0, h)
}
