// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package energy implements the per-triangle (and per-quad) distortion
// energy and analytical gradient evaluators: the MIPS/isometric family
// blended by theta, and the Knupp volumetric quality energy. Models are
// registered by name and selected at pipeline setup time, mirroring the
// teacher's mdl/solid.Model + New(name) factory.
package energy

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Point is a 2D parameter-domain coordinate (u,v).
type Point struct{ U, V float64 }

// Grad2 is the (du,dv) gradient contribution of one triangle corner.
type Grad2 struct{ DU, DV float64 }

// Constants holds the precomputed, per-triangle reference-geometry
// coefficients the pipeline builds once from the 3D input mesh: cotangents
// at each corner in the 3D reference triangle, twice the reference area,
// and the isometric scale factor.
type Constants struct {
	CotA, CotB, CotC float64 // cotangents at the triangle's three corners, in 3D
	A0               float64 // twice the reference-triangle area
	Scale            float64 // s = 1/sqrt(2*A0*(CotA+CotB)); isometric normalization
	Delta            float64 // untangling delta d >= 0; 0 disables barrier smoothing
}

// Model evaluates the selected triangle distortion energy and its
// analytical gradient. Implementations must keep Grad as the exact
// derivative of Value — energy.DerivChecker exists to enforce this.
type Model interface {
	// Name reports the registered model name.
	Name() string
	// Value returns f_T for triangle corners p in the given Constants.
	Value(c *Constants, p [3]Point) float64
	// Grad returns the three (du,dv) corner gradients of Value.
	Grad(c *Constants, p [3]Point) [3]Grad2
}

// QuadModel parallels Model for the Knupp quad term; MIPS/isometric have
// no quad form and do not implement it.
type QuadModel interface {
	ValueQuad(d float64, p [4]Point) float64
	GradQuad(d float64, p [4]Point) [4]Grad2
}

// New returns the named energy model. theta selects the MIPS/isometric
// blend (ignored by models that don't use it, e.g. "smooth").
func New(name string, theta float64) (Model, error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("energy: model %q is not registered", name)
	}
	return allocator(theta), nil
}

// Register adds a new named model allocator. Panics if the name is
// already taken, mirroring ele.SetAllocator's guard against silent
// shadowing of an existing registration.
func Register(name string, allocator func(theta float64) Model) {
	if _, ok := allocators[name]; ok {
		chk.Panic("energy: model %q is already registered", name)
	}
	allocators[name] = allocator
}

var allocators = map[string]func(theta float64) Model{}

// untangleH smooths det through the barrier h(det) = (det + sqrt(det^2 +
// 4*d^2)) / 2 used whenever an untangling delta d > 0 is in force,
// returning both h and its derivative dh/d(det).
func untangleH(det, d float64) (h, hPrime float64) {
	if d <= 0 {
		return det, 1
	}
	r := sqrtSafe(det*det + 4*d*d)
	h = (det + r) / 2
	hPrime = 0.5 * (1 + det/r)
	return
}

func sqrtSafe(x float64) float64 {
	if x < 0 {
		return 0
	}
	return math.Sqrt(x)
}
