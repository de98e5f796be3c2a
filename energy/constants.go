// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

import (
	"math"

	"github.com/numerigo/paramesh/geom"
)

// PrecomputeTriangle derives the per-triangle reference coefficients
// (cotangents at each 3D corner, twice the 3D reference area, and the
// isometric scale factor) from the triangle's positions in the original
// 3D mesh. delta is the current untangling parameter (0 once untangled).
func PrecomputeTriangle(a, b, c geom.Vec3, delta float64) *Constants {
	lenAB2 := a.Dist2(b)
	lenBC2 := b.Dist2(c)
	lenCA2 := c.Dist2(a)
	area2 := geom.SignedArea3(a, b, c) * 2 // twice area, always >= 0 by construction
	cotA := cotAngle(lenCA2, lenAB2, lenBC2, area2)
	cotB := cotAngle(lenAB2, lenBC2, lenCA2, area2)
	cotC := cotAngle(lenBC2, lenCA2, lenAB2, area2)
	scale := 1.0
	denom := 2 * area2 * (cotA + cotB)
	if denom > 1e-300 {
		scale = 1 / math.Sqrt(denom)
	}
	return &Constants{CotA: cotA, CotB: cotB, CotC: cotC, A0: area2, Scale: scale, Delta: delta}
}

// cotAngle returns the cotangent of the angle opposite side "opp" in a
// triangle with squared side lengths (adjacent1, adjacent2, opp) and
// twice-area area2, via cot(theta) = (a^2+b^2-opp^2) / (2*area2), the
// standard law-of-cosines form used throughout cotangent-Laplacian mesh
// processing.
func cotAngle(adjacent1, adjacent2, opp, area2 float64) float64 {
	if area2 < 1e-300 {
		return 0
	}
	return (adjacent1 + adjacent2 - opp) / (2 * area2)
}
