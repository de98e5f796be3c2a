// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

func init() {
	Register("mips", func(theta float64) Model { return &isometricModel{theta: 0} })
	Register("isometric", func(theta float64) Model { return &isometricModel{theta: theta} })
}

// isometricModel implements both "mips" (theta pinned to 0) and
// "isometric" (theta in (0,1]): f_T = (1-theta)*f_MIPS + theta*g(detScaled),
// g(x) = (x + 1/x)/2, with the untangling barrier h(det,d) substituted for
// det wherever it appears once c.Delta > 0.
type isometricModel struct {
	theta float64
}

func (o *isometricModel) Name() string {
	if o.theta == 0 {
		return "mips"
	}
	return "isometric"
}

// rawDet returns twice the signed area of the parameter triangle, the
// undamped Jacobian-determinant proxy that h(det,d) smooths.
func rawDet(p [3]Point) float64 {
	ab := Point{p[1].U - p[0].U, p[1].V - p[0].V}
	ac := Point{p[2].U - p[0].U, p[2].V - p[0].V}
	return ab.U*ac.V - ab.V*ac.U
}

// ddetDv returns the gradient of rawDet w.r.t. each of the three corners.
func ddetDv(p [3]Point) [3]Point {
	a, b, c := p[0], p[1], p[2]
	return [3]Point{
		{b.V - c.V, c.U - b.U},
		{c.V - a.V, a.U - c.U},
		{a.V - b.V, b.U - a.U},
	}
}

func dirichletNumerator(c *Constants, p [3]Point) float64 {
	ab2 := sq(p[0].U-p[1].U) + sq(p[0].V-p[1].V)
	bc2 := sq(p[1].U-p[2].U) + sq(p[1].V-p[2].V)
	ca2 := sq(p[2].U-p[0].U) + sq(p[2].V-p[0].V)
	return c.CotA*ab2 + c.CotB*bc2 + c.CotC*ca2
}

// dirichletNumeratorGrad returns d(numerator)/d(corner) for each corner.
func dirichletNumeratorGrad(c *Constants, p [3]Point) [3]Point {
	a, b, cc := p[0], p[1], p[2]
	// N = CotA|a-b|^2 + CotB|b-c|^2 + CotC|c-a|^2
	dA := Point{2 * c.CotA * (a.U - b.U) + 2*c.CotC*(a.U-cc.U), 2*c.CotA*(a.V-b.V) + 2*c.CotC*(a.V-cc.V)}
	dB := Point{2 * c.CotA * (b.U - a.U) + 2*c.CotB*(b.U-cc.U), 2*c.CotA*(b.V-a.V) + 2*c.CotB*(b.V-cc.V)}
	dC := Point{2 * c.CotB * (cc.U - b.U) + 2*c.CotC*(cc.U-a.U), 2*c.CotB*(cc.V-b.V) + 2*c.CotC*(cc.V-a.V)}
	return [3]Point{dA, dB, dC}
}

func sq(x float64) float64 { return x * x }

func (o *isometricModel) Value(c *Constants, p [3]Point) float64 {
	det, _ := smoothedDet(c, p)
	n := dirichletNumerator(c, p)
	d := 2 * det
	fMips := n / d
	if o.theta == 0 {
		return fMips
	}
	x := c.Scale * det
	g := (x + 1/x) / 2
	return (1-o.theta)*fMips + o.theta*g
}

func (o *isometricModel) Grad(c *Constants, p [3]Point) [3]Grad2 {
	det, hPrime := smoothedDet(c, p)
	rawGrad := ddetDv(p)
	d := 2 * det
	n := dirichletNumerator(c, p)
	nGrad := dirichletNumeratorGrad(c, p)
	fMips := n / d

	var out [3]Grad2
	for i := 0; i < 3; i++ {
		ddet := Point{rawGrad[i].U * hPrime, rawGrad[i].V * hPrime}
		// d(fMips)/dv = (dN/dv - fMips * 2*ddet/dv) / d
		mipsGradU := (nGrad[i].U - fMips*2*ddet.U) / d
		mipsGradV := (nGrad[i].V - fMips*2*ddet.V) / d
		if o.theta == 0 {
			out[i] = Grad2{mipsGradU, mipsGradV}
			continue
		}
		x := c.Scale * det
		gPrime := 0.5 * (1 - 1/(x*x)) // dg/dx
		isoGradU := gPrime * c.Scale * ddet.U
		isoGradV := gPrime * c.Scale * ddet.V
		out[i] = Grad2{
			(1-o.theta)*mipsGradU + o.theta*isoGradU,
			(1-o.theta)*mipsGradV + o.theta*isoGradV,
		}
	}
	return out
}

// smoothedDet returns h(det,d) and its derivative w.r.t. the raw det,
// using the untangling delta carried in c.
func smoothedDet(c *Constants, p [3]Point) (det, hPrime float64) {
	raw := rawDet(p)
	return untangleH(raw, c.Delta)
}
