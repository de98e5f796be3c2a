// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

func init() {
	Register("smooth", func(theta float64) Model { return &knuppModel{} })
}

// knuppModel implements the Knupp volumetric-quality energy for triangles
// (via Model) and quads (via QuadModel), both built from the same
// per-corner algebraic quality measure: at each corner c with neighbors
// n (next) and p (prev) in traversal order, local edge vectors
// e1 = n-c, e2 = c-p, and q = cross(e1,e2) = e1.U*e2.V - e1.V*e2.U, the
// Knupp barrier (q + sqrt(q^2+4d^2))/2 replacing q in the denominator of
// an isotropic edge-length quality metric (|e1|^2+|e2|^2)/(2*h(q,d)).
type knuppModel struct{}

func (o *knuppModel) Name() string { return "smooth" }

// cornerMetric returns metric_i = (|e1|^2+|e2|^2) / (2*h(q,d)) at a single
// corner, along with the analytical gradient w.r.t. c, n and p.
func cornerMetric(d float64, c, n, p Point) (metric float64, dc, dn, dp Point) {
	e1 := Point{n.U - c.U, n.V - c.V}
	e2 := Point{c.U - p.U, c.V - p.V}
	q := e1.U*e2.V - e1.V*e2.U
	h, hPrime := untangleH(q, d)

	num := e1.U*e1.U + e1.V*e1.V + e2.U*e2.U + e2.V*e2.V
	metric = num / (2 * h)

	dnumDc := Point{-2*e1.U + 2*e2.U, -2*e1.V + 2*e2.V}
	dnumDn := Point{2 * e1.U, 2 * e1.V}
	dnumDp := Point{-2 * e2.U, -2 * e2.V}

	dqDn := Point{e2.V, -e2.U}
	dqDc := Point{-e2.V - e1.V, e2.U + e1.U}
	dqDp := Point{e1.V, -e1.U}

	coef := metric * hPrime / h
	dc = Point{dnumDc.U/(2*h) - coef*dqDc.U, dnumDc.V/(2*h) - coef*dqDc.V}
	dn = Point{dnumDn.U/(2*h) - coef*dqDn.U, dnumDn.V/(2*h) - coef*dqDn.V}
	dp = Point{dnumDp.U/(2*h) - coef*dqDp.U, dnumDp.V/(2*h) - coef*dqDp.V}
	return
}

// Value sums the per-corner quality metric over the triangle's 3 corners.
func (o *knuppModel) Value(c *Constants, p [3]Point) float64 {
	sum := 0.0
	for i := 0; i < 3; i++ {
		prev := p[(i+2)%3]
		next := p[(i+1)%3]
		m, _, _, _ := cornerMetric(c.Delta, p[i], next, prev)
		sum += m
	}
	return sum
}

// Grad returns the gradient of Value w.r.t. each of the 3 corners,
// assembling each corner's contributions from the three corner metrics
// it participates in (as self, as "next" of its predecessor, and as
// "prev" of its successor).
func (o *knuppModel) Grad(c *Constants, p [3]Point) [3]Grad2 {
	var acc [3]Point
	for i := 0; i < 3; i++ {
		prevIdx := (i + 2) % 3
		nextIdx := (i + 1) % 3
		_, dc, dn, dp := cornerMetric(c.Delta, p[i], p[nextIdx], p[prevIdx])
		acc[i] = addPt(acc[i], dc)
		acc[nextIdx] = addPt(acc[nextIdx], dn)
		acc[prevIdx] = addPt(acc[prevIdx], dp)
	}
	return [3]Grad2{{acc[0].U, acc[0].V}, {acc[1].U, acc[1].V}, {acc[2].U, acc[2].V}}
}

func addPt(a, b Point) Point { return Point{a.U + b.U, a.V + b.V} }

// ValueQuad sums the per-corner quality metric over the quad's 4 corners.
func (o *knuppModel) ValueQuad(d float64, p [4]Point) float64 {
	sum := 0.0
	for i := 0; i < 4; i++ {
		prev := p[(i+3)%4]
		next := p[(i+1)%4]
		m, _, _, _ := cornerMetric(d, p[i], next, prev)
		sum += m
	}
	return sum
}

// GradQuad returns the gradient of ValueQuad w.r.t. each of the 4 corners.
func (o *knuppModel) GradQuad(d float64, p [4]Point) [4]Grad2 {
	var acc [4]Point
	for i := 0; i < 4; i++ {
		prevIdx := (i + 3) % 4
		nextIdx := (i + 1) % 4
		_, dc, dn, dp := cornerMetric(d, p[i], p[nextIdx], p[prevIdx])
		acc[i] = addPt(acc[i], dc)
		acc[nextIdx] = addPt(acc[nextIdx], dn)
		acc[prevIdx] = addPt(acc[prevIdx], dp)
	}
	return [4]Grad2{
		{acc[0].U, acc[0].V}, {acc[1].U, acc[1].V},
		{acc[2].U, acc[2].V}, {acc[3].U, acc[3].V},
	}
}
