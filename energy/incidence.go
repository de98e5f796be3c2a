// Copyright 2024 The Paramesh Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package energy

// Incidence is the CSR-style per-free-vertex-to-incident-primitive index
// the Assembler's gather phase walks: for free vertex index v,
// JA[IA[v]:IA[v+1]] lists the indices of the primitives touching v, and
// Corner[IA[v]:IA[v+1]] lists which corner of that primitive it is.
type Incidence struct {
	IA     []int
	JA     []int
	Corner []int
}

// BuildTriIncidence builds the gather table for a triangle set.
func BuildTriIncidence(tris []Triangle, nFree int) *Incidence {
	return buildIncidence(len(tris), nFree, func(i int) []int {
		idx := tris[i].VertIdx
		return idx[:]
	})
}

// BuildQuadIncidence builds the gather table for a quad set.
func BuildQuadIncidence(quads []Quad, nFree int) *Incidence {
	return buildIncidence(len(quads), nFree, func(i int) []int {
		idx := quads[i].VertIdx
		return idx[:]
	})
}

func buildIncidence(nPrims, nFree int, cornersOf func(i int) []int) *Incidence {
	counts := make([]int, nFree)
	for i := 0; i < nPrims; i++ {
		for _, idx := range cornersOf(i) {
			if idx < nFree {
				counts[idx]++
			}
		}
	}
	ia := make([]int, nFree+1)
	for i := 0; i < nFree; i++ {
		ia[i+1] = ia[i] + counts[i]
	}
	ja := make([]int, ia[nFree])
	corner := make([]int, ia[nFree])
	cursor := append([]int(nil), ia[:nFree]...)
	for i := 0; i < nPrims; i++ {
		for k, idx := range cornersOf(i) {
			if idx < nFree {
				ja[cursor[idx]] = i
				corner[cursor[idx]] = k
				cursor[idx]++
			}
		}
	}
	return &Incidence{IA: ia, JA: ja, Corner: corner}
}
