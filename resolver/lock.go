// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// nextCombination computes the combination of versions to try after last.
//
// Each element of last is a position on a dial of sizes[i] versions, sorted
// newest (0) to oldest. Dials are scanned from the last to the first: the
// first dial found that can turn to an older version does so, and every dial
// scanned before it wraps back to its newest version. Earlier dials therefore
// hold their newer versions the longest, and the sequence of combinations is
// lexicographic, newest first.
//
// The second return value is false once every combination has been produced.
// last is not modified.
func nextCombination(last, sizes []int) ([]int, bool) {
	next := make([]int, len(last))
	copy(next, last)

	for i := len(next) - 1; i >= 0; i-- {
		if next[i]+1 < sizes[i] {
			next[i]++
			return next, true
		}
		next[i] = 0
	}
	return next, false
}

// A dial is the list of versions of one module that satisfy its constraint at
// some level, newest first.
type dial struct {
	id       Name
	versions []Module
}

type dials []dial

func (ds dials) sizes() []int {
	out := make([]int, len(ds))
	for k, d := range ds {
		out[k] = len(d.versions)
	}
	return out
}

// selection returns the module each dial shows at the given positions.
func (ds dials) selection(pos []int) []Module {
	out := make([]Module, len(ds))
	for k, d := range ds {
		out[k] = d.versions[pos[k]]
	}
	return out
}
