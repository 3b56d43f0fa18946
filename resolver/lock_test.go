// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"reflect"
	"testing"
)

func TestNextCombinationOrder(t *testing.T) {
	sizes := []int{2, 3}
	want := [][]int{
		{0, 1}, {0, 2},
		{1, 0}, {1, 1}, {1, 2},
	}

	pos := []int{0, 0}
	for k, w := range want {
		next, more := nextCombination(pos, sizes)
		if !more {
			t.Fatalf("Lock exhausted early after %d combinations", k+1)
		}
		if !reflect.DeepEqual(next, w) {
			t.Fatalf("Combination %d: got %v, want %v", k+2, next, w)
		}
		pos = next
	}

	if _, more := nextCombination(pos, sizes); more {
		t.Errorf("Expected lock to be exhausted after %v", pos)
	}
}

func TestNextCombinationLeavesInputAlone(t *testing.T) {
	last := []int{0, 2}
	next, more := nextCombination(last, []int{2, 3})
	if !more || !reflect.DeepEqual(next, []int{1, 0}) {
		t.Errorf("Unexpected successor %v (more: %v)", next, more)
	}
	if !reflect.DeepEqual(last, []int{0, 2}) {
		t.Errorf("Input was modified to %v", last)
	}
}

func TestNextCombinationSingletons(t *testing.T) {
	if _, more := nextCombination([]int{}, []int{}); more {
		t.Error("Empty lock should have no successor")
	}
	if _, more := nextCombination([]int{0}, []int{1}); more {
		t.Error("Single position lock should have no successor")
	}
	if _, more := nextCombination([]int{0, 0, 0}, []int{1, 1, 1}); more {
		t.Error("Lock of single position dials should have no successor")
	}
}

func TestDialSelection(t *testing.T) {
	ds := dials{
		{id: "a", versions: []Module{mkMod("a 2.0.0"), mkMod("a 1.0.0")}},
		{id: "b", versions: []Module{mkMod("b 3.0.0"), mkMod("b 2.0.0"), mkMod("b 1.0.0")}},
	}
	if got := ds.sizes(); !reflect.DeepEqual(got, []int{2, 3}) {
		t.Errorf("Unexpected sizes %v", got)
	}
	if got := modulesString(ds.selection([]int{1, 2})); got != "a-1.0.0, b-1.0.0" {
		t.Errorf("Unexpected selection %s", got)
	}
}
