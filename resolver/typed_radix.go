// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"sync"

	"github.com/armon/go-radix"
)

// Typed implementation of a radix tree keyed by module name. This is just a
// simple wrapper that lets us avoid having to type assert anywhere else.
//
// Values handed out are copies; the tree's own slices are only touched under
// the write lock.
type moduleTrie struct {
	sync.RWMutex
	t *radix.Tree
}

func newModuleTrie() *moduleTrie {
	return &moduleTrie{
		t: radix.New(),
	}
}

// Delete is used to delete a key, returning the previous value and if it was deleted
func (t *moduleTrie) Delete(s string) ([]Module, bool) {
	t.Lock()
	defer t.Unlock()
	if ml, had := t.t.Delete(s); had {
		return ml.([]Module), had
	}
	return nil, false
}

// Get is used to lookup a specific key, returning a copy of the value and if
// it was found
func (t *moduleTrie) Get(s string) ([]Module, bool) {
	t.RLock()
	defer t.RUnlock()
	if ml, has := t.t.Get(s); has {
		return copyModules(ml.([]Module)), has
	}
	return nil, false
}

// Upsert replaces the value at s with the result of f, which receives the
// current value (nil if absent).
func (t *moduleTrie) Upsert(s string, f func([]Module) []Module) {
	t.Lock()
	defer t.Unlock()
	var cur []Module
	if ml, has := t.t.Get(s); has {
		cur = ml.([]Module)
	}
	t.t.Insert(s, f(cur))
}

// Len is used to return the number of elements in the tree
func (t *moduleTrie) Len() int {
	t.RLock()
	defer t.RUnlock()
	return t.t.Len()
}

// WalkPrefix visits every key under prefix in lexical order, stopping early if
// fn returns true.
func (t *moduleTrie) WalkPrefix(prefix string, fn func(string, []Module) bool) {
	t.RLock()
	defer t.RUnlock()
	t.t.WalkPrefix(prefix, func(s string, v interface{}) bool {
		return fn(s, copyModules(v.([]Module)))
	})
}

func copyModules(ml []Module) []Module {
	if ml == nil {
		return nil
	}
	out := make([]Module, len(ml))
	copy(out, ml)
	return out
}
