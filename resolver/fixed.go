// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// fixedSet holds the modules selected so far, one frame per search level.
//
// Frames are never modified after push returns, so every level of the
// recursion can keep a pointer to the set as it saw it, and abandoning a
// branch is just dropping the frame that branch pushed. A nil *fixedSet is the
// empty set.
type fixedSet struct {
	parent *fixedSet
	mods   map[Name]Module
	order  []Name
	n      int
}

// push returns a new set holding everything in f plus ml. f is unchanged.
func (f *fixedSet) push(ml []Module) *fixedSet {
	nf := &fixedSet{
		parent: f,
		mods:   make(map[Name]Module, len(ml)),
		order:  make([]Name, 0, len(ml)),
		n:      f.len(),
	}
	for _, m := range ml {
		if _, has := nf.mods[m.ID()]; has {
			continue
		}
		nf.mods[m.ID()] = m
		nf.order = append(nf.order, m.ID())
		nf.n++
	}
	return nf
}

// lookup returns the module fixed for id, searching from the newest frame
// back to the oldest.
func (f *fixedSet) lookup(id Name) (Module, bool) {
	for cur := f; cur != nil; cur = cur.parent {
		if m, has := cur.mods[id]; has {
			return m, true
		}
	}
	return Module{}, false
}

func (f *fixedSet) len() int {
	if f == nil {
		return 0
	}
	return f.n
}

// depth returns the number of frames in the set.
func (f *fixedSet) depth() int {
	var d int
	for cur := f; cur != nil; cur = cur.parent {
		d++
	}
	return d
}

// all returns every fixed module in selection order: oldest frame first, and
// within a frame, in the order the modules were pushed.
func (f *fixedSet) all() []Module {
	if f == nil {
		return nil
	}
	var frames []*fixedSet
	for cur := f; cur != nil; cur = cur.parent {
		frames = append(frames, cur)
	}

	out := make([]Module, 0, f.n)
	for i := len(frames) - 1; i >= 0; i-- {
		for _, id := range frames[i].order {
			out = append(out, frames[i].mods[id])
		}
	}
	return out
}
