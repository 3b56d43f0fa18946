// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// Result is the outcome of a call to Resolve.
type Result struct {
	// Success reports whether a consistent set of modules was found.
	Success bool

	// Modules holds exactly one version of every module reachable from the
	// roots under the accepted selection, roots first, then in the order the
	// search selected them. Empty on failure.
	Modules []Module

	// Failure explains an unsuccessful resolution. Nil on success.
	Failure error

	// Attempts is the number of version combinations tried, across all
	// levels. Backtracks is the number of times a level moved on to a lower
	// combination.
	Attempts   int
	Backtracks int
}

// Module returns the resolved version of id, if any.
func (r Result) Module(id Name) (Module, bool) {
	for _, m := range r.Modules {
		if m.ID() == id {
			return m, true
		}
	}
	return Module{}, false
}

// Names returns the names of the resolved modules, in result order.
func (r Result) Names() []Name {
	out := make([]Name, len(r.Modules))
	for k, m := range r.Modules {
		out[k] = m.ID()
	}
	return out
}
