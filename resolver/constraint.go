// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// Constraint is the intersection of every range placed on one module name by
// the modules active at a single search level.
type Constraint struct {
	Range VersionRange

	// Optional is true only if every declaring module marked the dependency
	// optional.
	Optional bool
}

func (c Constraint) String() string {
	if c.Optional {
		return c.Range.String() + " (optional)"
	}
	return c.Range.String()
}

type levelConstraint struct {
	Constraint
	from []Module
}

// levelConstraints maps target names to their merged constraint, remembering
// the order in which targets were first declared.
type levelConstraints struct {
	order []Name
	m     map[Name]*levelConstraint
}

func (lc *levelConstraints) len() int {
	return len(lc.order)
}

func (lc *levelConstraints) get(id Name) (Constraint, bool) {
	c, has := lc.m[id]
	if !has {
		return Constraint{}, false
	}
	return c.Constraint, true
}

// constraintsForLevel folds the dependencies of every active module into one
// constraint per target name.
//
// Targets that are already fixed are not constrained again; instead the fixed
// version is checked against the declared range. The returned error is always
// one of the solve failure types, and means the level is infeasible as given.
func constraintsForLevel(active []Module, fixed *fixedSet) (*levelConstraints, error) {
	lc := &levelConstraints{
		m: make(map[Name]*levelConstraint),
	}

	for _, m := range active {
		for _, dep := range m.deps {
			r := dep.Range()

			if f, has := fixed.lookup(dep.ID); has {
				if !r.Contains(f.Version()) {
					return nil, &fixedVersionNotAllowedFailure{
						depender: m,
						dep:      dep,
						fixed:    f,
					}
				}
				continue
			}

			cur, has := lc.m[dep.ID]
			if !has {
				if r.IsEmpty() {
					return nil, &disjointConstraintFailure{
						target:   dep.ID,
						depender: m,
						dep:      dep,
						c:        r,
					}
				}
				lc.m[dep.ID] = &levelConstraint{
					Constraint: Constraint{Range: r, Optional: dep.Optional},
					from:       []Module{m},
				}
				lc.order = append(lc.order, dep.ID)
				continue
			}

			nr := cur.Range.Intersect(r)
			if nr.IsEmpty() {
				return nil, &disjointConstraintFailure{
					target:   dep.ID,
					depender: m,
					dep:      dep,
					sibs:     cur.from,
					c:        cur.Range,
				}
			}
			cur.Range = nr
			cur.Optional = cur.Optional && dep.Optional
			cur.from = append(cur.from, m)
		}
	}

	return lc, nil
}

// checkConsistency verifies that adding cand to fixed leaves every selected
// module's declared ranges satisfied by the other selected modules. It is a
// cheap pre-check that lets the level resolver skip recursing into
// combinations that can never succeed.
func checkConsistency(fixed *fixedSet, cand []Module) error {
	incand := make(map[Name]Module, len(cand))
	for _, c := range cand {
		incand[c.ID()] = c
	}

	for _, c := range cand {
		for _, dep := range c.deps {
			t, has := incand[dep.ID]
			if !has {
				t, has = fixed.lookup(dep.ID)
			}
			if has && !dep.Range().Contains(t.Version()) {
				return &inconsistentSelectionFailure{depender: c, dep: dep, target: t}
			}
		}
	}

	for _, f := range fixed.all() {
		for _, dep := range f.deps {
			if t, has := incand[dep.ID]; has && !dep.Range().Contains(t.Version()) {
				return &inconsistentSelectionFailure{depender: f, dep: dep, target: t}
			}
		}
	}

	return nil
}
