// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"bytes"
	"fmt"
	"strings"
)

// traceError is implemented by failures that have a compact rendering for the
// solve trace.
type traceError interface {
	traceString() string
}

// BadOptsFailure indicates that the Params passed to NewResolver were invalid.
type BadOptsFailure string

func (e BadOptsFailure) Error() string {
	return string(e)
}

// missingRootFailure indicates that a requested root module has no versions
// in the registry. No search is attempted.
type missingRootFailure struct {
	id Name
}

func (e *missingRootFailure) Error() string {
	return fmt.Sprintf("No versions could be found for root module %q.", e.id)
}

func (e *missingRootFailure) traceString() string {
	return fmt.Sprintf("root %s has no versions", e.id)
}

// disjointConstraintFailure indicates that two modules active at the same
// level declared ranges on one target that do not overlap. A malformed
// declaration (min >= max) is reported the same way, with no sibling.
type disjointConstraintFailure struct {
	target   Name
	depender Module
	dep      DependencyInfo
	sibs     []Module
	c        VersionRange
}

func (e *disjointConstraintFailure) Error() string {
	if len(e.sibs) == 0 {
		str := "Could not introduce %s, as it has a dependency on %s with range %s, which admits no versions"
		return fmt.Sprintf(str, e.depender, e.target, e.dep.Range())
	}

	var buf bytes.Buffer
	str := "Could not introduce %s, as it has a dependency on %s with range %s, which has no overlap with the range %s required by:\n"
	fmt.Fprintf(&buf, str, e.depender, e.target, e.dep.Range(), e.c)
	for _, s := range e.sibs {
		fmt.Fprintf(&buf, "\t%s\n", s)
	}
	return buf.String()
}

func (e *disjointConstraintFailure) traceString() string {
	var sibs []string
	for _, s := range e.sibs {
		sibs = append(sibs, s.String())
	}
	if len(sibs) == 0 {
		return fmt.Sprintf("%s wants %s%s, an empty range", e.depender, e.target, e.dep.Range())
	}
	return fmt.Sprintf("%s wants %s%s, disjoint with %s from %s", e.depender, e.target, e.dep.Range(), e.c, strings.Join(sibs, ", "))
}

// fixedVersionNotAllowedFailure indicates that a module already selected at a
// shallower level is not admitted by a dependency declared at this level.
type fixedVersionNotAllowedFailure struct {
	depender Module
	dep      DependencyInfo
	fixed    Module
}

func (e *fixedVersionNotAllowedFailure) Error() string {
	str := "Could not introduce %s, as it has a dependency on %s with range %s, which does not allow the currently selected version %s"
	return fmt.Sprintf(str, e.depender, e.dep.ID, e.dep.Range(), e.fixed.Version())
}

func (e *fixedVersionNotAllowedFailure) traceString() string {
	str := "%s depends on %s with %s, but that's already selected at %s"
	return fmt.Sprintf(str, e.depender, e.dep.ID, e.dep.Range(), e.fixed.Version())
}

// noVersionFailure indicates that the pool holds no version of a module
// satisfying the constraint computed for it.
type noVersionFailure struct {
	id     Name
	c      Constraint
	pooled int
}

func (e *noVersionFailure) Error() string {
	if e.pooled == 0 {
		return fmt.Sprintf("No versions could be found for module %q.", e.id)
	}
	return fmt.Sprintf("None of the %d known versions of %s fall within %s.", e.pooled, e.id, e.c.Range)
}

func (e *noVersionFailure) traceString() string {
	return fmt.Sprintf("no versions of %s in %s", e.id, e.c.Range)
}

// inconsistentSelectionFailure indicates that a candidate combination was
// pruned because some selected module does not admit another selected module.
type inconsistentSelectionFailure struct {
	depender Module
	dep      DependencyInfo
	target   Module
}

func (e *inconsistentSelectionFailure) Error() string {
	str := "Could not select %s alongside %s, as the latter requires %s within %s"
	return fmt.Sprintf(str, e.target, e.depender, e.dep.ID, e.dep.Range())
}

func (e *inconsistentSelectionFailure) traceString() string {
	return fmt.Sprintf("%s does not admit %s", e.depender, e.target)
}

// noSolutionFailure indicates that every combination of root versions was
// tried without success. It carries the failure that ended the first, most
// preferred attempt, which is usually the most informative.
type noSolutionFailure struct {
	roots    []Name
	attempts int
	first    error
}

func (e *noSolutionFailure) Error() string {
	var buf bytes.Buffer
	names := make([]string, len(e.roots))
	for k, r := range e.roots {
		names[k] = string(r)
	}
	fmt.Fprintf(&buf, "No consistent set of modules exists for roots %s (%d root combinations tried)", strings.Join(names, ", "), e.attempts)
	if e.first != nil {
		fmt.Fprintf(&buf, ":\n\t%s", e.first)
	}
	return buf.String()
}

func (e *noSolutionFailure) Cause() error {
	return e.first
}
