// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"fmt"
	"strings"
)

const (
	successChar   = "✓"
	successCharSp = successChar + " "
	failChar      = "✗"
	failCharSp    = failChar + " "
	backChar      = "←"
)

func (s *solver) traceStart(roots []Name) {
	if s.tl == nil {
		return
	}

	names := make([]string, len(roots))
	for k, r := range roots {
		names[k] = string(r)
	}
	s.tl.Logf("Resolving %d root modules: %s", len(roots), strings.Join(names, ", "))

	var vcount int
	for _, ml := range s.pool {
		vcount += len(ml)
	}
	s.tl.Logf(" %v versions of %v modules reachable", vcount, len(s.pool))
}

// traceAttempt is called before each combination at a level is tried.
func (s *solver) traceAttempt(cand []Module, depth int) {
	if s.tl == nil {
		return
	}

	prefix := strings.Repeat("| ", depth)
	s.tl.Logf("%s", tracePrefix(fmt.Sprintf("? attempt %s", modulesString(cand)), prefix, prefix))
}

// traceSelect is called when a combination passes the consistency check and
// the search descends into its dependencies.
func (s *solver) traceSelect(cand []Module, depth int) {
	if s.tl == nil {
		return
	}

	prefix := strings.Repeat("| ", depth)
	s.tl.Logf("%s", tracePrefix(fmt.Sprintf("%s select %s", successChar, modulesString(cand)), prefix, prefix))
}

func (s *solver) traceSkipOptional(id Name, c Constraint, depth int) {
	if s.tl == nil {
		return
	}

	prefix := strings.Repeat("| ", depth)
	s.tl.Logf("%s", tracePrefix(fmt.Sprintf("- skip optional %s%s", id, c.Range), prefix, prefix))
}

// traceBacktrack is called when a level moves on to its next combination, or
// gives up because it has none left.
func (s *solver) traceBacktrack(ds dials, depth int, exhausted bool) {
	if s.tl == nil {
		return
	}

	ids := make([]string, len(ds))
	for k, d := range ds {
		ids[k] = string(d.id)
	}

	var msg string
	if exhausted {
		msg = fmt.Sprintf("%s backtrack: no more versions of %s to try", backChar, strings.Join(ids, ", "))
	} else {
		msg = fmt.Sprintf("%s backtrack: next combination of %s", backChar, strings.Join(ids, ", "))
	}

	prefix := strings.Repeat("| ", depth)
	s.tl.Logf("%s", tracePrefix(msg, prefix, prefix))
}

// traceFailure renders a solve failure at the given depth.
func (s *solver) traceFailure(err error, depth int) {
	if s.tl == nil {
		return
	}

	var msg string
	if te, ok := err.(traceError); ok {
		msg = tracePrefix(te.traceString(), "| ", failCharSp)
	} else {
		msg = tracePrefix(err.Error(), "| ", failCharSp)
	}

	prefix := strings.Repeat("| ", depth)
	s.tl.Logf("%s", tracePrefix(msg, prefix, prefix))
}

// Called just once after solving has finished, whether success or not
func (s *solver) traceFinish(res Result) {
	if s.tl == nil {
		return
	}

	if res.Success {
		s.tl.Logf("%s found solution with %v modules after %v attempts", successChar, len(res.Modules), res.Attempts)
	} else {
		s.tl.Logf("%s resolution failed after %v attempts", failChar, res.Attempts)
	}
}

func tracePrefix(msg, sep, fsep string) string {
	parts := strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
	for k, str := range parts {
		if k == 0 {
			parts[k] = fsep + str
		} else {
			parts[k] = sep + str
		}
	}

	return strings.Join(parts, "\n")
}

func modulesString(ml []Module) string {
	parts := make([]string, len(ml))
	for k, m := range ml {
		parts[k] = m.String()
	}
	return strings.Join(parts, ", ")
}
