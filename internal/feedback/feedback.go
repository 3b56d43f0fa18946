// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package feedback describes the outcome of a resolution, module by module.
package feedback

import (
	"fmt"

	"github.com/MovingBlocks/gestalt-sub000/log"
	"github.com/MovingBlocks/gestalt-sub000/resolver"
)

// DepTypeRoot represents a module that was asked for by name
const DepTypeRoot = "root module"

// DepTypeDirect represents a dependency of a root module
const DepTypeDirect = "direct dep"

// DepTypeTransitive represents a dependency of a dependency
const DepTypeTransitive = "transitive dep"

// ModuleFeedback holds the resolution feedback for one module.
type ModuleFeedback struct {
	// Constraint is the intersection of the ranges declared on the module by
	// every resolved module, roots or not. Empty when nothing depends on it.
	Constraint     string
	Version        string
	DependencyType string
	ModuleID       string
}

// ForResult returns feedback for every module in a successful result, in
// result order.
func ForResult(res resolver.Result, roots []resolver.Name) []ModuleFeedback {
	isRoot := make(map[resolver.Name]bool, len(roots))
	for _, r := range roots {
		isRoot[r] = true
	}

	ranges := make(map[resolver.Name]*resolver.VersionRange)
	direct := make(map[resolver.Name]bool)
	for _, m := range res.Modules {
		for _, d := range m.Dependencies() {
			if _, has := res.Module(d.ID); !has {
				continue
			}
			r := d.Range()
			if cur, has := ranges[d.ID]; has {
				r = cur.Intersect(r)
			}
			ranges[d.ID] = &r
			if isRoot[m.ID()] {
				direct[d.ID] = true
			}
		}
	}

	out := make([]ModuleFeedback, 0, len(res.Modules))
	for _, m := range res.Modules {
		mf := ModuleFeedback{
			Version:        m.Version().String(),
			DependencyType: DepTypeTransitive,
			ModuleID:       string(m.ID()),
		}
		switch {
		case isRoot[m.ID()]:
			mf.DependencyType = DepTypeRoot
		case direct[m.ID()]:
			mf.DependencyType = DepTypeDirect
		}
		if r, has := ranges[m.ID()]; has {
			mf.Constraint = r.String()
		}
		out = append(out, mf)
	}
	return out
}

// LogFeedback logs the feedback
func (mf ModuleFeedback) LogFeedback(logger *log.Logger) {
	// "Using" feedback only for modules a root asked for directly.
	if mf.DependencyType == DepTypeDirect && mf.Constraint != "" {
		logger.Logf("  %v", GetUsingFeedback(mf.Constraint, mf.DependencyType, mf.ModuleID))
	}
	logger.Logf("  %v", GetSelectingFeedback(mf.Version, mf.DependencyType, mf.ModuleID))
}

// GetUsingFeedback returns module constraint feedback string.
// Example:
// Using [1.0.0, 2.0.0) as constraint for direct dep core
func GetUsingFeedback(constraint, depType, id string) string {
	return fmt.Sprintf("Using %s as constraint for %s %s", constraint, depType, id)
}

// GetSelectingFeedback returns module selection feedback string.
// Example:
// Selecting 1.2.0 for root module engine
// Selecting 1.0.3 for transitive dep math
func GetSelectingFeedback(version, depType, id string) string {
	return fmt.Sprintf("Selecting %s for %s %s", version, depType, id)
}
