// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"fmt"
	"sort"
)

// Name identifies a module. Names are case sensitive.
type Name string

// DependencyInfo declares that a module needs another module at a version in
// [MinVersion, MaxVersion).
type DependencyInfo struct {
	ID         Name
	MinVersion Version
	// MaxVersion is exclusive. When unset, Range derives it from MinVersion.
	MaxVersion Version
	Optional   bool
}

// Range returns the versions admitted by the dependency. An unset MaxVersion
// defaults to the next minor version for 0.x minimums, and to the next major
// version otherwise.
func (d DependencyInfo) Range() VersionRange {
	max := d.MaxVersion
	if max.IsZero() {
		if d.MinVersion.Major() == 0 {
			max = d.MinVersion.NextMinor()
		} else {
			max = d.MinVersion.NextMajor()
		}
	}
	return VersionRange{Min: d.MinVersion, Max: max}
}

func (d DependencyInfo) String() string {
	if d.Optional {
		return fmt.Sprintf("%s%s (optional)", d.ID, d.Range())
	}
	return fmt.Sprintf("%s%s", d.ID, d.Range())
}

// Module is one concrete version of a named module along with the
// dependencies it declares. Modules are immutable once constructed; two
// modules are equal when their ID and Version match.
type Module struct {
	id      Name
	version Version
	deps    []DependencyInfo
}

// NewModule constructs a Module. The dependency slice is copied.
func NewModule(id Name, v Version, deps ...DependencyInfo) Module {
	m := Module{id: id, version: v}
	if len(deps) > 0 {
		m.deps = make([]DependencyInfo, len(deps))
		copy(m.deps, deps)
	}
	return m
}

// ID returns the module's name.
func (m Module) ID() Name { return m.id }

// Version returns the module's version.
func (m Module) Version() Version { return m.version }

// Dependencies returns a copy of the module's declared dependencies, in
// declaration order.
func (m Module) Dependencies() []DependencyInfo {
	if len(m.deps) == 0 {
		return nil
	}
	out := make([]DependencyInfo, len(m.deps))
	copy(out, m.deps)
	return out
}

// Equal reports whether m and o are the same version of the same module.
func (m Module) Equal(o Module) bool {
	return m.id == o.id && m.version.Equal(o.version)
}

func (m Module) String() string {
	return fmt.Sprintf("%s-%s", m.id, m.version)
}

// sortModulesForUpgrade sorts modules newest first, dropping any repeated
// versions after the first occurrence.
func sortModulesForUpgrade(ml []Module) []Module {
	sort.SliceStable(ml, func(i, j int) bool {
		return ml[j].version.Less(ml[i].version)
	})

	out := ml[:0]
	for k, m := range ml {
		if k > 0 && m.version.Equal(out[len(out)-1].version) {
			continue
		}
		out = append(out, m)
	}
	return out
}
