// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"fmt"
	"strings"
)

// nvSplit splits an "info" string on " " into the pair of name and version,
// and returns each individually.
//
// This is for narrow use - panics if there are less than two resulting items
// in the slice.
func nvSplit(info string) (id Name, version string) {
	s := strings.SplitN(info, " ", 2)
	if len(s) < 2 {
		panic(fmt.Sprintf("Malformed name/version info string '%s'", info))
	}
	return Name(s[0]), s[1]
}

// mkDep parses a dependency fixture of the form "name min [max]". A leading
// "?" on the name marks the dependency optional; a missing max leaves
// MaxVersion unset so the default range applies.
func mkDep(info string) DependencyInfo {
	var d DependencyInfo
	if strings.HasPrefix(info, "?") {
		d.Optional = true
		info = info[1:]
	}

	fields := strings.Fields(info)
	switch len(fields) {
	case 3:
		d.MaxVersion = MustParseVersion(fields[2])
		fallthrough
	case 2:
		d.ID = Name(fields[0])
		d.MinVersion = MustParseVersion(fields[1])
	default:
		panic(fmt.Sprintf("Malformed dependency info string '%s'", info))
	}
	return d
}

// mkMod builds a module from a "name version" string and any number of
// mkDep-style dependency strings.
func mkMod(info string, deps ...string) Module {
	id, v := nvSplit(info)
	dl := make([]DependencyInfo, len(deps))
	for k, dep := range deps {
		dl[k] = mkDep(dep)
	}
	return NewModule(id, MustParseVersion(v), dl...)
}

func mkNames(names ...string) []Name {
	out := make([]Name, len(names))
	for k, n := range names {
		out[k] = Name(n)
	}
	return out
}

// mkResults builds a name -> version map from "name version" strings.
func mkResults(pairs ...string) map[Name]string {
	m := make(map[Name]string, len(pairs))
	for _, p := range pairs {
		id, v := nvSplit(p)
		m[id] = MustParseVersion(v).String()
	}
	return m
}

func resultMap(res Result) map[Name]string {
	m := make(map[Name]string, len(res.Modules))
	for _, mod := range res.Modules {
		m[mod.ID()] = mod.Version().String()
	}
	return m
}

type basicFixture struct {
	// name of this fixture datum
	n string
	// available modules
	ds []Module
	// roots to resolve, in priority order
	roots []Name
	// whether optional dependencies are resolved
	opt bool
	// expected solution; nil means resolution must fail
	r map[Name]string
}

var basicFixtures = []basicFixture{
	{
		n: "latest version of a lone root",
		ds: []Module{
			mkMod("a 1.0.0"),
			mkMod("a 3.0.0"),
			mkMod("a 2.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 3.0.0"),
	},
	{
		n: "newest dependency within its range",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 1.0.0"),
			mkMod("b 1.5.0"),
			mkMod("b 2.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.5.0"),
	},
	{
		n: "two-module cycle",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 1.0.0", "a 1.0.0 2.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.0.0"),
	},
	{
		n: "self dependency",
		ds: []Module{
			mkMod("a 1.0.0", "a 1.0.0 2.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0"),
	},
	{
		n: "only version out of range",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 2.0.0"),
		},
		roots: mkNames("a"),
	},
	{
		n:     "root not in registry",
		ds:    []Module{mkMod("a 1.0.0")},
		roots: mkNames("a", "x"),
	},
	{
		n: "mandatory dependency not in registry",
		ds: []Module{
			mkMod("a 1.0.0", "z 1.0.0 2.0.0"),
		},
		roots: mkNames("a"),
	},
	{
		n: "downgrade root when newest has no viable dependency",
		ds: []Module{
			mkMod("a 2.0.0", "b 2.0.0 3.0.0"),
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 1.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.0.0"),
	},
	{
		n: "downgrade dependency when a deeper level fails",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 3.0.0"),
			mkMod("b 2.0.0", "c 2.0.0 3.0.0"),
			mkMod("b 1.0.0", "c 1.0.0 2.0.0"),
			mkMod("c 1.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.0.0", "c 1.0.0"),
	},
	{
		n: "disjoint sibling ranges force a downgrade",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 2.0.0", "c 1.0.0 2.0.0"),
			mkMod("b 1.1.0", "d 1.1.0 2.0.0"),
			mkMod("b 1.0.0", "d 1.0.0 2.0.0"),
			mkMod("c 1.0.0", "d 1.0.0 1.1.0"),
			mkMod("d 1.0.0"),
			mkMod("d 1.1.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.0.0", "c 1.0.0", "d 1.0.0"),
	},
	{
		n: "ranges from several roots intersect",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 3.0.0"),
			mkMod("x 1.0.0", "b 1.5.0 2.0.0"),
			mkMod("b 2.5.0"),
			mkMod("b 1.8.0"),
			mkMod("b 1.2.0"),
		},
		roots: mkNames("a", "x"),
		r:     mkResults("a 1.0.0", "x 1.0.0", "b 1.8.0"),
	},
	{
		n: "first root keeps its newest version",
		ds: []Module{
			mkMod("r1 2.0.0", "r2 1.0.0 2.0.0"),
			mkMod("r1 1.0.0"),
			mkMod("r2 2.0.0", "r1 1.0.0 2.0.0"),
			mkMod("r2 1.0.0"),
		},
		roots: mkNames("r1", "r2"),
		r:     mkResults("r1 2.0.0", "r2 1.0.0"),
	},
	{
		n: "first root keeps its newest version, reversed",
		ds: []Module{
			mkMod("r1 2.0.0", "r2 1.0.0 2.0.0"),
			mkMod("r1 1.0.0"),
			mkMod("r2 2.0.0", "r1 1.0.0 2.0.0"),
			mkMod("r2 1.0.0"),
		},
		roots: mkNames("r2", "r1"),
		r:     mkResults("r2 2.0.0", "r1 1.0.0"),
	},
	{
		n: "unsatisfiable optional dependency dropped",
		ds: []Module{
			mkMod("a 1.0.0", "?o 1.0.0 2.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0"),
	},
	{
		n: "unsatisfiable optional dependency included",
		ds: []Module{
			mkMod("a 1.0.0", "?o 1.0.0 2.0.0"),
		},
		roots: mkNames("a"),
		opt:   true,
	},
	{
		n: "satisfiable optional dependency dropped",
		ds: []Module{
			mkMod("a 1.0.0", "?o 1.0.0 2.0.0"),
			mkMod("o 1.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0"),
	},
	{
		n: "satisfiable optional dependency included",
		ds: []Module{
			mkMod("a 1.0.0", "?o 1.0.0 2.0.0"),
			mkMod("o 1.0.0"),
		},
		roots: mkNames("a"),
		opt:   true,
		r:     mkResults("a 1.0.0", "o 1.0.0"),
	},
	{
		n: "optional for one declarer and mandatory for another",
		ds: []Module{
			mkMod("a 1.0.0", "?d 1.0.0 2.0.0", "d 1.0.0 2.0.0"),
			mkMod("d 1.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "d 1.0.0"),
	},
	{
		n: "dropped optional dependency still restricts a later selection",
		ds: []Module{
			mkMod("a 1.0.0", "?x 1.0.0 2.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 1.0.0", "x 2.0.0 3.0.0"),
			mkMod("x 2.0.0"),
		},
		roots: mkNames("a"),
	},
	{
		n: "default range below 1.0 spans one minor line",
		ds: []Module{
			mkMod("a 1.0.0", "b 0.2.0"),
			mkMod("b 0.2.5"),
			mkMod("b 0.3.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 0.2.5"),
	},
	{
		n: "default range from 1.0 spans one major line",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.2.0"),
			mkMod("b 1.9.0"),
			mkMod("b 2.0.0"),
			mkMod("b 1.1.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.9.0"),
	},
	{
		n: "malformed range fails only the module declaring it",
		ds: []Module{
			mkMod("a 2.0.0", "b 2.0.0 1.0.0"),
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 1.0.0"),
		},
		roots: mkNames("a"),
		r:     mkResults("a 1.0.0", "b 1.0.0"),
	},
	{
		n: "repeated roots are collapsed",
		ds: []Module{
			mkMod("a 1.0.0"),
		},
		roots: mkNames("a", "a"),
		r:     mkResults("a 1.0.0"),
	},
	{
		n:     "no roots",
		ds:    []Module{mkMod("a 1.0.0")},
		roots: nil,
		r:     map[Name]string{},
	},
	{
		n: "root constrained by another root",
		ds: []Module{
			mkMod("a 1.0.0", "b 1.0.0 2.0.0"),
			mkMod("b 2.0.0"),
			mkMod("b 1.0.0"),
		},
		roots: mkNames("a", "b"),
		r:     mkResults("a 1.0.0", "b 1.0.0"),
	},
	{
		n: "transitive chain with shared leaf",
		ds: []Module{
			mkMod("app 1.0.0", "ui 1.0.0 2.0.0", "net 1.0.0 2.0.0"),
			mkMod("ui 1.2.0", "core 1.1.0 2.0.0"),
			mkMod("ui 1.0.0", "core 1.0.0 2.0.0"),
			mkMod("net 1.3.0", "core 1.0.0 1.5.0"),
			mkMod("core 1.4.0"),
			mkMod("core 1.6.0"),
			mkMod("core 1.0.0"),
		},
		roots: mkNames("app"),
		r:     mkResults("app 1.0.0", "ui 1.2.0", "net 1.3.0", "core 1.4.0"),
	},
}
