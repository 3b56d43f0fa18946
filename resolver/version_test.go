// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"reflect"
	"testing"
)

func TestVersionRangeContains(t *testing.T) {
	r := NewVersionRange(MustParseVersion("1.0.0"), MustParseVersion("2.0.0"))

	for v, want := range map[string]bool{
		"1.0.0":       true,
		"1.5.0":       true,
		"1.99.99":     true,
		"2.0.0":       false,
		"0.9.0":       false,
		"2.0.1":       false,
		"1.0.0-alpha": false,
	} {
		if got := r.Contains(MustParseVersion(v)); got != want {
			t.Errorf("%s.Contains(%s) = %v, want %v", r, v, got, want)
		}
	}
}

func TestVersionRangeIntersect(t *testing.T) {
	a := NewVersionRange(MustParseVersion("1.0.0"), MustParseVersion("3.0.0"))
	b := NewVersionRange(MustParseVersion("2.0.0"), MustParseVersion("4.0.0"))

	got := a.Intersect(b)
	if got.String() != "[2.0.0, 3.0.0)" {
		t.Errorf("Unexpected intersection %s", got)
	}
	if got.IsEmpty() {
		t.Error("Overlapping ranges should not intersect to empty")
	}

	c := NewVersionRange(MustParseVersion("3.0.0"), MustParseVersion("4.0.0"))
	if !a.Intersect(c).IsEmpty() {
		t.Errorf("Adjacent ranges should intersect to empty, got %s", a.Intersect(c))
	}
	if !NewVersionRange(MustParseVersion("2.0.0"), MustParseVersion("1.0.0")).IsEmpty() {
		t.Error("Inverted range should be empty")
	}
}

func TestDependencyDefaultRange(t *testing.T) {
	table := []struct {
		dep  string
		want string
	}{
		{"a 0.2.3", "[0.2.3, 0.3.0)"},
		{"a 1.2.3", "[1.2.3, 2.0.0)"},
		{"a 3.0.0", "[3.0.0, 4.0.0)"},
		{"a 0.0.1", "[0.0.1, 0.1.0)"},
		{"a 1.0.0 1.5.0", "[1.0.0, 1.5.0)"},
	}

	for _, fix := range table {
		if got := mkDep(fix.dep).Range().String(); got != fix.want {
			t.Errorf("Range of %q: got %s, want %s", fix.dep, got, fix.want)
		}
	}
}

func TestVersionOrdering(t *testing.T) {
	vl := []Version{
		MustParseVersion("1.0.0"),
		MustParseVersion("2.0.0-rc.1"),
		MustParseVersion("0.9"),
		MustParseVersion("2.0.0"),
		MustParseVersion("1.10.0"),
	}
	SortForUpgrade(vl)

	var got []string
	for _, v := range vl {
		got = append(got, v.String())
	}
	want := []string{"2.0.0", "2.0.0-rc.1", "1.10.0", "1.0.0", "0.9.0"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Unexpected sort order:\n\t(GOT): %v\n\t(WNT): %v", got, want)
	}

	if !MustParseVersion("v1.2").Equal(MustParseVersion("1.2.0")) {
		t.Error("Loose and canonical forms of the same version should be equal")
	}
	if !(Version{}).Less(MustParseVersion("0.0.0")) {
		t.Error("The unset version should sort before every real version")
	}
}

func TestVersionText(t *testing.T) {
	var v Version
	if err := v.UnmarshalText([]byte("1.4")); err != nil {
		t.Fatal(err)
	}
	b, err := v.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "1.4.0" {
		t.Errorf("Expected canonical text 1.4.0, got %s", b)
	}

	if err := v.UnmarshalText([]byte("not.a.version")); err == nil {
		t.Error("Expected an error for a malformed version")
	}
	if _, err := ParseVersion(""); err == nil {
		t.Error("Expected an error parsing the empty string")
	}
}

func TestModuleEquality(t *testing.T) {
	a := mkMod("a 1.0.0", "b 1.0.0")
	if !a.Equal(mkMod("a 1.0", "c 2.0.0")) {
		t.Error("Modules with the same id and version should be equal regardless of dependencies")
	}
	if a.Equal(mkMod("a 1.0.1")) || a.Equal(mkMod("b 1.0.0")) {
		t.Error("Modules differing in id or version should not be equal")
	}

	deps := a.Dependencies()
	deps[0].ID = "mutated"
	if a.Dependencies()[0].ID != "b" {
		t.Error("Dependencies should return a copy")
	}
}
