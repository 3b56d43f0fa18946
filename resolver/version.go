// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Version is a semantic version of a module.
//
// It is a thin wrapper around github.com/Masterminds/semver/v3. The zero value
// is the unset version, which sorts before every real version.
type Version struct {
	sv *semver.Version
}

// ParseVersion parses raw as a semantic version. Loose forms such as "1.2" are
// accepted and normalized to "1.2.0".
func ParseVersion(raw string) (Version, error) {
	sv, err := semver.NewVersion(raw)
	if err != nil {
		return Version{}, errors.Wrapf(err, "invalid version %q", raw)
	}
	return Version{sv: sv}, nil
}

// MustParseVersion is like ParseVersion, but panics on error.
func MustParseVersion(raw string) Version {
	v, err := ParseVersion(raw)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the unset version.
func (v Version) IsZero() bool {
	return v.sv == nil
}

// Major returns the major component of v.
func (v Version) Major() uint64 {
	if v.sv == nil {
		return 0
	}
	return v.sv.Major()
}

// NextMinor returns the lowest version of the next minor release line,
// e.g. 0.3.2 -> 0.4.0.
func (v Version) NextMinor() Version {
	if v.sv == nil {
		return v
	}
	n := v.sv.IncMinor()
	return Version{sv: &n}
}

// NextMajor returns the lowest version of the next major release line,
// e.g. 1.3.2 -> 2.0.0.
func (v Version) NextMajor() Version {
	if v.sv == nil {
		return v
	}
	n := v.sv.IncMajor()
	return Version{sv: &n}
}

// Compare returns -1, 0 or 1 as v sorts before, equal to, or after o.
func (v Version) Compare(o Version) int {
	switch {
	case v.sv == nil && o.sv == nil:
		return 0
	case v.sv == nil:
		return -1
	case o.sv == nil:
		return 1
	}
	return v.sv.Compare(o.sv)
}

// Less reports whether v sorts before o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// Equal reports whether v and o are the same semantic version. Build metadata
// is ignored, as it is by the ordering.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}

// String returns the canonical form of v, without any leading "v".
func (v Version) String() string {
	if v.sv == nil {
		return "<unset>"
	}
	return v.sv.String()
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	if v.sv == nil {
		return []byte{}, nil
	}
	return []byte(v.sv.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*v = Version{}
		return nil
	}
	nv, err := ParseVersion(string(b))
	if err != nil {
		return err
	}
	*v = nv
	return nil
}

// SortForUpgrade sorts a slice of versions newest first. The sort is stable,
// so equal versions keep their relative order.
func SortForUpgrade(vl []Version) {
	sort.SliceStable(vl, func(i, j int) bool {
		return vl[j].Less(vl[i])
	})
}

// VersionRange is the half-open interval [Min, Max).
type VersionRange struct {
	Min, Max Version
}

// NewVersionRange returns the range [min, max).
func NewVersionRange(min, max Version) VersionRange {
	return VersionRange{Min: min, Max: max}
}

// Contains reports whether Min <= v < Max.
func (r VersionRange) Contains(v Version) bool {
	return !v.Less(r.Min) && v.Less(r.Max)
}

// IsEmpty reports whether no version can fall in the range.
func (r VersionRange) IsEmpty() bool {
	return r.Min.Compare(r.Max) >= 0
}

// Intersect returns the range admitted by both r and o. The result may be
// empty.
func (r VersionRange) Intersect(o VersionRange) VersionRange {
	out := r
	if out.Min.Less(o.Min) {
		out.Min = o.Min
	}
	if o.Max.Less(out.Max) {
		out.Max = o.Max
	}
	return out
}

func (r VersionRange) String() string {
	return "[" + r.Min.String() + ", " + r.Max.String() + ")"
}
