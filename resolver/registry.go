// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

// A Registry knows every available version of every module.
//
// ModuleVersions must return all known versions of the named module, in any
// order. An empty result means the module does not exist; an error means the
// registry itself could not answer, and aborts resolution. Implementations
// are read by the resolver and are never mutated by it.
type Registry interface {
	ModuleVersions(Name) ([]Module, error)
}

// MemoryRegistry is a Registry held entirely in memory. It is safe for
// concurrent use.
type MemoryRegistry struct {
	t *moduleTrie
}

// NewMemoryRegistry returns a registry containing the given modules.
func NewMemoryRegistry(ml ...Module) *MemoryRegistry {
	r := &MemoryRegistry{t: newModuleTrie()}
	r.Add(ml...)
	return r
}

// Add registers modules with the registry. Adding a version that is already
// present replaces it.
func (r *MemoryRegistry) Add(ml ...Module) {
	for _, m := range ml {
		r.t.Upsert(string(m.ID()), func(existing []Module) []Module {
			for k, e := range existing {
				if e.Equal(m) {
					existing[k] = m
					return existing
				}
			}
			return append(existing, m)
		})
	}
}

// Remove drops every version of the named module.
func (r *MemoryRegistry) Remove(id Name) bool {
	_, had := r.t.Delete(string(id))
	return had
}

// ModuleVersions implements Registry.
func (r *MemoryRegistry) ModuleVersions(id Name) ([]Module, error) {
	ml, has := r.t.Get(string(id))
	if !has {
		return nil, nil
	}
	return ml, nil
}

// Names returns the names of all registered modules starting with prefix, in
// lexical order. An empty prefix lists everything.
func (r *MemoryRegistry) Names(prefix string) []Name {
	var names []Name
	r.t.WalkPrefix(prefix, func(s string, _ []Module) bool {
		names = append(names, Name(s))
		return false
	})
	return names
}

// Len returns the number of distinct module names in the registry.
func (r *MemoryRegistry) Len() int {
	return r.t.Len()
}

// LayeredRegistry merges the versions known to several registries. Where more
// than one layer holds the same version of a module, the earliest layer wins.
type LayeredRegistry []Registry

// ModuleVersions implements Registry. An error from any layer is returned.
func (lr LayeredRegistry) ModuleVersions(id Name) ([]Module, error) {
	var out []Module
	for _, r := range lr {
		ml, err := r.ModuleVersions(id)
		if err != nil {
			return nil, err
		}

	outer:
		for _, m := range ml {
			for _, have := range out {
				if have.Equal(m) {
					continue outer
				}
			}
			out = append(out, m)
		}
	}
	return out, nil
}
