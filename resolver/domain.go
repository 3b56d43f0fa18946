// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import "github.com/pkg/errors"

// populateDomains collects every version of every module reachable from roots
// by any dependency edge, ignoring version constraints. Each name is looked up
// in the registry exactly once, breadth first. The returned lists are sorted
// newest first; names with no versions map to an empty list.
func populateDomains(reg Registry, roots []Name) (map[Name][]Module, error) {
	pool := make(map[Name][]Module)
	queue := make([]Name, 0, len(roots))
	for _, id := range roots {
		if _, seen := pool[id]; seen {
			continue
		}
		pool[id] = nil
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		var id Name
		id, queue = queue[0], queue[1:]

		ml, err := reg.ModuleVersions(id)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to list versions of %s", id)
		}

		// Registries may hand out their own backing slices.
		ml = sortModulesForUpgrade(copyModules(ml))
		pool[id] = ml

		for _, m := range ml {
			for _, dep := range m.deps {
				if _, seen := pool[dep.ID]; !seen {
					pool[dep.ID] = nil
					queue = append(queue, dep.ID)
				}
			}
		}
	}

	return pool, nil
}
