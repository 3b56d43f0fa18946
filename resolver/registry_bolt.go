// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// BoltRegistry is a Registry persisted in a BoltDB file. Stored versions are
// timestamped, and the epoch limits the age of versions that are returned.
// Methods are safe for concurrent use with each other (excluding Close).
//
// Implementation:
//
// Each module name has a top level bucket:
//
//	Bucket: "mod:<name>"
//
// holding one sub-bucket per version, keyed by the version and the time it
// was stored:
//
//	Sub-Bucket: "ver:<version>:<timestamp>"
//	Keys: "<sequence_number>"
//	Values: "<id>\x00<min>\x00<max>\x00<opt|req>", one per dependency, in
//	declaration order
type BoltRegistry struct {
	db    *bolt.DB
	epoch int64 // ModuleVersions will not return versions stored before this unix timestamp
}

// OpenBoltRegistry opens, creating if needed, the registry database at path.
// Versions stored before epoch (a unix timestamp) are ignored.
func OpenBoltRegistry(path string, epoch int64) (*BoltRegistry, error) {
	dir := filepath.Dir(path)
	if fi, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, os.ModeDir|os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create registry directory: %s", dir)
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, "failed to check registry directory: %s", dir)
	} else if !fi.IsDir() {
		return nil, errors.Errorf("registry path is not a directory: %s", dir)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open registry database %s", path)
	}
	return &BoltRegistry{db: db, epoch: epoch}, nil
}

// Close releases all database resources.
// Must not be called concurrently with any other methods.
func (r *BoltRegistry) Close() error {
	return errors.Wrapf(r.db.Close(), "error closing Bolt database %q", r.db.String())
}

// Put stores the given modules, replacing any previously stored entry for the
// same name and version.
func (r *BoltRegistry) Put(ml ...Module) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		now := time.Now()
		for _, m := range ml {
			name := "mod:" + string(m.ID())
			b, err := tx.CreateBucketIfNotExists([]byte(name))
			if err != nil {
				return errors.Wrapf(err, "failed to create bucket: %s", name)
			}

			pre := "ver:" + m.Version().String() + ":"
			if err := cachePrefixDelete(b, pre); err != nil {
				return err
			}
			vb, err := b.CreateBucket(cacheTimestampedKey(pre, now))
			if err != nil {
				return errors.Wrapf(err, "failed to create bucket for %s", m)
			}
			if err := cachePutDependencies(vb, m.deps); err != nil {
				return errors.Wrapf(err, "failed to put dependencies of %s", m)
			}
		}
		return nil
	})
}

// Import copies every version of the named modules from src.
func (r *BoltRegistry) Import(src Registry, names ...Name) error {
	for _, id := range names {
		ml, err := src.ModuleVersions(id)
		if err != nil {
			return errors.Wrapf(err, "failed to list versions of %s", id)
		}
		if err := r.Put(ml...); err != nil {
			return err
		}
	}
	return nil
}

// ModuleVersions implements Registry.
func (r *BoltRegistry) ModuleVersions(id Name) ([]Module, error) {
	var ml []Module
	err := r.viewBucket("mod:"+string(id), func(b *bolt.Bucket) error {
		c := b.Cursor()
		p := []byte("ver:")
		for k, v := c.Seek(p); bytes.HasPrefix(k, p); k, v = c.Next() {
			// Sub-buckets have nil values.
			if v != nil {
				continue
			}
			raw, ts, ok := cacheSplitTimestampedKey(k, p)
			if !ok {
				return errors.Errorf("malformed version key %q", k)
			}
			if ts < r.epoch {
				continue
			}

			ver, err := ParseVersion(string(raw))
			if err != nil {
				return err
			}
			deps, err := cacheGetDependencies(b.Bucket(k))
			if err != nil {
				return errors.Wrapf(err, "failed to decode dependencies of %s-%s", id, ver)
			}
			ml = append(ml, NewModule(id, ver, deps...))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read stored versions of %s", id)
	}
	return ml, nil
}

// Names returns every module name stored in the registry, in lexical order.
func (r *BoltRegistry) Names() ([]Name, error) {
	var names []Name
	err := r.db.View(func(tx *bolt.Tx) error {
		c := tx.Cursor()
		p := []byte("mod:")
		for k, _ := c.Seek(p); bytes.HasPrefix(k, p); k, _ = c.Next() {
			names = append(names, Name(bytes.TrimPrefix(k, p)))
		}
		return nil
	})
	return names, err
}

// viewBucket executes view with the named bucket, if it exists.
func (r *BoltRegistry) viewBucket(name string, view func(b *bolt.Bucket) error) error {
	return r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(name))
		if b == nil {
			return nil
		}
		return view(b)
	})
}
