// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"bytes"
	"encoding/binary"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

const depFieldSep = "\x00"

// cacheEncodeDependency returns an encoded DependencyInfo. Unset versions are
// stored as empty fields, so a default MaxVersion is derived again on read.
func cacheEncodeDependency(d DependencyInfo) []byte {
	min, _ := d.MinVersion.MarshalText()
	max, _ := d.MaxVersion.MarshalText()
	opt := "req"
	if d.Optional {
		opt = "opt"
	}
	return []byte(strings.Join([]string{string(d.ID), string(min), string(max), opt}, depFieldSep))
}

// cacheDecodeDependency decodes and returns a new DependencyInfo.
func cacheDecodeDependency(b []byte) (DependencyInfo, error) {
	parts := strings.Split(string(b), depFieldSep)
	if len(parts) != 4 {
		return DependencyInfo{}, errors.Errorf("expected 4 fields in dependency, got %d", len(parts))
	}

	d := DependencyInfo{ID: Name(parts[0])}
	if err := d.MinVersion.UnmarshalText([]byte(parts[1])); err != nil {
		return DependencyInfo{}, err
	}
	if err := d.MaxVersion.UnmarshalText([]byte(parts[2])); err != nil {
		return DependencyInfo{}, err
	}
	switch parts[3] {
	case "opt":
		d.Optional = true
	case "req":
	default:
		return DependencyInfo{}, errors.Errorf("unrecognized optionality marker: %s", parts[3])
	}
	return d, nil
}

// cachePutDependencies stores deps in b under sequence number keys.
func cachePutDependencies(b *bolt.Bucket, deps []DependencyInfo) error {
	for _, d := range deps {
		i, err := b.NextSequence()
		if err != nil {
			return err
		}
		if err := b.Put(cacheSequenceKey(i), cacheEncodeDependency(d)); err != nil {
			return err
		}
	}
	return nil
}

// cacheGetDependencies returns the dependencies stored in b, in sequence
// order.
func cacheGetDependencies(b *bolt.Bucket) ([]DependencyInfo, error) {
	if b == nil {
		return nil, nil
	}
	var deps []DependencyInfo
	err := b.ForEach(func(_, v []byte) error {
		d, err := cacheDecodeDependency(v)
		if err != nil {
			return err
		}
		deps = append(deps, d)
		return nil
	})
	return deps, err
}

func cacheSequenceKey(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

// cacheTimestampedKey returns a prefixed key with a trailing timestamp.
func cacheTimestampedKey(pre string, t time.Time) []byte {
	b := make([]byte, len(pre)+8)
	copy(b, pre)
	binary.BigEndian.PutUint64(b[len(pre):], uint64(t.Unix()))
	return b
}

// cacheSplitTimestampedKey is the inverse of cacheTimestampedKey for keys of
// the form <pre><value>:<timestamp>.
func cacheSplitTimestampedKey(k, pre []byte) (val []byte, ts int64, ok bool) {
	if len(k) < len(pre)+9 || k[len(k)-9] != ':' {
		return nil, 0, false
	}
	val = k[len(pre) : len(k)-9]
	ts = int64(binary.BigEndian.Uint64(k[len(k)-8:]))
	return val, ts, true
}

// cachePrefixDelete prefix scans and deletes each bucket.
func cachePrefixDelete(b *bolt.Bucket, pre string) error {
	c := b.Cursor()
	p := []byte(pre)
	var doomed [][]byte
	for k, _ := c.Seek(p); bytes.HasPrefix(k, p); k, _ = c.Next() {
		doomed = append(doomed, append([]byte(nil), k...))
	}
	for _, k := range doomed {
		if err := b.DeleteBucket(k); err != nil {
			return errors.Wrapf(err, "failed to delete bucket: %s", k)
		}
	}
	return nil
}
