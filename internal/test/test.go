// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package test

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
)

// Helper with utilities for testing.
type Helper struct {
	t       *testing.T
	origWd  string
	tempdir string
}

// NewHelper initializes a new helper for testing.
func NewHelper(t *testing.T) *Helper {
	wd, err := os.Getwd()
	if err != nil {
		panic(err)
	}
	return &Helper{t: t, origWd: wd}
}

// Must gives a fatal error if err is not nil.
func (h *Helper) Must(err error) {
	if err != nil {
		h.t.Fatalf("%+v", err)
	}
}

// check gives a test non-fatal error if err is not nil.
func (h *Helper) check(err error) {
	if err != nil {
		h.t.Errorf("%+v", err)
	}
}

// makeTempdir makes a temporary directory for the test. If the temporary
// directory was already created, this does nothing.
func (h *Helper) makeTempdir() {
	if h.tempdir == "" {
		var err error
		h.tempdir, err = ioutil.TempDir("", "gestalttest")
		h.Must(err)
	}
}

// TempFile adds a temporary file, creating parent directories as needed.
func (h *Helper) TempFile(path, contents string) {
	h.makeTempdir()
	h.Must(os.MkdirAll(filepath.Join(h.tempdir, filepath.Dir(path)), 0755))
	h.Must(ioutil.WriteFile(filepath.Join(h.tempdir, path), []byte(contents), 0644))
}

// TempDir adds a temporary directory.
func (h *Helper) TempDir(path string) {
	h.makeTempdir()
	fullPath := filepath.Join(h.tempdir, path)
	if err := os.MkdirAll(fullPath, 0755); err != nil && !os.IsExist(err) {
		h.t.Fatalf("%+v", errors.Errorf("Unable to create temp directory: %s", fullPath))
	}
}

// Remove deletes a file or directory below the temporary directory.
func (h *Helper) Remove(path string) {
	h.Must(os.RemoveAll(h.Path(path)))
}

// Path returns the absolute pathname to file with the temporary
// directory. The file need not exist.
func (h *Helper) Path(name string) string {
	if h.tempdir == "" {
		h.t.Fatalf("%+v", errors.Errorf("internal testsuite error: path(%q) with no tempdir", name))
	}

	// Ensure it's the absolute, symlink-less path we're returning
	abs, err := filepath.EvalSymlinks(h.tempdir)
	if err != nil {
		h.t.Fatalf("%+v", errors.Wrapf(err, "internal testsuite error: could not get absolute path for dir(%q)", h.tempdir))
	}
	if name == "." {
		return abs
	}
	return filepath.Join(abs, name)
}

// GetTestFileString reads a file from the testdata directory into memory. src
// is relative to ./testdata.
func (h *Helper) GetTestFileString(src string) string {
	content, err := ioutil.ReadFile(filepath.Join(h.origWd, "testdata", src))
	if err != nil {
		h.t.Fatalf("%+v", errors.Wrapf(err, "Unable to read test file: %s", src))
	}
	return string(content)
}

// TempCopy copies a file from testdata into the temporary directory. dest is
// relative to the temp directory location, and src is relative to ./testdata.
func (h *Helper) TempCopy(dest, src string) {
	h.TempFile(dest, h.GetTestFileString(src))
}

// Exist returns whether or not a path exists
func (h *Helper) Exist(path string) bool {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false
		}
		h.t.Fatalf("%+v", errors.Wrapf(err, "Error checking if path exists: %s", path))
	}

	return true
}

// MustExist fails if path does not exist.
func (h *Helper) MustExist(path string) {
	if !h.Exist(path) {
		h.t.Fatalf("%+v", errors.Errorf("%s does not exist but should", path))
	}
}

// Cleanup removes everything the helper created.
func (h *Helper) Cleanup() {
	if h.tempdir != "" {
		h.check(os.RemoveAll(h.tempdir))
	}
}
