// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fs

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
)

// HashMatching returns a deterministic hash of the regular files below root
// whose base name satisfies match. The hash covers each matching file's
// pathname relative to root, its size and its contents, so it changes when a
// matching file is added, removed, renamed or edited, and is unaffected by
// every other file.
//
// Directories whose name begins with "." are not descended into.
func HashMatching(root string, match func(name string) bool) (string, error) {
	h := sha256.New()
	root = filepath.Clean(root)

	err := godirwalk.Walk(root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if osPathname != root && strings.HasPrefix(de.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !de.IsRegular() || !match(de.Name()) {
				return nil
			}

			rel, err := filepath.Rel(root, osPathname)
			if err != nil {
				return err
			}
			content, err := os.ReadFile(osPathname)
			if err != nil {
				return errors.Wrapf(err, "cannot read %s", osPathname)
			}

			// Hash writes never return an error.
			_, _ = h.Write([]byte(filepath.ToSlash(rel)))
			_, _ = h.Write([]byte(strconv.Itoa(len(content))))
			_, _ = h.Write(content)
			return nil
		},
	})
	if err != nil {
		return "", errors.Wrapf(err, "cannot walk %s", root)
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
