// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gestalt

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/MovingBlocks/gestalt-sub000/internal/fs"
	"github.com/MovingBlocks/gestalt-sub000/resolver"
	"github.com/fsnotify/fsnotify"
	"github.com/karrick/godirwalk"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DirRegistry is a resolver.Registry backed by the module manifests found
// below a root directory. It is safe for concurrent use.
//
// Directories whose name begins with "." are ignored.
type DirRegistry struct {
	root string
	l    *logrus.Logger

	// reloadMu serializes whole scans; mu guards the swap.
	reloadMu sync.Mutex

	mu   sync.RWMutex
	mods *resolver.MemoryRegistry
	hash string
}

// NewDirRegistry scans root for manifests. l may be nil.
func NewDirRegistry(root string, l *logrus.Logger) (*DirRegistry, error) {
	if _, err := fs.IsDir(root); err != nil {
		return nil, errors.Wrapf(err, "invalid registry directory")
	}
	if l == nil {
		l = logrus.New()
		l.Out = io.Discard
	}
	if ok, err := fs.IsNonEmptyDir(root); err != nil {
		return nil, errors.Wrapf(err, "invalid registry directory")
	} else if !ok {
		l.WithField("dir", root).Warn("Registry directory is empty")
	}

	r := &DirRegistry{
		root: filepath.Clean(root),
		l:    l,
		mods: resolver.NewMemoryRegistry(),
	}
	if _, err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Root returns the directory the registry scans.
func (r *DirRegistry) Root() string {
	return r.root
}

// ModuleVersions implements resolver.Registry.
func (r *DirRegistry) ModuleVersions(id resolver.Name) ([]resolver.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mods.ModuleVersions(id)
}

// Names returns the names of every module found, in lexical order.
func (r *DirRegistry) Names() []resolver.Name {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mods.Names("")
}

func isManifest(name string) bool {
	_, ok := IsManifestName(name)
	return ok
}

// Reload rescans the directory. It reports whether the set of manifests
// changed since the last scan; if not, nothing is reparsed. On error the
// previous contents are kept.
func (r *DirRegistry) Reload() (bool, error) {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	hash, err := fs.HashMatching(r.root, isManifest)
	if err != nil {
		return false, err
	}

	r.mu.RLock()
	same := hash == r.hash
	r.mu.RUnlock()
	if same {
		return false, nil
	}

	mods := resolver.NewMemoryRegistry()
	from := make(map[string]string)
	err = godirwalk.Walk(r.root, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if de.IsDir() {
				if osPathname != r.root && strings.HasPrefix(de.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if !de.IsRegular() || !isManifest(de.Name()) {
				return nil
			}

			m, err := ReadManifestFile(osPathname)
			if err != nil {
				return err
			}
			if prev, dup := from[m.String()]; dup {
				r.l.WithFields(logrus.Fields{
					"module":  m.String(),
					"kept":    prev,
					"ignored": osPathname,
				}).Warn("Duplicate module manifest")
				return nil
			}
			from[m.String()] = osPathname
			mods.Add(m)
			return nil
		},
	})
	if err != nil {
		return false, errors.Wrapf(err, "failed to scan registry directory %s", r.root)
	}

	r.mu.Lock()
	r.mods, r.hash = mods, hash
	r.mu.Unlock()

	r.l.WithFields(logrus.Fields{
		"dir":       r.root,
		"modules":   mods.Len(),
		"manifests": len(from),
	}).Debug("Loaded module registry")
	return true, nil
}

// Watch reloads the registry whenever something below the root directory
// changes, until ctx is done. If reloaded is not nil it is called after every
// reload that changed the registry. Manifests that fail to parse are logged
// and leave the previous contents in place.
//
// Watch returns ctx.Err() once ctx is done, or an error if the filesystem
// watcher fails.
func (r *DirRegistry) Watch(ctx context.Context, reloaded func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create filesystem watcher")
	}
	defer w.Close()

	if err := r.watchTree(w, r.root); err != nil {
		return err
	}

	// Catch anything that changed before the watches were in place.
	r.reloadAndNotify(reloaded)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return errors.New("filesystem watcher closed")
			}
			if ev.Op&fsnotify.Create != 0 {
				if isDir, _ := fs.IsDir(ev.Name); isDir {
					if err := r.watchTree(w, ev.Name); err != nil {
						r.l.WithError(err).Warn("Unable to watch new directory")
					}
				}
			}
			r.reloadAndNotify(reloaded)
		case err, ok := <-w.Errors:
			if !ok {
				return errors.New("filesystem watcher closed")
			}
			return errors.Wrap(err, "filesystem watcher failed")
		}
	}
}

func (r *DirRegistry) reloadAndNotify(reloaded func()) {
	changed, err := r.Reload()
	if err != nil {
		r.l.WithError(err).Warn("Registry reload failed, keeping previous modules")
		return
	}
	if changed && reloaded != nil {
		reloaded()
	}
}

// watchTree adds dir and every non-hidden directory below it to w.
func (r *DirRegistry) watchTree(w *fsnotify.Watcher, dir string) error {
	err := godirwalk.Walk(dir, &godirwalk.Options{
		Callback: func(osPathname string, de *godirwalk.Dirent) error {
			if !de.IsDir() {
				return nil
			}
			if osPathname != dir && strings.HasPrefix(de.Name(), ".") {
				return filepath.SkipDir
			}
			return w.Add(osPathname)
		},
	})
	return errors.Wrapf(err, "failed to watch %s", dir)
}
