// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gestalt loads modules from manifest files and resolves consistent
// sets of them.
package gestalt

import (
	"context"
	"io"
	"time"

	"github.com/MovingBlocks/gestalt-sub000/internal/feedback"
	"github.com/MovingBlocks/gestalt-sub000/log"
	"github.com/MovingBlocks/gestalt-sub000/resolver"
	"github.com/pkg/errors"
	"github.com/sdboyer/constext"
	"github.com/sirupsen/logrus"
)

// Context holds the registries and resolver described by a Config. It must
// be closed when no longer needed.
type Context struct {
	Config *Config
	Logger *logrus.Logger
	out    *log.Logger

	// Dir serves the modules currently present in the registry dir.
	Dir *DirRegistry
	// Cache is nil unless the config names a registry cache.
	Cache *resolver.BoltRegistry

	reg      resolver.Registry
	resolver *resolver.Resolver

	// ctx bounds every resolution made through this Context.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewContext opens the registries named by c. Log and trace output is written
// to out.
func NewContext(c *Config, out io.Writer) (*Context, error) {
	l := logrus.New()
	l.Out = out
	l.Level = c.LogLevel

	dir, err := NewDirRegistry(c.RegistryDir, l)
	if err != nil {
		return nil, err
	}

	gc := &Context{
		Config: c,
		Logger: l,
		out:    log.New(out),
		Dir:    dir,
		reg:    dir,
	}
	if c.CachePath != "" {
		gc.Cache, err = resolver.OpenBoltRegistry(c.CachePath, 0)
		if err != nil {
			return nil, err
		}
		if err := gc.syncCache(); err != nil {
			gc.Cache.Close()
			return nil, err
		}
		gc.reg = resolver.LayeredRegistry{dir, gc.Cache}
	}

	params := resolver.Params{
		Registry:        gc.reg,
		IncludeOptional: c.IncludeOptional,
		Logger:          l,
	}
	if c.Trace {
		params.Trace = true
		params.TraceLogger = gc.out
	}
	gc.resolver, err = resolver.NewResolver(params)
	if err != nil {
		gc.Close()
		return nil, err
	}

	gc.ctx, gc.cancel = context.WithCancel(context.Background())
	return gc, nil
}

// Registry returns the registry resolutions are made against.
func (c *Context) Registry() resolver.Registry {
	return c.reg
}

// Resolve resolves roots against the context's registries. It is abandoned
// when either ctx or the Context itself is done.
func (c *Context) Resolve(ctx context.Context, roots ...resolver.Name) (resolver.Result, error) {
	cctx, cancel := constext.Cons(c.ctx, ctx)
	defer cancel()

	start := time.Now()
	res, err := c.resolver.Resolve(cctx, roots...)
	if err != nil {
		return res, err
	}

	fields := logrus.Fields{
		"roots":    len(roots),
		"attempts": res.Attempts,
		"elapsed":  time.Since(start),
	}
	if res.Success {
		fields["modules"] = len(res.Modules)
		c.Logger.WithFields(fields).Info("Resolved modules")
		if c.Config.Feedback {
			for _, mf := range feedback.ForResult(res, roots) {
				mf.LogFeedback(c.out)
			}
		}
	} else {
		c.Logger.WithFields(fields).WithError(res.Failure).Warn("No consistent set of modules")
	}
	return res, nil
}

// Watch keeps the registries in step with the registry dir until ctx or the
// Context is done. See DirRegistry.Watch.
func (c *Context) Watch(ctx context.Context) error {
	cctx, cancel := constext.Cons(c.ctx, ctx)
	defer cancel()

	return c.Dir.Watch(cctx, func() {
		if err := c.syncCache(); err != nil {
			c.Logger.WithError(err).Warn("Unable to update registry cache")
		}
	})
}

// syncCache archives every module in the registry dir into the cache.
func (c *Context) syncCache() error {
	if c.Cache == nil {
		return nil
	}
	return errors.Wrap(c.Cache.Import(c.Dir, c.Dir.Names()...), "unable to update registry cache")
}

// Close abandons any resolution in progress and releases the cache.
func (c *Context) Close() error {
	if c.cancel != nil {
		c.cancel()
	}
	if c.Cache != nil {
		return c.Cache.Close()
	}
	return nil
}
