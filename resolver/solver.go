// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"context"
	"io"
	"time"

	"github.com/MovingBlocks/gestalt-sub000/log"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Params holds the inputs that stay fixed across calls to Resolve.
type Params struct {
	// Registry is consulted for every version of every reachable module.
	// Required.
	Registry Registry

	// IncludeOptional controls whether dependencies that every declaring
	// module marks optional are resolved. When false they are dropped from
	// the search and the result, even if no version could satisfy them.
	IncludeOptional bool

	// Logger receives structured debug output. Defaults to a logger that
	// discards everything.
	Logger *logrus.Logger

	// Trace enables the human readable solve trace, written to TraceLogger.
	Trace bool

	// TraceLogger is required if Trace is true.
	TraceLogger *log.Logger
}

// Resolver finds consistent sets of modules.
//
// A Resolver holds no mutable state; concurrent calls to Resolve are safe as
// long as the Registry is.
type Resolver struct {
	params Params
}

// NewResolver validates params and returns a Resolver.
func NewResolver(params Params) (*Resolver, error) {
	if params.Registry == nil {
		return nil, BadOptsFailure("params must include a non-nil Registry")
	}
	if params.Trace && params.TraceLogger == nil {
		return nil, BadOptsFailure("trace requested, but no logger provided")
	}
	if params.Logger == nil {
		params.Logger = logrus.New()
		params.Logger.Out = io.Discard
	}
	return &Resolver{params: params}, nil
}

// solver holds the state of a single call to Resolve.
type solver struct {
	params     Params
	ctx        context.Context
	l          *logrus.Logger
	tl         *log.Logger
	mtr        *metrics
	pool       map[Name][]Module
	attempts   int
	backtracks int

	// firstFail is the first failure seen, i.e. the one that sank the most
	// preferred combination.
	firstFail error
}

// Resolve computes the newest consistent set of modules reachable from roots.
//
// Roots take precedence in the order given: a later root is downgraded before
// an earlier one. A Result with Success false is the normal outcome when no
// consistent set exists; a non-nil error means resolution could not be
// carried out at all, because the registry failed or ctx was done.
func (r *Resolver) Resolve(ctx context.Context, roots ...Name) (Result, error) {
	s := &solver{
		params: r.params,
		ctx:    ctx,
		l:      r.params.Logger,
		mtr:    newMetrics(),
	}
	if r.params.Trace {
		s.tl = r.params.TraceLogger
	}

	start := time.Now()
	res, err := s.solve(dedupeNames(roots))
	resolutionDuration.Observe(time.Since(start).Seconds())
	s.mtr.observe()
	attemptsTotal.Add(float64(s.attempts))
	backtracksTotal.Add(float64(s.backtracks))

	switch {
	case err != nil:
		resolutionsTotal.WithLabelValues("error").Inc()
		return Result{}, err
	case res.Success:
		resolutionsTotal.WithLabelValues("success").Inc()
	default:
		resolutionsTotal.WithLabelValues("failure").Inc()
	}
	s.traceFinish(res)
	return res, nil
}

func (s *solver) solve(roots []Name) (Result, error) {
	s.mtr.push("populate")
	pool, err := populateDomains(s.params.Registry, roots)
	s.mtr.pop()
	if err != nil {
		return Result{}, err
	}
	s.pool = pool
	s.traceStart(roots)

	if s.l.Level >= logrus.DebugLevel {
		s.l.WithFields(logrus.Fields{
			"roots":   len(roots),
			"modules": len(pool),
		}).Debug("Populated module domains")
	}

	rootDials := make(dials, 0, len(roots))
	for _, id := range roots {
		if len(pool[id]) == 0 {
			fail := &missingRootFailure{id: id}
			s.traceFailure(fail, 0)
			if s.l.Level >= logrus.InfoLevel {
				s.l.WithField("name", id).Info("Root module has no versions")
			}
			return s.result(nil, fail), nil
		}
		rootDials = append(rootDials, dial{id: id, versions: pool[id]})
	}

	pos := make([]int, len(rootDials))
	var tried int
	for {
		if err := s.ctx.Err(); err != nil {
			return Result{}, errors.Wrap(err, "resolution abandoned")
		}
		s.attempts++
		tried++

		active := rootDials.selection(pos)
		s.traceAttempt(active, 0)
		if s.l.Level >= logrus.DebugLevel {
			s.l.WithFields(logrus.Fields{
				"attempts": s.attempts,
				"roots":    modulesString(active),
			}).Debug("Trying root combination")
		}

		fixed, err := s.resolveLevel(active, (*fixedSet)(nil).push(active), 1)
		if err != nil {
			return Result{}, err
		}
		if fixed != nil {
			return s.result(fixed.all(), nil), nil
		}

		var more bool
		pos, more = nextCombination(pos, rootDials.sizes())
		s.traceBacktrack(rootDials, 0, !more)
		if !more {
			return s.result(nil, &noSolutionFailure{
				roots:    roots,
				attempts: tried,
				first:    s.firstFail,
			}), nil
		}
		s.backtracks++
	}
}

// resolveLevel selects versions for the dependencies of active, then recurses
// into the dependencies of what it selected. It returns the complete fixed set
// on success, and nil if no combination at this level or below works. Errors
// are reserved for conditions that end the whole resolution.
func (s *solver) resolveLevel(active []Module, fixed *fixedSet, depth int) (*fixedSet, error) {
	s.mtr.push("constraints")
	lc, fail := constraintsForLevel(active, fixed)
	s.mtr.pop()
	if fail != nil {
		s.fail(fail, depth)
		return nil, nil
	}

	ds, fail := s.dialsFor(lc, depth)
	if fail != nil {
		s.fail(fail, depth)
		return nil, nil
	}
	if len(ds) == 0 {
		// Nothing left to select below here.
		return fixed, nil
	}

	pos := make([]int, len(ds))
	for {
		if err := s.ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "resolution abandoned")
		}
		s.attempts++

		cand := ds.selection(pos)
		s.traceAttempt(cand, depth)

		s.mtr.push("consistency")
		fail := checkConsistency(fixed, cand)
		s.mtr.pop()
		if fail != nil {
			s.fail(fail, depth)
		} else {
			s.traceSelect(cand, depth)
			if s.l.Level >= logrus.DebugLevel {
				s.l.WithFields(logrus.Fields{
					"depth":    depth,
					"attempts": s.attempts,
					"selected": modulesString(cand),
				}).Debug("Descending with candidate combination")
			}

			res, err := s.resolveLevel(cand, fixed.push(cand), depth+1)
			if err != nil || res != nil {
				return res, err
			}
		}

		var more bool
		pos, more = nextCombination(pos, ds.sizes())
		s.traceBacktrack(ds, depth, !more)
		if !more {
			if s.l.Level >= logrus.DebugLevel {
				s.l.WithFields(logrus.Fields{
					"depth":   depth,
					"modules": len(ds),
				}).Debug("Exhausted combinations at level")
			}
			return nil, nil
		}
		s.backtracks++
	}
}

// dialsFor builds one dial per constrained name, in the order the names were
// first declared. Optional constraints are left out unless IncludeOptional is
// set.
func (s *solver) dialsFor(lc *levelConstraints, depth int) (dials, error) {
	ds := make(dials, 0, lc.len())
	for _, id := range lc.order {
		c, _ := lc.get(id)
		if c.Optional && !s.params.IncludeOptional {
			s.traceSkipOptional(id, c, depth)
			continue
		}

		var vl []Module
		for _, m := range s.pool[id] {
			if c.Range.Contains(m.Version()) {
				vl = append(vl, m)
			}
		}
		if len(vl) == 0 {
			return nil, &noVersionFailure{id: id, c: c, pooled: len(s.pool[id])}
		}
		ds = append(ds, dial{id: id, versions: vl})
	}
	return ds, nil
}

func (s *solver) fail(err error, depth int) {
	if s.firstFail == nil {
		s.firstFail = err
	}
	s.traceFailure(err, depth)
	if s.l.Level >= logrus.DebugLevel {
		s.l.WithFields(logrus.Fields{
			"depth":  depth,
			"reason": err.Error(),
		}).Debug("Combination rejected")
	}
}

func (s *solver) result(ml []Module, fail error) Result {
	return Result{
		Success:    fail == nil,
		Modules:    ml,
		Failure:    fail,
		Attempts:   s.attempts,
		Backtracks: s.backtracks,
	}
}

func dedupeNames(names []Name) []Name {
	seen := make(map[Name]bool, len(names))
	out := make([]Name, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
