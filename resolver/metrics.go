// Copyright 2017 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	resolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gestalt_resolver_resolutions_total",
			Help: "Number of resolutions by outcome (success, failure, error).",
		},
		[]string{"outcome"},
	)
	attemptsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gestalt_resolver_attempts_total",
			Help: "Total number of version combinations tried across all levels.",
		},
	)
	backtracksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "gestalt_resolver_backtracks_total",
			Help: "Total number of times a level moved to a lower version combination.",
		},
	)
	resolutionDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gestalt_resolver_resolution_duration_seconds",
			Help:    "Time taken to resolve a set of root modules.",
			Buckets: prometheus.DefBuckets,
		},
	)
	phaseDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gestalt_resolver_phase_duration_seconds",
			Help:    "Time spent per resolution in each solver phase.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"phase"},
	)
)

// RegisterMetrics registers the resolver's collectors with reg.
func RegisterMetrics(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		resolutionsTotal,
		attemptsTotal,
		backtracksTotal,
		resolutionDuration,
		phaseDuration,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// metrics accumulates wall time per solver phase. Phases nest; time is always
// charged to the innermost one.
type metrics struct {
	stack []string
	times map[string]time.Duration
	last  time.Time
}

func newMetrics() *metrics {
	return &metrics{
		stack: []string{"other"},
		times: map[string]time.Duration{
			"other": 0,
		},
		last: time.Now(),
	}
}

func (m *metrics) push(name string) {
	cn := m.stack[len(m.stack)-1]
	m.times[cn] = m.times[cn] + time.Since(m.last)

	m.stack = append(m.stack, name)
	m.last = time.Now()
}

func (m *metrics) pop() {
	on := m.stack[len(m.stack)-1]
	m.times[on] = m.times[on] + time.Since(m.last)

	m.stack = m.stack[:len(m.stack)-1]
	m.last = time.Now()
}

// observe flushes the accumulated phase times into the phase histogram.
func (m *metrics) observe() {
	cn := m.stack[len(m.stack)-1]
	m.times[cn] = m.times[cn] + time.Since(m.last)
	m.last = time.Now()

	for phase, d := range m.times {
		phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
	}
}
