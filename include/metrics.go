// Copyright 2020 Erin Shepherd
// SPDX-License-Identifier: ISC

package include

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts include cache activity.
//
// Methods handle a nil receiver, so a nil *Metrics disables collection.
type Metrics struct {
	// Hits counts fetches served from the cache
	Hits prometheus.Counter

	// Misses counts fetches which went to the Fetcher
	Misses prometheus.Counter

	// Errors counts failed fetches
	Errors prometheus.Counter
}

// NewMetrics creates the include metrics and registers them with
// registerer. Collectors which are already registered are reused, so it is
// safe to create several resolvers against one registry.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdrschema_include_cache_hits_total",
			Help: "Includes served from the cache",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdrschema_include_cache_misses_total",
			Help: "Includes fetched from their source",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "xdrschema_include_fetch_errors_total",
			Help: "Includes which could not be fetched",
		}),
	}

	if registerer != nil {
		m.Hits = register(registerer, m.Hits)
		m.Misses = register(registerer, m.Misses)
		m.Errors = register(registerer, m.Errors)
	}
	return m
}

func register(registerer prometheus.Registerer, c prometheus.Counter) prometheus.Counter {
	if err := registerer.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) hit() {
	if m != nil {
		m.Hits.Inc()
	}
}

func (m *Metrics) miss() {
	if m != nil {
		m.Misses.Inc()
	}
}

func (m *Metrics) fetchError() {
	if m != nil {
		m.Errors.Inc()
	}
}
