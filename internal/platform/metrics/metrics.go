// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics exposes Prometheus instrumentation for the HTTP layer and the
breeding domain.

Architecture:

  - A single [Metrics] value is built in main.go against a registry and passed
    to the services that record domain events.
  - A nil *Metrics is valid everywhere and records nothing, which keeps unit
    tests free of registry plumbing.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "beetlekeeper"

// Metrics holds the collectors recorded by the API server.
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	BreedingCommits  *prometheus.CounterVec
	OffspringCreated prometheus.Counter
	BatchUpdates     *prometheus.CounterVec
	CacheLookups     *prometheus.CounterVec
	OverdueBottles   prometheus.Gauge
}

// New registers every collector on registerer.
func New(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		BreedingCommits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lineage",
				Name:      "breeding_commits_total",
				Help:      "Committed breeding operations by scope",
			},
			[]string{"scope"},
		),
		OffspringCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lineage",
				Name:      "offspring_created_total",
				Help:      "Individuals created by breeding operations",
			},
		),
		BatchUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "lineage",
				Name:      "batch_updates_total",
				Help:      "Batch record updates by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "collection",
				Name:      "cache_lookups_total",
				Help:      "Collection snapshot cache lookups by result",
			},
			[]string{"result"},
		),
		OverdueBottles: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "lineage",
				Name:      "overdue_bottle_changes",
				Help:      "Individuals whose bottle change date has passed, across all collections",
			},
		),
	}
}

// # Domain Recorders

// Breeding records one committed breeding operation.
func (metrics *Metrics) Breeding(scope string, offspring int) {
	if metrics == nil {
		return
	}
	metrics.BreedingCommits.WithLabelValues(scope).Inc()
	metrics.OffspringCreated.Add(float64(offspring))
}

// Batch records the outcome of one batch entry.
func (metrics *Metrics) Batch(kind string, applied bool) {
	if metrics == nil {
		return
	}
	outcome := "applied"
	if !applied {
		outcome = "skipped"
	}
	metrics.BatchUpdates.WithLabelValues(kind, outcome).Inc()
}

// Cache records a snapshot cache hit or miss.
func (metrics *Metrics) Cache(hit bool) {
	if metrics == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.CacheLookups.WithLabelValues(result).Inc()
}

// Overdue publishes the latest overdue count computed by the sweeper.
func (metrics *Metrics) Overdue(count int) {
	if metrics == nil {
		return
	}
	metrics.OverdueBottles.Set(float64(count))
}

// # HTTP

// Middleware records request counts and latency keyed by the chi route pattern,
// which keeps label cardinality bounded regardless of path parameters.
func (metrics *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			metrics.RequestsInFlight.Inc()
			defer metrics.RequestsInFlight.Dec()

			started := time.Now()
			wrapped := chimw.NewWrapResponseWriter(writer, request.ProtoMajor)
			next.ServeHTTP(wrapped, request)

			route := "unmatched"
			if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
				if pattern := routeContext.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := wrapped.Status()
			if status == 0 {
				status = http.StatusOK
			}

			metrics.RequestCounter.WithLabelValues(request.Method, route, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(request.Method, route).Observe(time.Since(started).Seconds())
		})
	}
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
