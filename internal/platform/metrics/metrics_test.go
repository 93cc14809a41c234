// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/beetlekeeper/internal/platform/metrics"
)

/*
TestMiddleware_UsesRoutePattern labels requests by route template, not raw path.
*/
func TestMiddleware_UsesRoutePattern(t *testing.T) {
	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	router := chi.NewRouter()
	router.Use(recorder.Middleware())
	router.Get("/individuals/{id}", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTeapot)
	})

	for _, path := range []string{"/individuals/1", "/individuals/2"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	counter := recorder.RequestCounter.WithLabelValues(http.MethodGet, "/individuals/{id}", "418")
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
	assert.Equal(t, float64(0), testutil.ToFloat64(recorder.RequestsInFlight))
}

/*
TestDomainRecorders covers the breeding, batch, cache and overdue helpers.
*/
func TestDomainRecorders(t *testing.T) {
	recorder := metrics.New(prometheus.NewRegistry())

	recorder.Breeding("inter_line", 3)
	recorder.Batch("bottle_change", true)
	recorder.Batch("bottle_change", false)
	recorder.Cache(true)
	recorder.Overdue(4)

	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.BreedingCommits.WithLabelValues("inter_line")))
	assert.Equal(t, float64(3), testutil.ToFloat64(recorder.OffspringCreated))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.BatchUpdates.WithLabelValues("bottle_change", "skipped")))
	assert.Equal(t, float64(1), testutil.ToFloat64(recorder.CacheLookups.WithLabelValues("hit")))
	assert.Equal(t, float64(4), testutil.ToFloat64(recorder.OverdueBottles))

	var empty *metrics.Metrics
	require.NotPanics(t, func() {
		empty.Breeding("normal", 1)
		empty.Overdue(1)
	})
}

/*
TestHandler exposes registered collectors.
*/
func TestHandler(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics.New(registry).Overdue(2)

	response := httptest.NewRecorder()
	metrics.Handler(registry).ServeHTTP(response, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "beetlekeeper_lineage_overdue_bottle_changes 2")
}
