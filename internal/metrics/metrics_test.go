package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

func TestObserve(t *testing.T) {
	t.Run("counts completions and empties", func(t *testing.T) {
		before := testutil.ToFloat64(InvocationsTotal.WithLabelValues("metrics-test", "completed"))
		emptyBefore := testutil.ToFloat64(EmptyResultsTotal.WithLabelValues("metrics-test"))

		Observe("metrics-test", domain.Completed(domain.NewElement("Result"), true), time.Millisecond)

		assert.Equal(t, before+1, testutil.ToFloat64(InvocationsTotal.WithLabelValues("metrics-test", "completed")))
		assert.Equal(t, emptyBefore+1, testutil.ToFloat64(EmptyResultsTotal.WithLabelValues("metrics-test")))
	})

	t.Run("counts failures by category", func(t *testing.T) {
		f := &domain.Failure{Category: domain.CategoryNetwork, Cause: errors.New("x")}
		before := testutil.ToFloat64(FailuresTotal.WithLabelValues("metrics-test", "NetworkError"))

		Observe("metrics-test", domain.Failed(f), time.Millisecond)

		assert.Equal(t, before+1, testutil.ToFloat64(FailuresTotal.WithLabelValues("metrics-test", "NetworkError")))
	})
}

func TestServer_Handler(t *testing.T) {
	s := NewServer(":0")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	InvocationsTotal.WithLabelValues("metrics-test", "suspended").Inc()
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "invokers_invocations_total")
}
