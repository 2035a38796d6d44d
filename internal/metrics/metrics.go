// Package metrics exposes Prometheus instruments for invocation outcomes.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/invokers/internal/core/domain"
)

var (
	// InvocationsTotal counts invocations per invoker type and result kind.
	InvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invokers_invocations_total",
			Help: "Total number of invocations",
		},
		[]string{"invoker", "kind"},
	)

	// FailuresTotal counts failed invocations per error category.
	FailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invokers_failures_total",
			Help: "Total number of failed invocations",
		},
		[]string{"invoker", "category"},
	)

	// EmptyResultsTotal counts completions flagged as no matching record.
	EmptyResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invokers_empty_results_total",
			Help: "Total number of completed invocations with no matching record",
		},
		[]string{"invoker"},
	)

	// ContractViolationsTotal counts suspensions rewritten to failures.
	ContractViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invokers_contract_violations_total",
			Help: "Total number of suspensions returned after the attempt budget was exhausted",
		},
		[]string{"invoker"},
	)

	// InvocationLatency tracks the duration of a single call.
	InvocationLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "invokers_invocation_latency_seconds",
			Help:    "Invocation latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"invoker"},
	)

	// PendingChains tracks suspended chains held by the dispatcher.
	PendingChains = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "invokers_pending_chains",
			Help: "Number of suspended invocation chains awaiting resume",
		},
	)
)

// Observe records one invocation result.
func Observe(invoker string, res domain.Result, elapsed time.Duration) {
	InvocationsTotal.WithLabelValues(invoker, res.Kind.String()).Inc()
	InvocationLatency.WithLabelValues(invoker).Observe(elapsed.Seconds())

	switch res.Kind {
	case domain.KindFailed:
		category := domain.CategoryInternal
		if res.Failure != nil {
			category = res.Failure.Category
		}
		FailuresTotal.WithLabelValues(invoker, string(category)).Inc()
	case domain.KindCompleted:
		if res.Empty {
			EmptyResultsTotal.WithLabelValues(invoker).Inc()
		}
	}
}
