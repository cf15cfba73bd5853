// Package metrics は /metrics で出すPrometheusのコレクタ
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "restaurant"

// 分析結果（outcomeラベル）
const (
	OutcomeSuccess     = "success"
	OutcomeEmpty       = "empty"
	OutcomeUnavailable = "dependency_unavailable"
	OutcomeFailed      = "failed"
)

var (
	orderStatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order",
		Name:      "status_transitions_total",
		Help:      "Committed order status transitions by target status.",
	}, []string{"to"})

	orderLinesInserted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "order",
		Name:      "lines_inserted_total",
		Help:      "Order detail lines inserted.",
	})

	analysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "runs_total",
		Help:      "Association analysis requests by outcome.",
	}, []string{"outcome"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "duration_seconds",
		Help:      "Wall-clock time of one analysis engine invocation.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	})

	engineProbes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "engine",
		Name:      "probe_total",
		Help:      "Dependency probes of the analysis engine runtime by result.",
	}, []string{"result"})
)

func RecordStatusTransition(to string) {
	orderStatusTransitions.WithLabelValues(to).Inc()
}

func RecordLinesInserted(n int64) {
	if n > 0 {
		orderLinesInserted.Add(float64(n))
	}
}

func RecordAnalysisRun(outcome string) {
	analysisRuns.WithLabelValues(outcome).Inc()
}

func ObserveAnalysisDuration(seconds float64) {
	analysisDuration.Observe(seconds)
}

func RecordEngineProbe(available bool) {
	if available {
		engineProbes.WithLabelValues("available").Inc()
		return
	}
	engineProbes.WithLabelValues("unavailable").Inc()
}

func Handler() http.Handler {
	return promhttp.Handler()
}
