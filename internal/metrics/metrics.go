// Package metrics exposes prometheus collectors for document analyses.
//
// Collectors are registered on a caller-supplied registry so tests and
// embedding programs never touch the global default registry. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SJF-ECNU/paperhelper/internal/core/domain"
)

const namespace = "paperhelper"

// Metrics holds the analysis collectors.
type Metrics struct {
	documents     *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	inFlight      prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		return nil, fmt.Errorf("%w: nil registerer", domain.ErrInvalidInput)
	}

	m := &Metrics{
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents that entered a lifecycle status.",
		}, []string{"status"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of analysis pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "analyses_in_flight",
			Help:      "Analyses currently running.",
		}),
	}

	for _, c := range []prometheus.Collector{m.documents, m.stageDuration, m.inFlight} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// RecordStatus counts a document entering status.
func (m *Metrics) RecordStatus(status domain.DocumentStatus) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(status.String()).Inc()
}

// ObserveStage records a stage duration. Its signature matches
// analysis.StageObserver so it can be attached to a pipeline directly.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration, _ error) {
	if m == nil {
		return
	}
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// AnalysisStarted increments the in-flight gauge.
func (m *Metrics) AnalysisStarted() {
	if m == nil {
		return
	}
	m.inFlight.Inc()
}

// AnalysisFinished decrements the in-flight gauge.
func (m *Metrics) AnalysisFinished() {
	if m == nil {
		return
	}
	m.inFlight.Dec()
}

// Handler serves the metrics gathered from g in the text exposition format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
