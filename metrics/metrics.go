// Package metrics exports grid evaluation statistics to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/flywave/go-heatgrid"
)

const (
	OutcomeGrid       = "grid"
	OutcomeDegenerate = "degenerate"
)

// Recorder implements heatgrid.Observer on its own registry.
type Recorder struct {
	Registry *prometheus.Registry

	evaluations *prometheus.CounterVec
	cells       *prometheus.CounterVec
	fallbacks   *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ heatgrid.Observer = &Recorder{}

func NewRecorder(namespace string) *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Grid evaluations by algorithm and outcome.",
		}, []string{"algorithm", "outcome"}),
		cells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_total",
			Help:      "Grid cells interpolated.",
		}, []string{"algorithm"}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singular_fallbacks_total",
			Help:      "Kriging evaluations answered by the nearest sample because the system was singular.",
		}, []string{"algorithm"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of a grid evaluation.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"algorithm"}),
	}
	r.Registry.MustRegister(r.evaluations, r.cells, r.fallbacks, r.duration)
	return r
}

func (r *Recorder) ObserveEvaluation(rep heatgrid.Report) {
	outcome := OutcomeGrid
	if rep.Degenerate {
		outcome = OutcomeDegenerate
	}
	r.evaluations.WithLabelValues(rep.Algorithm, outcome).Inc()
	r.cells.WithLabelValues(rep.Algorithm).Add(float64(rep.Cells))
	if rep.Singular {
		r.fallbacks.WithLabelValues(rep.Algorithm).Inc()
	}
	r.duration.WithLabelValues(rep.Algorithm).Observe(rep.Duration.Seconds())
}

// WriteTextfile writes the current values in the node exporter textfile
// format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
