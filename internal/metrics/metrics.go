// Package metrics exposes Prometheus metrics for the generation pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "content"
	subsystem = "pipeline"
)

// Pipeline holds the pipeline metrics on a private registry.
type Pipeline struct {
	registry *prometheus.Registry

	// StageDuration tracks stage run time in seconds.
	// Labels: stage, result (success, error)
	StageDuration *prometheus.HistogramVec

	// RunsTotal counts finished pipeline runs.
	// Labels: status (complete, failed)
	RunsTotal *prometheus.CounterVec

	// FallbacksTotal counts stages that answered with their deterministic fallback.
	// Labels: agent
	FallbacksTotal *prometheus.CounterVec

	// InFlight is the number of runs currently executing.
	InFlight prometheus.Gauge
}

func NewPipeline() *Pipeline {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Pipeline{
		registry: reg,
		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"stage", "result"},
		),
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_total",
				Help:      "Total number of finished pipeline runs by final status",
			},
			[]string{"status"},
		),
		FallbacksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fallbacks_total",
				Help:      "Total number of stage results produced without the AI service",
			},
			[]string{"agent"},
		),
		InFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_in_flight",
				Help:      "Number of pipeline runs currently executing",
			},
		),
	}
}

// ObserveStage records one stage run.
func (p *Pipeline) ObserveStage(stage string, start time.Time, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	p.StageDuration.WithLabelValues(stage, result).Observe(time.Since(start).Seconds())
}

// Fallback records a stage that degraded to its fallback result.
func (p *Pipeline) Fallback(agent string) {
	p.FallbacksTotal.WithLabelValues(agent).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Pipeline) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{Registry: p.registry})
}
