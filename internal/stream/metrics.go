package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Event results used as the "result" label.
const (
	resultOK        = "ok"
	resultMalformed = "malformed"
	resultSinkError = "sink_error"
)

// Metrics holds the pipeline collectors. They live on a private registry so
// tests and embedders can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	events     *prometheus.CounterVec
	inflations prometheus.Counter
	directory  prometheus.Gauge
	duration   prometheus.Histogram
}

// NewMetrics creates and registers the collectors, plus the Go runtime and
// process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rtmtail_events_total",
			Help: "Stream frames handled, by result.",
		}, []string{"result"}),
		inflations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rtmtail_inflations_total",
			Help: "Identifier fields replaced by directory entities.",
		}),
		directory: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "rtmtail_directory_entities",
			Help: "Entities in the directory built from the snapshot.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rtmtail_event_process_seconds",
			Help:    "Time spent processing one frame, sinks included.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		}),
	}
	reg.MustRegister(
		m.events, m.inflations, m.directory, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	// Pre-create the label values so they are exported at zero.
	for _, r := range []string{resultOK, resultMalformed, resultSinkError} {
		m.events.WithLabelValues(r)
	}
	return m
}
