// Package observability provides Prometheus metrics for artifact generation
// and engine runs. Metrics live on a dedicated Registry so a one-shot CLI
// can write them to a textfile for the node exporter.
package observability

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrepareBuckets covers generation runs from 1ms to 5s.
var PrepareBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// EngineBuckets covers engine runs from 10s to 4h.
var EngineBuckets = []float64{10, 30, 60, 300, 900, 1800, 3600, 14400}

// Registry holds every searchbridge metric.
var Registry = prometheus.NewRegistry()

var (
	// ArtifactsWritten counts engine input files written, by artifact id.
	ArtifactsWritten = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchbridge_artifacts_written_total",
			Help: "Engine input files written",
		},
		[]string{"artifact"},
	)

	// GenerationFailures counts failed preparations by failure kind.
	GenerationFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchbridge_generation_failures_total",
			Help: "Failed preparations",
		},
		[]string{"kind"},
	)

	// PrepareDuration records how long writing the engine inputs took.
	PrepareDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "searchbridge_prepare_duration_seconds",
			Help:    "Preparation duration",
			Buckets: PrepareBuckets,
		},
	)

	// EngineRuns counts engine launches by outcome (ok, failed).
	EngineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "searchbridge_engine_runs_total",
			Help: "Engine runs",
		},
		[]string{"status"},
	)

	// EngineDuration records engine wall time in seconds.
	EngineDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "searchbridge_engine_duration_seconds",
			Help:    "Engine run duration",
			Buckets: EngineBuckets,
		},
	)
)

func init() {
	Registry.MustRegister(
		ArtifactsWritten,
		GenerationFailures,
		PrepareDuration,
		EngineRuns,
		EngineDuration,
	)
}

// ObserveEngineRun records one engine launch.
func ObserveEngineRun(started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "failed"
	}
	EngineRuns.WithLabelValues(status).Inc()
	EngineDuration.Observe(time.Since(started).Seconds())
}

// WriteTextfile writes the registry in the text exposition format to path.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, Registry); err != nil {
		return fmt.Errorf("observability: write %s: %w", path, err)
	}
	return nil
}
