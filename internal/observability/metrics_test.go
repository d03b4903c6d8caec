package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("write counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestMetricsRegistered(t *testing.T) {
	ArtifactsWritten.WithLabelValues("metamorpheus-mods").Inc()
	GenerationFailures.WithLabelValues("io").Inc()
	PrepareDuration.Observe(0.01)
	ObserveEngineRun(time.Now(), nil)

	families, err := Registry.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
	expected := map[string]bool{
		"searchbridge_artifacts_written_total":   false,
		"searchbridge_generation_failures_total": false,
		"searchbridge_prepare_duration_seconds":  false,
		"searchbridge_engine_runs_total":         false,
		"searchbridge_engine_duration_seconds":   false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestObserveEngineRunLabelsOutcome(t *testing.T) {
	before := counterValue(t, EngineRuns.WithLabelValues("failed"))
	ObserveEngineRun(time.Now().Add(-time.Minute), errors.New("exit status 1"))
	if got := counterValue(t, EngineRuns.WithLabelValues("failed")) - before; got != 1 {
		t.Fatalf("failed runs delta = %v, want 1", got)
	}

	var m dto.Metric
	if err := EngineDuration.Write(&m); err != nil {
		t.Fatalf("write histogram: %v", err)
	}
	if m.GetHistogram().GetSampleSum() < 60 {
		t.Fatalf("sample sum = %v, want >= 60", m.GetHistogram().GetSampleSum())
	}
}

func TestWriteTextfile(t *testing.T) {
	ArtifactsWritten.WithLabelValues("metamorpheus-task").Inc()
	path := filepath.Join(t.TempDir(), "searchbridge.prom")
	if err := WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `searchbridge_artifacts_written_total{artifact="metamorpheus-task"}`) {
		t.Fatalf("textfile missing counter:\n%s", data)
	}
	if err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
