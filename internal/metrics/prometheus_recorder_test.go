package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("hugr", 150*time.Millisecond)
	pr.IncStageResult("hugr", ResultSuccess)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(ResultSuccess)
	pr.IncArtifactStored("mermaid")
	pr.IncArtifactStored("mermaid")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 5)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.artifactsSaved.WithLabelValues("mermaid")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("hugr", "success")), 0)
}

func TestPrometheusRecorderNilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("llvm", time.Second)
	pr.IncStageResult("llvm", ResultFailed)
	pr.IncRunOutcome(ResultFailed)
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(ResultFailed)

	path := filepath.Join(t.TempDir(), "guppyc.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `guppyc_run_outcomes_total{outcome="failed"} 1`)
}

func TestTestRecorderCounts(t *testing.T) {
	r := newTestRecorder()
	r.ObserveStageDuration("hugr", time.Millisecond)
	r.IncStageResult("hugr", ResultSuccess)
	r.IncArtifactStored("hugr")

	assert.Equal(t, 1, r.stageDurations["hugr"])
	assert.Equal(t, 1, r.stageResults["hugr"][ResultSuccess])
	assert.Equal(t, 1, r.artifacts["hugr"])
}
