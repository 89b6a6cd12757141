package metrics

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryOpt/internal/opt"
)

func value(t *testing.T, c prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	switch {
	case m.Gauge != nil:
		return m.GetGauge().GetValue()
	case m.Counter != nil:
		return m.GetCounter().GetValue()
	}
	t.Fatalf("unsupported metric %v", c.Desc())
	return 0
}

func TestObserveKeepsBestScore(t *testing.T) {
	r := New()
	r.Observe("SA", "10", opt.Result{Score: -50, Evaluations: 100, Duration: time.Millisecond}, nil)
	r.Observe("SA", "10", opt.Result{Score: -80, Evaluations: 40, Duration: time.Millisecond}, nil)
	r.Observe("SA", "10", opt.Result{Score: -30, Evaluations: 10, Duration: time.Millisecond}, nil)

	assert.Equal(t, -30.0, value(t, r.BestScore.WithLabelValues("SA", "10")))
	assert.Equal(t, 150.0, value(t, r.Evaluations.WithLabelValues("SA")))
	assert.Equal(t, 3.0, value(t, r.Runs.WithLabelValues("SA", "ok")))
}

func TestObserveFailures(t *testing.T) {
	r := New()
	r.Observe("TS", "5", opt.Result{Meta: map[string]any{"stopped": "context"}}, context.Canceled)
	r.Observe("TS", "5", opt.Result{}, errors.New("boom"))

	assert.Equal(t, 1.0, value(t, r.Runs.WithLabelValues("TS", "cancelled")))
	assert.Equal(t, 1.0, value(t, r.Runs.WithLabelValues("TS", "error")))
	assert.Zero(t, value(t, r.Evaluations.WithLabelValues("TS")))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() { r.Observe("GA", "1", opt.Result{}, nil) })
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.Observe("GA", "20", opt.Result{Score: -12.5, Evaluations: 7, Duration: time.Second}, nil)

	path := filepath.Join(t.TempDir(), "solver.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `delivery_solver_best_score{algo="GA",packages="20"} -12.5`)
	assert.Contains(t, string(data), "delivery_solver_evaluations_total")
}
