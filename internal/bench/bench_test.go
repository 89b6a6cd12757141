package bench

import (
	"bytes"
	"context"
	"encoding/csv"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/hc"
	"deliveryOpt/internal/metrics"
	"deliveryOpt/internal/opt"
)

func hcAlgorithm() Algorithm {
	return Algorithm{
		Name: "HC",
		Factory: func(seed int64) (opt.Optimizer, error) {
			return hc.New(hc.Config{Iterations: 50}, rand.New(rand.NewSource(seed)))
		},
	}
}

func runRecord(t *testing.T) Record {
	t.Helper()
	runner := Runner{Runs: 4, BaseSeed: 10, Metrics: metrics.New()}
	rec, err := runner.RunCase(context.Background(), Case{Packages: 8, MapSize: 50, InstanceSeed: 3}, hcAlgorithm())
	require.NoError(t, err)
	return rec
}

func TestCalcStats(t *testing.T) {
	s := CalcStats([]float64{2, 4, 4, 4, 5, 5, 7, 9}, Max)
	assert.Equal(t, 8, s.N)
	assert.Equal(t, 9.0, s.Best)
	assert.InDelta(t, 5.0, s.Mean, 1e-12)
	assert.InDelta(t, 2.138089935, s.Std, 1e-6)

	s = CalcStats([]float64{3}, Min)
	assert.Equal(t, 3.0, s.Best)
	assert.Zero(t, s.Std)

	assert.Zero(t, CalcStats(nil, Min).N)
}

func TestRunCase(t *testing.T) {
	rec := runRecord(t)
	assert.Equal(t, "HC", rec.Algo)
	assert.Equal(t, 8, rec.Packages)
	assert.Equal(t, 4, rec.Runs)
	assert.NotEmpty(t, rec.RunID)
	assert.GreaterOrEqual(t, rec.ScoreBest, rec.ScoreMean)
	assert.Equal(t, rec.ScoreBest, rec.Best.Score)
	require.NoError(t, delivery.ValidatePermutation(rec.Best.Solution, 8))
}

// startRecorder запоминает стартовые решения, переданные в Solve.
type startRecorder struct {
	starts *[]delivery.Solution
}

func (r startRecorder) Solve(_ context.Context, stream *delivery.Stream, start delivery.Solution) (opt.Result, error) {
	*r.starts = append(*r.starts, start.Clone())
	sol, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return opt.Result{}, err
	}
	return opt.Result{Solution: sol, Score: eval.Evaluate(sol)}, nil
}

func TestRunCaseRandomStart(t *testing.T) {
	c := Case{Packages: 12, MapSize: 50, InstanceSeed: 5}
	collect := func(randomStart bool) []delivery.Solution {
		var starts []delivery.Solution
		algo := Algorithm{
			Name: "rec",
			Factory: func(int64) (opt.Optimizer, error) {
				return startRecorder{starts: &starts}, nil
			},
		}
		runner := Runner{Runs: 2, BaseSeed: 42, RandomStart: randomStart}
		_, err := runner.RunCase(context.Background(), c, algo)
		require.NoError(t, err)
		return starts
	}

	first := collect(true)
	require.Len(t, first, 2)
	for _, st := range first {
		require.NoError(t, delivery.ValidatePermutation(st, c.Packages))
	}
	assert.NotEqual(t, first[0], first[1])
	assert.Equal(t, first, collect(true))

	for _, st := range collect(false) {
		assert.Nil(t, st)
	}
}

func TestRunCaseSameInstanceAcrossAlgorithms(t *testing.T) {
	c := Case{Packages: 6, MapSize: 40, InstanceSeed: 9}
	a, err := c.Stream()
	require.NoError(t, err)
	b, err := c.Stream()
	require.NoError(t, err)
	assert.Equal(t, a.Packages, b.Packages)

	_, err = Case{Packages: 0, MapSize: 40}.Stream()
	assert.Error(t, err)
}

func TestRunCaseFactoryError(t *testing.T) {
	algo := Algorithm{
		Name: "bad",
		Factory: func(seed int64) (opt.Optimizer, error) {
			return hc.New(hc.Config{Iterations: 0}, rand.New(rand.NewSource(seed)))
		},
	}
	_, err := Runner{Runs: 1}.RunCase(context.Background(), Case{Packages: 3, MapSize: 10}, algo)
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	rec := runRecord(t)
	path := filepath.Join(t.TempDir(), "out", "results.csv")
	require.NoError(t, WriteCSV(path, []Record{rec}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, recordHeader, rows[0])
	assert.Equal(t, rec.RunID, rows[1][0])
	assert.Equal(t, "8", rows[1][2])
}

func TestWriteXLSX(t *testing.T) {
	rec := runRecord(t)
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, WriteXLSX(path, []Record{rec}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.GetRows("records")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "HC", summary[1][1])

	routes, err := f.GetRows("routes")
	require.NoError(t, err)
	require.Len(t, routes, 1+8)
	assert.Equal(t, routeHeader, routes[0])
}

func TestWriteTraceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.csv")
	trace := []opt.Sample{{Iteration: 0, Best: -10, Current: -10}, {Iteration: 1, Best: -8, Current: -8}}
	require.NoError(t, WriteTraceCSV(path, "SA", trace))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "SA,1,-8.000000,-8.000000", lines[2])
}

func TestRouteTable(t *testing.T) {
	s, err := delivery.NewStream([]delivery.Package{
		{ID: 0, Category: delivery.Normal, X: 3, Y: 4},
		{ID: 1, Category: delivery.Normal, X: 3, Y: 10},
	})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RouteTable(&buf, s, delivery.Solution{0, 1}))
	out := buf.String()
	assert.Contains(t, out, "category")
	assert.Contains(t, out, "distance=11.00")
	assert.Contains(t, out, "total=3.30")

	assert.Error(t, RouteTable(&buf, s, delivery.Solution{0, 0}))
}
