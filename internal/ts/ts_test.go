package ts

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/neighborhood"
)

// flatStream: все посылки обычные и лежат в начале координат, любой порядок стоит 0.
func flatStream(t *testing.T, n int) *delivery.Stream {
	t.Helper()
	pkgs := make([]delivery.Package, n)
	for i := range pkgs {
		pkgs[i] = delivery.Package{ID: i, Category: delivery.Normal}
	}
	s, err := delivery.NewStream(pkgs)
	require.NoError(t, err)
	return s
}

func TestTabuListExpiry(t *testing.T) {
	l := newTabuList()
	l.Add("a", 2)
	l.Add("b", 1)
	assert.True(t, l.Contains("a"))
	assert.True(t, l.Contains("b"))

	l.Tick()
	assert.True(t, l.Contains("a"))
	assert.False(t, l.Contains("b"))
	assert.Equal(t, 1, l.Len())

	l.Add("a", 3)
	l.Tick()
	assert.True(t, l.Contains("a"), "second entry for a still alive")
	l.Tick()
	l.Tick()
	assert.False(t, l.Contains("a"))
	assert.Zero(t, l.Len())
}

func TestGrowthPolicies(t *testing.T) {
	lin, err := GrowthLinear.Func()
	require.NoError(t, err)
	assert.Equal(t, 6, lin(5))

	sq, err := GrowthSqrt.Func()
	require.NoError(t, err)
	assert.Equal(t, 8, sq(5))
	assert.Equal(t, 12, sq(9))

	_, err = Growth("cubic").Func()
	assert.Error(t, err)
}

func TestNeverAcceptsTabuSolution(t *testing.T) {
	s := delivery.RandomStream(8, 60, rand.New(rand.NewSource(11)))
	solver, err := New(Config{
		Iterations:    60,
		Tenure:        7,
		MaxStagnation: 5,
		Growth:        GrowthLinear,
		MaxRetries:    50,
	}, rand.New(rand.NewSource(12)))
	require.NoError(t, err)

	steps := 0
	solver.observe = func(st step) {
		steps++
		assert.False(t, st.wasTabu, "iteration %d accepted a tabu solution", st.iteration)
		assert.NoError(t, delivery.ValidatePermutation(st.accepted, s.Len()))
	}

	res, err := solver.Solve(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Equal(t, res.Iterations, steps)
	assert.GreaterOrEqual(t, res.Iterations, 60)
	require.NoError(t, delivery.ValidatePermutation(res.Solution, s.Len()))

	for i := 1; i < len(res.Trace); i++ {
		assert.GreaterOrEqual(t, res.Trace[i].Best, res.Trace[i-1].Best)
		assert.LessOrEqual(t, res.Trace[i].Current, res.Trace[i].Best)
	}
}

func TestTenureGrowsEveryStagnantIteration(t *testing.T) {
	s := flatStream(t, 6)
	solver, err := New(Config{
		Iterations:    10,
		Tenure:        4,
		MaxStagnation: 1,
		Growth:        GrowthLinear,
		MaxRetries:    50,
	}, rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	var tenures []int
	solver.observe = func(st step) { tenures = append(tenures, st.tenure) }

	res, err := solver.Solve(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Equal(t, "budget", res.Meta["stopped"])
	assert.Equal(t, 10, res.Iterations)
	assert.Zero(t, res.Score)

	require.Len(t, tenures, 10)
	for i, tn := range tenures {
		assert.Equal(t, 4+i, tn)
	}
	assert.Equal(t, 14, res.Meta["tenure"])
}

func TestCustomGrowthPolicy(t *testing.T) {
	s := flatStream(t, 6)
	solver, err := New(Config{
		Iterations:    5,
		Tenure:        3,
		MaxStagnation: 1,
		MaxRetries:    50,
	}, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	solver.Grow = func(tenure int) int { return tenure * 2 }

	res, err := solver.Solve(context.Background(), s, nil)
	require.NoError(t, err)
	assert.Equal(t, 3*32, res.Meta["tenure"])
	assert.Equal(t, "custom", res.Meta["growth"])
}

func TestGrowthReportedInMeta(t *testing.T) {
	s := flatStream(t, 5)
	for growth, want := range map[Growth]string{
		"":           "linear",
		GrowthLinear: "linear",
		GrowthSqrt:   "sqrt",
	} {
		cfg := DefaultConfig()
		cfg.Iterations = 3
		cfg.Growth = growth
		solver, err := New(cfg, rand.New(rand.NewSource(7)))
		require.NoError(t, err)

		res, err := solver.Solve(context.Background(), s, nil)
		require.NoError(t, err)
		assert.Equal(t, want, res.Meta["growth"], "growth %q", growth)
	}
}

func TestExhaustedNeighborhoodTerminates(t *testing.T) {
	pkgs := []delivery.Package{
		{ID: 0, Category: delivery.Normal, X: 50, Y: 50},
		{ID: 1, Category: delivery.Normal, X: 1, Y: 1},
	}
	s, err := delivery.NewStream(pkgs)
	require.NoError(t, err)

	solver, err := New(Config{
		Iterations:    1000,
		Tenure:        5,
		MaxStagnation: 10,
		MaxRetries:    20,
	}, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	res, err := solver.Solve(context.Background(), s, delivery.Solution{0, 1})
	require.NoError(t, err)
	assert.Equal(t, "exhausted", res.Meta["stopped"])
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, delivery.Solution{1, 0}, res.Solution)
}

func TestSolveHonorsCancelledContext(t *testing.T) {
	s := delivery.RandomStream(6, 60, rand.New(rand.NewSource(1)))
	solver, err := New(DefaultConfig(), rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := solver.Solve(ctx, s, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "context", res.Meta["stopped"])
	assert.Equal(t, delivery.Identity(6), res.Solution)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Tenure = 0
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Growth = "exp"
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Moves = []neighborhood.Move{"jump"}
	assert.Error(t, bad.Validate())

	_, err := New(DefaultConfig(), nil)
	assert.Error(t, err)
}
