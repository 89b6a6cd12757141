package ga

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deliveryOpt/internal/delivery"
)

func TestCrossoversPreservePermutations(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	x := newCrossover(6)
	p1 := delivery.Solution{0, 1, 2, 3, 4, 5}
	p2 := delivery.Solution{5, 3, 1, 4, 0, 2}

	for i := 0; i < 200; i++ {
		c1, c2 := x.orderBased(p1, p2, rng)
		require.NoError(t, delivery.ValidatePermutation(c1, 6))
		require.NoError(t, delivery.ValidatePermutation(c2, 6))

		c1, c2 = x.orderCrossoverOX(p1, p2, rng)
		require.NoError(t, delivery.ValidatePermutation(c1, 6))
		require.NoError(t, delivery.ValidatePermutation(c2, 6))
	}

	// Родители не изменяются
	assert.Equal(t, delivery.Solution{0, 1, 2, 3, 4, 5}, p1)
	assert.Equal(t, delivery.Solution{5, 3, 1, 4, 0, 2}, p2)
}

func TestOrderBasedChildKeepsFixedPositions(t *testing.T) {
	x := newCrossover(6)
	p1 := delivery.Solution{0, 1, 2, 3, 4, 5}
	p2 := delivery.Solution{5, 4, 3, 2, 1, 0}

	child := x.orderBasedChild(p1, p2, []int{1, 4})
	assert.Equal(t, delivery.Solution{5, 1, 3, 2, 4, 0}, child)
}

func TestOXChildFillsCyclically(t *testing.T) {
	x := newCrossover(6)
	p1 := delivery.Solution{0, 1, 2, 3, 4, 5}
	p2 := delivery.Solution{5, 4, 3, 2, 1, 0}

	// Сегмент [2, 4) = {2, 3}, остальное с позиции 4: 5, 4, 1, 0
	child := x.oxChild(p1, p2, 2, 4)
	assert.Equal(t, delivery.Solution{1, 0, 2, 3, 5, 4}, child)
}

func TestTournamentSelectPicksFittestWhenFull(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	scores := []float64{-10, -3, -7, -50}
	for i := 0; i < 20; i++ {
		// Размер турнира больше популяции обрезается до неё
		assert.Equal(t, 1, tournamentSelect(scores, 20, rng))
	}
}

func TestRouletteSelect(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	// Нулевые особи никогда не выбираются при ненулевой сумме
	scores := []float64{0, -5, 0}
	for i := 0; i < 50; i++ {
		assert.Equal(t, 1, rouletteSelect(scores, rng))
	}

	// Нулевая сумма — равновероятный выбор
	seen := map[int]bool{}
	zeros := []float64{0, 0, 0, 0}
	for i := 0; i < 200; i++ {
		seen[rouletteSelect(zeros, rng)] = true
	}
	assert.Len(t, seen, 4)

	// Частоты пропорциональны |score|
	counts := make([]int, 2)
	weighted := []float64{-1, -3}
	for i := 0; i < 4000; i++ {
		counts[rouletteSelect(weighted, rng)]++
	}
	assert.InDelta(t, 0.75, float64(counts[1])/4000, 0.05)
}

func TestSolveTracksBestAcrossGenerations(t *testing.T) {
	s := delivery.RandomStream(12, 60, rand.New(rand.NewSource(4)))
	cfg := DefaultConfig()
	cfg.Population = 20
	cfg.Generations = 30
	cfg.TournamentSize = 5
	solver, err := New(cfg, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	res, err := solver.Solve(context.Background(), s, nil)
	require.NoError(t, err)
	require.NoError(t, delivery.ValidatePermutation(res.Solution, s.Len()))

	eval, err := delivery.NewEvaluator(s)
	require.NoError(t, err)
	assert.Equal(t, eval.Evaluate(res.Solution), res.Score)
	assert.GreaterOrEqual(t, res.Score, eval.Evaluate(delivery.Identity(s.Len())))

	assert.Equal(t, 30, res.Iterations)
	assert.Equal(t, 20+30*(20-cfg.Elite), res.Evaluations)
	require.Len(t, res.Trace, 31)
	for i := 1; i < len(res.Trace); i++ {
		assert.GreaterOrEqual(t, res.Trace[i].Best, res.Trace[i-1].Best)
		assert.LessOrEqual(t, res.Trace[i].Current, res.Trace[i].Best)
		// Элитизм: лучшая особь поколения не ухудшается
		assert.GreaterOrEqual(t, res.Trace[i].Current, res.Trace[i-1].Current)
	}
	bestGen, ok := res.Meta["best_generation"].(int)
	require.True(t, ok)
	assert.Equal(t, res.Score, res.Trace[bestGen].Best)
}

func TestSolveIsReproducible(t *testing.T) {
	s := delivery.RandomStream(10, 60, rand.New(rand.NewSource(6)))
	cfg := DefaultConfig()
	cfg.Population = 10
	cfg.Generations = 10
	run := func() delivery.Solution {
		solver, err := New(cfg, rand.New(rand.NewSource(7)))
		require.NoError(t, err)
		res, err := solver.Solve(context.Background(), s, nil)
		require.NoError(t, err)
		return res.Solution
	}
	assert.Equal(t, run(), run())
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
	assert.Zero(t, res.Iterations)
	require.NoError(t, delivery.ValidatePermutation(res.Solution, 6))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.Elite = bad.Population
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.CrossoverRate = 1.5
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Population = 1
	assert.Error(t, bad.Validate())
}
