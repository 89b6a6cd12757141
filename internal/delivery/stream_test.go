package delivery

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomStreamAttributes(t *testing.T) {
	s := RandomStream(200, 60, rand.New(rand.NewSource(42)))
	require.Equal(t, 200, s.Len())

	for i, p := range s.Packages {
		assert.Equal(t, i, p.ID)
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.Less(t, p.X, 60.0)
		assert.GreaterOrEqual(t, p.Y, 0.0)
		assert.Less(t, p.Y, 60.0)

		switch p.Category {
		case Fragile:
			assert.GreaterOrEqual(t, p.BreakingChance, MinBreakingChance)
			assert.LessOrEqual(t, p.BreakingChance, MaxBreakingChance)
			assert.GreaterOrEqual(t, p.BreakingCost, MinBreakingCost)
			assert.LessOrEqual(t, p.BreakingCost, MaxBreakingCost)
		case Urgent:
			assert.GreaterOrEqual(t, p.Deadline, MinDeadline)
			assert.LessOrEqual(t, p.Deadline, MaxDeadline)
		case Normal:
			assert.Zero(t, p.BreakingChance)
			assert.Zero(t, p.Deadline)
		default:
			t.Fatalf("unexpected category %q", p.Category)
		}
	}
}

func TestNewStreamValidation(t *testing.T) {
	_, err := NewStream(nil)
	assert.Error(t, err)

	_, err = NewStream([]Package{{ID: 1, Category: Normal}})
	assert.Error(t, err)

	_, err = NewStream([]Package{{ID: 0, Category: "heavy"}})
	assert.Error(t, err)

	_, err = NewStream([]Package{{ID: 0, Category: Fragile, BreakingChance: 2}})
	assert.Error(t, err)

	s, err := NewStream([]Package{{ID: 0, Category: Urgent, Deadline: 120}})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestSolutionHelpers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	sol := RandomSolution(30, rng)
	require.NoError(t, ValidatePermutation(sol, 30))

	c := sol.Clone()
	assert.True(t, c.Equal(sol))
	c[0], c[1] = c[1], c[0]
	assert.False(t, c.Equal(sol))
	assert.NotEqual(t, c.Key(), sol.Key())
	assert.Equal(t, sol.Clone().Key(), sol.Key())

	assert.False(t, Solution{0, Empty}.Complete())
	assert.True(t, Identity(3).Complete())
	assert.Error(t, ValidatePermutation(Solution{0, 0}, 2))
	assert.Error(t, ValidatePermutation(Solution{0, 5}, 2))
}
