package neighborhood

import (
	"fmt"
	"math/rand"

	"deliveryOpt/internal/delivery"
)

// Generator строит случайных соседей. Для решений длины >= 2 случайный ход
// никогда не вырожден: результат всегда отличается от исходного решения.
type Generator struct {
	Rng   *rand.Rand
	Moves []Move
}

// New возвращает генератор по набору ходов; пустой список означает AllMoves.
func New(rng *rand.Rand, moves ...Move) (*Generator, error) {
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	for _, m := range moves {
		if _, err := ParseMove(string(m)); err != nil {
			return nil, err
		}
	}
	if len(moves) == 0 {
		moves = AllMoves
	}
	return &Generator{Rng: rng, Moves: moves}, nil
}

// Random применяет ход, тип которого равновероятно выбран из набора.
func (g *Generator) Random(sol delivery.Solution) delivery.Solution {
	moves := g.Moves
	if len(moves) == 0 {
		moves = AllMoves
	}
	return g.Apply(moves[g.Rng.Intn(len(moves))], sol)
}

func (g *Generator) Apply(m Move, sol delivery.Solution) delivery.Solution {
	switch m {
	case MoveSwap:
		return g.RandomSwap(sol)
	case MoveReverse:
		return g.RandomReverse(sol)
	default:
		return g.RandomRelocate(sol)
	}
}

// RandomRelocate переносит случайную посылку на другую случайную позицию.
func (g *Generator) RandomRelocate(sol delivery.Solution) delivery.Solution {
	n := len(sol)
	if n < 2 {
		return sol.Clone()
	}
	from, to := g.distinctPair(n)
	return Relocate(sol, from, to)
}

// RandomSwap меняет местами две различные случайные позиции.
func (g *Generator) RandomSwap(sol delivery.Solution) delivery.Solution {
	n := len(sol)
	if n < 2 {
		return sol.Clone()
	}
	i, j := g.distinctPair(n)
	return Swap(sol, i, j)
}

// RandomReverse разворачивает случайный отрезок длины >= 2.
func (g *Generator) RandomReverse(sol delivery.Solution) delivery.Solution {
	n := len(sol)
	if n < 2 {
		return sol.Clone()
	}
	i, j := g.distinctPair(n)
	if i > j {
		i, j = j, i
	}
	return Reverse(sol, i, j)
}

func (g *Generator) distinctPair(n int) (int, int) {
	i := g.Rng.Intn(n)
	j := g.Rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}

// All перечисляет окрестность переноса (каждая посылка на каждую другую позицию),
// затем окрестность обмена (каждая неупорядоченная пара).
func All(sol delivery.Solution) []delivery.Solution {
	n := len(sol)
	if n < 2 {
		return nil
	}
	out := make([]delivery.Solution, 0, n*(n-1)+n*(n-1)/2)
	for from := 0; from < n; from++ {
		for to := 0; to < n; to++ {
			if to == from {
				continue
			}
			out = append(out, Relocate(sol, from, to))
		}
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			out = append(out, Swap(sol, i, j))
		}
	}
	return out
}

// Scorer — часть оценщика, нужная окрестности.
type Scorer interface {
	Evaluate(delivery.Solution) float64
}

// Best возвращает индекс и оценку лучшего решения; при равенстве побеждает
// первое найденное. Для пустого набора возвращает -1.
func Best(eval Scorer, set []delivery.Solution) (int, float64) {
	best := -1
	bestScore := delivery.Unusable
	for i, s := range set {
		score := eval.Evaluate(s)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best, bestScore
}
