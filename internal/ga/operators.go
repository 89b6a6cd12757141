package ga

import (
	"math"
	"math/rand"

	"deliveryOpt/internal/delivery"
)

// crossover — буферы mark/stamp, общие для операторов одного солвера.
// mark[id] == stamp означает, что посылка id уже включена в текущего потомка.
type crossover struct {
	mark  []int
	stamp int
}

func newCrossover(n int) *crossover {
	return &crossover{mark: make([]int, n)}
}

func (x *crossover) next() int {
	x.stamp++
	return x.stamp
}

// orderBased реализует order-based crossover: n/2 случайных позиций
// копируются из первого родителя, остальные заполняются посылками
// второго родителя в порядке их следования.
func (x *crossover) orderBased(p1, p2 delivery.Solution, rng *rand.Rand) (delivery.Solution, delivery.Solution) {
	n := len(p1)
	keep := rng.Perm(n)[:n/2]
	return x.orderBasedChild(p1, p2, keep), x.orderBasedChild(p2, p1, keep)
}

func (x *crossover) orderBasedChild(fixed, donor delivery.Solution, keep []int) delivery.Solution {
	n := len(fixed)
	child := make(delivery.Solution, n)
	for i := range child {
		child[i] = delivery.Empty
	}

	cur := x.next()
	for _, i := range keep {
		child[i] = fixed[i]
		x.mark[fixed[i]] = cur
	}

	pos := 0
	for _, id := range donor {
		if x.mark[id] == cur {
			continue
		}
		for child[pos] != delivery.Empty {
			pos++
		}
		child[pos] = id
		x.mark[id] = cur
	}
	return child
}

// orderCrossoverOX реализует оператор Order Crossover.
func (x *crossover) orderCrossoverOX(p1, p2 delivery.Solution, rng *rand.Rand) (delivery.Solution, delivery.Solution) {
	n := len(p1)
	if n < 2 {
		return p1.Clone(), p2.Clone()
	}

	// Выбор случайного отрезка [a, b), a < b
	a := rng.Intn(n)
	b := rng.Intn(n - 1)
	if b >= a {
		b++
	}
	if a > b {
		a, b = b, a
	}
	return x.oxChild(p1, p2, a, b), x.oxChild(p2, p1, a, b)
}

func (x *crossover) oxChild(segment, donor delivery.Solution, a, b int) delivery.Solution {
	n := len(segment)
	child := make(delivery.Solution, n)
	for i := range child {
		child[i] = delivery.Empty
	}

	cur := x.next()

	// Копирование сегмента из первого родителя
	for i := a; i < b; i++ {
		child[i] = segment[i]
		x.mark[segment[i]] = cur
	}

	// Заполнение оставшихся позиций, начиная с b по кругу,
	// посылками второго родителя в их порядке
	pos := b % n
	for _, id := range donor {
		if x.mark[id] == cur {
			continue
		}
		for child[pos] != delivery.Empty {
			pos = (pos + 1) % n
		}
		child[pos] = id
		x.mark[id] = cur
	}
	return child
}

// tournamentSelect реализует турнирный отбор без возвращения:
// из size различных особей выбирается особь с максимальной приспособленностью.
func tournamentSelect(scores []float64, size int, rng *rand.Rand) int {
	if size > len(scores) {
		size = len(scores)
	}
	picked := rng.Perm(len(scores))[:size]
	best := picked[0]
	for _, cand := range picked[1:] {
		if scores[cand] > scores[best] {
			best = cand
		}
	}
	return best
}

// rouletteSelect — отбор колесом рулетки с вероятностью |score|/Σ|score|.
// При нулевой сумме выбор равновероятный.
func rouletteSelect(scores []float64, rng *rand.Rand) int {
	total := 0.0
	for _, s := range scores {
		total += math.Abs(s)
	}
	if total == 0 || math.IsInf(total, 0) || math.IsNaN(total) {
		return rng.Intn(len(scores))
	}

	spin := rng.Float64() * total
	acc := 0.0
	for i, s := range scores {
		acc += math.Abs(s)
		if spin < acc {
			return i
		}
	}
	// Погрешность округления
	for i := len(scores) - 1; i >= 0; i-- {
		if scores[i] != 0 {
			return i
		}
	}
	return len(scores) - 1
}
