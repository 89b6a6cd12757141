package delivery

import (
	"fmt"
	"math"
)

const (
	// DistanceWeight переводит пройденное расстояние в стоимость.
	DistanceWeight = 0.3
	// LatenessRate — штраф за единицу расстояния опоздания срочной посылки.
	LatenessRate = 0.3
)

// Unusable — приспособленность решения с незаполненными позициями (Empty).
// Она ниже приспособленности любого полного решения.
var Unusable = math.Inf(-1)

// Cost — составляющие стоимости доставки для решения.
type Cost struct {
	Distance float64
	Breakage float64
	Lateness float64
	Total    float64
}

// Fitness — стоимость со знаком минус: чем больше, тем лучше.
func (c Cost) Fitness() float64 { return -c.Total }

// Stop описывает одну доставку на маршруте.
type Stop struct {
	Position int
	Package  Package
	Leg      float64
	// Arrival — пройденное к моменту прибытия расстояние (равно времени).
	Arrival  float64
	Breakage float64
	Lateness float64
}

type Evaluator struct {
	stream *Stream
}

func NewEvaluator(s *Stream) (*Evaluator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &Evaluator{stream: s}, nil
}

func (e *Evaluator) Stream() *Stream { return e.stream }

// Evaluate оценивает решение. Результат зависит только от порядка и атрибутов
// посылок; неполное решение получает Unusable.
func (e *Evaluator) Evaluate(sol Solution) float64 {
	if !sol.Complete() {
		return Unusable
	}
	return e.walk(sol, nil).Fitness()
}

// Breakdown возвращает составляющие стоимости корректной перестановки.
func (e *Evaluator) Breakdown(sol Solution) (Cost, error) {
	if e == nil || e.stream == nil {
		return Cost{}, fmt.Errorf("оценщик не инициализирован (nil)")
	}
	if err := ValidatePermutation(sol, e.stream.Len()); err != nil {
		return Cost{}, err
	}
	return e.walk(sol, nil), nil
}

func (e *Evaluator) MustBreakdown(sol Solution) Cost {
	c, err := e.Breakdown(sol)
	if err != nil {
		panic(err)
	}
	return c
}

// Route перечисляет остановки корректной перестановки со штрафами по каждой.
func (e *Evaluator) Route(sol Solution) ([]Stop, Cost, error) {
	if err := ValidatePermutation(sol, e.stream.Len()); err != nil {
		return nil, Cost{}, err
	}
	stops := make([]Stop, 0, len(sol))
	c := e.walk(sol, &stops)
	return stops, c, nil
}

// walk проходит маршрут от склада в начале координат, накапливая расстояние и штрафы.
func (e *Evaluator) walk(sol Solution, stops *[]Stop) Cost {
	var c Cost
	lastX, lastY := 0.0, 0.0
	for pos, id := range sol {
		p := &e.stream.Packages[id]
		leg := math.Hypot(p.X-lastX, p.Y-lastY)
		c.Distance += leg
		lastX, lastY = p.X, p.Y

		var breakage, lateness float64
		switch p.Category {
		case Fragile:
			// Математическое ожидание ущерба, а не случайный исход
			damage := 1 - math.Pow(1-p.BreakingChance, c.Distance)
			breakage = damage * p.BreakingCost
		case Urgent:
			if c.Distance > p.Deadline {
				lateness = (c.Distance - p.Deadline) * LatenessRate
			}
		}
		c.Breakage += breakage
		c.Lateness += lateness

		if stops != nil {
			*stops = append(*stops, Stop{
				Position: pos,
				Package:  *p,
				Leg:      leg,
				Arrival:  c.Distance,
				Breakage: breakage,
				Lateness: lateness,
			})
		}
	}
	c.Total = c.Distance*DistanceWeight + c.Breakage + c.Lateness
	return c
}
