package delivery

import (
	"fmt"
	"math"
	"strconv"
)

type Category string

const (
	Normal  Category = "normal"
	Fragile Category = "fragile"
	Urgent  Category = "urgent"
)

// Categories — все категории в порядке выборки.
var Categories = []Category{Fragile, Normal, Urgent}

// Диапазоны генерации атрибутов, зависящих от категории.
const (
	MinBreakingChance = 0.0001
	MaxBreakingChance = 0.01
	MinBreakingCost   = 3.0
	MaxBreakingCost   = 10.0
	MinDeadline       = 100.0
	MaxDeadline       = 240.0
)

// Package — одна посылка. Посылки с одинаковым ID считаются одной и той же
// независимо от атрибутов.
type Package struct {
	ID       int
	Category Category
	X, Y     float64

	// BreakingChance — вероятность повреждения на единицу пройденного расстояния.
	BreakingChance float64
	BreakingCost   float64

	// Deadline задаётся в единицах расстояния: скорость равна 1 единице за единицу времени.
	Deadline float64
}

func (p Package) String() string { return strconv.Itoa(p.ID) }

func (p Package) Validate() error {
	if p.ID < 0 {
		return fmt.Errorf("id посылки должен быть >= 0 (получено %d)", p.ID)
	}
	if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
		return fmt.Errorf("посылка %d: координаты должны быть конечными (получено %v, %v)", p.ID, p.X, p.Y)
	}
	switch p.Category {
	case Normal:
	case Fragile:
		if p.BreakingChance < 0 || p.BreakingChance > 1 {
			return fmt.Errorf("посылка %d: вероятность повреждения должна быть в диапазоне [0,1] (получено %f)", p.ID, p.BreakingChance)
		}
		if p.BreakingCost < 0 {
			return fmt.Errorf("посылка %d: стоимость повреждения должна быть >= 0 (получено %f)", p.ID, p.BreakingCost)
		}
	case Urgent:
		if p.Deadline < 0 {
			return fmt.Errorf("посылка %d: срок доставки должен быть >= 0 (получено %f)", p.ID, p.Deadline)
		}
	default:
		return fmt.Errorf("посылка %d: неизвестная категория %q", p.ID, p.Category)
	}
	return nil
}
