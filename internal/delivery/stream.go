package delivery

import (
	"errors"
	"fmt"
	"math/rand"
)

// Stream — неизменяемый набор посылок, которые переставляет решение.
// ID посылки совпадает с её индексом в Packages.
type Stream struct {
	Packages []Package
}

func NewStream(pkgs []Package) (*Stream, error) {
	s := &Stream{Packages: pkgs}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stream) Validate() error {
	if s == nil {
		return errors.New("поток посылок не инициализирован (nil)")
	}
	if len(s.Packages) == 0 {
		return errors.New("поток должен содержать хотя бы одну посылку")
	}
	for i, p := range s.Packages {
		if p.ID != i {
			return fmt.Errorf("packages[%d] имеет id %d, id должны совпадать с позициями", i, p.ID)
		}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stream) Len() int { return len(s.Packages) }

func (s *Stream) Package(id int) Package { return s.Packages[id] }

// RandomStream генерирует n посылок с равновероятной категорией,
// равномерно размещённых в квадрате [0, mapSize).
func RandomStream(n int, mapSize float64, rng *rand.Rand) *Stream {
	if rng == nil {
		panic("генератор случайных чисел не инициализирован (nil)")
	}
	if n <= 0 || mapSize <= 0 {
		panic("количество посылок и размер карты должны быть > 0")
	}
	pkgs := make([]Package, n)
	for i := range pkgs {
		p := Package{
			ID:       i,
			Category: Categories[rng.Intn(len(Categories))],
			X:        rng.Float64() * mapSize,
			Y:        rng.Float64() * mapSize,
		}
		switch p.Category {
		case Fragile:
			p.BreakingChance = uniform(rng, MinBreakingChance, MaxBreakingChance)
			p.BreakingCost = uniform(rng, MinBreakingCost, MaxBreakingCost)
		case Urgent:
			p.Deadline = uniform(rng, MinDeadline, MaxDeadline)
		}
		pkgs[i] = p
	}
	s, err := NewStream(pkgs)
	if err != nil {
		panic(err)
	}
	return s
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
