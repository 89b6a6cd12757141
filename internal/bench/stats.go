package bench

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Better задаёт, какое значение считается лучшим.
type Better int

const (
	Min Better = iota
	Max
)

type Stats struct {
	N    int
	Best float64
	Mean float64
	Std  float64
}

// CalcStats считает лучшее значение, среднее и выборочное стандартное отклонение.
func CalcStats(values []float64, better Better) Stats {
	s := Stats{N: len(values)}
	if s.N == 0 {
		return s
	}

	if better == Max {
		s.Best = floats.Max(values)
	} else {
		s.Best = floats.Min(values)
	}
	s.Mean = stat.Mean(values, nil)
	if s.N >= 2 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}
