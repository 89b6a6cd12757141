package opt

import (
	"context"
	"time"

	"deliveryOpt/internal/delivery"
)

// Optimizer улучшает порядок доставки потока, начиная со start.
// nil означает исходный порядок потока.
type Optimizer interface {
	Solve(ctx context.Context, stream *delivery.Stream, start delivery.Solution) (Result, error)
}

type Result struct {
	Solution    delivery.Solution
	Score       float64
	Evaluations int
	Iterations  int
	Duration    time.Duration
	Trace       []Sample
	Meta        map[string]any
}

// Sample — точка ряда «оценка по итерациям».
type Sample struct {
	Iteration int
	Best      float64
	Current   float64
}

// StartSolution проверяет start по потоку; по умолчанию берётся исходный порядок.
func StartSolution(stream *delivery.Stream, start delivery.Solution) (delivery.Solution, error) {
	if start == nil {
		return delivery.Identity(stream.Len()), nil
	}
	if err := delivery.ValidatePermutation(start, stream.Len()); err != nil {
		return nil, err
	}
	return start.Clone(), nil
}
