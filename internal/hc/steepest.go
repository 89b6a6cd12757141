package hc

import (
	"context"
	"log/slog"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/opt"
)

// SteepestSolver - hill climbing с наискорейшим подъёмом: на каждом шаге
// просматривается вся окрестность, поиск останавливается в локальном оптимуме.
// Генератор случайных чисел не нужен.
type SteepestSolver struct {
	Cfg SteepestConfig
	Log *slog.Logger
}

func NewSteepest(cfg SteepestConfig) (*SteepestSolver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SteepestSolver{Cfg: cfg, Log: slog.Default()}, nil
}

// Solve — реализация эвристики.
func (s *SteepestSolver) Solve(ctx context.Context, stream *delivery.Stream, start delivery.Solution) (opt.Result, error) {
	startTime := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return opt.Result{}, err
	}
	best, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	log := logger(s.Log)

	bestScore := eval.Evaluate(best)
	evals := 1
	trace := []opt.Sample{{Iteration: 0, Best: bestScore, Current: bestScore}}

	step := 0
	localOptimum := false
	for s.Cfg.MaxSteps == 0 || step < s.Cfg.MaxSteps {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    best,
				Score:       bestScore,
				Evaluations: evals,
				Iterations:  step,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta:        map[string]any{"stopped": "context"},
			}, err
		}

		// Полная окрестность: O(n²) оценок за шаг
		neighbors := neighborhood.All(best)
		idx, score := neighborhood.Best(eval, neighbors)
		evals += len(neighbors)

		// Нет строго улучшающего соседа — локальный оптимум
		if idx < 0 || score <= bestScore {
			localOptimum = true
			break
		}
		step++
		best = neighbors[idx]
		bestScore = score
		trace = append(trace, opt.Sample{Iteration: step, Best: bestScore, Current: score})
		log.Debug("sahc: new best", "step", step, "score", bestScore)
	}

	return opt.Result{
		Solution:    best,
		Score:       bestScore,
		Evaluations: evals,
		Iterations:  step,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"local_optimum": localOptimum,
			"max_steps":     s.Cfg.MaxSteps,
		},
	}, nil
}
