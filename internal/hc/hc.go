package hc

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/opt"
)

// Solver - стохастический hill climbing с первым улучшением.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger
}

// New возвращает новый HC-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
// Используется в фабриках.
func New(cfg Config, rng *rand.Rand) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}
	return &Solver{Cfg: cfg, Rng: rng, Log: slog.Default()}, nil
}

// Solve — реализация эвристики.
func (s *Solver) Solve(ctx context.Context, stream *delivery.Stream, start delivery.Solution) (opt.Result, error) {
	startTime := time.Now()

	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return opt.Result{}, err
	}
	best, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	gen, err := neighborhood.New(s.Rng, s.Cfg.Moves...)
	if err != nil {
		return opt.Result{}, err
	}
	log := logger(s.Log)

	bestScore := eval.Evaluate(best)
	evals := 1
	trace := []opt.Sample{{Iteration: 0, Best: bestScore, Current: bestScore}}

	// Счётчик подряд идущих неулучшающих попыток
	noImprove := 0
	iter := 0
	for noImprove < s.Cfg.Iterations {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    best,
				Score:       bestScore,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta:        map[string]any{"stopped": "context"},
			}, err
		}
		iter++

		cand := gen.Random(best)
		candScore := eval.Evaluate(cand)
		evals++

		// Принимаются только строго улучшающие ходы
		if candScore > bestScore {
			best = cand
			bestScore = candScore
			noImprove = 0
			log.Debug("hc: new best", "iteration", iter, "score", bestScore)
		} else {
			noImprove++
		}
		trace = append(trace, opt.Sample{Iteration: iter, Best: bestScore, Current: candScore})
	}

	return opt.Result{
		Solution:    best,
		Score:       bestScore,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"iterations": s.Cfg.Iterations,
			"moves":      movesMeta(gen.Moves),
		},
	}, nil
}

func logger(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

func movesMeta(moves []neighborhood.Move) []string {
	out := make([]string, len(moves))
	for i, m := range moves {
		out[i] = string(m)
	}
	return out
}
