package sa

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/opt"
)

// Solver - структура реализации алгоритма имитации отжига
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger
}

// New возвращает новый SA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// AcceptanceProbability — критерий Метрополиса для максимизации:
// не худший кандидат принимается всегда, худший — с вероятностью exp(-(curr-cand)/T).
func AcceptanceProbability(curr, cand, temp float64) float64 {
	if cand >= curr {
		return 1
	}
	return math.Exp(-(curr - cand) / temp)
}

// Iterations возвращает число итераций до падения температуры ниже FinalTemp.
func (c Config) Iterations() int {
	n := 0
	for t := c.InitialTemp * c.Cooling; t >= c.FinalTemp; t *= c.Cooling {
		n++
	}
	return n
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

	// Оценка значения целевой функции
	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return opt.Result{}, err
	}
	curr, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	gen, err := neighborhood.New(s.Rng, s.Cfg.Moves...)
	if err != nil {
		return opt.Result{}, err
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	currScore := eval.Evaluate(curr)
	best := curr.Clone()
	bestScore := currScore
	evals := 1
	accepted, acceptedWorse := 0, 0
	trace := []opt.Sample{{Iteration: 0, Best: bestScore, Current: currScore}}

	T := s.Cfg.InitialTemp
	iter := 0
	for {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    best,
				Score:       bestScore,
				Evaluations: evals,
				Iterations:  iter,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta: map[string]any{
					"stopped": "context",
					"T":       T,
				},
			}, err
		}

		// Охлаждение температуры
		T *= s.Cfg.Cooling
		if T < s.Cfg.FinalTemp {
			break
		}
		iter++

		// Сосед текущего (а не лучшего) решения
		cand := gen.Random(curr)
		candScore := eval.Evaluate(cand)
		evals++

		// Глобально лучшее обновляется независимо от решения о принятии
		if candScore > bestScore {
			best = cand.Clone()
			bestScore = candScore
			log.Debug("sa: new best", "iteration", iter, "score", bestScore, "T", T)
		}

		p := AcceptanceProbability(currScore, candScore, T)
		if s.Rng.Float64() <= p {
			if candScore < currScore {
				acceptedWorse++
			}
			curr = cand
			currScore = candScore
			accepted++
		}
		trace = append(trace, opt.Sample{Iteration: iter, Best: bestScore, Current: currScore})
	}

	return opt.Result{
		Solution:    best,
		Score:       bestScore,
		Evaluations: evals,
		Iterations:  iter,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"initial_temp":   s.Cfg.InitialTemp,
			"final_temp":     s.Cfg.FinalTemp,
			"cooling":        s.Cfg.Cooling,
			"accepted":       accepted,
			"accepted_worse": acceptedWorse,
		},
	}, nil
}
