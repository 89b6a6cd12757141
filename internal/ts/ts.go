package ts

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

// Solver - структура реализации табу-поиска с адаптивным сроком табу.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger

	// Grow — правило роста срока табу, заданное вызывающим;
	// если nil, используется Cfg.Growth.
	Grow func(tenure int) int

	// observe вызывается после выбора кандидата, до обновления табу-списка.
	observe func(step)
}

// step — состояние итерации, передаваемое наблюдателю.
type step struct {
	iteration int
	accepted  delivery.Solution
	wasTabu   bool
	tenure    int
}

// New возвращает новый TS-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — основной цикл алгоритма
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
	curr, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	gen, err := neighborhood.New(s.Rng, s.Cfg.Moves...)
	if err != nil {
		return opt.Result{}, err
	}
	grow := s.Grow
	growth := "custom"
	if grow == nil {
		growth = string(s.Cfg.Growth)
		if growth == "" {
			growth = string(GrowthLinear)
		}
		if grow, err = s.Cfg.Growth.Func(); err != nil {
			return opt.Result{}, err
		}
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	best := curr
	bestScore := eval.Evaluate(best)
	currScore := bestScore
	evals := 1
	trace := []opt.Sample{{Iteration: 0, Best: bestScore, Current: currScore}}

	tabu := newTabuList()
	tenure := s.Cfg.Tenure
	stagnation := 0
	stopped := "budget"

	// sinceImprove считает итерации с последнего улучшения, total все итерации
	sinceImprove, total := 0, 0
	for sinceImprove < s.Cfg.Iterations {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    best,
				Score:       bestScore,
				Evaluations: evals,
				Iterations:  total,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta: map[string]any{
					"stopped": "context",
					"tenure":  tenure,
				},
			}, err
		}
		sinceImprove++
		total++

		candidates := s.candidates(gen, curr, tabu, tenure)
		if len(candidates) == 0 {
			// Все соседи табуированы — поиск исчерпан
			stopped = "exhausted"
			break
		}
		idx, score := neighborhood.Best(eval, candidates)
		evals += len(candidates)

		// Лучший кандидат становится текущим решением
		curr = candidates[idx]
		currScore = score

		if s.observe != nil {
			s.observe(step{
				iteration: total,
				accepted:  curr,
				wasTabu:   tabu.Contains(curr.Key()),
				tenure:    tenure,
			})
		}

		if currScore > bestScore {
			best = curr
			bestScore = currScore
			sinceImprove = 0
			stagnation = 0
			log.Debug("ts: new best", "iteration", total, "score", bestScore)
		} else {
			stagnation++
			if stagnation >= s.Cfg.MaxStagnation {
				// Адаптивная диверсификация
				tenure = grow(tenure)
				stagnation = 0
				log.Debug("ts: tenure grown", "iteration", total, "tenure", tenure)
			}
		}

		tabu.Tick()
		tabu.Add(curr.Key(), tenure)

		trace = append(trace, opt.Sample{Iteration: total, Best: bestScore, Current: currScore})
	}

	return opt.Result{
		Solution:    best,
		Score:       bestScore,
		Evaluations: evals,
		Iterations:  total,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"stopped":        stopped,
			"base_tenure":    s.Cfg.Tenure,
			"tenure":         tenure,
			"max_stagnation": s.Cfg.MaxStagnation,
			"growth":         growth,
			"tabu_size":      tabu.Len(),
		},
	}, nil
}

// candidates строит случайный набор из [3, max(3, tenure)] различных
// нетабуированных соседей текущего решения.
func (s *Solver) candidates(gen *neighborhood.Generator, curr delivery.Solution, tabu *tabuList, tenure int) []delivery.Solution {
	upper := tenure
	if upper < 3 {
		upper = 3
	}
	size := 3 + s.Rng.Intn(upper-3+1)

	out := make([]delivery.Solution, 0, size)
	seen := make(map[string]struct{}, size)
	for k := 0; k < size; k++ {
		for try := 0; try < s.Cfg.MaxRetries; try++ {
			nb := gen.Random(curr)
			key := nb.Key()
			if tabu.Contains(key) {
				// Повторная генерация при попадании в табу
				continue
			}
			if _, dup := seen[key]; !dup {
				seen[key] = struct{}{}
				out = append(out, nb)
			}
			break
		}
	}
	return out
}
