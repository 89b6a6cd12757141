package ga

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/opt"
)

// Solver — реализация генетического алгоритма для задачи доставки.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger
}

// New возвращает новый GA-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

	// Проверка корректности входных данных и конфигурации
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
	first, err := opt.StartSolution(stream, start)
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

	popSize := s.Cfg.Population
	x := newCrossover(stream.Len())
	prog := &progress{}

	// Инициализация начальной популяции: исходный порядок и (size-1) случайных перестановок
	pop := make([]delivery.Solution, popSize)
	scores := make([]float64, popSize)
	pop[0] = first
	for i := 1; i < popSize; i++ {
		pop[i] = first.Clone()
		delivery.Shuffle(pop[i], s.Rng)
	}
	for i := range pop {
		scores[i] = eval.Evaluate(pop[i])
		prog.observe(pop[i], scores[i], 0)
	}
	prog.trace = append(prog.trace, opt.Sample{Iteration: 0, Best: prog.score, Current: prog.score})

	meta := map[string]any{
		"population":  s.Cfg.Population,
		"generations": s.Cfg.Generations,
		"elite":       s.Cfg.Elite,
	}

	// Индексы для сортировки популяции по приспособленности
	idxs := make([]int, popSize)

	for g := 1; g <= s.Cfg.Generations; g++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			meta["stopped"] = "context"
			return prog.result(startTime, meta), err
		}

		nextPop := make([]delivery.Solution, 0, popSize)
		nextScores := make([]float64, 0, popSize)

		// Элитизм (переносим лучших особей без изменений)
		for i := range idxs {
			idxs[i] = i
		}
		sort.SliceStable(idxs, func(i, j int) bool {
			return scores[idxs[i]] > scores[idxs[j]]
		})
		for e := 0; e < s.Cfg.Elite; e++ {
			nextPop = append(nextPop, pop[idxs[e]])
			nextScores = append(nextScores, scores[idxs[e]])
		}

		// Генерация остальных особей нового поколения парами
		for len(nextPop) < popSize {
			p1 := pop[tournamentSelect(scores, s.Cfg.TournamentSize, s.Rng)]
			p2 := pop[rouletteSelect(scores, s.Rng)]

			var c1, c2 delivery.Solution
			if s.Rng.Float64() < s.Cfg.CrossoverRate {
				if s.Rng.Intn(2) == 0 {
					c1, c2 = x.orderBased(p1, p2, s.Rng)
				} else {
					c1, c2 = x.orderCrossoverOX(p1, p2, s.Rng)
				}
			} else {
				c1, c2 = p1.Clone(), p2.Clone()
			}

			for _, child := range []delivery.Solution{c1, c2} {
				if len(nextPop) == popSize {
					break
				}
				// Мутация
				if s.Rng.Float64() < s.Cfg.MutationRate {
					child = gen.Random(child)
				}
				score := eval.Evaluate(child)
				before := prog.score
				prog.observe(child, score, g)
				if prog.score > before {
					log.Debug("ga: new best", "generation", g, "score", prog.score)
				}
				nextPop = append(nextPop, child)
				nextScores = append(nextScores, score)
			}
		}

		// Смена поколений
		pop, scores = nextPop, nextScores
		prog.generationsRun = g

		genBest := scores[0]
		for _, sc := range scores[1:] {
			if sc > genBest {
				genBest = sc
			}
		}
		prog.trace = append(prog.trace, opt.Sample{Iteration: g, Best: prog.score, Current: genBest})
	}

	return prog.result(startTime, meta), nil
}
