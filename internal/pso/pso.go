package pso

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"sort"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/opt"
)

// Solver - структура реализации алгоритма роя частиц
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger
}

// New возвращает новый PSO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// particle описывает одну частицу роя.
type particle struct {
	// pos — позиция частицы (random keys, по одному на посылку)
	pos []float64
	// vel — скорость частицы
	vel []float64

	// pBestPos — лучшая позиция частицы за всё время
	pBestPos []float64
	// pBestScore — приспособленность в pBestPos
	pBestScore float64

	// Вспомогательные буферы
	permScratch delivery.Solution
	idxScratch  []int
}

// Solve — реализация эвристики. Первая частица кодирует стартовое решение.
func (s *Solver) Solve(ctx context.Context, stream *delivery.Stream, start delivery.Solution) (opt.Result, error) {
	startTime := time.Now()

	// Валидация конфигурации
	if err := s.Cfg.Validate(); err != nil {
		return opt.Result{}, err
	}
	if s.Rng == nil {
		return opt.Result{}, fmt.Errorf("генератор случайных чисел не инициализирован (nil)")
	}

	// Оценка целевой функции
	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		return opt.Result{}, err
	}
	first, err := opt.StartSolution(stream, start)
	if err != nil {
		return opt.Result{}, err
	}
	log := s.Log
	if log == nil {
		log = slog.Default()
	}

	n := stream.Len()

	iters := s.Cfg.Iterations
	if iters <= 0 {
		iters = s.Cfg.IterationsPerPackage * n
	}

	// Инициализация частиц
	ps := make([]particle, s.Cfg.Particles)
	for i := range ps {
		ps[i] = particle{
			pos:         make([]float64, n),
			vel:         make([]float64, n),
			pBestPos:    make([]float64, n),
			pBestScore:  math.Inf(-1),
			permScratch: make(delivery.Solution, n),
			idxScratch:  make([]int, n),
		}
	}

	posMin, posMax := s.Cfg.PosMin, s.Cfg.PosMax
	doPosClamp := posMin < posMax
	lo, hi := 0.0, 1.0
	if doPosClamp {
		lo, hi = posMin, posMax
	}

	// Случайная инициализация позиций и скоростей частиц
	for i := range ps {
		for d := 0; d < n; d++ {
			ps[i].pos[d] = lo + s.Rng.Float64()*(hi-lo)
			if s.Cfg.VMax > 0 {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * s.Cfg.VMax
			} else {
				ps[i].vel[d] = (s.Rng.Float64()*2 - 1) * 0.1
			}
		}
	}
	encodeRandomKeys(first, lo, hi, ps[0].pos)

	// Оценка начального положения частиц
	for i := range ps {
		decodeRandomKeys(ps[i].pos, ps[i].permScratch, ps[i].idxScratch)
		ps[i].pBestScore = eval.Evaluate(ps[i].permScratch)
		copy(ps[i].pBestPos, ps[i].pos)
	}
	evals := s.Cfg.Particles

	// Вычисление глобально лучшего решения
	gBestPos := make([]float64, n)
	gBestPerm := make(delivery.Solution, n)
	gBestScore := math.Inf(-1)
	for i := range ps {
		if ps[i].pBestScore > gBestScore {
			gBestScore = ps[i].pBestScore
			copy(gBestPos, ps[i].pBestPos)
			copy(gBestPerm, ps[i].permScratch)
		}
	}
	trace := []opt.Sample{{Iteration: 0, Best: gBestScore, Current: gBestScore}}

	w, c1, c2 := s.Cfg.W, s.Cfg.C1, s.Cfg.C2
	vMax := s.Cfg.VMax

	// Основной цикл
	for iter := 1; iter <= iters; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    gBestPerm,
				Score:       gBestScore,
				Evaluations: evals,
				Iterations:  iter - 1,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta: map[string]any{
					"stopped": "context",
				},
			}, err
		}

		iterBest := math.Inf(-1)
		for i := range ps {
			p := &ps[i]

			// Обновление скорости и позиции частицы
			for d := 0; d < n; d++ {
				r1 := s.Rng.Float64()
				r2 := s.Rng.Float64()

				v := w*p.vel[d] +
					c1*r1*(p.pBestPos[d]-p.pos[d]) +
					c2*r2*(gBestPos[d]-p.pos[d])

				// Ограничение скорости
				if vMax > 0 {
					if v > vMax {
						v = vMax
					} else if v < -vMax {
						v = -vMax
					}
				}
				p.vel[d] = v

				// Обновление позиции
				x := p.pos[d] + v
				if doPosClamp {
					if x < posMin {
						x = posMin
						p.vel[d] = 0
					} else if x > posMax {
						x = posMax
						p.vel[d] = 0
					}
				}
				p.pos[d] = x
			}

			// Оценка нового положения частицы
			decodeRandomKeys(p.pos, p.permScratch, p.idxScratch)
			score := eval.Evaluate(p.permScratch)
			evals++
			if score > iterBest {
				iterBest = score
			}

			// Обновление личного лучшего решения
			if score > p.pBestScore {
				p.pBestScore = score
				copy(p.pBestPos, p.pos)
			}

			// Обновление глобального лучшего решения
			if score > gBestScore {
				gBestScore = score
				copy(gBestPos, p.pos)
				copy(gBestPerm, p.permScratch)
				log.Debug("pso: new best", "iteration", iter, "score", gBestScore)
			}
		}
		trace = append(trace, opt.Sample{Iteration: iter, Best: gBestScore, Current: iterBest})
	}

	return opt.Result{
		Solution:    gBestPerm,
		Score:       gBestScore,
		Evaluations: evals,
		Iterations:  iters,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"particles": s.Cfg.Particles,
			"w":         w,
			"c1":        c1,
			"c2":        c2,
			"vmax":      vMax,
			"pos_min":   posMin,
			"pos_max":   posMax,
		},
	}, nil
}

// encodeRandomKeys записывает в keys ключи, которые декодируются в sol:
// посылка на позиции i получает ключ из середины i-го интервала [lo, hi].
func encodeRandomKeys(sol delivery.Solution, lo, hi float64, keys []float64) {
	n := len(sol)
	step := (hi - lo) / float64(n)
	for pos, id := range sol {
		keys[id] = lo + (float64(pos)+0.5)*step
	}
}

// decodeRandomKeys преобразует вещественные random-keys в перестановку:
// посылки упорядочиваются по возрастанию ключа, при равенстве — по номеру.
func decodeRandomKeys(keys []float64, outPerm delivery.Solution, idxScratch []int) {
	n := len(keys)
	for i := 0; i < n; i++ {
		idxScratch[i] = i
	}
	sort.Slice(idxScratch, func(i, j int) bool {
		a := idxScratch[i]
		b := idxScratch[j]
		ka := keys[a]
		kb := keys[b]
		if ka == kb {
			return a < b
		}
		return ka < kb
	})
	copy(outPerm, idxScratch)
}
