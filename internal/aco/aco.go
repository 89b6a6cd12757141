package aco

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/opt"
)

// Solver - структура реализации муравьиного алгоритма.
type Solver struct {
	Cfg Config
	Rng *rand.Rand
	Log *slog.Logger
}

// New возвращает новый ACO-солвер с валидацией конфигурации, с использованием инициализированного генератора случайных чисел.
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

// Solve — реализация эвристики. Стартовое решение служит начальным рекордом.
func (s *Solver) Solve(ctx context.Context, stream *delivery.Stream, start delivery.Solution) (opt.Result, error) {
	startTime := time.Now()

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

	maxIter := s.Cfg.Iterations
	if maxIter <= 0 {
		maxIter = s.Cfg.IterationsPerPackage * n
	}
	ants := s.Cfg.Ants

	// чем ближе следующая посылка, тем лучше; вершина n обозначает склад в начале координат
	eta := heuristic(stream)

	// Матрица феромонов
	tau := make([]float64, (n+1)*n)
	for i := range tau {
		tau[i] = s.Cfg.Tau0
	}

	// Вспомогательные буферы
	perm := make(delivery.Solution, n) // текущая перестановка
	available := make([]int, n)        // доступные посылки
	weights := make([]float64, n)      // веса вероятностного выбора

	best := first
	bestScore := eval.Evaluate(best)
	evals := 1
	trace := []opt.Sample{{Iteration: 0, Best: bestScore, Current: bestScore}}

	alpha := s.Cfg.Alpha
	beta := s.Cfg.Beta
	rho := s.Cfg.Rho
	Q := s.Cfg.Q

	for iter := 1; iter <= maxIter; iter++ {
		// Для поддержки отмены через context
		if err := ctx.Err(); err != nil {
			return opt.Result{
				Solution:    best,
				Score:       bestScore,
				Evaluations: evals,
				Iterations:  iter - 1,
				Duration:    time.Since(startTime),
				Trace:       trace,
				Meta: map[string]any{
					"stopped": "context",
				},
			}, err
		}

		// Лучшее решение текущей итерации
		iterBestScore := math.Inf(-1)
		iterBest := make(delivery.Solution, n)

		// Муравьи пошли
		for a := 0; a < ants; a++ {
			constructRoute(
				n, tau, eta,
				alpha, beta,
				s.Cfg.CandidateK,
				s.Rng,
				perm, available, weights,
			)

			score := eval.Evaluate(perm)
			evals++

			// Локальное лучшее за итерацию
			if score > iterBestScore {
				iterBestScore = score
				copy(iterBest, perm)
			}
			// Глобальное лучшее за всё время
			if score > bestScore {
				bestScore = score
				best = perm.Clone()
				log.Debug("aco: new best", "iteration", iter, "score", bestScore)
			}
		}

		// Испарение феромона
		ev := 1.0 - rho
		for i := range tau {
			tau[i] *= ev
			if tau[i] < 1e-12 {
				tau[i] = 1e-12
			}
		}

		// Добавление феромона только по лучшему пути итерации;
		// стоимость равна -fitness
		dep := Q / (1 + math.Max(0, -iterBestScore))
		addPheromonePath(tau, n, iterBest, dep)

		trace = append(trace, opt.Sample{Iteration: iter, Best: bestScore, Current: iterBestScore})
	}

	return opt.Result{
		Solution:    best,
		Score:       bestScore,
		Evaluations: evals,
		Iterations:  maxIter,
		Duration:    time.Since(startTime),
		Trace:       trace,
		Meta: map[string]any{
			"ants":        ants,
			"alpha":       alpha,
			"beta":        beta,
			"rho":         rho,
			"Q":           Q,
			"tau0":        s.Cfg.Tau0,
			"candidate_k": s.Cfg.CandidateK,
		},
	}, nil
}

func tauIdx(n, from, to int) int {
	return from*n + to
}

// heuristic возвращает матрицу η[(from)*n + to] = 1/(1+d(from, to)),
// где from = n обозначает склад в начале координат.
func heuristic(stream *delivery.Stream) []float64 {
	n := stream.Len()
	eta := make([]float64, (n+1)*n)
	for from := 0; from <= n; from++ {
		var fx, fy float64
		if from < n {
			p := stream.Package(from)
			fx, fy = p.X, p.Y
		}
		for to := 0; to < n; to++ {
			p := stream.Package(to)
			eta[tauIdx(n, from, to)] = 1.0 / (1.0 + math.Hypot(p.X-fx, p.Y-fy))
		}
	}
	return eta
}

// addPheromonePath усиливает феромон вдоль маршрута
// от склада до последней посылки.
func addPheromonePath(tau []float64, n int, perm delivery.Solution, delta float64) {
	if len(perm) == 0 {
		return
	}
	start := n
	tau[tauIdx(n, start, perm[0])] += delta
	for i := 0; i < len(perm)-1; i++ {
		tau[tauIdx(n, perm[i], perm[i+1])] += delta
	}
}

// constructRoute строит один маршрут.
// На каждом шаге выбирается следующая посылка вероятностно по формуле ACO.
func constructRoute(
	n int,
	tau []float64,
	eta []float64,
	alpha float64,
	beta float64,
	candidateK int,
	rng *rand.Rand,
	outPerm delivery.Solution,
	available []int,
	weights []float64,
) {
	for i := 0; i < n; i++ {
		available[i] = i
	}
	rem := n

	prev := n // prev — предыдущая вершина, вначале склад

	for pos := 0; pos < n; pos++ {
		// Ограничение списка кандидатов
		k := rem
		if candidateK > 0 && candidateK < rem {
			k = candidateK
			for t := 0; t < k; t++ {
				r := t + rng.Intn(rem-t)
				available[t], available[r] = available[r], available[t]
			}
		}

		// Подсчёт весов вероятностей выбора
		sumW := 0.0
		for i := 0; i < k; i++ {
			j := available[i]
			idx := tauIdx(n, prev, j)

			// Формула ACO
			w := fastPow(tau[idx], alpha) * fastPow(eta[idx], beta)
			weights[i] = w
			sumW += w
		}

		// Стохастический выбор следующей посылки
		var chosenIdx int
		if sumW <= 0 {
			chosenIdx = rng.Intn(k)
		} else {
			r := rng.Float64() * sumW
			acc := 0.0
			chosenIdx = k - 1
			for i := 0; i < k; i++ {
				acc += weights[i]
				if r <= acc {
					chosenIdx = i
					break
				}
			}
		}

		id := available[chosenIdx]
		outPerm[pos] = id
		prev = id

		// Удаляем выбранную посылку из списка доступных
		available[chosenIdx], available[rem-1] =
			available[rem-1], available[chosenIdx]
		rem--
	}
}

// fastPow — оптимизация для частых степеней.
func fastPow(x, p float64) float64 {
	switch p {
	case 0:
		return 1.0
	case 1:
		return x
	case 2:
		return x * x
	}
	return math.Pow(x, p)
}
