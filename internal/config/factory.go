package config

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"deliveryOpt/internal/aco"
	"deliveryOpt/internal/bench"
	"deliveryOpt/internal/ga"
	"deliveryOpt/internal/hc"
	"deliveryOpt/internal/opt"
	"deliveryOpt/internal/pso"
	"deliveryOpt/internal/sa"
	"deliveryOpt/internal/ts"
)

// Фабрики

// Algorithm возвращает фабрику алгоритма name с конфигурацией из эксперимента.
// Каждый запуск получает свой генератор случайных чисел от сида.
func (e Experiment) Algorithm(name string, log *slog.Logger) (bench.Algorithm, error) {
	if log == nil {
		log = slog.Default()
	}
	name = strings.ToUpper(strings.TrimSpace(name))
	rng := func(seed int64) *rand.Rand { return rand.New(rand.NewSource(seed)) }

	var factory func(seed int64) (opt.Optimizer, error)
	switch name {
	case "HC":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := hc.New(e.HC, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "SAHC":
		factory = func(int64) (opt.Optimizer, error) {
			s, err := hc.NewSteepest(e.SAHC)
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "SA":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := sa.New(e.SA, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "TS":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := ts.New(e.TS, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "GA":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := ga.New(e.GA, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "ACO":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := aco.New(e.ACO, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	case "PSO":
		factory = func(seed int64) (opt.Optimizer, error) {
			s, err := pso.New(e.PSO, rng(seed))
			if err != nil {
				return nil, err
			}
			s.Log = log
			return s, nil
		}
	default:
		return bench.Algorithm{}, fmt.Errorf("алгоритм %q не поддерживается; доступные: %v", name, Algorithms)
	}
	if err := e.validateAlgorithm(name); err != nil {
		return bench.Algorithm{}, err
	}
	return bench.Algorithm{Name: name, Factory: factory}, nil
}

// Cases строит случаи бенчмарка: по одному на размер потока.
func (e Experiment) Cases() []bench.Case {
	cases := make([]bench.Case, 0, len(e.Problem.Sizes))
	for i, n := range e.Problem.Sizes {
		cases = append(cases, bench.Case{
			Packages:     n,
			MapSize:      e.Problem.MapSize,
			InstanceSeed: e.Problem.InstanceSeed + int64(i)*10_000 + int64(n),
		})
	}
	return cases
}
