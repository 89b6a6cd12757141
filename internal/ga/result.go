package ga

import (
	"time"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/opt"
)

// progress — лучшая найденная особь и статистика прогона.
type progress struct {
	best           delivery.Solution
	score          float64
	generation     int
	evaluations    int
	generationsRun int
	trace          []opt.Sample
}

// observe учитывает новую оценённую особь.
func (p *progress) observe(sol delivery.Solution, score float64, gen int) {
	p.evaluations++
	if p.best == nil || score > p.score {
		p.best = sol.Clone()
		p.score = score
		p.generation = gen
	}
}

func (p *progress) result(startTime time.Time, meta map[string]any) opt.Result {
	meta["best_generation"] = p.generation
	return opt.Result{
		Solution:    p.best.Clone(),
		Score:       p.score,
		Evaluations: p.evaluations,
		Iterations:  p.generationsRun,
		Duration:    time.Since(startTime),
		Trace:       p.trace,
		Meta:        meta,
	}
}
