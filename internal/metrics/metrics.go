// Package metrics публикует статистику запусков солверов как коллекторы Prometheus
// в отдельном реестре, который выгружается в textfile для node-exporter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"deliveryOpt/internal/opt"
)

// Recorder владеет реестром и зарегистрированными в нём коллекторами.
type Recorder struct {
	// Registry — отдельный реестр Prometheus для запусков солверов
	Registry *prometheus.Registry
	// Runs — число запусков по алгоритму и исходу
	Runs *prometheus.CounterVec
	// Evaluations — число вычислений целевой функции по алгоритму
	Evaluations *prometheus.CounterVec
	// Duration — длительность запусков в секундах
	Duration *prometheus.HistogramVec
	// BestScore — лучшая приспособленность по алгоритму и размеру потока
	BestScore *prometheus.GaugeVec

	bests map[string]float64
}

func New() *Recorder {
	r := &Recorder{
		Registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "delivery_solver_runs_total", Help: "Solver runs by algorithm and outcome."},
			[]string{"algo", "status"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "delivery_solver_evaluations_total", Help: "Fitness evaluations by algorithm."},
			[]string{"algo"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: "delivery_solver_run_duration_seconds", Help: "Solver run duration in seconds.", Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60}},
			[]string{"algo"},
		),
		BestScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{Name: "delivery_solver_best_score", Help: "Best fitness (negative cost) seen by algorithm and stream size."},
			[]string{"algo", "packages"},
		),
		bests: make(map[string]float64),
	}
	r.Registry.MustRegister(r.Runs, r.Evaluations, r.Duration, r.BestScore)
	return r
}

// Observe учитывает один завершённый запуск. Для nil-получателя ничего не делает.
func (r *Recorder) Observe(algo, packages string, res opt.Result, err error) {
	if r == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		if stopped, _ := res.Meta["stopped"].(string); stopped == "context" {
			status = "cancelled"
		}
	}
	r.Runs.WithLabelValues(algo, status).Inc()
	if err != nil {
		return
	}
	r.Evaluations.WithLabelValues(algo).Add(float64(res.Evaluations))
	r.Duration.WithLabelValues(algo).Observe(res.Duration.Seconds())

	key := algo + "/" + packages
	if cur, ok := r.bests[key]; !ok || res.Score > cur {
		r.bests[key] = res.Score
		r.BestScore.WithLabelValues(algo, packages).Set(res.Score)
	}
}

// WriteTextfile выгружает реестр в текстовом формате Prometheus.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.Registry)
}
