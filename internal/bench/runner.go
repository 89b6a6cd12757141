package bench

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"deliveryOpt/internal/delivery"
	"deliveryOpt/internal/metrics"
	"deliveryOpt/internal/opt"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) (opt.Optimizer, error)
}

type Case struct {
	Packages     int
	MapSize      float64
	InstanceSeed int64
}

// Stream генерирует поток посылок случая; при одинаковом сиде поток один и тот же.
func (c Case) Stream() (*delivery.Stream, error) {
	if c.Packages <= 0 {
		return nil, fmt.Errorf("количество посылок должно быть > 0 (получено %d)", c.Packages)
	}
	if c.MapSize <= 0 {
		return nil, fmt.Errorf("размер карты должен быть > 0 (получено %f)", c.MapSize)
	}
	return delivery.RandomStream(c.Packages, c.MapSize, randForSeed(c.InstanceSeed)), nil
}

type Record struct {
	RunID    string
	Algo     string
	Packages int
	Runs     int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ScoreBest float64
	ScoreMean float64
	ScoreStd  float64

	EvaluationsMean float64

	// Best хранит лучший из запусков, Stream поток, на котором он получен
	Best   opt.Result
	Stream *delivery.Stream
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout

	// RandomStart — каждый запуск стартует со случайной перестановки,
	// зависящей от сида запуска; иначе с исходного порядка потока.
	RandomStart bool

	Metrics *metrics.Recorder
	Log     *slog.Logger
}

func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	if r.Runs <= 0 {
		return Record{}, fmt.Errorf("количество запусков должно быть > 0 (получено %d)", r.Runs)
	}
	stream, err := c.Stream()
	if err != nil {
		return Record{}, err
	}
	log := r.Log
	if log == nil {
		log = slog.Default()
	}
	packages := strconv.Itoa(c.Packages)

	scores := make([]float64, 0, r.Runs)
	timesMs := make([]float64, 0, r.Runs)
	evals := make([]float64, 0, r.Runs)
	var best opt.Result

	for i := 0; i < r.Runs; i++ {
		runSeed := r.BaseSeed + int64(i)

		var start delivery.Solution
		if r.RandomStart {
			start = delivery.RandomSolution(stream.Len(), randForSeed(runSeed))
		}

		op, err := algo.Factory(runSeed)
		if err != nil {
			return Record{}, fmt.Errorf("run %d: factory: %w", i, err)
		}

		runCtx := ctx
		cancel := func() {}
		if r.PerRunTimeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, r.PerRunTimeout)
		}
		t0 := time.Now()
		res, err := op.Solve(runCtx, stream, start)
		dur := time.Since(t0)
		cancel()

		r.Metrics.Observe(algo.Name, packages, res, err)
		if err != nil && runCtx.Err() != nil {
			return Record{}, fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
		}
		if err != nil {
			return Record{}, fmt.Errorf("run %d: solve error: %w", i, err)
		}
		if err := delivery.ValidatePermutation(res.Solution, stream.Len()); err != nil {
			return Record{}, fmt.Errorf("run %d: invalid solution: %w", i, err)
		}
		log.Debug("bench: run finished", "algo", algo.Name, "run", i, "seed", runSeed, "score", res.Score)

		scores = append(scores, res.Score)
		timesMs = append(timesMs, float64(dur.Microseconds())/1000.0)
		evals = append(evals, float64(res.Evaluations))
		if i == 0 || res.Score > best.Score {
			best = res
		}
	}

	sStats := CalcStats(scores, Max)
	tStats := CalcStats(timesMs, Min)

	return Record{
		RunID:    uuid.NewString(),
		Algo:     algo.Name,
		Packages: c.Packages,
		Runs:     r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ScoreBest: sStats.Best,
		ScoreMean: sStats.Mean,
		ScoreStd:  sStats.Std,

		EvaluationsMean: CalcStats(evals, Max).Mean,

		Best:   best,
		Stream: stream,
	}, nil
}
