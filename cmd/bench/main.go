package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"deliveryOpt/internal/bench"
	"deliveryOpt/internal/config"
	"deliveryOpt/internal/metrics"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file found (using environment variables)")
	}

	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка в переменных окружения:", err)
		os.Exit(2)
	}
	logger, err := settings.NewLogger(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Ошибка настройки логирования:", err)
		os.Exit(2)
	}
	slog.SetDefault(logger)

	// CLI флаги поверх YAML-файла эксперимента
	var (
		expFile     = flag.String("config", settings.ExperimentFile, "путь к YAML-файлу эксперимента (пусто — значения по умолчанию)")
		out         = flag.String("out", "", "путь к выходному CSV-файлу (по умолчанию из эксперимента, внутри DELIVERY_OUT_DIR)")
		xlsx        = flag.String("xlsx", "", "путь к выходному XLSX-файлу (пусто — не писать)")
		sizes       = flag.String("sizes", "", "размеры потоков посылок (через запятую), например 10,25,50")
		algos       = flag.String("algos", "", "список алгоритмов: HC, SAHC, SA, TS, GA, ACO, PSO (через запятую)")
		runs        = flag.Int("runs", 0, "количество запусков каждого алгоритма (с разными сидами)")
		baseSeed    = flag.Int64("seed", 0, "базовый сид для запусков алгоритмов")
		instSeed    = flag.Int64("instance_seed", 0, "базовый сид для генерации потоков посылок")
		perRunTO    = flag.Duration("per_run_timeout", 0, "таймаут одного запуска; 0 — без ограничения")
		randomStart = flag.Bool("random_start", false, "стартовать каждый запуск со случайной перестановки")
		metricsFile = flag.String("metrics", settings.MetricsFile, "путь к textfile с метриками Prometheus (пусто — не писать)")
	)
	flag.Parse()

	exp := config.DefaultExperiment()
	if *expFile != "" {
		exp, err = config.LoadExperiment(*expFile)
		if err != nil {
			logger.Error("failed to load experiment", "path", *expFile, "err", err)
			os.Exit(2)
		}
	}

	// Флаги применяются, только если заданы явно
	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["sizes"] {
		parsed, err := parseSizes(*sizes)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт:", err)
			os.Exit(2)
		}
		exp.Problem.Sizes = parsed
	}
	if set["algos"] {
		exp.Algorithms = splitCSV(*algos)
	}
	if set["runs"] {
		exp.Runs = *runs
	}
	if set["seed"] {
		exp.Seed = *baseSeed
	}
	if set["instance_seed"] {
		exp.Problem.InstanceSeed = *instSeed
	}
	if set["per_run_timeout"] {
		exp.PerRunTimeout = *perRunTO
	}
	if set["out"] {
		exp.Output.CSV = *out
	}
	if set["xlsx"] {
		exp.Output.XLSX = *xlsx
	}
	if err := exp.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт в конфигурации эксперимента:", err)
		os.Exit(2)
	}

	var selected []bench.Algorithm
	for _, name := range exp.Algorithms {
		al, err := exp.Algorithm(name, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт:", err)
			os.Exit(2)
		}
		selected = append(selected, al)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var rec *metrics.Recorder
	if *metricsFile != "" {
		rec = metrics.New()
	}

	runner := bench.Runner{
		Runs:          exp.Runs,
		BaseSeed:      exp.Seed,
		PerRunTimeout: exp.PerRunTimeout,
		RandomStart:   *randomStart,
		Metrics:       rec,
		Log:           logger,
	}

	var records []bench.Record
	for _, c := range exp.Cases() {
		for _, a := range selected {
			logger.Info("running", "algo", a.Name, "packages", c.Packages, "runs", runner.Runs)

			r, err := runner.RunCase(ctx, c, a)
			if err != nil {
				logger.Error("run failed", "algo", a.Name, "packages", c.Packages, "err", err)
				os.Exit(1)
			}
			records = append(records, r)

			fmt.Printf("%-5s n=%-4d  оценка: лучшая=%.2f средняя=%.2f ст.откл.=%.2f | время: среднее=%.2fms ст.откл.=%.2fms\n",
				r.Algo, r.Packages, r.ScoreBest, r.ScoreMean, r.ScoreStd,
				r.TimeMeanMs, r.TimeStdMs,
			)

			if exp.Output.TraceDir != "" {
				path := filepath.Join(outPath(settings.OutDir, exp.Output.TraceDir),
					fmt.Sprintf("%s_%d_%s.csv", strings.ToLower(r.Algo), r.Packages, r.RunID))
				if err := bench.WriteTraceCSV(path, r.Algo, r.Best.Trace); err != nil {
					logger.Error("failed to write trace", "path", path, "err", err)
					os.Exit(1)
				}
			}
		}
	}

	if exp.Output.CSV != "" {
		path := outPath(settings.OutDir, exp.Output.CSV)
		if err := bench.WriteCSV(path, records); err != nil {
			logger.Error("failed to write CSV", "path", path, "err", err)
			os.Exit(1)
		}
		logger.Info("saved", "path", path)
	}
	if exp.Output.XLSX != "" {
		path := outPath(settings.OutDir, exp.Output.XLSX)
		if err := bench.WriteXLSX(path, records); err != nil {
			logger.Error("failed to write XLSX", "path", path, "err", err)
			os.Exit(1)
		}
		logger.Info("saved", "path", path)
	}
	if rec != nil {
		if err := rec.WriteTextfile(*metricsFile); err != nil {
			logger.Error("failed to write metrics", "path", *metricsFile, "err", err)
			os.Exit(1)
		}
	}
}

// helpers

// outPath помещает относительные пути внутрь каталога результатов.
func outPath(dir, path string) string {
	if filepath.IsAbs(path) || dir == "" {
		return path
	}
	return filepath.Join(dir, path)
}

func parseSizes(s string) ([]int, error) {
	parts := splitCSV(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("размер %q: %w", p, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("размер %q: количество посылок должно быть > 0", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
