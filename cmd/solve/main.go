package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"deliveryOpt/internal/bench"
	"deliveryOpt/internal/config"
	"deliveryOpt/internal/delivery"
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

	var (
		expFile  = flag.String("config", settings.ExperimentFile, "путь к YAML-файлу с параметрами алгоритмов")
		algos    = flag.String("algos", "HC,SAHC,SA,TS,GA", "алгоритмы для запуска (через запятую)")
		n        = flag.Int("n", 20, "количество посылок в потоке")
		mapSize  = flag.Float64("map", 60, "размер карты (координаты в [0, map])")
		instSeed = flag.Int64("instance_seed", 777, "сид генерации потока посылок")
		seed     = flag.Int64("seed", 1, "сид алгоритмов")
		shuffle  = flag.Bool("shuffle", false, "начинать со случайной перестановки вместо исходного порядка")
		traceDir = flag.String("trace_dir", "", "каталог для CSV с динамикой оценки (пусто — не писать)")
		timeout  = flag.Duration("timeout", 0, "таймаут одного запуска; 0 — без ограничения")
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

	c := bench.Case{Packages: *n, MapSize: *mapSize, InstanceSeed: *instSeed}
	stream, err := c.Stream()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Конфликт:", err)
		os.Exit(2)
	}
	var start delivery.Solution
	if *shuffle {
		start = delivery.RandomSolution(stream.Len(), randForSeed(*seed))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eval, err := delivery.NewEvaluator(stream)
	if err != nil {
		logger.Error("invalid stream", "err", err)
		os.Exit(1)
	}
	initial := start
	if initial == nil {
		initial = delivery.Identity(stream.Len())
	}
	fmt.Printf("Начальная оценка: %.2f\n\n", eval.Evaluate(initial))

	for _, name := range splitCSV(*algos) {
		algo, err := exp.Algorithm(name, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт:", err)
			os.Exit(2)
		}
		op, err := algo.Factory(*seed)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Конфликт:", err)
			os.Exit(2)
		}

		runCtx, cancel := ctx, context.CancelFunc(func() {})
		if *timeout > 0 {
			runCtx, cancel = context.WithTimeout(ctx, *timeout)
		}
		res, err := op.Solve(runCtx, stream, start)
		cancel()
		if err != nil && res.Solution == nil {
			logger.Error("solve failed", "algo", algo.Name, "err", err)
			os.Exit(1)
		}
		if err != nil {
			logger.Warn("solve stopped early", "algo", algo.Name, "err", err)
		}

		fmt.Printf("== %s: оценка=%.2f итераций=%d вычислений=%d время=%s\n",
			algo.Name, res.Score, res.Iterations, res.Evaluations, res.Duration)
		if err := bench.RouteTable(os.Stdout, stream, res.Solution); err != nil {
			logger.Error("failed to print route", "algo", algo.Name, "err", err)
			os.Exit(1)
		}
		fmt.Println()

		if *traceDir != "" {
			path := filepath.Join(*traceDir, strings.ToLower(algo.Name)+".csv")
			if err := bench.WriteTraceCSV(path, algo.Name, res.Trace); err != nil {
				logger.Error("failed to write trace", "path", path, "err", err)
				os.Exit(1)
			}
		}
	}
}
