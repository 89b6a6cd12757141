package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"deliveryOpt/internal/aco"
	"deliveryOpt/internal/ga"
	"deliveryOpt/internal/hc"
	"deliveryOpt/internal/pso"
	"deliveryOpt/internal/sa"
	"deliveryOpt/internal/ts"
	"deliveryOpt/internal/validation"
)

// Algorithms — имена поддерживаемых алгоритмов.
var Algorithms = []string{"HC", "SAHC", "SA", "TS", "GA", "ACO", "PSO"}

type Problem struct {
	// Sizes — размеры потоков посылок, по одному случаю на размер.
	Sizes        []int   `yaml:"sizes" validate:"min=1,dive,gt=0"`
	MapSize      float64 `yaml:"map_size" validate:"gt=0"`
	InstanceSeed int64   `yaml:"instance_seed"`
}

type Output struct {
	CSV      string `yaml:"csv"`
	XLSX     string `yaml:"xlsx"`
	TraceDir string `yaml:"trace_dir"`
}

// Experiment — описание серии запусков, загружаемое из YAML.
type Experiment struct {
	Problem       Problem       `yaml:"problem"`
	Algorithms    []string      `yaml:"algorithms" validate:"min=1"`
	Runs          int           `yaml:"runs" validate:"gt=0"`
	Seed          int64         `yaml:"seed"`
	PerRunTimeout time.Duration `yaml:"per_run_timeout" validate:"gte=0"`
	Output        Output        `yaml:"output"`

	HC   hc.Config         `yaml:"hc"`
	SAHC hc.SteepestConfig `yaml:"sahc"`
	SA   sa.Config         `yaml:"sa"`
	TS   ts.Config         `yaml:"ts"`
	GA   ga.Config         `yaml:"ga"`
	ACO  aco.Config        `yaml:"aco"`
	PSO  pso.Config        `yaml:"pso"`
}

func DefaultExperiment() Experiment {
	return Experiment{
		Problem: Problem{
			Sizes:        []int{10, 25, 50},
			MapSize:      60,
			InstanceSeed: 777,
		},
		Algorithms: []string{"HC", "SA", "TS", "GA"},
		Runs:       10,
		Seed:       1000,
		Output: Output{
			CSV: "results.csv",
		},

		HC:   hc.DefaultConfig(),
		SAHC: hc.DefaultSteepestConfig(),
		SA:   sa.DefaultConfig(),
		TS:   ts.DefaultConfig(),
		GA:   ga.DefaultConfig(),
		ACO:  aco.DefaultConfig(),
		PSO:  pso.DefaultConfig(),
	}
}

// LoadExperiment читает YAML поверх значений по умолчанию и проверяет результат.
func LoadExperiment(path string) (Experiment, error) {
	exp := DefaultExperiment()
	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("чтение эксперимента: %w", err)
	}
	if err := yaml.Unmarshal(data, &exp); err != nil {
		return Experiment{}, fmt.Errorf("разбор эксперимента %s: %w", path, err)
	}
	if err := exp.Validate(); err != nil {
		return Experiment{}, err
	}
	return exp, nil
}

// Validate проверяет общие поля и конфигурации выбранных алгоритмов.
func (e Experiment) Validate() error {
	if err := validation.Struct(e); err != nil {
		return fmt.Errorf("эксперимент: %w", err)
	}
	for _, name := range e.Algorithms {
		if err := e.validateAlgorithm(name); err != nil {
			return err
		}
	}
	return nil
}

func (e Experiment) validateAlgorithm(name string) error {
	switch strings.ToUpper(name) {
	case "HC":
		return e.HC.Validate()
	case "SAHC":
		return e.SAHC.Validate()
	case "SA":
		return e.SA.Validate()
	case "TS":
		return e.TS.Validate()
	case "GA":
		return e.GA.Validate()
	case "ACO":
		return e.ACO.Validate()
	case "PSO":
		return e.PSO.Validate()
	}
	return fmt.Errorf("алгоритм %q не поддерживается; доступные: %v", name, Algorithms)
}
