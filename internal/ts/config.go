package ts

import (
	"fmt"
	"math"

	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/validation"
)

// Growth определяет правило увеличения срока табу при стагнации.
type Growth string

const (
	GrowthLinear Growth = "linear"
	GrowthSqrt   Growth = "sqrt"
)

// Func возвращает функцию роста срока табу.
func (g Growth) Func() (func(tenure int) int, error) {
	switch g {
	case GrowthLinear, "":
		return func(tenure int) int { return tenure + 1 }, nil
	case GrowthSqrt:
		return func(tenure int) int {
			return tenure + int(math.Ceil(math.Sqrt(float64(tenure))))
		}, nil
	}
	return nil, fmt.Errorf("неизвестное правило роста срока табу %q", g)
}

type Config struct {
	// Iterations — бюджет итераций с момента последнего улучшения.
	Iterations int `yaml:"iterations" validate:"gt=0"`

	// Tenure — начальный срок табу; он же верхняя граница размера набора кандидатов.
	Tenure int `yaml:"tenure" validate:"gt=0"`

	// MaxStagnation — число неулучшающих итераций до увеличения срока табу.
	MaxStagnation int `yaml:"max_stagnation" validate:"gt=0"`

	Growth Growth `yaml:"growth" validate:"omitempty,oneof=linear sqrt"`

	// MaxRetries — число попыток получить нетабуированного соседа.
	MaxRetries int `yaml:"max_retries" validate:"gt=0"`

	Moves []neighborhood.Move `yaml:"moves"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:    100,
		Tenure:        5,
		MaxStagnation: 20,
		Growth:        GrowthLinear,
		MaxRetries:    50,
	}
}

func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация табу-поиска: %w", err)
	}
	if _, err := c.Growth.Func(); err != nil {
		return err
	}
	for _, m := range c.Moves {
		if _, err := neighborhood.ParseMove(string(m)); err != nil {
			return err
		}
	}
	return nil
}
