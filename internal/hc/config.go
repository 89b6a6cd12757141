package hc

import (
	"fmt"

	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/validation"
)

type Config struct {
	// Iterations — бюджет подряд идущих неулучшающих попыток;
	// улучшение обнуляет счётчик.
	Iterations int `yaml:"iterations" validate:"gt=0"`

	// Moves: допустимые типы ходов (пусто означает все).
	Moves []neighborhood.Move `yaml:"moves"`
}

func DefaultConfig() Config {
	return Config{
		Iterations: 1000,
	}
}

func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация hill climbing: %w", err)
	}
	return validateMoves(c.Moves)
}

// SteepestConfig — параметры варианта наискорейшего подъёма.
type SteepestConfig struct {
	// MaxSteps ограничивает число шагов; 0 — до локального оптимума.
	MaxSteps int `yaml:"max_steps" validate:"gte=0"`
}

func DefaultSteepestConfig() SteepestConfig {
	return SteepestConfig{MaxSteps: 0}
}

func (c SteepestConfig) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация steepest ascent: %w", err)
	}
	return nil
}

func validateMoves(moves []neighborhood.Move) error {
	for _, m := range moves {
		if _, err := neighborhood.ParseMove(string(m)); err != nil {
			return err
		}
	}
	return nil
}
