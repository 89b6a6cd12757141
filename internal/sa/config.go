package sa

import (
	"fmt"

	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/validation"
)

type Config struct {
	InitialTemp float64 `yaml:"initial_temp" validate:"gt=0"`
	FinalTemp   float64 `yaml:"final_temp" validate:"gt=0"`
	// Cooling — коэффициент геометрического охлаждения (0,1).
	Cooling float64 `yaml:"cooling" validate:"gt=0,lt=1"`

	// Moves: допустимые типы ходов (пусто означает все).
	Moves []neighborhood.Move `yaml:"moves"`
}

func DefaultConfig() Config {
	return Config{
		InitialTemp: 1000.0,
		FinalTemp:   0.1,
		Cooling:     0.99,
	}
}

func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация имитации отжига: %w", err)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	for _, m := range c.Moves {
		if _, err := neighborhood.ParseMove(string(m)); err != nil {
			return err
		}
	}
	return nil
}
