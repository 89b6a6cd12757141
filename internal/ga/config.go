package ga

import (
	"fmt"

	"deliveryOpt/internal/neighborhood"
	"deliveryOpt/internal/validation"
)

type Config struct {
	Population     int     `yaml:"population" validate:"gt=1"`
	Generations    int     `yaml:"generations" validate:"gt=0"`
	Elite          int     `yaml:"elite" validate:"gte=0"`
	TournamentSize int     `yaml:"tournament_size" validate:"gt=0"`
	CrossoverRate  float64 `yaml:"crossover_rate" validate:"gte=0,lte=1"`
	MutationRate   float64 `yaml:"mutation_rate" validate:"gte=0,lte=1"`

	// Moves: ходы, используемые мутацией (пусто означает все).
	Moves []neighborhood.Move `yaml:"moves"`
}

func (c Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация GA: %w", err)
	}
	if c.Elite >= c.Population {
		return fmt.Errorf(
			"число элитных особей должно быть в диапазоне [0, population) (получено %d)",
			c.Elite,
		)
	}
	for _, m := range c.Moves {
		if _, err := neighborhood.ParseMove(string(m)); err != nil {
			return err
		}
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Population:     50,
		Generations:    500,
		Elite:          4,
		TournamentSize: 20,
		CrossoverRate:  0.90,
		MutationRate:   0.5,
	}
}
