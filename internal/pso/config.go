package pso

import (
	"fmt"

	"deliveryOpt/internal/validation"
)

type Config struct {
	// Iterations: число итераций, при 0 берётся IterationsPerPackage * n.
	Iterations           int `yaml:"iterations" validate:"gte=0"`
	IterationsPerPackage int `yaml:"iterations_per_package" validate:"gte=0"`

	Particles int `yaml:"particles" validate:"gt=0"`

	W  float64 `yaml:"w" validate:"gte=0"`
	C1 float64 `yaml:"c1" validate:"gte=0"`
	C2 float64 `yaml:"c2" validate:"gte=0"`

	// VMax ограничивает модуль скорости; 0 — без ограничения.
	VMax float64 `yaml:"vmax" validate:"gte=0"`

	PosMin float64 `yaml:"pos_min"`
	PosMax float64 `yaml:"pos_max"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:           0,
		IterationsPerPackage: 20,

		Particles: 30,

		W:  0.729,
		C1: 1.49445,
		C2: 1.49445,

		VMax:   0.25,
		PosMin: 0.0,
		PosMax: 1.0,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerPackage <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerPackage > 0",
		)
	}
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация PSO: %w", err)
	}
	if c.PosMin >= c.PosMax {
		if !(c.PosMin == 0 && c.PosMax == 0) {
			return fmt.Errorf(
				"для ограничения PosMin должно быть < PosMax (получено %f >= %f)",
				c.PosMin,
				c.PosMax,
			)
		}
	}
	return nil
}
