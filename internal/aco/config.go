package aco

import (
	"fmt"

	"deliveryOpt/internal/validation"
)

type Config struct {
	// Iterations: число итераций, при 0 берётся IterationsPerPackage * n.
	Iterations           int `yaml:"iterations" validate:"gte=0"`
	IterationsPerPackage int `yaml:"iterations_per_package" validate:"gte=0"`

	Ants int `yaml:"ants" validate:"gt=0"`

	Alpha float64 `yaml:"alpha" validate:"gte=0"`
	Beta  float64 `yaml:"beta" validate:"gte=0"`

	// Rho — коэффициент испарения феромона.
	Rho float64 `yaml:"rho" validate:"gt=0,lt=1"`

	Q float64 `yaml:"q" validate:"gt=0"`

	Tau0 float64 `yaml:"tau0" validate:"gt=0"`

	// CandidateK ограничивает число рассматриваемых посылок на шаге; 0 — все.
	CandidateK int `yaml:"candidate_k" validate:"gte=0"`
}

func DefaultConfig() Config {
	return Config{
		Iterations:           0,
		IterationsPerPackage: 10,

		Ants: 20,

		Alpha: 1.0,
		Beta:  2.0,

		Rho: 0.20,
		Q:   100.0,

		Tau0: 1.0,

		CandidateK: 0,
	}
}

func (c Config) Validate() error {
	if c.Iterations <= 0 && c.IterationsPerPackage <= 0 {
		return fmt.Errorf(
			"должно быть задано Iterations > 0 или IterationsPerPackage > 0",
		)
	}
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("конфигурация ACO: %w", err)
	}
	return nil
}
