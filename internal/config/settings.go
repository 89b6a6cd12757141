package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Settings — параметры окружения, общие для всех команд.
type Settings struct {
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"text"`
	OutDir         string `env:"OUT_DIR" envDefault:"artifacts"`
	MetricsFile    string `env:"METRICS_FILE"`
	ExperimentFile string `env:"EXPERIMENT"`
}

const EnvPrefix = "DELIVERY_"

func LoadSettings() (*Settings, error) {
	return loadSettings(env.Options{Prefix: EnvPrefix})
}

func loadSettings(opts env.Options) (*Settings, error) {
	s := &Settings{}
	if err := env.ParseWithOptions(s, opts); err != nil {
		aggErr := env.AggregateError{}
		if ok := errors.As(err, &aggErr); ok {
			// Возвращаем только первую ошибку
			return nil, aggErr.Errors[0]
		}
		return nil, err
	}
	return s, nil
}

// NewLogger строит slog-логгер по уровню и формату из настроек.
func (s *Settings) NewLogger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return nil, fmt.Errorf("уровень логирования %q: %w", s.LogLevel, err)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(s.LogFormat) {
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("неизвестный формат логов %q (text | json)", s.LogFormat)
}
