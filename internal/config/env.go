package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides are read from the process environment and win over file
// values when set.
type envOverrides struct {
	Serializer     string `env:"FRACTAL_SERIALIZER"`
	RecursionLimit int    `env:"FRACTAL_RECURSION_LIMIT"`
	LogLevel       string `env:"FRACTAL_LOG_LEVEL"`
	LogFormat      string `env:"FRACTAL_LOG_FORMAT"`
}

func applyEnv(r *Root) error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Serializer != "" {
		r.Serializer = o.Serializer
	}
	if o.RecursionLimit < 0 {
		return fmt.Errorf("parse env: FRACTAL_RECURSION_LIMIT must be positive, got %d", o.RecursionLimit)
	}
	if o.RecursionLimit > 0 {
		r.RecursionLimit = o.RecursionLimit
	}
	if o.LogLevel != "" || o.LogFormat != "" {
		if r.Logging == nil {
			r.Logging = &Logging{}
		}
		if o.LogLevel != "" {
			r.Logging.Level = o.LogLevel
		}
		if o.LogFormat != "" {
			r.Logging.Format = o.LogFormat
		}
	}
	return nil
}
