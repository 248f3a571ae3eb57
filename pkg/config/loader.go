package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses environment variables into cfg using its `env` tags. An optional
// env.Options may restrict the source environment or add a variable prefix.
//
// Example:
//
//	type Config struct {
//	    Port     int    `env:"HTTP_PORT" envDefault:"8080"`
//	    LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
//	}
func Load(cfg any, opts ...env.Options) error {
	var err error
	if len(opts) > 0 {
		err = env.ParseWithOptions(cfg, opts[0])
	} else {
		err = env.Parse(cfg)
	}
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
