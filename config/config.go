package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

// Config is read from the environment with the MULTISTORE prefix.
type Config struct {
	DBPath     string `envconfig:"DB_PATH" default:"multistore.sqlite"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8082"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	// AllowBackorder keeps the permissive behavior of letting a sale
	// drive stock negative. Set to false to reject such sales.
	AllowBackorder bool `envconfig:"ALLOW_BACKORDER" default:"true"`
	// StrictTotals makes sale creation recompute and verify the
	// caller-supplied totals.
	StrictTotals bool `envconfig:"STRICT_TOTALS" default:"false"`
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("multistore", &c); err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	return c, nil
}
