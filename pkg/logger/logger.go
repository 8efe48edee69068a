// Package logx configures the process-wide zerolog logger used across the
// support pipeline. Import pkg/logger/autoload for env-driven setup.
package logx

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// serviceName tags every event so pipeline logs stay attributable when they
// land in a shared collector next to worker and queue output.
const serviceName = "erp-support-agent"

type Config struct {
	Debug        bool `split_words:"true" default:"false"`
	PrettyFormat bool `split_words:"true" default:"false"`
}

var DefaultConfig = &Config{}

func (c *Config) level() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

func safe(opts ...Config) *Config {
	if len(opts) == 0 {
		return DefaultConfig
	}
	return &opts[0]
}

func Init(opts ...Config) {
	conf := safe(opts...)

	if conf.PrettyFormat {
		log.Logger = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	log.Logger = log.Logger.
		Level(conf.level()).
		With().
		Str("service", serviceName).
		Caller().
		Stack().
		Logger()
}
