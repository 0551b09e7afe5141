package infra

import (
	"os"
	"time"

	"printmonitor/internal/config"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigurarLogger sets the global zerolog logger: pretty console output in
// development, JSON in production, level from LOG_LEVEL (default info).
func ConfigurarLogger(cfg *config.Config) {
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}
