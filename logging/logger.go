// Package logging builds the process logger and the adapters that route
// arena events into it.
package logging

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var ErrUnknownFormat = errors.New("unknown log format")

// Config selects level, output format and optional error reporting.
type Config struct {
	Level     string `env:"LEVEL"`
	Format    string `env:"FORMAT"` // text or json
	Color     bool   `env:"COLOR"`
	SentryDSN string `env:"SENTRY_DSN"`
}

// DefaultConfig logs info and above as uncolored text.
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "text",
	}
}

// New returns a logger writing to out (stderr if nil). When cfg.SentryDSN is
// set, error, fatal and panic entries are also reported to Sentry.
func New(cfg Config, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stderr
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)

	switch strings.ToLower(cfg.Format) {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{
			ForceColors:   cfg.Color,
			DisableColors: !cfg.Color,
			FullTimestamp: true,
		})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, cfg.Format)
	}

	if cfg.SentryDSN != "" {
		hook, err := newSentryHook(cfg.SentryDSN)
		if err != nil {
			return nil, err
		}
		log.AddHook(hook)
	}
	return log, nil
}
