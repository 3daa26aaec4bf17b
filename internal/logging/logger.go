// Package logging sets up structured logging with console and optional file
// output.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum level (debug, info, warn, error). Default: info.
	Level string
	// Dir, when set, adds a date-named log file next to console output.
	Dir string
	// Console enables the human-readable console writer.
	Console bool
}

// DefaultConfig returns console-only info logging.
func DefaultConfig() Config {
	return Config{Level: "info", Console: true}
}

// New builds the root logger. Component loggers are derived from it with
// .With().Str("component", ...).
func New(cfg Config) (zerolog.Logger, error) {
	var writers []io.Writer

	if cfg.Console {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}

	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
			return zerolog.Nop(), fmt.Errorf("create log directory: %w", err)
		}
		name := fmt.Sprintf("virtualfriend_%s.log", time.Now().Format("2006-01-02"))
		file, err := os.OpenFile(filepath.Join(cfg.Dir, name), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, file)
	}

	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	log := zerolog.New(io.MultiWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Str("app", "virtualfriend").
		Logger()

	return log, nil
}
