package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the verbosity level of logging
type LogLevel string

const (
	ErrorLevel LogLevel = "error"
	WarnLevel  LogLevel = "warn"
	InfoLevel  LogLevel = "info"
	DebugLevel LogLevel = "debug"
	TraceLevel LogLevel = "trace"
)

// LogFormat selects the output encoding
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level  LogLevel
	Format LogFormat
	Output io.Writer
}

// NewLogger creates a structured logger for the toolchain
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	var output io.Writer = cfg.Output
	if cfg.Format != LogFormatJSON {
		output = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: time.RFC3339,
		}
	}
	logger := zerolog.New(output).With().Timestamp().Logger()
	switch cfg.Level {
	case ErrorLevel:
		logger = logger.Level(zerolog.ErrorLevel)
	case WarnLevel:
		logger = logger.Level(zerolog.WarnLevel)
	case DebugLevel:
		logger = logger.Level(zerolog.DebugLevel)
	case TraceLevel:
		logger = logger.Level(zerolog.TraceLevel)
	default:
		logger = logger.Level(zerolog.InfoLevel)
	}
	return logger
}

// CircuitLogger derives a sub-logger tagged component=circuit
func CircuitLogger(l zerolog.Logger) zerolog.Logger {
	return l.With().Str("component", "circuit").Logger()
}

// SimLogger derives a sub-logger tagged component=fsim
func SimLogger(l zerolog.Logger) zerolog.Logger {
	return l.With().Str("component", "fsim").Logger()
}

// DtpgLogger derives a sub-logger tagged component=dtpg
func DtpgLogger(l zerolog.Logger) zerolog.Logger {
	return l.With().Str("component", "dtpg").Logger()
}
