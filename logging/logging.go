// Package logging builds the process logger. Entries use Cloud Logging field
// names (timestamp, severity, message) and never go to stdout, which belongs
// to the interactive session.
package logging

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RFC3339Micros is RFC 3339 with fixed microsecond precision.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z07:00"

// Encodings accepted by Options.Format.
const (
	// FormatJSON writes one JSON object per entry.
	FormatJSON = "json"
	// FormatConsole writes tab-separated human-readable lines.
	FormatConsole = "console"
)

// Options configures New. Zero values mean warn level, console format and
// stderr. File "-" also means stderr; os.DevNull yields a no-op logger.
type Options struct {
	Level  string
	Format string
	File   string
}

// New builds a logger from opts.
func New(opts Options) (*zap.Logger, error) {
	if opts.File == os.DevNull {
		return zap.NewNop(), nil
	}

	level := zapcore.WarnLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("logging: invalid level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	encoding := opts.Format
	switch encoding {
	case "":
		encoding = FormatConsole
	case FormatJSON, FormatConsole:
	default:
		return nil, fmt.Errorf("logging: unknown format %q", opts.Format)
	}

	output := opts.File
	if output == "" || output == "-" {
		output = "stderr"
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = encoding
	cfg.Sampling = nil
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{output}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = encodeTimeMicros
	cfg.EncoderConfig.LevelKey = "severity"
	cfg.EncoderConfig.EncodeLevel = encodeSeverity
	cfg.EncoderConfig.MessageKey = "message"
	cfg.EncoderConfig.CallerKey = "caller"

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("logging: building logger failed: %w", err)
	}
	return logger, nil
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(RFC3339Micros))
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}
