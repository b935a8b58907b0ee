package logger

import (
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configures a screener logger.
type Options struct {
	JSON  bool
	Debug bool
	// Output is a zap sink URL or one of "stdout" / "stderr". Defaults to
	// stdout.
	Output string
	// Service is attached to every entry when set.
	Service string
}

func New(json bool, debug bool) (*zap.Logger, error) {
	return Build(Options{JSON: json, Debug: debug, Service: "resume-screener-api"})
}

// NewWithOutput is New writing to the given zap sink, e.g. "stderr" for
// commands that print results on stdout.
func NewWithOutput(json bool, debug bool, output string) (*zap.Logger, error) {
	return Build(Options{JSON: json, Debug: debug, Output: output, Service: "screener"})
}

func Build(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	encoding := "console"
	if opts.JSON {
		encoding = "json"
	}

	output := opts.Output
	if output == "" {
		output = "stdout"
	}

	cfg := zap.Config{
		Encoding:         encoding,
		Level:            zap.NewAtomicLevelAt(level),
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "msg",
			LevelKey:      "level",
			TimeKey:       "time",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			EncodeLevel:   zapcore.LowercaseLevelEncoder,
			EncodeTime:    zapcore.RFC3339TimeEncoder,
			EncodeCaller:  zapcore.ShortCallerEncoder,
		},
	}
	if opts.Service != "" {
		cfg.InitialFields = map[string]any{"service": opts.Service}
	}

	return cfg.Build()
}

// Filename is the field every per-document entry carries.
func Filename(name string) zap.Field {
	return zap.String("filename", name)
}

// BatchID tags entries that belong to one processing batch.
func BatchID(id uuid.UUID) zap.Field {
	return zap.String("batch_id", id.String())
}

// Preview shortens text for log fields, appending an ellipsis when truncated.
func Preview(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
