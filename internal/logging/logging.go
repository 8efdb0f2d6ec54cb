package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/maxrep/maxrep-cli/internal/app"
)

type Options struct {
	Level string
	// File receives JSON logs through a rotating writer. Empty disables it.
	File string
	// Console receives human-readable logs at Warn and above, or at Level
	// when Verbose is set. Defaults to stderr.
	Console io.Writer
	Verbose bool
}

// New builds a logger that tees a rotating JSON file core with a console
// core.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		parsed, err := zapcore.ParseLevel(s)
		if err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", s, err)
		}
		level = parsed
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if opts.File != "" {
		if err := app.EnsureParentDir(opts.File); err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			zapcore.AddSync(&lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // MB
				MaxBackups: 5,
				MaxAge:     30, // days
			}),
			level,
		))
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	consoleLevel := zapcore.WarnLevel
	if opts.Verbose || level > consoleLevel {
		consoleLevel = level
	}
	cores = append(cores, zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(console),
		consoleLevel,
	))

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)), nil
}
