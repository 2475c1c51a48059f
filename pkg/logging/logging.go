// Package logging builds the zap logger used for diagnostics. Check output
// goes to stdout through pkg/output; logs go to stderr and, optionally, to a
// rotating JSON file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	Level string // zap level name, empty means warn
	File  string // rotating log file path, empty disables file logging

	// Stderr overrides the console sink. Defaults to os.Stderr.
	Stderr io.Writer
}

// New returns a logger writing human-readable entries to stderr at the
// configured level. When File is set, every entry at debug and above is also
// written as JSON to a rotating file.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	stderr := opts.Stderr
	color := false
	if stderr == nil {
		stderr = os.Stderr
		color = isatty.IsTerminal(os.Stderr.Fd())
	}

	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCfg.TimeKey = ""
	if color {
		consoleCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(stderr), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 5,
			MaxAge:     14, // days
			Compress:   true,
		})
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.TimeKey = "ts"
		fileCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), w, zapcore.DebugLevel))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}
