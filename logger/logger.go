package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global logger instance
	Logger *zap.SugaredLogger
	// Flag to track if JSON output is enabled
	JSONOutput bool
)

func init() {
	// Safe no-op logger until Initialize is called, so library users and
	// tests never hit a nil logger.
	Logger = zap.NewNop().Sugar()
}

// Initialize sets up the global logger. Output always goes to stderr:
// stdout is reserved for the serialized object table.
func Initialize(jsonOutput bool, level string) error {
	JSONOutput = jsonOutput

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	var encoder zapcore.Encoder
	if jsonOutput {
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), lvl)
	Logger = zap.New(core).Sugar()
	return nil
}

// ParseLevel maps a level name onto a zap level. An empty name means info.
func ParseLevel(level string) (zapcore.Level, error) {
	if strings.TrimSpace(level) == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return zapcore.InfoLevel, err
	}
	return lvl, nil
}

// Named returns a child of the global logger.
func Named(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// Sync flushes the global logger. Errors from syncing stderr are ignored.
func Sync() {
	_ = Logger.Sync()
}
