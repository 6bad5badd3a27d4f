package common

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/snapwatch/snapwatch-daemon/internal/config"
)

// NewLogger builds the daemon logger from config. An unparseable level falls
// back to info rather than failing startup.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	encoding := cfg.Log.Format
	if encoding != "console" {
		encoding = "json"
	}

	outputs := []string{"stderr"}
	if cfg.Log.EnableFileLogging {
		if paths, err := config.GetPaths(); err == nil {
			if err := os.MkdirAll(paths.LogDir, 0755); err == nil {
				outputs = append(outputs, filepath.Join(paths.LogDir, "snapwatch.log"))
			}
		}
	}

	zcfg := zap.Config{
		Level:       zap.NewAtomicLevelAt(level),
		Development: false,
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
	}

	return zcfg.Build()
}
