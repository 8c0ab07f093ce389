package logger

import (
	"go.uber.org/zap"
)

// New builds a production zap logger at the given textual level ("debug", "info", ...)
func New(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = lvl

	return cfg.Build()
}

// NewDevelopment builds a human-readable logger for local runs
func NewDevelopment() *zap.Logger {
	zl, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return zl
}
