package main

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapAdapter exposes a zap.SugaredLogger through the auth.Logger contract.
// Calls use the message plus key/value pairs convention.
type zapAdapter struct {
	sugar *zap.SugaredLogger
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()

	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	return cfg.Build()
}

func newZapAdapter(logger *zap.Logger) *zapAdapter {
	return &zapAdapter{sugar: logger.Sugar()}
}

func (z *zapAdapter) Debug(msg string, args ...any) { z.sugar.Debugw(msg, args...) }
func (z *zapAdapter) Info(msg string, args ...any)  { z.sugar.Infow(msg, args...) }
func (z *zapAdapter) Warn(msg string, args ...any)  { z.sugar.Warnw(msg, args...) }
func (z *zapAdapter) Error(msg string, args ...any) { z.sugar.Errorw(msg, args...) }
