package observability

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ieutils/infrastructure/config"
)

// NewLogger creates a zap logger configured for the current environment.
// The level comes from LOGGING_LEVEL; production gets the JSON encoder,
// everything else the development console encoder.
func NewLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(cfg.LogLevel); err != nil {
		return nil, err
	}

	var zapCfg zap.Config
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
