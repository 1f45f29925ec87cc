package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger builds the application logger and installs it as the zap
// global. Production writes JSON, anything else colourised console output.
func InitLogger(cfg *Config) (*zap.Logger, error) {
	var logConfig zap.Config
	if cfg.Server.Env == "production" {
		logConfig = zap.NewProductionConfig()
	} else {
		logConfig = zap.NewDevelopmentConfig()
		logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Log.Level)); err != nil {
		level = zapcore.InfoLevel
	}
	logConfig.Level.SetLevel(level)

	log, err := logConfig.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(log)
	log.Info("Logger initialized", zap.String("level", level.String()), zap.String("env", cfg.Server.Env))
	return log, nil
}
