package core

import (
	"go.uber.org/zap"
)

// NewLogger returns a new logger.
func NewLogger(cfg *Config) (*zap.SugaredLogger, error) {
	var logger *zap.Logger
	var err error

	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
		if err != nil {
			return nil, err
		}
	} else {
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	return logger.Sugar(), nil
}
