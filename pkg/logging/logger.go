// Package logging builds the zap logger injected into every component.
package logging

import (
	"fmt"

	"go.uber.org/zap"
)

// New creates a logger appropriate for the given environment. Local and
// development environments get human-readable console output at debug
// level; everything else gets production JSON.
func New(env string) (*zap.Logger, error) {
	var cfg zap.Config
	switch env {
	case "local", "dev", "development":
		cfg = zap.NewDevelopmentConfig()
	default:
		cfg = zap.NewProductionConfig()
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
