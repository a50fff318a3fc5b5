package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/lexis-bot/internal/config"
)

// New builds the application logger: JSON at info level in production,
// human-readable at debug level elsewhere.
func New(cfg *config.Config) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)

	switch cfg.Env {
	case "production", "prod":
		l, err = zap.NewProduction()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}

	return l.With(zap.String("env", cfg.Env)), nil
}
