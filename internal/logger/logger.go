package logger

import (
	"go.uber.org/zap"
)

// New builds a development logger for env "development" and a JSON
// production logger for anything else.
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
