package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// New builds the process-wide zap logger. Development mode gets human-readable
// console output; production gets structured JSON at info level.
func New(production bool) (*zap.Logger, error) {
	var (
		log *zap.Logger
		err error
	)

	if production {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}

	return log, nil
}

// WithRequestID returns a child logger carrying the request id on every entry.
func WithRequestID(log *zap.Logger, requestID string) *zap.Logger {
	return log.With(zap.String("request_id", requestID))
}
