// Package utils provides small shared helpers for logging, text, and vector math.
package utils

import "go.uber.org/zap"

// NewLogger returns the application logger. Debug mode uses zap's development
// config (console encoder, debug level); otherwise production config (JSON,
// info level).
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
