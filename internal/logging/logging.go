// Package logging provides the core's structured logger, grounded on the
// zap usage in the arx-os-arxos gateway (e.g. gateway/connection_pool.go):
// a *zap.Logger threaded through constructors, defaulting to a no-op
// logger so callers never need a nil check.
package logging

import "go.uber.org/zap"

// NewNop returns a logger that discards everything, used when a caller
// does not supply one.
func NewNop() *zap.Logger {
	return zap.NewNop()
}

// OrDefault returns l, or a no-op logger if l is nil.
func OrDefault(l *zap.Logger) *zap.Logger {
	if l == nil {
		return NewNop()
	}
	return l
}
