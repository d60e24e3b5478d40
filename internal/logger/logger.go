// Package logger provides the process-wide structured logger used by the
// userbase service. Every component receives the same instance so request
// ids and events line up in one stream.
package logger

import (
	"strings"
	"sync"
)

// Level names accepted in config's log_level key.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	shared *Logger
	once   sync.Once
)

// Get returns the shared logger, initializing it at the given level on the
// first call. Later calls return the same instance regardless of level, so
// the level from config must be passed before any other component logs.
func Get(level string) *Logger {
	once.Do(func() {
		shared = newZapLogger(strings.ToLower(strings.TrimSpace(level)))
	})
	return shared
}
