// Package config handles application configuration and setup
package config

import (
	"github.com/redteamcaliber/dash/internal/arch"
	"github.com/retroenv/retrogolib/log"
)

// Session holds the defaults a new editing session starts with.
type Session struct {
	Architecture arch.Architecture
	WordSize     int
	BaseAddress  uint64
}

// DefaultSession returns the session defaults.
func DefaultSession() Session {
	return Session{
		Architecture: arch.X86,
		WordSize:     arch.WordSize32,
		BaseAddress:  0x1000,
	}
}

// CreateLogger creates a logger with appropriate settings
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}
