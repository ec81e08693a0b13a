// Package logging provides leveled logging for the media player.
//
// The level is configured once, from the LOG_LEVEL environment
// variable (debug, info, warn, error), or forced to debug via
// DEBUG=true. The default is info.
package logging

import (
	"log"
	"os"
	"strings"
	"sync"
)

// Level represents the severity of a log message.
type Level int

const (
	// LevelDebug logs everything.
	LevelDebug Level = iota
	// LevelInfo logs operational messages and above.
	LevelInfo
	// LevelWarn logs warnings and errors only.
	LevelWarn
	// LevelError logs errors only.
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	level     Level
	levelOnce sync.Once
)

func initLevel() {
	levelOnce.Do(func() {
		switch strings.ToLower(os.Getenv("DEBUG")) {
		case "1", "true", "yes", "on":
			level = LevelDebug
			return
		}

		switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
		case "debug":
			level = LevelDebug
		case "warn", "warning":
			level = LevelWarn
		case "error":
			level = LevelError
		default:
			level = LevelInfo
		}
	})
}

// GetLevel returns the active log level.
func GetLevel() Level {
	initLevel()
	return level
}

// Debug logs a debug message.
func Debug(format string, args ...any) {
	if GetLevel() <= LevelDebug {
		log.Printf("[DEBUG] "+format, args...)
	}
}

// Info logs an info message.
func Info(format string, args ...any) {
	if GetLevel() <= LevelInfo {
		log.Printf("[INFO] "+format, args...)
	}
}

// Warn logs a warning message.
func Warn(format string, args ...any) {
	if GetLevel() <= LevelWarn {
		log.Printf("[WARN] "+format, args...)
	}
}

// Error logs an error message.
func Error(format string, args ...any) {
	if GetLevel() <= LevelError {
		log.Printf("[ERROR] "+format, args...)
	}
}

// Fatal logs an error message and exits.
func Fatal(format string, args ...any) {
	log.Fatalf("[FATAL] "+format, args...)
}
