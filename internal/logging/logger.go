// internal/logging/logger.go
package logging

import (
	"fmt"
	"io"
	"log"
	"strings"
)

// Level filters log output. Higher is more verbose.
type Level int

const (
	LevelNone Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the String() forms. Empty means info.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return LevelInfo, nil
	case "none", "off":
		return LevelNone, nil
	case "error":
		return LevelError, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelInfo, fmt.Errorf("logging: unknown level %q", s)
}

// LeveledLogger wraps a standard logger with level filtering.
type LeveledLogger struct {
	logger *log.Logger
	level  Level
}

func New(logger *log.Logger, level Level) *LeveledLogger {
	return &LeveledLogger{logger: logger, level: level}
}

// Discard returns a logger that drops everything.
func Discard() *LeveledLogger {
	return New(log.New(io.Discard, "", 0), LevelNone)
}

func (l *LeveledLogger) Debug(format string, v ...interface{}) {
	if l.level >= LevelDebug {
		l.logger.Printf("[DEBUG] "+format, v...)
	}
}

func (l *LeveledLogger) Info(format string, v ...interface{}) {
	if l.level >= LevelInfo {
		l.logger.Printf("[INFO] "+format, v...)
	}
}

func (l *LeveledLogger) Warn(format string, v ...interface{}) {
	if l.level >= LevelWarn {
		l.logger.Printf("[WARN] "+format, v...)
	}
}

func (l *LeveledLogger) Error(format string, v ...interface{}) {
	if l.level >= LevelError {
		l.logger.Printf("[ERROR] "+format, v...)
	}
}

// Printf logs at INFO so the logger can stand in for *log.Logger.
func (l *LeveledLogger) Printf(format string, v ...interface{}) {
	l.Info(format, v...)
}

func (l *LeveledLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Fatalf("[FATAL] "+format, v...)
}

func (l *LeveledLogger) SetLevel(level Level) { l.level = level }
func (l *LeveledLogger) Level() Level         { return l.level }

// DebugPacket dumps a datagram as hex at DEBUG level.
// direction is "In" or "Out".
func (l *LeveledLogger) DebugPacket(direction string, data []byte) {
	if l.level < LevelDebug {
		return
	}
	var b strings.Builder
	for i, c := range data {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%02x", c)
	}
	l.logger.Printf("[DEBUG] %-3s: %s", direction, b.String())
}
