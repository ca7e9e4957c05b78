package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
)

func ParseLevel(lvl string) (Level, error) {
	switch strings.ToLower(lvl) {
	case "error":
		return ERROR, nil
	case "warn":
		return WARN, nil
	case "info":
		return INFO, nil
	case "debug":
		return DEBUG, nil
	}
	return INFO, fmt.Errorf("invalid log level: %s", lvl)
}

// Logger is a simple leveled logger writing to stderr.
type Logger struct {
	level Level
	out   *log.Logger
}

// New creates a new Logger.
func New(level Level) *Logger {
	return &Logger{level: level, out: log.New(os.Stderr, "", log.LstdFlags)}
}

// SetOutput redirects log output, mainly for tests.
func (l *Logger) SetOutput(w io.Writer) {
	l.out.SetOutput(w)
}

// Errorf prints a formatted error message.
func (l *Logger) Errorf(format string, v ...any) {
	if l.level >= ERROR {
		l.out.Printf("[ERROR] "+format, v...)
	}
}

// Warnf prints a formatted warning message.
func (l *Logger) Warnf(format string, v ...any) {
	if l.level >= WARN {
		l.out.Printf("[WARN] "+format, v...)
	}
}

// Infof prints a formatted info message.
func (l *Logger) Infof(format string, v ...any) {
	if l.level >= INFO {
		l.out.Printf("[INFO] "+format, v...)
	}
}

// Debugf prints a formatted debug message.
func (l *Logger) Debugf(format string, v ...any) {
	if l.level >= DEBUG {
		l.out.Printf("[DEBUG] "+format, v...)
	}
}
