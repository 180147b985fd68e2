// Package logging provides the structured JSON line logger shared by all
// MarketMesh services.
package logging

import (
	"encoding/json"
	"log"
	"os"
	"time"
)

// Fields carries structured context for a log line.
type Fields map[string]interface{}

// Logger writes structured log lines tagged with a service name.
type Logger struct {
	service string
}

// NewLogger creates a logger for the named service.
func NewLogger(service string) *Logger {
	return &Logger{service: service}
}

func (l *Logger) write(level, msg string, fields Fields) {
	entry := map[string]interface{}{
		"service":   l.service,
		"level":     level,
		"message":   msg,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		log.Printf("{\"service\":%q,\"level\":\"error\",\"message\":\"log marshal failed\"}", l.service)
		return
	}
	log.Print(string(data))
}

// Debug logs at debug level.
func (l *Logger) Debug(msg string, fields Fields) { l.write("debug", msg, fields) }

// Info logs at info level.
func (l *Logger) Info(msg string, fields Fields) { l.write("info", msg, fields) }

// Warn logs at warn level.
func (l *Logger) Warn(msg string, fields Fields) { l.write("warn", msg, fields) }

// Error logs at error level.
func (l *Logger) Error(msg string, fields Fields) { l.write("error", msg, fields) }

// Fatal logs at error level and exits.
func (l *Logger) Fatal(msg string, fields Fields) {
	l.write("fatal", msg, fields)
	os.Exit(1)
}
