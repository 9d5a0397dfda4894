// Package logger provides structured logging for compliment.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry carrying the logger's fixed fields
type Logger struct {
	base *logrus.Entry
}

// Entry accumulates fields for a single log line
type Entry struct {
	entry *logrus.Entry
	level logrus.Level
}

// New creates a logger writing to output (stderr when nil). Unknown
// levels fall back to info.
func New(level string, output io.Writer) *Logger {
	if output == nil {
		output = os.Stderr
	}

	log := logrus.New()
	log.SetOutput(output)

	logLevel, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)

	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:      output == os.Stderr,
		DisableTimestamp: true,
		PadLevelText:     true,
	})

	return &Logger{base: logrus.NewEntry(log)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return New("panic", io.Discard)
}

// With returns a child logger that adds key=value to every line.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{base: l.base.WithField(key, value)}
}

// Enabled reports whether debug lines would be written.
func (l *Logger) Enabled() bool {
	return l.base.Logger.IsLevelEnabled(logrus.DebugLevel)
}

func (l *Logger) at(level logrus.Level) *Entry {
	return &Entry{entry: l.base, level: level}
}

// Debug starts a debug line
func (l *Logger) Debug() *Entry { return l.at(logrus.DebugLevel) }

// Info starts an info line
func (l *Logger) Info() *Entry { return l.at(logrus.InfoLevel) }

// Warn starts a warning line
func (l *Logger) Warn() *Entry { return l.at(logrus.WarnLevel) }

// Error starts an error line
func (l *Logger) Error() *Entry { return l.at(logrus.ErrorLevel) }

// Str adds a string field
func (e *Entry) Str(key, value string) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Strs adds a string slice field
func (e *Entry) Strs(key string, values []string) *Entry {
	e.entry = e.entry.WithField(key, strings.Join(values, ","))
	return e
}

// Int adds an int field
func (e *Entry) Int(key string, value int) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Int64 adds an int64 field
func (e *Entry) Int64(key string, value int64) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Bool adds a bool field
func (e *Entry) Bool(key string, value bool) *Entry {
	e.entry = e.entry.WithField(key, value)
	return e
}

// Err adds an error field
func (e *Entry) Err(err error) *Entry {
	if err != nil {
		e.entry = e.entry.WithError(err)
	}
	return e
}

// Dur adds a duration field in milliseconds
func (e *Entry) Dur(key string, duration time.Duration) *Entry {
	ms := float64(duration.Microseconds()) / 1000.0
	e.entry = e.entry.WithField(key, ms)
	return e
}

// Msg writes the line
func (e *Entry) Msg(msg string) {
	e.entry.Log(e.level, msg)
}
