// Package log is besi's leveled logger with a chained event API:
//
//	log.Info().Msgf("listening on %s", addr)
package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Level represents the log level
type Level int8

const (
	// DebugLevel defines debug log level
	DebugLevel Level = iota
	// InfoLevel defines info log level
	InfoLevel
	// WarnLevel defines warn log level
	WarnLevel
	// ErrorLevel defines error log level
	ErrorLevel
	// FatalLevel defines fatal log level
	FatalLevel
)

var levelNames = map[Level]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
	FatalLevel: "FATAL",
}

// String returns the string representation of the log level
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("LEVEL(%d)", l)
}

// Logger writes leveled log lines to a single output writer.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	level  Level
	format string
}

// New creates a Logger writing to out at the given level.
func New(out io.Writer, level Level) *Logger {
	if out == nil {
		out = os.Stdout
	}
	return &Logger{
		out:    out,
		level:  level,
		format: "2006-01-02 15:04:05",
	}
}

// SetLevel sets the minimum level the logger emits.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput replaces the logger's output writer.
func (l *Logger) SetOutput(out io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
}

// Debug returns a debug level event
func (l *Logger) Debug() *Event { return l.event(DebugLevel) }

// Info returns an info level event
func (l *Logger) Info() *Event { return l.event(InfoLevel) }

// Warn returns a warn level event
func (l *Logger) Warn() *Event { return l.event(WarnLevel) }

// Error returns an error level event
func (l *Logger) Error() *Event { return l.event(ErrorLevel) }

// Fatal returns a fatal level event; its Msg terminates the process.
func (l *Logger) Fatal() *Event { return l.event(FatalLevel) }

func (l *Logger) event(level Level) *Event {
	l.mu.Lock()
	enabled := level >= l.level
	l.mu.Unlock()
	return &Event{logger: l, level: level, enabled: enabled}
}

// Event is one pending log line. It is discarded unless Msg or Msgf is
// called.
type Event struct {
	logger  *Logger
	level   Level
	enabled bool
	err     error
}

// Err attaches an error to the event.
func (e *Event) Err(err error) *Event {
	e.err = err
	return e
}

// Msg writes the event with the given message.
func (e *Event) Msg(msg string) {
	if !e.enabled {
		return
	}
	e.write(msg)
	if e.level == FatalLevel {
		os.Exit(1)
	}
}

// Msgf writes the event with a formatted message.
func (e *Event) Msgf(format string, v ...interface{}) {
	e.Msg(fmt.Sprintf(format, v...))
}

func (e *Event) write(msg string) {
	l := e.logger
	l.mu.Lock()
	defer l.mu.Unlock()

	line := make([]byte, 0, 64+len(msg))
	line = time.Now().AppendFormat(line, l.format)
	line = append(line, ' ')
	line = append(line, e.level.String()...)
	line = append(line, ' ')
	line = append(line, msg...)
	if e.err != nil {
		line = append(line, " error="...)
		line = append(line, e.err.Error()...)
	}
	line = append(line, '\n')
	_, _ = l.out.Write(line)
}

// defaultLogger is the package-level logger.
var (
	defaultMu     sync.Mutex
	defaultLogger = New(os.Stdout, InfoLevel)
)

// SetOutput sets the output writer of the package-level logger.
func SetOutput(out io.Writer) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger.SetOutput(out)
}

// SetLevel sets the level of the package-level logger.
func SetLevel(level Level) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger.SetLevel(level)
}

// Debug returns a debug level event on the package-level logger.
func Debug() *Event { return defaultLogger.Debug() }

// Info returns an info level event on the package-level logger.
func Info() *Event { return defaultLogger.Info() }

// Warn returns a warn level event on the package-level logger.
func Warn() *Event { return defaultLogger.Warn() }

// Error returns an error level event on the package-level logger.
func Error() *Event { return defaultLogger.Error() }
