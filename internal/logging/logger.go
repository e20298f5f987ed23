// Package logging is the leveled, structured logger shared by the hub client
// and the command line tool.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Logger struct {
	debugEnabled atomic.Bool
	pretty       bool
	mu           sync.Mutex
	out          io.Writer
	fileSink     *fileSink
}

type Event struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Fields  map[string]any
}

func New(debug bool) *Logger {
	logger := &Logger{
		pretty: shouldPrettyPrint(),
		out:    os.Stderr,
	}
	logger.debugEnabled.Store(debug)
	return logger
}

func Field(key string, value any) slog.Attr {
	return slog.Any(key, value)
}

// SetOutput redirects terminal output. Pretty rendering is only used for
// os.Stderr.
func (l *Logger) SetOutput(w io.Writer) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	if w != io.Writer(os.Stderr) {
		l.pretty = false
	}
	l.out = w
}

func (l *Logger) SetDebugEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.debugEnabled.Store(enabled)
}

// EnableFilePersistence mirrors every event, debug included, as JSON lines
// into dir. An empty dir selects DefaultLogDirPath.
func (l *Logger) EnableFilePersistence(dir string, maxBytes int64) error {
	if l == nil {
		return nil
	}
	sink, err := newFileSink(dir, maxBytes)
	if err != nil {
		return err
	}
	l.mu.Lock()
	old := l.fileSink
	l.fileSink = sink
	l.mu.Unlock()
	if old != nil {
		_ = old.Close()
	}
	return nil
}

func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	sink := l.fileSink
	l.fileSink = nil
	l.mu.Unlock()
	return sink.Close()
}

func (l *Logger) Debugf(format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

func (l *Logger) Debug(msg string, fields ...slog.Attr) {
	if l == nil {
		return
	}
	l.log(slog.LevelDebug, msg, fields, l.debugEnabled.Load())
}

func (l *Logger) Info(msg string, fields ...slog.Attr) {
	if l == nil {
		return
	}
	l.log(slog.LevelInfo, msg, fields, true)
}

func (l *Logger) Warn(msg string, fields ...slog.Attr) {
	if l == nil {
		return
	}
	l.log(slog.LevelWarn, msg, fields, true)
}

func (l *Logger) Error(msg string, fields ...slog.Attr) {
	if l == nil {
		return
	}
	l.log(slog.LevelError, msg, fields, true)
}

func (l *Logger) log(level slog.Level, msg string, attrs []slog.Attr, terminal bool) {
	event := Event{
		Time:    time.Now(),
		Level:   level,
		Message: msg,
		Fields:  attrsToMap(attrs),
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fileSink != nil {
		_ = l.fileSink.WriteEvent(event)
	}
	if !terminal {
		return
	}
	if l.pretty {
		_, _ = io.WriteString(l.out, FormatEventANSI(event))
		return
	}
	_, _ = io.WriteString(l.out, FormatEventLine(event))
}
