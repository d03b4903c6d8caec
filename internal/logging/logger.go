package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to a log file so users can inspect the
// engine's output after the run. It implements io.Writer; partial lines are
// held until their newline arrives or the logger is closed.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	pending []byte
	onLine  func(string)
	now     func() time.Time
}

// New creates (or reuses) the log file at path.
func New(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f, now: time.Now}, nil
}

// OnLine registers fn to receive every completed line (without timestamp).
func (l *Logger) OnLine(fn func(string)) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.onLine = fn
	l.mu.Unlock()
}

// Write implements io.Writer.
func (l *Logger) Write(p []byte) (int, error) {
	if l == nil || l.file == nil {
		return len(p), nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.pending = append(l.pending, p...)
	for {
		idx := bytes.IndexByte(l.pending, '\n')
		if idx < 0 {
			break
		}
		line := strings.TrimRight(string(l.pending[:idx]), "\r")
		l.pending = l.pending[idx+1:]
		if err := l.emit(line); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Close flushes a trailing partial line and releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.pending) > 0 {
		_ = l.emit(string(l.pending))
		l.pending = nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.emit(line)
}

func (l *Logger) emit(line string) error {
	timestamp := l.now().Format(time.RFC3339)
	if _, err := fmt.Fprintf(l.file, "[%s] %s\n", timestamp, line); err != nil {
		return err
	}
	if l.onLine != nil {
		l.onLine(line)
	}
	return nil
}
