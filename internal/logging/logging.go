// Package logging builds the slog loggers used by the binaries.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// New returns a text logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// ParseLevel maps debug, info, warn, and error to slog levels. Anything else is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default size limits for File.
const (
	DefaultMaxBytes  = 6 * 1024 * 1024
	DefaultKeepBytes = 5 * 1024 * 1024
)

// File is an append-only log file that, once it grows past MaxBytes, is cut
// back to its last KeepBytes.
type File struct {
	MaxBytes  int64
	KeepBytes int64

	mu   sync.Mutex
	file *os.File
}

// OpenFile opens (creating if needed) the log file at path with the default limits.
func OpenFile(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	f := &File{MaxBytes: DefaultMaxBytes, KeepBytes: DefaultKeepBytes, file: file}
	if err := f.trim(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, err := f.file.Write(p)
	if err != nil {
		return n, err
	}
	return n, f.trim()
}

// Close closes the underlying file.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

func (f *File) trim() error {
	info, err := f.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= f.MaxBytes || size <= f.KeepBytes {
		return nil
	}

	tail := make([]byte, f.KeepBytes)
	n, err := f.file.ReadAt(tail, size-f.KeepBytes)
	if err != nil && err != io.EOF {
		return err
	}
	tail = tail[:n]

	if err := f.file.Truncate(0); err != nil {
		return err
	}
	// O_APPEND writes go to the new end regardless of offset.
	_, err = f.file.Write(tail)
	return err
}
