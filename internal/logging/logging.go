// Package logging builds the diagnostic sink: a slog text handler writing to a
// size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Options configures the diagnostic sink.
type Options struct {
	Enabled   bool
	Level     string
	FilePath  string
	MaxSizeMB int
	MaxFiles  int
}

// ParseLevel converts a level name to a slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger for opts and the closer for its file. A disabled sink
// discards every record.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	if !opts.Enabled {
		return slog.New(slog.DiscardHandler), nopCloser{}, nil
	}

	f, err := OpenRotatingFile(opts.FilePath, int64(opts.MaxSizeMB)*1024*1024, opts.MaxFiles)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: ParseLevel(opts.Level)})
	return slog.New(handler), f, nil
}

// RotatingFile is an io.Writer that rotates path to path.1, path.2, ... once
// it reaches maxBytes, keeping at most maxFiles rotated files.
type RotatingFile struct {
	mu          sync.Mutex
	path        string
	maxBytes    int64
	maxFiles    int
	file        *os.File
	currentSize int64
	closed      bool
}

// OpenRotatingFile opens or creates path for appending.
func OpenRotatingFile(path string, maxBytes int64, maxFiles int) (*RotatingFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat log file: %w", err)
	}

	return &RotatingFile{
		path:        path,
		maxBytes:    maxBytes,
		maxFiles:    maxFiles,
		file:        f,
		currentSize: stat.Size(),
	}, nil
}

// Write appends p, rotating first if the file is full. Each slog record is
// written with a single call, so records never straddle files. A file that
// could not be reopened after a rotation is retried on the next Write.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0, os.ErrClosed
	}

	if r.file != nil && r.maxBytes > 0 && r.currentSize >= r.maxBytes {
		if err := r.rotate(); err != nil {
			fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if r.file == nil {
		if err := r.reopen(); err != nil {
			return 0, err
		}
	}

	n, err := r.file.Write(p)
	r.currentSize += int64(n)
	return n, err
}

// Close closes the current file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// rotate shifts the numbered files and starts a new one. If the current file
// cannot be moved aside it is reopened and keeps growing until the next
// attempt, one maxBytes later.
func (r *RotatingFile) rotate() error {
	r.file.Close()
	r.file = nil

	// plugview.log.1 -> plugview.log.2 and so on; the oldest is dropped.
	for i := r.maxFiles; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", r.path, i)
		if i == r.maxFiles {
			os.Remove(oldPath)
		} else {
			os.Rename(oldPath, fmt.Sprintf("%s.%d", r.path, i+1))
		}
	}

	var rotateErr error
	if r.maxFiles > 0 {
		if err := os.Rename(r.path, r.path+".1"); err != nil && !os.IsNotExist(err) {
			rotateErr = fmt.Errorf("failed to rotate log file: %w", err)
		}
	} else {
		os.Remove(r.path)
	}

	if err := r.reopen(); err != nil {
		return err
	}
	if rotateErr != nil {
		r.currentSize = 0
	}
	return rotateErr
}

func (r *RotatingFile) reopen() error {
	f, err := os.OpenFile(r.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}
	r.file = f
	r.currentSize = stat.Size()
	return nil
}
