package logger

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// RotatingWriter is an io.Writer that rotates the underlying file once it
// grows past maxSize. Rotated files are renamed name.1, name.2, ... with
// name.1 the most recent; files beyond maxBackups are removed.
type RotatingWriter struct {
	filename   string
	maxSize    int64
	maxBackups int
	compress   bool

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter creates a rotating writer for filename. A maxSize of 0
// disables rotation; maxBackups of 0 keeps no rotated files.
func NewRotatingWriter(filename string, maxSize int64, maxBackups int, compress bool) (*RotatingWriter, error) {
	if err := os.MkdirAll(filepath.Dir(filename), 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %v", err)
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %v", err)
	}

	stat, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat log file: %v", err)
	}

	return &RotatingWriter{
		filename:   filename,
		maxSize:    maxSize,
		maxBackups: maxBackups,
		compress:   compress,
		file:       file,
		size:       stat.Size(),
	}, nil
}

// Write implements io.Writer
func (rw *RotatingWriter) Write(p []byte) (int, error) {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.maxSize > 0 && rw.size+int64(len(p)) > rw.maxSize {
		if err := rw.rotate(); err != nil {
			return 0, fmt.Errorf("rotate log file: %v", err)
		}
	}

	n, err := rw.file.Write(p)
	rw.size += int64(n)
	return n, err
}

// Close closes the current log file
func (rw *RotatingWriter) Close() error {
	rw.mu.Lock()
	defer rw.mu.Unlock()

	if rw.file == nil {
		return nil
	}
	err := rw.file.Close()
	rw.file = nil
	return err
}

func (rw *RotatingWriter) rotate() error {
	if err := rw.file.Close(); err != nil {
		return fmt.Errorf("close current file: %v", err)
	}

	// Shift name.N-1 -> name.N, dropping the oldest.
	for i := rw.maxBackups; i >= 2; i-- {
		src := rw.backupName(i - 1)
		dst := rw.backupName(i)
		if i == rw.maxBackups {
			_ = os.Remove(dst)
			_ = os.Remove(dst + ".gz")
		}
		for _, ext := range []string{"", ".gz"} {
			if _, err := os.Stat(src + ext); err == nil {
				_ = os.Rename(src+ext, dst+ext)
			}
		}
	}

	if rw.maxBackups > 0 {
		rotated := rw.backupName(1)
		if err := os.Rename(rw.filename, rotated); err != nil {
			return fmt.Errorf("rename log file: %v", err)
		}
		if rw.compress {
			if err := compressFile(rotated); err != nil {
				fmt.Fprintf(os.Stderr, "compress rotated log %s: %v\n", rotated, err)
			}
		}
	} else {
		_ = os.Remove(rw.filename)
	}

	file, err := os.OpenFile(rw.filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("create new log file: %v", err)
	}
	rw.file = file
	rw.size = 0
	return nil
}

// backupName returns name for rotation slot n; slot 0 is the live file.
func (rw *RotatingWriter) backupName(n int) string {
	if n == 0 {
		return rw.filename
	}
	return fmt.Sprintf("%s.%d", rw.filename, n)
}

func compressFile(filename string) error {
	src, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("open source file: %v", err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(filename + ".gz")
	if err != nil {
		return fmt.Errorf("create compressed file: %v", err)
	}

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		_ = gz.Close()
		_ = dst.Close()
		return fmt.Errorf("compress file: %v", err)
	}
	if err := gz.Close(); err != nil {
		_ = dst.Close()
		return fmt.Errorf("flush gzip writer: %v", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("close compressed file: %v", err)
	}

	return os.Remove(filename)
}

// rotatingWriterFromConfig builds a RotatingWriter from a LogConfig whose
// output is a "file:" path.
func rotatingWriterFromConfig(config *LogConfig) (io.Writer, error) {
	filename := strings.TrimPrefix(config.Output, "file:")
	if filename == "" || filename == config.Output {
		return nil, fmt.Errorf("rotation requires a file: output, got %q", config.Output)
	}

	var maxSize int64
	if config.Rotation.MaxSize != "" {
		size, err := parseSize(config.Rotation.MaxSize)
		if err != nil {
			return nil, fmt.Errorf("parse max size: %v", err)
		}
		maxSize = size
	}
	if config.Rotation.MaxBackups < 0 {
		return nil, fmt.Errorf("max_backups must be non-negative")
	}

	return NewRotatingWriter(filename, maxSize, config.Rotation.MaxBackups, config.Rotation.Compress)
}
