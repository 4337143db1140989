package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

// RotatingWriter is an io.Writer over a log file that is shifted to
// path.1, path.2, ... once it grows past a size limit. At most maxFiles
// shifted files are kept.
type RotatingWriter struct {
	path     string
	maxSize  int64
	maxFiles int

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter opens path for appending, creating its directory.
func NewRotatingWriter(path string, maxSizeMB, maxFiles int) (*RotatingWriter, error) {
	if err := EnsureLogDir(path); err != nil {
		return nil, err
	}
	w := &RotatingWriter{
		path:     path,
		maxSize:  int64(maxSizeMB) << 20,
		maxFiles: max(maxFiles, 1),
	}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends p, rotating first when p would push a non-empty file past
// the limit.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size > 0 && w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			// keep logging to whatever file is open
			_, _ = fmt.Fprintf(os.Stderr, "log rotation failed: %v\n", err)
		}
	}
	if w.file == nil {
		if err := w.open(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Sync flushes the current file to disk.
func (w *RotatingWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	return w.file.Sync()
}

// Close closes the current file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *RotatingWriter) open() error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.IOError("failed to open log file", err).WithDetail("path", w.path)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return errors.IOError("failed to stat log file", err).WithDetail("path", w.path)
	}
	w.file = f
	w.size = info.Size()
	return nil
}

// rotate drops the oldest shifted file, shifts the rest up by one and
// moves the current file to path.1.
func (w *RotatingWriter) rotate() error {
	if err := w.file.Close(); err != nil {
		return err
	}
	w.file = nil

	_ = os.Remove(w.shifted(w.maxFiles))
	for i := w.maxFiles - 1; i >= 1; i-- {
		_ = os.Rename(w.shifted(i), w.shifted(i+1))
	}
	if err := os.Rename(w.path, w.shifted(1)); err != nil {
		return err
	}
	return w.open()
}

func (w *RotatingWriter) shifted(n int) string {
	return fmt.Sprintf("%s.%d", w.path, n)
}
