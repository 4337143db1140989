// Package profiling records CPU, heap and execution-trace profiles of one
// CLI run.
package profiling

import (
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"

	"github.com/dustin/go-humanize"

	"github.com/Aman-CERP/contentgraph/internal/errors"
)

// Options names the profile files to write. Empty paths are skipped.
type Options struct {
	CPU   string
	Heap  string
	Trace string
}

// Enabled reports whether any profile is requested.
func (o Options) Enabled() bool {
	return o.CPU != "" || o.Heap != "" || o.Trace != ""
}

// Session is a running set of profiles.
type Session struct {
	opts      Options
	cpuFile   *os.File
	traceFile *os.File
	logger    *slog.Logger
}

// Start begins CPU profiling and tracing as requested. The heap profile is
// written by Stop.
func Start(opts Options, logger *slog.Logger) (*Session, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{opts: opts, logger: logger}

	if opts.CPU != "" {
		f, err := create(opts.CPU)
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, errors.InternalError("failed to start CPU profile", err)
		}
		s.cpuFile = f
	}

	if opts.Trace != "" {
		f, err := create(opts.Trace)
		if err != nil {
			s.stopCPU()
			return nil, err
		}
		if err := trace.Start(f); err != nil {
			_ = f.Close()
			s.stopCPU()
			return nil, errors.InternalError("failed to start trace", err)
		}
		s.traceFile = f
	}
	return s, nil
}

// Stop ends CPU profiling and tracing and writes the heap profile. Safe to
// call on a nil Session and more than once.
func (s *Session) Stop() error {
	if s == nil {
		return nil
	}
	s.stopCPU()
	if s.traceFile != nil {
		trace.Stop()
		_ = s.traceFile.Close()
		s.traceFile = nil
	}

	if s.opts.Heap == "" {
		return nil
	}
	f, err := create(s.opts.Heap)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	runtime.GC()
	if err := pprof.WriteHeapProfile(f); err != nil {
		return errors.InternalError("failed to write heap profile", err).WithDetail("path", s.opts.Heap)
	}
	s.opts.Heap = ""

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	s.logger.Info("heap profile written",
		slog.String("path", f.Name()),
		slog.String("heap_alloc", humanize.Bytes(m.HeapAlloc)),
		slog.String("total_alloc", humanize.Bytes(m.TotalAlloc)))
	return nil
}

func (s *Session) stopCPU() {
	if s.cpuFile == nil {
		return
	}
	pprof.StopCPUProfile()
	_ = s.cpuFile.Close()
	s.cpuFile = nil
}

func create(path string) (*os.File, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IOError("failed to create profile file", err).WithDetail("path", path)
	}
	return f, nil
}
