package timing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Work is a caller-supplied unit of work timed by the Recorder.
type Work func(ctx context.Context) error

// Recorder times named blocks of work and persists one record per block.
type Recorder struct {
	dir     string
	out     io.Writer
	logger  *slog.Logger
	metrics *Metrics
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithOutput sets the writer the timing line is printed to (stdout by default).
func WithOutput(w io.Writer) RecorderOption {
	return func(r *Recorder) {
		r.out = w
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = logger
	}
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *Metrics) RecorderOption {
	return func(r *Recorder) {
		r.metrics = m
	}
}

// NewRecorder creates a Recorder writing records into dir.
func NewRecorder(dir string, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		dir:    dir,
		out:    os.Stdout,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the records directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// Record runs work, prints "[name] took <seconds>s" and, if work succeeded,
// writes {name: seconds} to the record file for name.
//
// The line is printed on every exit path of work, including errors and panics.
// When work fails its error is returned unchanged and no record is written;
// a panic propagates after the line has been printed.
func (r *Recorder) Record(ctx context.Context, name string, work Work) (seconds float64, err error) {
	timer := StartTimer(name)

	func() {
		returned := false
		defer func() {
			seconds = timer.Stop().Seconds()
			r.report(name, seconds, returned && err == nil)
		}()
		err = work(ctx)
		returned = true
	}()

	if err != nil {
		return seconds, err
	}

	if err := r.write(Record{Name: name, Seconds: seconds}); err != nil {
		return seconds, err
	}
	return seconds, nil
}

// report prints the timing line; ok is false when work failed or panicked.
func (r *Recorder) report(name string, seconds float64, ok bool) {
	_, _ = fmt.Fprintln(r.out, FormatLine(name, seconds))

	status := statusOK
	if !ok {
		status = statusError
	}
	r.metrics.observe(name, seconds, status)
}

func (r *Recorder) write(rec Record) error {
	var buf bytes.Buffer
	if err := rec.Encode(&buf); err != nil {
		return fmt.Errorf("failed to encode timing record %q: %w", rec.Name, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create records directory %s: %w", r.dir, err)
	}

	path := filepath.Join(r.dir, FileName(rec.Name))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write timing record %s: %w", path, err)
	}

	r.logger.Debug("timing record written", "name", rec.Name, "seconds", rec.Seconds, "path", path)
	return nil
}
