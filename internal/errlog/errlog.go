// Package errlog records per-file failures of a single consolidate or
// restore run. Each failure becomes a two-line entry:
//
//	17-Oct-26 14:02:11 - Failed to consolidate: /src/logo.png
//	Error: Not a text file
//
// The log is exposed as a slog.Handler so operations only ever see a
// *slog.Logger that is scoped to one run.
package errlog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TimeLayout is the timestamp format at the start of every entry.
const TimeLayout = "02-Jan-06 15:04:05"

// ErrorKey is the attribute rendered on the "Error:" line.
const ErrorKey = "error"

// Handler is a slog.Handler writing failure entries. Records below Level are
// dropped.
type Handler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	attrs []slog.Attr
}

// NewHandler returns a Handler writing to w. A nil level means slog.LevelError.
func NewHandler(w io.Writer, level slog.Leveler) *Handler {
	if level == nil {
		level = slog.LevelError
	}
	return &Handler{mu: &sync.Mutex{}, w: w, level: level}
}

func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	var b strings.Builder
	b.WriteString(ts.Format(TimeLayout))
	b.WriteString(" - ")
	b.WriteString(r.Message)

	var errText string
	hasErr := false
	visit := func(a slog.Attr) bool {
		if a.Key == ErrorKey {
			errText = a.Value.String()
			hasErr = true
			return true
		}
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
		return true
	}
	for _, a := range h.attrs {
		visit(a)
	}
	r.Attrs(visit)
	b.WriteByte('\n')
	if hasErr {
		b.WriteString("Error: ")
		b.WriteString(errText)
		b.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

// WithGroup is a no-op; entries are flat.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

// File is an error log bound to a file on disk.
type File struct {
	Path   string
	file   *os.File
	logger *slog.Logger
}

// Open creates (or appends to) the log file at path, creating parent
// directories as needed.
func Open(path string) (*File, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("errlog: ensure log dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("errlog: open log file: %w", err)
	}
	return &File{
		Path:   path,
		file:   f,
		logger: slog.New(NewHandler(f, slog.LevelError)),
	}, nil
}

// Logger returns the logger writing into the file.
func (f *File) Logger() *slog.Logger {
	return f.logger
}

// Close releases the file handle.
func (f *File) Close() error {
	if f == nil || f.file == nil {
		return nil
	}
	return f.file.Close()
}

// Failure logs one failed path. op is "consolidate" or "restore".
func Failure(logger *slog.Logger, op, path string, err error) {
	logger.Error(fmt.Sprintf("Failed to %s: %s", op, path), ErrorKey, err.Error())
}

// Tee returns a logger that sends every record to each handler that accepts
// it. It lets --verbose mirror debug output to stderr while failures still
// reach the error log.
func Tee(handlers ...slog.Handler) *slog.Logger {
	return slog.New(teeHandler(handlers))
}

type teeHandler []slog.Handler

func (t teeHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range t {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (t teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range t {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (t teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (t teeHandler) WithGroup(name string) slog.Handler {
	out := make(teeHandler, len(t))
	for i, h := range t {
		out[i] = h.WithGroup(name)
	}
	return out
}
