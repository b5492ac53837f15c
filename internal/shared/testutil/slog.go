package testutil

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

// LogRecord is one captured log record.
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// LogRecorder is a slog.Handler that captures records so tests can assert on
// what was logged. Safe for concurrent use.
type LogRecorder struct {
	mu      sync.Mutex
	records []LogRecord
	base    []slog.Attr
}

// NewTestLogger returns a logger wired to a recorder.
func NewTestLogger(_ *testing.T) (*slog.Logger, *LogRecorder) {
	rec := &LogRecorder{}
	return slog.New(rec), rec
}

// Enabled implements slog.Handler. Tests capture every level.
func (h *LogRecorder) Enabled(context.Context, slog.Level) bool { return true }

// Handle implements slog.Handler.
func (h *LogRecorder) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(h.base))
	for _, a := range h.base {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.mu.Lock()
	h.records = append(h.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.mu.Unlock()
	return nil
}

// WithAttrs implements slog.Handler. Derived handlers share the record
// buffer so assertions see logs from child loggers too.
func (h *LogRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedRecorder{parent: h, attrs: append(append([]slog.Attr{}, h.base...), attrs...)}
}

// WithGroup implements slog.Handler. Groups are flattened for assertions.
func (h *LogRecorder) WithGroup(string) slog.Handler { return h }

// Records returns a copy of everything captured so far.
func (h *LogRecorder) Records() []LogRecord {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]LogRecord, len(h.records))
	copy(out, h.records)
	return out
}

// HasMessage reports whether any record's message contains the substring.
func (h *LogRecorder) HasMessage(substr string) bool {
	for _, r := range h.Records() {
		if strings.Contains(r.Message, substr) {
			return true
		}
	}
	return false
}

// HasAttr reports whether any record carries the attribute value.
func (h *LogRecorder) HasAttr(key string, value any) bool {
	for _, r := range h.Records() {
		if v, ok := r.Attrs[key]; ok && v == value {
			return true
		}
	}
	return false
}

type derivedRecorder struct {
	parent *LogRecorder
	attrs  []slog.Attr
}

func (d *derivedRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (d *derivedRecorder) Handle(ctx context.Context, r slog.Record) error {
	attrs := make(map[string]any, r.NumAttrs()+len(d.attrs))
	for _, a := range d.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	d.parent.mu.Lock()
	d.parent.records = append(d.parent.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	d.parent.mu.Unlock()
	return nil
}

func (d *derivedRecorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &derivedRecorder{parent: d.parent, attrs: append(append([]slog.Attr{}, d.attrs...), attrs...)}
}

func (d *derivedRecorder) WithGroup(string) slog.Handler { return d }
