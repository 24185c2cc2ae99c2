// Package diag collects the diagnostics emitted when references, entities or whole
// projects are dropped from a hydrated result.
package diag

import (
	"context"
	"sync"

	"github.com/serp-db/serp-backend/internal/catalog/domain"
	"github.com/serp-db/serp-backend/internal/logging"
)

// Sink receives diagnostics. Implementations must be safe for concurrent use.
type Sink interface {
	Report(ctx context.Context, d domain.Diagnostic)
}

// Discard drops every diagnostic.
var Discard Sink = discard{}

type discard struct{}

func (discard) Report(context.Context, domain.Diagnostic) {}

// LogSink writes each diagnostic as a warning.
type LogSink struct{}

func (LogSink) Report(ctx context.Context, d domain.Diagnostic) {
	l := logging.NewLogger(ctx)
	l.LogWarnf("catalog.diagnostic", "owner=%s ref=%s reason=%s field=%s msg=%s",
		d.Owner, d.Ref, d.Reason, d.Field, d.Message)
}

// Collector keeps every diagnostic in arrival order.
type Collector struct {
	mu    sync.Mutex
	items []domain.Diagnostic
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Report(_ context.Context, d domain.Diagnostic) {
	c.mu.Lock()
	c.items = append(c.items, d)
	c.mu.Unlock()
}

// Diagnostics returns a copy of what was collected so far.
func (c *Collector) Diagnostics() []domain.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Diagnostic, len(c.items))
	copy(out, c.items)
	return out
}

// Multi fans each diagnostic out to every sink.
func Multi(sinks ...Sink) Sink {
	flat := make(multi, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			flat = append(flat, s)
		}
	}
	return flat
}

type multi []Sink

func (m multi) Report(ctx context.Context, d domain.Diagnostic) {
	for _, s := range m {
		s.Report(ctx, d)
	}
}

// Summarize counts diagnostics per reason.
func Summarize(ds []domain.Diagnostic) map[domain.DiagnosticReason]int {
	out := make(map[domain.DiagnosticReason]int)
	for _, d := range ds {
		out[d.Reason]++
	}
	return out
}
