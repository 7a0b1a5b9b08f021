package analyzer

import (
	"context"
	"sync/atomic"
)

// ProgressFunc receives one completed item: how many are done, how many
// are expected, and the path just finished.
type ProgressFunc func(current, total int, path string)

// Tracker counts completed files during a graph extraction and relays
// each completion to a callback. Workers tick it concurrently.
type Tracker struct {
	total    atomic.Int32
	current  atomic.Int32
	callback ProgressFunc
}

// NewTracker wraps a callback; a nil callback makes Tick a pure counter.
func NewTracker(callback ProgressFunc) *Tracker {
	return &Tracker{callback: callback}
}

// Add grows the expected total by n, once the file set is known.
func (t *Tracker) Add(n int) {
	t.total.Add(int32(n))
}

// SetTotal replaces the expected total outright.
func (t *Tracker) SetTotal(n int) {
	t.total.Store(int32(n))
}

// Tick records one completed file and invokes the callback with the
// updated counts.
func (t *Tracker) Tick(path string) {
	current := int(t.current.Add(1))
	total := int(t.total.Load())
	if t.callback != nil {
		t.callback(current, total, path)
	}
}

// Current returns how many files have completed.
func (t *Tracker) Current() int {
	return int(t.current.Load())
}

// Total returns how many files are expected.
func (t *Tracker) Total() int {
	return int(t.total.Load())
}

type trackerKey struct{}

// WithTracker attaches a tracker to the context so the parallel file
// layer can report completions without a direct dependency on the CLI.
func WithTracker(ctx context.Context, t *Tracker) context.Context {
	return context.WithValue(ctx, trackerKey{}, t)
}

// TrackerFromContext returns the attached tracker, or nil when the
// caller did not ask for progress.
func TrackerFromContext(ctx context.Context) *Tracker {
	if t, ok := ctx.Value(trackerKey{}).(*Tracker); ok {
		return t
	}
	return nil
}
