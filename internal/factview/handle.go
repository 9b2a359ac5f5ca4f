package factview

import (
	"context"
	"sync"
	"sync/atomic"
)

// BuildFunc produces a fresh view from the current source data.
type BuildFunc func(ctx context.Context) (*View, error)

// Handle publishes an immutable view with lazy, idempotent initialization:
// the first caller triggers the build, later callers reuse the result.
// Rebuild constructs a complete replacement before swapping the pointer, so
// in-flight readers finish against the old view and no caller ever observes
// a partially built one.
type Handle struct {
	mu    sync.Mutex
	view  atomic.Pointer[View]
	build BuildFunc
}

// NewHandle creates a handle that builds views with the given function.
func NewHandle(build BuildFunc) *Handle {
	return &Handle{build: build}
}

// NewStaticHandle wraps an already-built view; Rebuild republishes it
// unchanged. Intended for tests.
func NewStaticHandle(v *View) *Handle {
	h := &Handle{build: func(context.Context) (*View, error) { return v, nil }}
	h.view.Store(v)
	return h
}

// View returns the published view, building it on first use.
func (h *Handle) View(ctx context.Context) (*View, error) {
	if v := h.view.Load(); v != nil {
		return v, nil
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if v := h.view.Load(); v != nil {
		return v, nil
	}

	v, err := h.build(ctx)
	if err != nil {
		return nil, err
	}
	h.view.Store(v)
	return v, nil
}

// Rebuild constructs a new view from the current sources and atomically
// swaps it in. On failure the previous view stays published.
func (h *Handle) Rebuild(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, err := h.build(ctx)
	if err != nil {
		return err
	}
	h.view.Store(v)
	return nil
}
