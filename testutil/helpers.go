package testutil

import (
	"context"
	"testing"
)

// CleanupFunc stops a component started by Setup.
type CleanupFunc func() error

// Setup starts a test component and returns a cleanup function.
func Setup(comp TestComponent) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), comp)
}

// SetupWithContext starts a test component with a custom context and returns a cleanup function.
func SetupWithContext(ctx context.Context, comp TestComponent) (CleanupFunc, error) {
	if err := comp.Start(ctx); err != nil {
		return nil, err
	}
	return func() error {
		return comp.Stop(ctx)
	}, nil
}

// THelper ties component lifecycles to a *testing.T.
type THelper struct {
	t   testing.TB
	ctx context.Context
}

// T wraps t so components started through it are stopped by t.Cleanup.
//
//	cp := testutil.NewControlPlane()
//	testutil.T(t).Setup(cp)
func T(t testing.TB) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext sets a custom context for the helper.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts a component and registers cleanup with testing.T.
func (h *THelper) Setup(comp TestComponent) {
	h.t.Helper()
	if err := comp.Start(h.ctx); err != nil {
		h.t.Fatalf("failed to start component %s: %v", comp.Name(), err)
	}

	h.t.Cleanup(func() {
		if err := comp.Stop(h.ctx); err != nil {
			h.t.Errorf("failed to stop component %s: %v", comp.Name(), err)
		}
	})
}

// Reset resets a component to its initial state.
func (h *THelper) Reset(comp TestComponent) {
	h.t.Helper()
	if err := comp.Reset(h.ctx); err != nil {
		h.t.Fatalf("failed to reset component %s: %v", comp.Name(), err)
	}
}

// Snapshot captures the current state of a component.
func (h *THelper) Snapshot(comp TestComponent) interface{} {
	h.t.Helper()
	snapshot, err := comp.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("failed to snapshot component %s: %v", comp.Name(), err)
	}
	return snapshot
}

// Restore restores a component to a previously captured state.
func (h *THelper) Restore(comp TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := comp.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("failed to restore component %s: %v", comp.Name(), err)
	}
}
