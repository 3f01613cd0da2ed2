package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/kbukum/cloudkit/component"
	"github.com/kbukum/cloudkit/credentials"
	"github.com/kbukum/cloudkit/execution"
	"github.com/kbukum/cloudkit/transport"
)

// SpyCall is one recorded dispatch.
type SpyCall struct {
	Request      *transport.Request
	InvocationID string
	Credentials  *credentials.Credentials
}

// SpyResult scripts the outcome of one dispatch.
type SpyResult struct {
	Response *transport.Response
	Err      error
	// Delay holds the dispatch until it elapses or the context is done.
	Delay time.Duration
	// Wait, if set, holds the dispatch until it is closed or the context is done.
	Wait <-chan struct{}
}

// SpyTransport is a transport.Dispatcher that returns scripted results in
// order and records every call. Once the script is exhausted it answers 200
// with an empty JSON object.
type SpyTransport struct {
	mu      sync.Mutex
	script  []SpyResult
	calls   []SpyCall
	started bool
}

var (
	_ transport.Dispatcher = (*SpyTransport)(nil)
	_ TestComponent        = (*SpyTransport)(nil)
)

// NewSpyTransport creates an empty spy.
func NewSpyTransport() *SpyTransport {
	return &SpyTransport{}
}

// Enqueue appends results to the script.
func (s *SpyTransport) Enqueue(results ...SpyResult) *SpyTransport {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = append(s.script, results...)
	return s
}

// RespondBody scripts a 200 response with body.
func (s *SpyTransport) RespondBody(body string) *SpyTransport {
	return s.Enqueue(SpyResult{Response: &transport.Response{
		StatusCode: http.StatusOK,
		Headers:    http.Header{},
		Body:       []byte(body),
	}})
}

// RespondError scripts a service error payload.
func (s *SpyTransport) RespondError(status int, headers http.Header, body string) *SpyTransport {
	if headers == nil {
		headers = http.Header{}
	}
	return s.Enqueue(SpyResult{Err: &transport.ErrorPayload{
		StatusCode: status,
		Headers:    headers,
		Body:       []byte(body),
	}})
}

// Fail scripts a dispatch failure.
func (s *SpyTransport) Fail(err error) *SpyTransport {
	return s.Enqueue(SpyResult{Err: err})
}

// Dispatch implements transport.Dispatcher.
func (s *SpyTransport) Dispatch(ctx context.Context, req *transport.Request, ec *execution.Context) (*transport.Response, error) {
	call := SpyCall{Request: req}
	if ec != nil {
		ec.RecordAttempt(ctx)
		call.InvocationID = ec.ID
		call.Credentials = ec.Credentials()
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	var result SpyResult
	if len(s.script) > 0 {
		result = s.script[0]
		s.script = s.script[1:]
	} else {
		result = SpyResult{Response: &transport.Response{StatusCode: http.StatusOK, Headers: http.Header{}, Body: []byte("{}")}}
	}
	s.mu.Unlock()

	if err := hold(ctx, result); err != nil {
		return nil, err
	}
	if result.Err != nil {
		return nil, result.Err
	}
	return result.Response, nil
}

func hold(ctx context.Context, r SpyResult) error {
	if r.Delay > 0 {
		timer := time.NewTimer(r.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	if r.Wait != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.Wait:
		}
	}
	return nil
}

// Calls returns the recorded dispatches.
func (s *SpyTransport) Calls() []SpyCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SpyCall(nil), s.calls...)
}

// CallCount returns the number of recorded dispatches.
func (s *SpyTransport) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

// LastCall returns the most recent dispatch, or false if there was none.
func (s *SpyTransport) LastCall() (SpyCall, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return SpyCall{}, false
	}
	return s.calls[len(s.calls)-1], true
}

// Name implements component.Component.
func (s *SpyTransport) Name() string { return "spy-transport" }

// Start implements component.Component.
func (s *SpyTransport) Start(context.Context) error {
	s.mu.Lock()
	s.started = true
	s.mu.Unlock()
	return nil
}

// Stop implements component.Component.
func (s *SpyTransport) Stop(context.Context) error {
	s.mu.Lock()
	s.started = false
	s.mu.Unlock()
	return nil
}

// Health implements component.Component.
func (s *SpyTransport) Health(context.Context) component.Health {
	s.mu.Lock()
	defer s.mu.Unlock()
	status := component.StatusUnhealthy
	if s.started {
		status = component.StatusHealthy
	}
	return component.Health{Name: s.Name(), Status: status}
}

// Reset drops the script and the recorded calls.
func (s *SpyTransport) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = nil
	s.calls = nil
	return nil
}

type spySnapshot struct {
	script []SpyResult
	calls  []SpyCall
}

// Snapshot captures the script and the recorded calls.
func (s *SpyTransport) Snapshot(context.Context) (interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return spySnapshot{
		script: append([]SpyResult(nil), s.script...),
		calls:  append([]SpyCall(nil), s.calls...),
	}, nil
}

// Restore returns to a state captured by Snapshot.
func (s *SpyTransport) Restore(_ context.Context, snapshot interface{}) error {
	snap, ok := snapshot.(spySnapshot)
	if !ok {
		return fmt.Errorf("testutil: unexpected spy snapshot %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.script = snap.script
	s.calls = snap.calls
	return nil
}
