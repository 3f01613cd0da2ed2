package component

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// mockComponent implements Component for testing.
type mockComponent struct {
	name       string
	startErr   error
	stopErr    error
	health     Health
	startOrder *[]string
	stopOrder  *[]string
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(ctx context.Context) error {
	if m.startOrder != nil {
		*m.startOrder = append(*m.startOrder, m.name)
	}
	return m.startErr
}
func (m *mockComponent) Stop(ctx context.Context) error {
	if m.stopOrder != nil {
		*m.stopOrder = append(*m.stopOrder, m.name)
	}
	return m.stopErr
}
func (m *mockComponent) Health(ctx context.Context) Health {
	return m.health
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("expected non-nil registry")
	}
}

func TestRegister(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "executor", health: Health{Name: "executor", Status: StatusHealthy}}

	if err := r.Register(c); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "executor"}
	r.Register(c)

	err := r.Register(&mockComponent{name: "executor"})
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestGet(t *testing.T) {
	r := NewRegistry()
	c := &mockComponent{name: "executor"}
	r.Register(c)

	got := r.Get("executor")
	if got == nil {
		t.Fatal("expected to get registered component")
	}
	if got.Name() != "executor" {
		t.Errorf("expected 'executor', got %q", got.Name())
	}
}

func TestGetNotFound(t *testing.T) {
	r := NewRegistry()
	got := r.Get("missing")
	if got != nil {
		t.Error("expected nil for unregistered component")
	}
}

func TestStartAll(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{
		name: "executor", startOrder: &order,
		health: Health{Name: "executor", Status: StatusHealthy},
	})
	r.Register(&mockComponent{
		name: "transport", startOrder: &order,
		health: Health{Name: "transport", Status: StatusHealthy},
	})

	if err := r.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}

	if len(order) != 2 {
		t.Fatalf("expected 2 starts, got %d", len(order))
	}
	if order[0] != "executor" || order[1] != "transport" {
		t.Errorf("expected start order [executor, transport], got %v", order)
	}
}

func TestStartAllError(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "executor", startErr: fmt.Errorf("pool misconfigured")})

	err := r.StartAll(context.Background())
	if err == nil {
		t.Error("expected error from StartAll")
	}
}

func TestStopAllReverseOrder(t *testing.T) {
	r := NewRegistry()
	order := []string{}

	r.Register(&mockComponent{name: "executor", stopOrder: &order, health: Health{Name: "executor", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "transport", stopOrder: &order, health: Health{Name: "transport", Status: StatusHealthy}})
	r.Register(&mockComponent{name: "metadata", stopOrder: &order, health: Health{Name: "metadata", Status: StatusHealthy}})

	r.StartAll(context.Background())
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}

	if len(order) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(order))
	}
	if order[0] != "metadata" || order[1] != "transport" || order[2] != "executor" {
		t.Errorf("expected reverse stop order [metadata, transport, executor], got %v", order)
	}
}

func TestStopAllSkipsUnstarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&mockComponent{name: "executor", stopOrder: &order})

	// Don't start, then stop
	if err := r.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll failed: %v", err)
	}
	if len(order) != 0 {
		t.Errorf("expected 0 stops for unstarted components, got %d", len(order))
	}
}

func TestStopAllWithErrors(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name: "executor", stopErr: fmt.Errorf("stop failed"),
		health: Health{Name: "executor", Status: StatusHealthy},
	})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	if err == nil {
		t.Error("expected error from StopAll")
	}
}

func TestStopAllJoinsErrors(t *testing.T) {
	errExecutor := errors.New("executor drain timed out")
	errTransport := errors.New("transport close failed")
	r := NewRegistry()
	r.Register(&mockComponent{name: "executor", stopErr: errExecutor})
	r.Register(&mockComponent{name: "transport", stopErr: errTransport})
	r.Register(&mockComponent{name: "telemetry"})
	r.StartAll(context.Background())

	err := r.StopAll(context.Background())
	for _, want := range []error{errExecutor, errTransport} {
		if !errors.Is(err, want) {
			t.Errorf("expected %v to be found in %v", want, err)
		}
	}
	if !strings.Contains(err.Error(), "failed to stop executor") {
		t.Errorf("expected component name in %q", err.Error())
	}
}

func TestHealthAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{
		name:   "executor",
		health: Health{Name: "executor", Status: StatusHealthy, Message: "pool=50"},
	})
	r.Register(&mockComponent{
		name:   "transport",
		health: Health{Name: "transport", Status: StatusUnhealthy, Message: "timeout"},
	})

	results := r.HealthAll(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != StatusHealthy {
		t.Errorf("expected executor healthy, got %s", results[0].Status)
	}
	if results[1].Status != StatusUnhealthy {
		t.Errorf("expected transport unhealthy, got %s", results[1].Status)
	}
}

func TestHealthStatusConstants(t *testing.T) {
	if StatusHealthy != "healthy" {
		t.Errorf("expected 'healthy', got %q", StatusHealthy)
	}
	if StatusUnhealthy != "unhealthy" {
		t.Errorf("expected 'unhealthy', got %q", StatusUnhealthy)
	}
	if StatusDegraded != "degraded" {
		t.Errorf("expected 'degraded', got %q", StatusDegraded)
	}
}

type describedComponent struct {
	mockComponent
}

func (d *describedComponent) Describe() Description {
	return Description{Type: "executor", Details: "pool=4"}
}

func TestStartAllSkipsStarted(t *testing.T) {
	r := NewRegistry()
	order := []string{}
	r.Register(&describedComponent{mockComponent{name: "executor", startOrder: &order}})

	r.StartAll(context.Background())
	r.StartAll(context.Background())
	if len(order) != 1 {
		t.Errorf("expected 1 start, got %d", len(order))
	}
}

func TestAll(t *testing.T) {
	r := NewRegistry()
	r.Register(&mockComponent{name: "executor"})
	r.Register(&mockComponent{name: "transport"})
	all := r.All()
	if len(all) != 2 || all[0].Name() != "executor" {
		t.Errorf("unexpected components: %v", all)
	}
}
