package domain

import (
	"context"
	"errors"
	"testing"
)

type probe struct{ err error }

func (p probe) HealthCheck(context.Context) error { return p.err }

func TestProbeHealth(t *testing.T) {
	down := errors.New("down")
	if err := ProbeHealth(context.Background(), probe{err: down}); !errors.Is(err, down) {
		t.Errorf("expected forwarded error, got %v", err)
	}
	if err := ProbeHealth(context.Background(), probe{}); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}
	if err := ProbeHealth(context.Background(), struct{}{}); err != nil {
		t.Errorf("value without HealthCheck should be healthy, got %v", err)
	}
	if err := ProbeHealth(context.Background(), nil); err != nil {
		t.Errorf("nil should be healthy, got %v", err)
	}
}
