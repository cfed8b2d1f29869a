package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

func TestSweep(t *testing.T) {
	// Arrange
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewManual(now.Add(10 * time.Minute))
	m := NewMemory()
	_ = m.CreateSession(context.Background(), newSession("stale", now))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	// Act
	go func() { done <- Sweep(ctx, m, clk, 5*time.Millisecond, time.Minute) }()

	deadline := time.After(2 * time.Second)
	for {
		if _, err := m.GetSession(ctx, "stale"); errors.Is(err, goerror.ErrNotFound) {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("session was not swept")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	// Assert
	if err := <-done; err != nil {
		t.Fatalf("Sweep returned %v", err)
	}
}
