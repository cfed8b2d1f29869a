package entity

import (
	"testing"
	"time"
)

func TestLoginSession(t *testing.T) {
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	s := LoginSession{CreatedAt: now, ExpiresAt: now.Add(5 * time.Minute)}

	t.Run("Expired", func(t *testing.T) {
		if s.Expired(now) {
			t.Fatalf("fresh session must not be expired")
		}
		if s.Expired(s.ExpiresAt) {
			t.Fatalf("session must still be valid at ExpiresAt")
		}
		if !s.Expired(s.ExpiresAt.Add(time.Millisecond)) {
			t.Fatalf("session must be expired after ExpiresAt")
		}
	})

	t.Run("Verified", func(t *testing.T) {
		if s.Verified() {
			t.Fatalf("new session must not be verified")
		}
		s.VerifiedAt = now
		if !s.Verified() {
			t.Fatalf("expected verified session")
		}
	})
}
