package store

import (
	"context"
	"sync"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// Memory is an in-process store guarded by a single RWMutex.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]entity.LoginSession
	otps     map[string]int
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]entity.LoginSession),
		otps:     make(map[string]int),
	}
}

func (m *Memory) CreateSession(_ context.Context, s entity.LoginSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; ok {
		return ErrSessionExists
	}
	m.sessions[s.ID] = s

	return nil
}

func (m *Memory) GetSession(_ context.Context, id string) (*entity.LoginSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}

	return &s, nil
}

func (m *Memory) MarkSessionVerified(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return goerror.ErrNotFound
	}
	s.VerifiedAt = at
	m.sessions[id] = s

	return nil
}

// SaveOTP stores code for sessionID, replacing any previous code. Expiry is
// enforced through the owning session, so ttl is ignored.
func (m *Memory) SaveOTP(_ context.Context, sessionID string, code int, _ time.Duration) error {
	m.mu.Lock()
	m.otps[sessionID] = code
	m.mu.Unlock()

	return nil
}

// ConsumeOTP deletes the stored code and returns true only when it equals code.
// A mismatch leaves the stored code in place.
func (m *Memory) ConsumeOTP(_ context.Context, sessionID string, code int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.otps[sessionID]
	if !ok || stored != code {
		return false, nil
	}
	delete(m.otps, sessionID)

	return true, nil
}

// DeleteExpired removes unverified sessions past their expiry and verified
// sessions older than verifiedRetention, along with their codes.
func (m *Memory) DeleteExpired(_ context.Context, now time.Time, verifiedRetention time.Duration) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if !sweepable(s, now, verifiedRetention) {
			continue
		}
		delete(m.sessions, id)
		delete(m.otps, id)
		removed++
	}

	return removed, nil
}

func sweepable(s entity.LoginSession, now time.Time, verifiedRetention time.Duration) bool {
	if s.Verified() {
		return now.After(s.VerifiedAt.Add(verifiedRetention))
	}
	return s.Expired(now)
}
