package entity

import "time"

// LoginSession is a pending login created by a successful credential
// submission and keyed by its opaque ID.
//
// Password holds whatever the login usecase chose to store: the submitted
// plaintext by default, or a bcrypt digest when hashing is enabled.
type LoginSession struct {
	ID         string
	Email      string
	Password   string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	VerifiedAt time.Time
}

// Expired reports whether the session can no longer be OTP-verified at now.
// A session is still valid at exactly ExpiresAt.
func (s LoginSession) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Verified reports whether the session passed OTP verification.
func (s LoginSession) Verified() bool {
	return !s.VerifiedAt.IsZero()
}
