package entity

import "time"

// OTPIssued describes a freshly generated one-time code that must reach the
// user out-of-band.
type OTPIssued struct {
	SessionID string    `json:"sessionId"`
	Email     string    `json:"email"`
	Code      int       `json:"otp"`
	ExpiresAt time.Time `json:"expiresAt"`
}
