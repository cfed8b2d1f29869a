// Package otp generates the numeric one-time codes handed out after login.
//
// Two generators are available: Random draws each code from crypto/rand and
// HOTP derives codes from a shared secret and a monotonically increasing
// counter (RFC 4226), which lets an operator reproduce codes out-of-band.
package otp
