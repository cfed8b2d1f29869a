package otp

import (
	"errors"
	"strings"
)

const (
	// MinCode is the smallest code a generator returns.
	MinCode = 100000
	// MaxCode is the largest code a generator returns.
	MaxCode = 999999

	span = MaxCode - MinCode + 1
)

// ErrUnknownDriver is returned by New when the driver name is not supported.
var ErrUnknownDriver = errors.New("otp: unknown driver")

// Generator produces six-digit one-time codes in [MinCode, MaxCode].
type Generator interface {
	Generate() (int, error)
}

// New builds the generator named by driver ("random" or "hotp").
func New(driver, secret string) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "random":
		return NewRandom(), nil
	case "hotp":
		return NewHOTP(secret)
	default:
		return nil, ErrUnknownDriver
	}
}

// Valid reports whether code is inside the generator range.
func Valid(code int) bool {
	return code >= MinCode && code <= MaxCode
}
