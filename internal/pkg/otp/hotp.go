package otp

import (
	"errors"
	"strconv"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
	"go.uber.org/atomic"
)

// ErrSecretRequired is returned when the HOTP generator has no shared secret.
var ErrSecretRequired = errors.New("otp: hotp secret is required")

// HOTP derives codes from a base32 secret and an in-process counter.
//
// The counter starts at zero on every boot, so codes repeat across restarts.
type HOTP struct {
	secret  string
	counter *atomic.Uint64
}

// NewHOTP returns an HOTP generator for the given base32 secret.
func NewHOTP(secret string) (*HOTP, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}

	return &HOTP{
		secret:  secret,
		counter: atomic.NewUint64(0),
	}, nil
}

// Generate returns the code for the next counter value, folded into [MinCode, MaxCode].
func (h *HOTP) Generate() (int, error) {
	counter := h.counter.Inc() - 1

	code, err := hotp.GenerateCodeCustom(h.secret, counter, hotp.ValidateOpts{
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(code)
	if err != nil {
		return 0, err
	}

	return MinCode + n%span, nil
}

// Counter returns the counter value the next Generate call will use.
func (h *HOTP) Counter() uint64 {
	return h.counter.Load()
}
