package otp

import (
	"crypto/rand"
	"io"
	"math/big"
)

// Random draws codes uniformly from a cryptographic random source.
type Random struct {
	reader io.Reader
}

// NewRandom returns a Random generator backed by crypto/rand.
func NewRandom() *Random {
	return &Random{reader: rand.Reader}
}

// Generate returns a uniformly distributed code.
func (r *Random) Generate() (int, error) {
	n, err := rand.Int(r.reader, big.NewInt(span))
	if err != nil {
		return 0, err
	}

	return MinCode + int(n.Int64()), nil
}
