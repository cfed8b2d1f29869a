package uid

import "github.com/google/uuid"

// UUID generates RFC 9562 UUID strings.
type UUID struct {
	ordered bool
}

// NewUUID returns a generator of random (v4) UUIDs. Session identifiers use it
// so that nothing about one id can be guessed from another.
func NewUUID() *UUID {
	return &UUID{}
}

// NewOrderedUUID returns a generator of time-ordered (v7) UUIDs, used for
// correlation and token ids where sortability helps log reading.
func NewOrderedUUID() *UUID {
	return &UUID{ordered: true}
}

// Generate returns a new UUID string.
func (u *UUID) Generate() string {
	if u.ordered {
		if id, err := uuid.NewV7(); err == nil {
			return id.String()
		}
	}
	return uuid.NewString()
}
