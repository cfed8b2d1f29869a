// Package store keeps login sessions and their one-time codes.
//
// Memory is the default backend and matches a single-process deployment.
// Redis shares state between replicas; both consume codes with an atomic
// compare-and-delete so a code is accepted at most once.
package store

import (
	"errors"
)

// ErrSessionExists is returned when a session id is already taken.
var ErrSessionExists = errors.New("store: session already exists")
