// Package uid generates identifiers for sessions, tokens and requests.
package uid

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
