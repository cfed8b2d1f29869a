// Package clock provides a tiny time abstraction.
//
// Session expiry and token lifetimes depend on the Clocker interface instead of
// calling time.Now() directly, so tests can drive time with a Manual clock.
package clock
