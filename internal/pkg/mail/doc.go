// Package mail sends email, used to deliver one-time codes out-of-band.
//
// Callers depend on the Mail interface; SMTP is the only implementation.
package mail
