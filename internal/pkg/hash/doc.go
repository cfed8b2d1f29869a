// Package hash provides one-way hashing for secrets submitted at login.
//
// When password hashing is enabled the session store only ever sees the
// bcrypt digest, never the submitted plaintext.
package hash
