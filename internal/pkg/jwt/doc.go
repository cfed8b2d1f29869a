// Package jwt is helpers for working with JSON Web Tokens (JWT).
//
// It includes:
//   - A typed Claims wrapper (registered claims + the login email and session id).
//   - A symmetric HMAC implementation for generating and verifying access tokens.
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
