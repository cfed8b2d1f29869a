package router

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// maxBodyBytes caps the JSON body a handler will decode.
const maxBodyBytes = 1 << 20

// Request wraps http.Request with helpers for inbound handlers.
type Request struct {
	// Request is the underlying http.Request.
	*http.Request
}

// GetCookie returns the value of the named cookie, or "" when absent.
func (r *Request) GetCookie(name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// DecodeBody decodes a JSON body into dst.
//
// An absent or empty body leaves dst untouched so that the handler's own
// required-field checks decide the response. Unknown fields are ignored.
func (r *Request) DecodeBody(dst any) error {
	if r == nil || r.Body == nil {
		return nil
	}

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return goerror.NewInvalidFormat("Invalid JSON body")
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return goerror.NewInvalidFormat("Invalid JSON body")
	}

	return nil
}
