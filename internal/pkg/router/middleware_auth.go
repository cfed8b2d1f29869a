package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

// middlewareAuthentication requires "Authorization: Bearer <jwt>" on every
// route not listed in publicEndpoints and stores the verified claims in the
// request context.
func middlewareAuthentication(verifier jwt.JWT, publicEndpoints map[string]map[string]struct{}) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if s, ok := publicEndpoints[r.Method]; ok {
				if _, skip := s[matchedRoutePath(r)]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				writeJSON(w, ClientError{Error: "Unauthorized"}, http.StatusUnauthorized)
				return
			}

			token := bearerToken(header)
			if token == "" {
				writeJSON(w, ClientError{Error: "Invalid authorization format"}, http.StatusUnauthorized)
				return
			}

			if verifier == nil {
				writeJSON(w, ClientError{Error: "Invalid token"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				writeJSON(w, ClientError{Error: "Invalid token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}

// bearerToken returns the second space-separated part of header. The scheme
// word is not checked, so a bad scheme surfaces as an invalid token.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
