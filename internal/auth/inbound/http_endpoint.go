package inbound

import (
	"net/http"

	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes the login, OTP, token and protected resource handlers.
type HTTPEndpoint struct {
	uc     uc
	cookie CookieConfig
}

func (h *HTTPEndpoint) Index(*router.Request) (any, error) {
	return IndexResponse{
		Challenge:   "Complete the Authentication Flow",
		Instruction: "Complete the authentication flow and obtain a valid access token.",
	}, nil
}

// Login starts a login session and sends its one-time code out of band.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	return LoginResponse{
		Message:        "OTP sent",
		LoginSessionID: resp.LoginSessionID,
	}, nil
}

// VerifyOTP checks the code and sets the session cookie.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		LoginSessionID: req.LoginSessionID,
		OTP:            otpText(req.OTP),
	})
	if err != nil {
		return nil, err
	}

	return VerifyOTPResponse{
		Message:   "OTP verified",
		SessionID: resp.SessionID,
		cookie: &http.Cookie{
			Name:     h.cookie.Name,
			Value:    resp.SessionID,
			Path:     "/",
			MaxAge:   int(h.cookie.MaxAge.Seconds()),
			HttpOnly: true,
			Secure:   h.cookie.Secure,
		},
	}, nil
}

// Token exchanges the session cookie for an access token.
func (h *HTTPEndpoint) Token(r *router.Request) (any, error) {
	resp, err := h.uc.IssueToken(r.Context(), usecase.IssueTokenInput{
		SessionID: r.GetCookie(h.cookie.Name),
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		AccessToken: resp.AccessToken,
		ExpiresIn:   resp.ExpiresIn,
	}, nil
}

func (h *HTTPEndpoint) Protected(r *router.Request) (any, error) {
	resp, err := h.uc.Protected(r.Context())
	if err != nil {
		return nil, err
	}

	return ProtectedResponse{
		Message:     "Access granted",
		User:        resp.Claims,
		SuccessFlag: resp.SuccessFlag,
	}, nil
}
