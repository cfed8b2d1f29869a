package inbound

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
)

type uc interface {
	Login(ctx context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error)
	VerifyOTP(ctx context.Context, in usecase.VerifyOTPInput) (*usecase.VerifyOTPOutput, error)
	IssueToken(ctx context.Context, in usecase.IssueTokenInput) (*usecase.IssueTokenOutput, error)
	Protected(ctx context.Context) (*usecase.ProtectedOutput, error)
}

// CookieConfig describes the session cookie set after OTP verification.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

func RegisterHTTPEndpoint(r *router.Router, uc uc, cookie CookieConfig) {
	if cookie.Name == "" {
		cookie.Name = "session_token"
	}
	if cookie.MaxAge <= 0 {
		cookie.MaxAge = 15 * time.Minute
	}

	end := &HTTPEndpoint{uc: uc, cookie: cookie}

	r.GET("/", end.Index)

	r.POST("/auth/login", end.Login)
	r.POST("/auth/verify-otp", end.VerifyOTP)
	r.POST("/auth/token", end.Token)

	r.GET("/protected", end.Protected) // need authenticated
}
