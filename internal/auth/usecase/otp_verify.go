package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
)

const msgVerifyFailed = "OTP verification failed"

type VerifyOTPInput struct {
	LoginSessionID string `json:"loginSessionId" validate:"required"`
	// OTP is the submitted code in text form; only its leading integer counts.
	OTP string `json:"otp" validate:"required"`
}

type VerifyOTPOutput struct {
	SessionID string
}

func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput("loginSessionId and otp required", err)
	}

	sess, err := s.store.GetSession(ctx, in.LoginSessionID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "login session not found", "session_id", in.LoginSessionID)
		return nil, goerror.NewUnauthorized("Invalid session")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get login session", "session_id", in.LoginSessionID, "error", err)
		return nil, goerror.NewServer(err, msgVerifyFailed)
	}

	now := s.clock.Now()
	if sess.Expired(now) {
		slog.WarnContext(ctx, "login session expired", "session_id", sess.ID, "expired_at", sess.ExpiresAt)
		return nil, goerror.NewUnauthorized("Session expired")
	}

	code, ok := parseLeadingInt(in.OTP)
	if !ok || !otp.Valid(code) {
		slog.WarnContext(ctx, "otp is not a six-digit number", "session_id", sess.ID)
		return nil, goerror.NewUnauthorized("Invalid OTP")
	}

	consumed, err := s.store.ConsumeOTP(ctx, sess.ID, code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to consume otp", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgVerifyFailed)
	}
	if !consumed {
		slog.WarnContext(ctx, "otp mismatch", "session_id", sess.ID)
		return nil, goerror.NewUnauthorized("Invalid OTP")
	}

	if err := s.store.MarkSessionVerified(ctx, sess.ID, now); err != nil {
		slog.ErrorContext(ctx, "failed to mark session verified", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgVerifyFailed)
	}

	return &VerifyOTPOutput{SessionID: sess.ID}, nil
}

// parseLeadingInt reads the integer at the start of v the way a lenient form
// parser does: leading whitespace and a sign are allowed, a 0x prefix switches
// to hex, and anything after the digits is ignored. It reports false when no
// digit is found or the value does not fit an int.
func parseLeadingInt(v string) (int, bool) {
	v = strings.TrimLeftFunc(v, unicode.IsSpace)

	sign := ""
	if v != "" && (v[0] == '+' || v[0] == '-') {
		if v[0] == '-' {
			sign = "-"
		}
		v = v[1:]
	}

	base, isDigit := 10, isDecimal
	if len(v) > 1 && v[0] == '0' && (v[1] == 'x' || v[1] == 'X') {
		base, isDigit = 16, isHex
		v = v[2:]
	}

	end := 0
	for end < len(v) && isDigit(v[end]) {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.ParseInt(sign+v[:end], base, strconv.IntSize)
	if err != nil {
		return 0, false
	}

	return int(n), true
}

func isDecimal(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDecimal(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
