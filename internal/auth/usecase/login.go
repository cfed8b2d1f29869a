package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const msgLoginFailed = "Login failed"

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginOutput struct {
	LoginSessionID string
}

// Login opens a pending session and issues its one-time code. Credentials are
// not checked against any account.
func (s *Usecase) Login(ctx context.Context, in LoginInput) (*LoginOutput, error) {
	ctx, span := s.startSpan(ctx, "Login")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput("Email and password required", err)
	}

	password := in.Password
	if s.hash != nil && s.cfg.GetBool("modules.auth.hash_password") {
		hashed, err := s.hash.Hash(in.Password)
		if err != nil {
			slog.ErrorContext(ctx, "failed to hash login password", "error", err)
			return nil, goerror.NewServer(err, msgLoginFailed)
		}
		password = string(hashed)
	}

	code, err := s.otp.Generate()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp", "error", err)
		return nil, goerror.NewServer(err, msgLoginFailed)
	}

	now := s.clock.Now()
	sess := entity.LoginSession{
		ID:        s.uuid.Generate(),
		Email:     in.Email,
		Password:  password,
		CreatedAt: now,
		ExpiresAt: now.Add(s.loginSessionTTL()),
	}

	if err := s.store.CreateSession(ctx, sess); err != nil {
		slog.ErrorContext(ctx, "failed to store login session", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgLoginFailed)
	}

	if err := s.store.SaveOTP(ctx, sess.ID, code, sess.ExpiresAt.Sub(now)); err != nil {
		slog.ErrorContext(ctx, "failed to store otp", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgLoginFailed)
	}

	if err := s.delivery.Deliver(ctx, entity.OTPIssued{
		SessionID: sess.ID,
		Email:     sess.Email,
		Code:      code,
		ExpiresAt: sess.ExpiresAt,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to deliver otp", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgLoginFailed)
	}

	return &LoginOutput{LoginSessionID: sess.ID}, nil
}
