package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const msgTokenFailed = "Token generation failed"

type IssueTokenInput struct {
	// SessionID comes from the session cookie set by VerifyOTP.
	SessionID string
}

type IssueTokenOutput struct {
	AccessToken string
	ExpiresIn   int64
}

func (s *Usecase) IssueToken(ctx context.Context, in IssueTokenInput) (*IssueTokenOutput, error) {
	ctx, span := s.startSpan(ctx, "IssueToken")
	defer span.End()

	if in.SessionID == "" {
		return nil, goerror.NewUnauthorized("Unauthorized - valid session required")
	}

	sess, err := s.store.GetSession(ctx, in.SessionID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "token requested for unknown session", "session_id", in.SessionID)
		return nil, goerror.NewUnauthorized("Invalid session")
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to get login session", "session_id", in.SessionID, "error", err)
		return nil, goerror.NewServer(err, msgTokenFailed)
	}

	if !sess.Verified() && s.cfg.GetBool("modules.auth.require_verified_session") {
		slog.WarnContext(ctx, "token requested for unverified session", "session_id", sess.ID)
		return nil, goerror.NewUnauthorized("Invalid session")
	}

	token, err := s.jwt.Generate(sess.ID, sess.Email)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate access token", "session_id", sess.ID, "error", err)
		return nil, goerror.NewServer(err, msgTokenFailed)
	}

	return &IssueTokenOutput{
		AccessToken: token,
		ExpiresIn:   int64(s.jwt.TTL().Seconds()),
	}, nil
}
