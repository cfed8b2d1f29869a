package usecase

import (
	"context"
	"encoding/base64"

	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
)

const completionSuffix = "_COMPLETED_ASSIGNMENT"

type ProtectedOutput struct {
	Claims      jwt.Claims
	SuccessFlag string
}

// Protected returns the caller's claims and the completion flag for the flow.
func (s *Usecase) Protected(ctx context.Context) (*ProtectedOutput, error) {
	_, span := s.startSpan(ctx, "Protected")
	defer span.End()

	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, goerror.NewUnauthorized("Unauthorized")
	}

	return &ProtectedOutput{
		Claims:      *clm,
		SuccessFlag: "FLAG-" + CompletionMarker(clm.Email),
	}, nil
}

// CompletionMarker is the standard base64 encoding of email followed by
// "_COMPLETED_ASSIGNMENT".
func CompletionMarker(email string) string {
	return base64.StdEncoding.EncodeToString([]byte(email + completionSuffix))
}
