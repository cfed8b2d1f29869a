package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

const defaultLoginSessionTTL = 5 * time.Minute

type repoStore interface {
	CreateSession(ctx context.Context, s entity.LoginSession) error
	GetSession(ctx context.Context, id string) (*entity.LoginSession, error)
	MarkSessionVerified(ctx context.Context, id string, at time.Time) error

	SaveOTP(ctx context.Context, sessionID string, code int, ttl time.Duration) error
	ConsumeOTP(ctx context.Context, sessionID string, code int) (bool, error)
}

type otpDelivery interface {
	Deliver(ctx context.Context, ev entity.OTPIssued) error
}

type Usecase struct {
	store     repoStore
	delivery  otpDelivery
	validator validator.Validator
	cfg       config.Config
	hash      hash.Hash
	uuid      uid.StringID
	otp       otp.Generator
	clock     clock.Clocker
	jwt       jwt.JWT
	ins       instrument.Instrumentation
}

type Dependency struct {
	Store      repoStore
	Delivery   otpDelivery
	Validator  validator.Validator
	Config     config.Config
	Hash       hash.Hash
	UUID       uid.StringID
	OTP        otp.Generator
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		delivery:  dep.Delivery,
		validator: dep.Validator,
		cfg:       dep.Config,
		hash:      dep.Hash,
		uuid:      dep.UUID,
		otp:       dep.OTP,
		clock:     dep.Clock,
		jwt:       dep.JWT,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}

func (s *Usecase) loginSessionTTL() time.Duration {
	if ttl := s.cfg.GetSecond("modules.auth.login_session_ttl_seconds"); ttl > 0 {
		return ttl
	}
	return defaultLoginSessionTTL
}
