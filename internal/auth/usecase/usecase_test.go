package usecase

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/store"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

var errBoom = errors.New("boom")

type fixedOTP struct {
	code int
	err  error
}

func (f fixedOTP) Generate() (int, error) { return f.code, f.err }

type seqID struct{ n int }

func (s *seqID) Generate() string {
	s.n++
	return "sid-" + strconv.Itoa(s.n)
}

type fakeDelivery struct {
	events []entity.OTPIssued
	err    error
}

func (f *fakeDelivery) Deliver(_ context.Context, ev entity.OTPIssued) error {
	f.events = append(f.events, ev)
	return f.err
}

// brokenStore wraps Memory and fails the calls whose error field is set.
type brokenStore struct {
	*store.Memory
	createErr  error
	getErr     error
	markErr    error
	saveErr    error
	consumeErr error
	otpTTL     time.Duration
}

func (b *brokenStore) CreateSession(ctx context.Context, s entity.LoginSession) error {
	if b.createErr != nil {
		return b.createErr
	}
	return b.Memory.CreateSession(ctx, s)
}

func (b *brokenStore) GetSession(ctx context.Context, id string) (*entity.LoginSession, error) {
	if b.getErr != nil {
		return nil, b.getErr
	}
	return b.Memory.GetSession(ctx, id)
}

func (b *brokenStore) MarkSessionVerified(ctx context.Context, id string, at time.Time) error {
	if b.markErr != nil {
		return b.markErr
	}
	return b.Memory.MarkSessionVerified(ctx, id, at)
}

func (b *brokenStore) SaveOTP(ctx context.Context, id string, code int, ttl time.Duration) error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.otpTTL = ttl
	return b.Memory.SaveOTP(ctx, id, code, ttl)
}

func (b *brokenStore) ConsumeOTP(ctx context.Context, id string, code int) (bool, error) {
	if b.consumeErr != nil {
		return false, b.consumeErr
	}
	return b.Memory.ConsumeOTP(ctx, id, code)
}

type fixture struct {
	uc       *Usecase
	store    *brokenStore
	delivery *fakeDelivery
	clock    *clock.Manual
	cfg      *config.Viper
	jwt      jwt.JWT
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	clk := clock.NewManual(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	tok, err := jwt.NewHS256(jwt.Config{
		Secret: []byte("test-secret"),
		TTL:    15 * time.Minute,
		Clock:  clk,
		UUID:   &seqID{},
	})
	if err != nil {
		t.Fatalf("jwt: %v", err)
	}

	f := &fixture{
		store:    &brokenStore{Memory: store.NewMemory()},
		delivery: &fakeDelivery{},
		clock:    clk,
		cfg:      config.NewViperFromEnv(),
		jwt:      tok,
	}
	f.uc = New(Dependency{
		Store:      f.store,
		Delivery:   f.delivery,
		Validator:  v,
		Config:     f.cfg,
		UUID:       &seqID{},
		OTP:        fixedOTP{code: 482913},
		Clock:      clk,
		JWT:        tok,
		Instrument: instrument.NewNoop(),
	})

	return f
}

func assertCode(t *testing.T, err error, status int, msg string) {
	t.Helper()

	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *goerror.Error, got %v", err)
	}
	if gerr.StatusCode() != status || gerr.Msg() != msg {
		t.Fatalf("got %d %q, want %d %q", gerr.StatusCode(), gerr.Msg(), status, msg)
	}
}
