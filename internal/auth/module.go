package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/auth/inbound"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/delivery"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/store"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

const (
	StoreMemory = "memory"
	StoreRedis  = "redis"

	DeliveryLog  = "log"
	DeliveryMail = "mail"
)

var (
	ErrUnknownStore    = errors.New("auth: unknown store driver")
	ErrRedisRequired   = errors.New("auth: redis store requires a redis client")
	ErrUnknownDelivery = errors.New("auth: unknown delivery driver")
	ErrChannelMissing  = errors.New("auth: delivery channel is not configured")
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	OTP        otp.Generator              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`

	// optional, depending on modules.auth.store, modules.auth.hash_password and delivery.drivers
	CacheConn  redis.UniversalClient
	Bcrypt     hash.Hash
	Mail       mail.Mail
	Publishers map[string]messaging.Publisher
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	st, err := newStore(dep)
	if err != nil {
		return err
	}

	channels, err := newChannels(dep)
	if err != nil {
		return err
	}

	dispatcher := delivery.NewDispatcher(delivery.Config{
		RetryMax:  uint64(dep.Config.GetUint("delivery.retry_max")),
		RetryBase: time.Duration(dep.Config.GetInt("delivery.retry_base_millis")) * time.Millisecond,
		Timeout:   dep.Config.GetSecond("delivery.timeout_seconds"),
	}, dep.Goroutine, channels...)

	uc := usecase.New(usecase.Dependency{
		Store:      st,
		Delivery:   dispatcher,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Hash:       dep.Bcrypt,
		UUID:       dep.UUID,
		OTP:        dep.OTP,
		Clock:      dep.Clock,
		JWT:        dep.JWT,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, inbound.CookieConfig{
		Name:   dep.Config.GetString("modules.auth.cookie_name"),
		MaxAge: dep.Config.GetSecond("modules.auth.cookie_max_age_seconds"),
		Secure: dep.Config.GetBool("modules.auth.cookie_secure"),
	})

	return nil
}

type sessionStore interface {
	CreateSession(ctx context.Context, s entity.LoginSession) error
	GetSession(ctx context.Context, id string) (*entity.LoginSession, error)
	MarkSessionVerified(ctx context.Context, id string, at time.Time) error
	SaveOTP(ctx context.Context, sessionID string, code int, ttl time.Duration) error
	ConsumeOTP(ctx context.Context, sessionID string, code int) (bool, error)
}

func newStore(dep Dependency) (sessionStore, error) {
	driver := strings.ToLower(strings.TrimSpace(dep.Config.GetString("modules.auth.store")))

	switch driver {
	case "", StoreMemory:
		mem := store.NewMemory()

		if interval := dep.Config.GetSecond("modules.auth.sweep_interval_seconds"); interval > 0 {
			retention := dep.Config.GetSecond("modules.auth.cookie_max_age_seconds")
			dep.Goroutine.Go(dep.Ctx, "auth.session.sweep", func(ctx context.Context) error {
				return store.Sweep(ctx, mem, dep.Clock, interval, retention)
			})
		}

		return mem, nil

	case StoreRedis:
		if dep.CacheConn == nil {
			return nil, ErrRedisRequired
		}

		return store.NewRedis(
			dep.CacheConn,
			dep.Config.GetString("redis.prefix"),
			dep.Config.GetSecond("redis.session_retention_seconds"),
		), nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStore, driver)
	}
}

// DeliveryDrivers returns the configured delivery drivers without duplicates
// and without the log driver, which always runs.
func DeliveryDrivers(cfg config.Config) []string {
	drivers := lo.Map(cfg.GetArray("delivery.drivers"), func(d string, _ int) string {
		return strings.ToLower(d)
	})

	return lo.Without(lo.Uniq(drivers), DeliveryLog)
}

func newChannels(dep Dependency) ([]delivery.Channel, error) {
	topic := dep.Config.GetString("delivery.topic")

	var channels []delivery.Channel
	for _, driver := range DeliveryDrivers(dep.Config) {
		switch driver {
		case DeliveryMail:
			if dep.Mail == nil {
				return nil, fmt.Errorf("%w: %s", ErrChannelMissing, driver)
			}
			channels = append(channels, delivery.NewMail(dep.Mail, dep.Instrument))

		case messaging.DriverKafka, messaging.DriverNATS, messaging.DriverNSQ:
			pub, ok := dep.Publishers[driver]
			if !ok || pub == nil {
				return nil, fmt.Errorf("%w: %s", ErrChannelMissing, driver)
			}
			channels = append(channels, delivery.NewBroker(driver, pub, topic, dep.Instrument))

		default:
			return nil, fmt.Errorf("%w: %s", ErrUnknownDelivery, driver)
		}
	}

	return channels, nil
}
