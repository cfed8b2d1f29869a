package app

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/nsqio/go-nsq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/samber/lo"
	"github.com/shandysiswandi/otpgate/internal/auth"
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

const defaultConfigPath = "./config/config.yaml"

// logOutput receives the JSON application log.
var logOutput io.Writer = os.Stdout

// ErrJWTSecretRequired is returned when jwt.require_secret is set and no secret is configured.
var ErrJWTSecretRequired = errors.New("jwt secret is required")

func loadConfig() (config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		return config.NewViper(path)
	}

	if _, err := os.Stat(defaultConfigPath); err == nil {
		return config.NewViper(defaultConfigPath)
	}

	slog.Info("no config file found, using defaults and environment")
	return config.NewViperFromEnv(), nil
}

func (a *App) initInstrument() error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		Output:           logOutput,
	})
	if err != nil {
		return err
	}

	a.ins = ins
	return nil
}

func (a *App) initLibraries() error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.oid = uid.NewOrderedUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.bcrypt = hash.NewBcrypt(a.config.GetInt("modules.auth.bcrypt_cost"))

	v, err := validator.NewV10Validator()
	if err != nil {
		return err
	}
	a.validator = v

	gen, err := otp.New(a.config.GetString("otp.driver"), a.config.GetString("otp.hotp.secret"))
	if err != nil {
		return err
	}
	a.otp = gen

	return nil
}

func (a *App) initJWT() error {
	secret := a.config.GetString("jwt.secret")
	if secret == "" {
		if a.config.GetBool("jwt.require_secret") {
			return ErrJWTSecretRequired
		}
		slog.Warn("JWT_SECRET is not set, using the insecure default secret")
		secret = config.DefaultJWTSecret
	}

	tok, err := jwt.NewHS256(jwt.Config{
		Secret: []byte(secret),
		Issuer: a.config.GetString("jwt.issuer"),
		TTL:    a.config.GetMinute("jwt.ttl_minutes"),
		Clock:  a.clock,
		UUID:   a.oid,
	})
	if err != nil {
		return err
	}

	a.jwt = tok
	return nil
}

func (a *App) initCache() error {
	if !strings.EqualFold(strings.TrimSpace(a.config.GetString("modules.auth.store")), auth.StoreRedis) {
		return nil
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		return err
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return err
	}

	a.cacheConn = rdb
	return nil
}

func (a *App) initMail() error {
	if !slices.Contains(auth.DeliveryDrivers(a.config), auth.DeliveryMail) {
		return nil
	}

	m, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		return err
	}

	a.mail = m
	return nil
}

func (a *App) initMessaging() error {
	brokers := lo.Intersect(auth.DeliveryDrivers(a.config),
		[]string{messaging.DriverKafka, messaging.DriverNATS, messaging.DriverNSQ})

	a.publishers = make(map[string]messaging.Publisher, len(brokers))
	for _, driver := range brokers {
		pub, err := messaging.NewFromDriver(driver, messaging.FactoryOptions{
			Kafka: messaging.KafkaConfig{
				Brokers:      a.config.GetArray("messaging.kafka.brokers"),
				WriteTimeout: a.config.GetSecond("delivery.timeout_seconds"),
			},
			NATS: messaging.NATSConfig{
				URL: a.config.GetString("messaging.nats.url"),
				Options: []nats.Option{
					nats.Name(a.config.GetString("messaging.nats.name")),
					nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
				},
			},
			NSQ: messaging.NSQConfig{
				ProducerAddr: a.config.GetString("messaging.nsq.producer_addr"),
				Config: func() *nsq.Config {
					cfg := nsq.NewConfig()
					cfg.DialTimeout = a.config.GetSecond("delivery.timeout_seconds")
					return cfg
				}(),
			},
		})
		if err != nil {
			slog.Error("failed to init messaging", "driver", driver, "error", err)
			return err
		}
		a.publishers[driver] = pub
	}

	return nil
}

func (a *App) initHTTPServer() error {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.oid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	a.router.GET("/health", func(*router.Request) (any, error) {
		return map[string]string{"status": "ok"}, nil
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              ":" + a.config.GetString("app.port"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.idle_timeout_seconds"),
	}

	return nil
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				if a.ins == nil {
					return nil
				}
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Messaging",
			fn: func(context.Context) error {
				var errs []error
				for _, pub := range a.publishers {
					errs = append(errs, pub.Close())
				}
				return errors.Join(errs...)
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				if a.mail == nil {
					return nil
				}
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
