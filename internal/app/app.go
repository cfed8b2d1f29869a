package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/redis/go-redis/v9"
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

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uuid      uid.StringID
	oid       uid.StringID
	otp       otp.Generator
	jwt       jwt.JWT

	// resources
	cacheConn  *redis.Client
	mail       mail.Mail
	publishers map[string]messaging.Publisher

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New loads configuration from the environment and wires the application.
// It exits the process when any dependency fails to initialize.
func New() *App {
	cfg, err := loadConfig()
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	app, err := NewWithConfig(cfg)
	if err != nil {
		slog.Error("failed to init application", "error", err)
		os.Exit(1)
	}

	return app
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(cfg config.Config) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
		config: cfg,
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"instrument", app.initInstrument},
		{"libraries", app.initLibraries},
		{"jwt", app.initJWT},
		{"cache", app.initCache},
		{"mail", app.initMail},
		{"messaging", app.initMessaging},
		{"http server", app.initHTTPServer},
		{"modules", app.initModules},
	}

	app.initClosers()

	for _, step := range steps {
		if err := step.fn(); err != nil {
			slog.Error("failed to init "+step.name, "error", err)
			app.Stop(context.Background())
			return nil, err
		}
	}

	return app, nil
}

// Handler returns the root HTTP handler, CORS included.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}
