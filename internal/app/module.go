package app

import (
	"github.com/shandysiswandi/otpgate/internal/auth"
)

func (a *App) initModules() error {
	if !a.config.GetBool("modules.auth.enabled") {
		return nil
	}

	deps := auth.Dependency{
		Ctx:        a.ctx,
		Goroutine:  a.goroutine,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		UUID:       a.uuid,
		Clock:      a.clock,
		OTP:        a.otp,
		Validator:  a.validator,
		JWT:        a.jwt,
		Bcrypt:     a.bcrypt,
		Mail:       a.mail,
		Publishers: a.publishers,
	}
	if a.cacheConn != nil {
		deps.CacheConn = a.cacheConn
	}

	return auth.New(deps)
}
