// Package delivery hands freshly issued one-time codes to the user.
//
// The code is always written to the application log. Additional channels
// (mail, broker) run in the background with retries so a slow or broken
// channel never fails a login.
package delivery

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
)

// Channel is an out-of-band route for a code.
type Channel interface {
	Name() string
	Send(ctx context.Context, ev entity.OTPIssued) error
}

type runner interface {
	Go(ctx context.Context, name string, f func(ctx context.Context) error) bool
}

// Config tunes background delivery.
type Config struct {
	// RetryMax is the number of retries after the first attempt.
	RetryMax uint64
	// RetryBase is the first backoff delay; later delays grow exponentially.
	RetryBase time.Duration
	// Timeout bounds one channel's attempts including retries.
	Timeout time.Duration
}

// Dispatcher logs every code and fans it out to the configured channels.
type Dispatcher struct {
	cfg      Config
	runner   runner
	channels []Channel
}

// NewDispatcher builds a Dispatcher. gm may be nil when no channels are given.
func NewDispatcher(cfg Config, gm *goroutine.Manager, channels ...Channel) *Dispatcher {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 200 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	d := &Dispatcher{cfg: cfg, channels: channels}
	if gm != nil {
		d.runner = gm
	}

	return d
}

// Deliver logs the code and schedules every channel. It never waits for them.
func (d *Dispatcher) Deliver(ctx context.Context, ev entity.OTPIssued) error {
	slog.InfoContext(ctx, fmt.Sprintf("[OTP] Session %s generated. OTP: %d", ev.SessionID, ev.Code),
		"session_id", ev.SessionID)

	if len(d.channels) == 0 || d.runner == nil {
		return nil
	}

	// the request context is canceled once the response is written
	bg := context.WithoutCancel(ctx)
	for _, ch := range d.channels {
		name := "otp.delivery." + ch.Name()
		if !d.runner.Go(bg, name, d.send(ch, ev)) {
			slog.WarnContext(ctx, "otp delivery not scheduled", "channel", ch.Name(), "session_id", ev.SessionID)
		}
	}

	return nil
}

func (d *Dispatcher) send(ch Channel, ev entity.OTPIssued) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
		defer cancel()

		b := retry.NewExponential(d.cfg.RetryBase)
		b = retry.WithMaxRetries(d.cfg.RetryMax, b)
		b = retry.WithCappedDuration(5*time.Second, b)

		attempt := 0
		err := retry.Do(ctx, b, func(ctx context.Context) error {
			attempt++
			if err := ch.Send(ctx, ev); err != nil {
				slog.WarnContext(ctx, "otp delivery attempt failed",
					"channel", ch.Name(), "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			slog.ErrorContext(ctx, "otp delivery failed",
				"channel", ch.Name(), "session_id", ev.SessionID, "attempts", attempt, "error", err)
			return nil
		}

		slog.InfoContext(ctx, "otp delivered", "channel", ch.Name(), "session_id", ev.SessionID)
		return nil
	}
}
