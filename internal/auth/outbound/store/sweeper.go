package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
)

type expirer interface {
	DeleteExpired(ctx context.Context, now time.Time, verifiedRetention time.Duration) (int, error)
}

// Sweep deletes expired sessions every interval until ctx is done.
//
// Unverified sessions go as soon as they expire; verified ones are kept for
// verifiedRetention after verification so their session cookie stays usable.
func Sweep(ctx context.Context, st expirer, clk clock.Clocker, interval, verifiedRetention time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := st.DeleteExpired(ctx, clk.Now(), verifiedRetention)
			if err != nil {
				slog.ErrorContext(ctx, "failed to sweep expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.InfoContext(ctx, "expired sessions swept", "count", n)
			}
		}
	}
}
