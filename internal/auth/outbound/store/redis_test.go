package store

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

func newTestRedis(t *testing.T, retention time.Duration, hooks ...redis.Hook) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	for _, h := range hooks {
		client.AddHook(h)
	}
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, "test", retention), mr
}

// failingHook makes script calls return errBoom while fail is set. With
// after set the script still runs on the server and only the reply is lost.
type failingHook struct {
	fail  atomic.Bool
	after bool
}

var errBoom = errors.New("boom")

func (h *failingHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h *failingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if !h.fail.Load() || !strings.HasPrefix(cmd.Name(), "eval") {
			return next(ctx, cmd)
		}
		if h.after {
			// NOSCRIPT must reach Script.Run so it falls back to EVAL.
			if err := next(ctx, cmd); err != nil {
				return err
			}
		}
		cmd.SetErr(errBoom)
		return errBoom
	}
}

func (h *failingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedis_CreateSessionFailure(t *testing.T) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	t.Run("failed write leaves nothing behind", func(t *testing.T) {
		// Arrange
		hook := &failingHook{}
		hook.fail.Store(true)
		r, mr := newTestRedis(t, time.Minute, hook)

		// Act
		err := r.CreateSession(ctx, newSession("s1", now))

		// Assert
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if keys := mr.Keys(); len(keys) != 0 {
			t.Fatalf("leftover keys %v", keys)
		}

		hook.fail.Store(false)
		if _, err := r.GetSession(ctx, "s1"); !errors.Is(err, goerror.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
		if err := r.CreateSession(ctx, newSession("s1", now)); err != nil {
			t.Fatalf("retry failed: %v", err)
		}
	})

	t.Run("lost reply still leaves a complete session", func(t *testing.T) {
		// Arrange
		hook := &failingHook{after: true}
		hook.fail.Store(true)
		r, mr := newTestRedis(t, time.Minute, hook)

		// Act
		err := r.CreateSession(ctx, newSession("s1", now))

		// Assert
		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		hook.fail.Store(false)
		got, getErr := r.GetSession(ctx, "s1")
		if getErr != nil {
			t.Fatalf("unexpected error: %v", getErr)
		}
		if got.Email != "a@b.c" || !got.ExpiresAt.Equal(now.Add(5*time.Minute)) {
			t.Fatalf("partial session %+v", got)
		}
		if ttl := mr.TTL("test:session:s1"); ttl != 6*time.Minute {
			t.Fatalf("ttl = %v, want 6m", ttl)
		}
	})
}

func TestRedis_Sessions(t *testing.T) {
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	t.Run("create and get", func(t *testing.T) {
		// Arrange
		r, mr := newTestRedis(t, 0)

		// Act
		err := r.CreateSession(ctx, newSession("s1", now))
		got, getErr := r.GetSession(ctx, "s1")

		// Assert
		if err != nil || getErr != nil {
			t.Fatalf("unexpected errors: %v %v", err, getErr)
		}
		if got.ID != "s1" || got.Email != "a@b.c" || got.Password != "x" {
			t.Fatalf("got %+v", got)
		}
		if !got.CreatedAt.Equal(now) || !got.ExpiresAt.Equal(now.Add(5*time.Minute)) {
			t.Fatalf("times not preserved: %+v", got)
		}
		if got.Verified() {
			t.Fatalf("new session must not be verified")
		}
		if !mr.Exists("test:session:s1") {
			t.Fatalf("expected prefixed key")
		}
		if ttl := mr.TTL("test:session:s1"); ttl != 0 {
			t.Fatalf("expected no ttl without retention, got %v", ttl)
		}
	})

	t.Run("retention sets ttl", func(t *testing.T) {
		r, mr := newTestRedis(t, time.Hour)

		_ = r.CreateSession(ctx, newSession("s1", now))

		if ttl := mr.TTL("test:session:s1"); ttl != 65*time.Minute {
			t.Fatalf("expected 65m ttl, got %v", ttl)
		}
	})

	t.Run("retention ttl ignores wall clock", func(t *testing.T) {
		r, mr := newTestRedis(t, time.Hour)
		past := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)

		if err := r.CreateSession(ctx, newSession("s1", past)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if ttl := mr.TTL("test:session:s1"); ttl != 65*time.Minute {
			t.Fatalf("expected 65m ttl, got %v", ttl)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		r, _ := newTestRedis(t, 0)
		_ = r.CreateSession(ctx, newSession("s1", now))

		if err := r.CreateSession(ctx, newSession("s1", now)); !errors.Is(err, ErrSessionExists) {
			t.Fatalf("expected ErrSessionExists, got %v", err)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		r, _ := newTestRedis(t, 0)

		_, err := r.GetSession(ctx, "nope")
		markErr := r.MarkSessionVerified(ctx, "nope", now)

		if !errors.Is(err, goerror.ErrNotFound) || !errors.Is(markErr, goerror.ErrNotFound) {
			t.Fatalf("expected not found, got %v / %v", err, markErr)
		}
	})

	t.Run("mark verified", func(t *testing.T) {
		r, _ := newTestRedis(t, 0)
		_ = r.CreateSession(ctx, newSession("s1", now))

		if err := r.MarkSessionVerified(ctx, "s1", now.Add(time.Second)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, _ := r.GetSession(ctx, "s1")
		if !got.VerifiedAt.Equal(now.Add(time.Second)) {
			t.Fatalf("VerifiedAt = %v", got.VerifiedAt)
		}
	})

	t.Run("corrupt field", func(t *testing.T) {
		r, mr := newTestRedis(t, 0)
		mr.HSet("test:session:bad", fieldID, "bad", fieldExpiresAt, "soon")

		if _, err := r.GetSession(ctx, "bad"); err == nil {
			t.Fatalf("expected decode error")
		}
	})
}

func TestRedis_OTP(t *testing.T) {
	ctx := context.Background()

	t.Run("consume once", func(t *testing.T) {
		// Arrange
		r, mr := newTestRedis(t, 0)
		if err := r.SaveOTP(ctx, "s1", 123456, 5*time.Minute); err != nil {
			t.Fatalf("save: %v", err)
		}

		// Act
		wrong, _ := r.ConsumeOTP(ctx, "s1", 111111)
		first, err := r.ConsumeOTP(ctx, "s1", 123456)
		second, _ := r.ConsumeOTP(ctx, "s1", 123456)

		// Assert
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if wrong || !first || second {
			t.Fatalf("wrong=%v first=%v second=%v", wrong, first, second)
		}
		if mr.Exists("test:otp:s1") {
			t.Fatalf("code should be deleted")
		}
	})

	t.Run("expired code is gone", func(t *testing.T) {
		r, mr := newTestRedis(t, 0)
		_ = r.SaveOTP(ctx, "s1", 123456, time.Minute)

		mr.FastForward(2 * time.Minute)

		if ok, _ := r.ConsumeOTP(ctx, "s1", 123456); ok {
			t.Fatalf("expired code accepted")
		}
	})

	t.Run("non-positive ttl is not stored", func(t *testing.T) {
		r, mr := newTestRedis(t, 0)

		_ = r.SaveOTP(ctx, "s1", 123456, -time.Second)

		if mr.Exists("test:otp:s1") {
			t.Fatalf("expired code stored")
		}
	})

	t.Run("concurrent consume accepts once", func(t *testing.T) {
		r, _ := newTestRedis(t, 0)
		_ = r.SaveOTP(ctx, "s1", 654321, time.Minute)

		var accepted atomic.Int32
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := r.ConsumeOTP(ctx, "s1", 654321); ok {
					accepted.Add(1)
				}
			}()
		}
		wg.Wait()

		if accepted.Load() != 1 {
			t.Fatalf("accepted %d times, want 1", accepted.Load())
		}
	})
}
