package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

// consumeOTPLua deletes KEYS[1] only when its value equals ARGV[1].
// Returns 1 when the code was consumed, 0 otherwise.
var consumeOTPLua = redis.NewScript(`
local stored = redis.call('GET', KEYS[1])
if not stored or stored ~= ARGV[1] then
  return 0
end
redis.call('DEL', KEYS[1])
return 1
`)

// createSessionLua writes the session hash and its optional TTL in one step.
// ARGV holds id, email, password, created_at, expires_at and the TTL in
// milliseconds (0 for none). Returns 0 when the key already exists.
var createSessionLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
  return 0
end
redis.call('HSET', KEYS[1],
  'id', ARGV[1], 'email', ARGV[2], 'password', ARGV[3],
  'created_at', ARGV[4], 'expires_at', ARGV[5])
local ttl = tonumber(ARGV[6])
if ttl > 0 then
  redis.call('PEXPIRE', KEYS[1], ttl)
end
return 1
`)

// markVerifiedLua sets verified_at on an existing session hash.
// Returns 1 when the session exists, 0 otherwise.
var markVerifiedLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return 0
end
redis.call('HSET', KEYS[1], 'verified_at', ARGV[1])
return 1
`)

const (
	fieldID         = "id"
	fieldEmail      = "email"
	fieldPassword   = "password"
	fieldCreatedAt  = "created_at"
	fieldExpiresAt  = "expires_at"
	fieldVerifiedAt = "verified_at"
)

// Redis stores sessions as hashes and codes as strings with a TTL.
//
// Keys are "<prefix>:session:<id>" and "<prefix>:otp:<id>". Sessions carry no
// TTL unless retention is positive, in which case they live for their own
// lifetime (ExpiresAt-CreatedAt) plus retention.
type Redis struct {
	client    redis.UniversalClient
	prefix    string
	retention time.Duration
}

// NewRedis returns a Redis store. An empty prefix defaults to "otpgate".
func NewRedis(client redis.UniversalClient, prefix string, retention time.Duration) *Redis {
	if prefix == "" {
		prefix = "otpgate"
	}
	return &Redis{client: client, prefix: prefix, retention: retention}
}

func (r *Redis) sessionKey(id string) string { return r.prefix + ":session:" + id }
func (r *Redis) otpKey(id string) string     { return r.prefix + ":otp:" + id }

func (r *Redis) CreateSession(ctx context.Context, s entity.LoginSession) error {
	var ttl time.Duration
	if r.retention > 0 {
		ttl = s.ExpiresAt.Sub(s.CreatedAt) + r.retention
	}

	created, err := createSessionLua.Run(ctx, r.client, []string{r.sessionKey(s.ID)},
		s.ID,
		s.Email,
		s.Password,
		s.CreatedAt.UnixNano(),
		s.ExpiresAt.UnixNano(),
		ttl.Milliseconds(),
	).Int()
	if err != nil {
		return fmt.Errorf("store: redis create session: %w", err)
	}
	if created == 0 {
		return ErrSessionExists
	}

	return nil
}

func (r *Redis) GetSession(ctx context.Context, id string) (*entity.LoginSession, error) {
	vals, err := r.client.HGetAll(ctx, r.sessionKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("store: redis get session: %w", err)
	}
	if len(vals) == 0 {
		return nil, goerror.ErrNotFound
	}

	s := &entity.LoginSession{
		ID:       vals[fieldID],
		Email:    vals[fieldEmail],
		Password: vals[fieldPassword],
	}
	if s.CreatedAt, err = parseUnixNano(vals[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("store: redis decode %s: %w", fieldCreatedAt, err)
	}
	if s.ExpiresAt, err = parseUnixNano(vals[fieldExpiresAt]); err != nil {
		return nil, fmt.Errorf("store: redis decode %s: %w", fieldExpiresAt, err)
	}
	if s.VerifiedAt, err = parseUnixNano(vals[fieldVerifiedAt]); err != nil {
		return nil, fmt.Errorf("store: redis decode %s: %w", fieldVerifiedAt, err)
	}

	return s, nil
}

func (r *Redis) MarkSessionVerified(ctx context.Context, id string, at time.Time) error {
	ok, err := markVerifiedLua.Run(ctx, r.client, []string{r.sessionKey(id)}, at.UnixNano()).Int()
	if err != nil {
		return fmt.Errorf("store: redis mark verified: %w", err)
	}
	if ok == 0 {
		return goerror.ErrNotFound
	}

	return nil
}

// SaveOTP stores code for ttl. A non-positive ttl stores nothing.
func (r *Redis) SaveOTP(ctx context.Context, sessionID string, code int, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, r.otpKey(sessionID), strconv.Itoa(code), ttl).Err(); err != nil {
		return fmt.Errorf("store: redis save otp: %w", err)
	}

	return nil
}

func (r *Redis) ConsumeOTP(ctx context.Context, sessionID string, code int) (bool, error) {
	n, err := consumeOTPLua.Run(ctx, r.client, []string{r.otpKey(sessionID)}, strconv.Itoa(code)).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("store: redis consume otp: %w", err)
	}

	return n == 1, nil
}

func parseUnixNano(v string) (time.Time, error) {
	if v == "" || v == "0" {
		return time.Time{}, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, err
	}

	return time.Unix(0, n), nil
}
