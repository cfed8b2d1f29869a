package jwt

import (
	"errors"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

var hmacMethods = []string{
	libJWT.SigningMethodHS256.Alg(),
	libJWT.SigningMethodHS384.Alg(),
	libJWT.SigningMethodHS512.Alg(),
}

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret []byte
	issuer string
	ttl    time.Duration
	clock  clocker
	uuid   generator
}

// NewHS256 constructs a Symmetric JWT implementation signing with HS256.
//
// Any HMAC-SHA2 token signed with the same secret is accepted on Verify.
func NewHS256(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) == 0 {
		return nil, ErrSigningKeyRequired
	}

	return &Symmetric{
		secret: cfg.Secret,
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		clock:  cfg.Clock,
		uuid:   cfg.UUID,
	}, nil
}

// TTL returns the configured token lifetime.
func (s *Symmetric) TTL() time.Duration {
	return s.ttl
}

// Generate creates a signed JWT for the login session.
func (s *Symmetric) Generate(sessionID, email string) (string, error) {
	now := s.clock.Now()

	return libJWT.
		NewWithClaims(libJWT.SigningMethodHS256, Claims{
			RegisteredClaims: libJWT.RegisteredClaims{
				ID:        s.uuid.Generate(),
				Issuer:    s.issuer,
				IssuedAt:  libJWT.NewNumericDate(now),
				ExpiresAt: libJWT.NewNumericDate(now.Add(s.ttl)),
			},
			Email:     email,
			SessionID: sessionID,
		}).
		SignedString(s.secret)
}

// Verify parses and validates a JWT string.
func (s *Symmetric) Verify(tokenStr string) (Claims, error) {
	var claims Claims

	opts := []libJWT.ParserOption{
		libJWT.WithValidMethods(hmacMethods),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
		libJWT.WithTimeFunc(s.clock.Now),
	}
	if s.issuer != "" {
		opts = append(opts, libJWT.WithIssuer(s.issuer))
	}

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if _, ok := t.Method.(*libJWT.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		opts...,
	)

	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, err
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
