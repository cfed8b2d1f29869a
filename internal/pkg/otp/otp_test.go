package otp

import (
	"errors"
	"testing"
)

func TestRandom_Generate(t *testing.T) {
	g := NewRandom()

	seen := make(map[int]struct{})
	for i := 0; i < 500; i++ {
		code, err := g.Generate()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !Valid(code) {
			t.Fatalf("code %d out of range", code)
		}
		seen[code] = struct{}{}
	}

	if len(seen) < 400 {
		t.Fatalf("expected mostly distinct codes, got %d unique of 500", len(seen))
	}
}

func TestHOTP_Generate(t *testing.T) {
	const secret = "JBSWY3DPEHPK3PXP"

	t.Run("Deterministic", func(t *testing.T) {
		a, err := NewHOTP(secret)
		if err != nil {
			t.Fatalf("new hotp: %v", err)
		}
		b, _ := NewHOTP(secret)

		for i := 0; i < 5; i++ {
			ca, err := a.Generate()
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			cb, _ := b.Generate()
			if ca != cb {
				t.Fatalf("step %d: expected equal codes, got %d and %d", i, ca, cb)
			}
			if !Valid(ca) {
				t.Fatalf("code %d out of range", ca)
			}
		}

		if a.Counter() != 5 {
			t.Fatalf("expected counter 5, got %d", a.Counter())
		}
	})

	t.Run("SecretRequired", func(t *testing.T) {
		if _, err := NewHOTP(""); !errors.Is(err, ErrSecretRequired) {
			t.Fatalf("expected ErrSecretRequired, got %v", err)
		}
	})

	t.Run("InvalidSecret", func(t *testing.T) {
		g, _ := NewHOTP("not base32 !!")
		if _, err := g.Generate(); err == nil {
			t.Fatalf("expected error for invalid secret")
		}
	})
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		secret  string
		wantErr error
	}{
		{name: "Default", driver: ""},
		{name: "Random", driver: "Random"},
		{name: "HOTP", driver: "hotp", secret: "JBSWY3DPEHPK3PXP"},
		{name: "HOTPNoSecret", driver: "hotp", wantErr: ErrSecretRequired},
		{name: "Unknown", driver: "sms", wantErr: ErrUnknownDriver},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.driver, tt.secret)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.wantErr == nil && g == nil {
				t.Fatalf("expected generator")
			}
		})
	}
}
