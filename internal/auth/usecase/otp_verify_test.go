package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestUsecase_VerifyOTP(t *testing.T) {
	ctx := context.Background()

	login := func(t *testing.T, f *fixture) string {
		t.Helper()
		out, err := f.uc.Login(ctx, LoginInput{Email: "a@b.c", Password: "secret"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		return out.LoginSessionID
	}

	t.Run("missing fields", func(t *testing.T) {
		f := newFixture(t)

		for _, in := range []VerifyOTPInput{{}, {LoginSessionID: "x"}, {OTP: "123456"}} {
			_, err := f.uc.VerifyOTP(ctx, in)
			assertCode(t, err, http.StatusBadRequest, "loginSessionId and otp required")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: "nope", OTP: "482913"})

		assertCode(t, err, http.StatusUnauthorized, "Invalid session")
	})

	t.Run("expired session", func(t *testing.T) {
		f := newFixture(t)
		sid := login(t, f)
		f.clock.Advance(5*time.Minute + time.Second)

		_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"})

		assertCode(t, err, http.StatusUnauthorized, "Session expired")
	})

	t.Run("exactly at expiry is still valid", func(t *testing.T) {
		f := newFixture(t)
		sid := login(t, f)
		f.clock.Advance(5 * time.Minute)

		if _, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("wrong code then right code", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		sid := login(t, f)

		// Act
		_, wrongErr := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "000000"})
		out, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"})

		// Assert
		assertCode(t, wrongErr, http.StatusUnauthorized, "Invalid OTP")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.SessionID != sid {
			t.Fatalf("SessionID = %s", out.SessionID)
		}
		sess, _ := f.store.GetSession(ctx, sid)
		if !sess.Verified() {
			t.Fatalf("session not marked verified")
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		f := newFixture(t)
		sid := login(t, f)

		_, _ = f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"})
		_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"})

		assertCode(t, err, http.StatusUnauthorized, "Invalid OTP")
	})

	t.Run("leading integer is accepted", func(t *testing.T) {
		f := newFixture(t)
		sid := login(t, f)

		if _, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: " 482913abc"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("non numeric code", func(t *testing.T) {
		f := newFixture(t)
		sid := login(t, f)

		_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "abc"})

		assertCode(t, err, http.StatusUnauthorized, "Invalid OTP")
	})

	t.Run("out of range code never reaches the store", func(t *testing.T) {
		// Arrange
		f := newFixture(t)
		sid := login(t, f)
		f.store.consumeErr = errBoom

		// Act
		_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "4829130"})

		// Assert
		assertCode(t, err, http.StatusUnauthorized, "Invalid OTP")
	})

	t.Run("store failures", func(t *testing.T) {
		tests := []struct {
			name  string
			setup func(f *fixture)
		}{
			{"get session", func(f *fixture) { f.store.getErr = errBoom }},
			{"consume otp", func(f *fixture) { f.store.consumeErr = errBoom }},
			{"mark verified", func(f *fixture) { f.store.markErr = errBoom }},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				f := newFixture(t)
				sid := login(t, f)
				tt.setup(f)

				_, err := f.uc.VerifyOTP(ctx, VerifyOTPInput{LoginSessionID: sid, OTP: "482913"})

				assertCode(t, err, http.StatusInternalServerError, "OTP verification failed")
			})
		}
	})
}

func TestParseLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"123456", 123456, true},
		{"  123456", 123456, true},
		{"\n42", 42, true},
		{"123456.7", 123456, true},
		{"12ab", 12, true},
		{"+7", 7, true},
		{"-7", -7, true},
		{"0x1A", 26, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"0x", 0, false},
		{"99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseLeadingInt(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("parseLeadingInt(%q) = %d, %v; want %d, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
