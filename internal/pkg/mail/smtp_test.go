package mail

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestNewSMTP(t *testing.T) {
	if _, err := NewSMTP(SMTPConfig{Host: "localhost"}); !errors.Is(err, ErrSMTPHostPortRequired) {
		t.Fatalf("expected ErrSMTPHostPortRequired, got %v", err)
	}

	s, err := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, Username: "u", Password: "p"})
	if err != nil {
		t.Fatalf("new smtp: %v", err)
	}
	if s.addr != "localhost:1025" || s.auth == nil {
		t.Fatalf("unexpected smtp %+v", s)
	}
}

func TestSMTP_Send(t *testing.T) {
	var (
		gotAddr string
		gotFrom string
		gotTo   []string
		gotRaw  string
	)

	s, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025, From: "noreply@otpgate.local"})
	s.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotRaw = addr, from, to, string(msg)
		return nil
	}

	t.Run("TextOnly", func(t *testing.T) {
		err := s.Send(context.Background(), Message{
			To:       []string{"a@b.com"},
			Subject:  "Your code\r\nBcc: evil@x.com",
			TextBody: "OTP: 123456",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if gotAddr != "localhost:1025" || gotFrom != "noreply@otpgate.local" || len(gotTo) != 1 {
			t.Fatalf("unexpected envelope %s %s %v", gotAddr, gotFrom, gotTo)
		}
		if !strings.Contains(gotRaw, "Subject: Your codeBcc: evil@x.com\r\n") {
			t.Fatalf("expected sanitized subject, got %q", gotRaw)
		}
		if !strings.Contains(gotRaw, "text/plain") || !strings.HasSuffix(gotRaw, "OTP: 123456") {
			t.Fatalf("unexpected body %q", gotRaw)
		}
	})

	t.Run("Multipart", func(t *testing.T) {
		err := s.Send(context.Background(), Message{
			To:       []string{"a@b.com"},
			TextBody: "text",
			HTMLBody: "<b>html</b>",
		})
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if !strings.Contains(gotRaw, "multipart/alternative; boundary=otpgate-") {
			t.Fatalf("expected multipart, got %q", gotRaw)
		}
	})

	t.Run("NoRecipients", func(t *testing.T) {
		if err := s.Send(context.Background(), Message{}); !errors.Is(err, ErrSMTPNoRecipients) {
			t.Fatalf("expected ErrSMTPNoRecipients, got %v", err)
		}
	})

	t.Run("NoSender", func(t *testing.T) {
		bare, _ := NewSMTP(SMTPConfig{Host: "localhost", Port: 1025})
		if err := bare.Send(context.Background(), Message{To: []string{"a@b.com"}}); !errors.Is(err, ErrSMTPNoSender) {
			t.Fatalf("expected ErrSMTPNoSender, got %v", err)
		}
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if err := s.Send(ctx, Message{To: []string{"a@b.com"}}); !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})
}
