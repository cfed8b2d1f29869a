package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/mail"
	"go.opentelemetry.io/otel/codes"
)

const mailSubject = "Your verification code"

// Mail sends the code to the address used at login.
type Mail struct {
	client mail.Mail
	ins    instrument.Instrumentation
}

func NewMail(client mail.Mail, ins instrument.Instrumentation) *Mail {
	return &Mail{client: client, ins: ins}
}

func (*Mail) Name() string { return "mail" }

func (m *Mail) Send(ctx context.Context, ev entity.OTPIssued) error {
	ctx, span := m.ins.Tracer("auth.outbound.delivery").Start(ctx, "Mail.Send")
	defer span.End()

	err := m.client.Send(ctx, mail.Message{
		To:      []string{ev.Email},
		Subject: mailSubject,
		TextBody: fmt.Sprintf("Your verification code is %d.\nIt expires at %s.\n",
			ev.Code, ev.ExpiresAt.UTC().Format(time.RFC1123)),
		HTMLBody: fmt.Sprintf("<p>Your verification code is <strong>%d</strong>.</p><p>It expires at %s.</p>",
			ev.Code, ev.ExpiresAt.UTC().Format(time.RFC1123)),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
