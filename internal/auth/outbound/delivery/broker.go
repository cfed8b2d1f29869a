package delivery

import (
	"context"
	"encoding/json"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "cID"

// Broker publishes the issued code as JSON to a topic or subject.
type Broker struct {
	name   string
	client messaging.Publisher
	topic  string
	ins    instrument.Instrumentation
}

// NewBroker returns a Broker channel; name identifies it in logs (kafka, nats, nsq).
func NewBroker(name string, client messaging.Publisher, topic string, ins instrument.Instrumentation) *Broker {
	return &Broker{name: name, client: client, topic: topic, ins: ins}
}

func (b *Broker) Name() string { return b.name }

func (b *Broker) Send(ctx context.Context, ev entity.OTPIssued) error {
	ctx, span := b.ins.Tracer("auth.outbound.delivery").Start(ctx, "Broker.Send")
	defer span.End()

	body, err := json.Marshal(ev)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	cID := instrument.GetCorrelationID(ctx)
	if err := b.client.Publish(ctx, b.topic, messaging.Message{
		Key:     []byte(ev.SessionID),
		Body:    body,
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	}); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
