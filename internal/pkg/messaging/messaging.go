package messaging

import (
	"context"
	"errors"
	"io"
)

var (
	// ErrDestinationRequired is returned when Publish receives an empty topic/subject.
	ErrDestinationRequired = errors.New("messaging: destination is required")
	// ErrClosed is returned when publishing on a closed publisher.
	ErrClosed = errors.New("messaging: publisher is closed")
)

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	io.Closer
	// Publish sends msg to destination and returns once the broker accepted it.
	Publish(ctx context.Context, destination string, msg Message) error
}

// Message is a broker-agnostic outgoing message.
type Message struct {
	// Key is used by Kafka for partitioning; other brokers ignore it.
	Key []byte
	// Body is the message payload.
	Body []byte
	// Headers are forwarded where the broker supports them (Kafka, NATS).
	Headers []Header
}

// Header is a key/value pair used for message headers.
type Header struct {
	Key   string
	Value []byte
}
