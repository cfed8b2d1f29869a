// Package messaging publishes events to a message broker.
//
// Kafka, NATS and NSQ are supported behind the Publisher interface. The
// application only produces events (for example "OTP issued" notifications
// consumed by an external delivery service); it does not consume any.
package messaging
