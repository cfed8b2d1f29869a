// Package instrument wires structured logging and OpenTelemetry.
//
// New always installs the JSON slog default logger (with field masking and
// correlation ids). When enabled it also builds OTLP trace, metric and log
// providers and bridges slog records to the OTel log pipeline.
package instrument
