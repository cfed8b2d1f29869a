// Package validator validates decoded request payloads.
//
// Handlers depend on the Validator interface; V10Validator backs it with
// go-playground/validator and reports failures keyed by JSON field name.
package validator
