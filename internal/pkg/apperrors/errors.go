// Package apperrors defines the error kinds surfaced by the bot platform.
// Callers distinguish them with errors.As/errors.Is; the API layer maps each
// kind to an HTTP status.
package apperrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError aggregates per-field format failures. All failing fields
// are collected before the error is returned, never just the first one.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failure for a field. Only the first message per field is kept.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed validation.
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// VerificationFailure means the webhook ownership challenge did not succeed.
// Unreachable endpoints, non-2xx responses and challenge echo mismatches are
// reported uniformly: none of them proves ownership.
type VerificationFailure struct {
	Webhook string
	Reason  string
}

func (e *VerificationFailure) Error() string {
	return fmt.Sprintf("webhook %s did not pass verification: %s", e.Webhook, e.Reason)
}

// ConflictError means the operation would duplicate an existing resource,
// e.g. a second subscription of the same bot pointing at the same webhook.
type ConflictError struct {
	Resource string
	Detail   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Detail)
}

// NotFoundError means the referenced bot or subscription does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// StorageError wraps an underlying persistence failure. The raw driver error
// is carried for logging but the message shown to callers stays redacted
// unless debug detail was requested (dev environment).
type StorageError struct {
	Op     string
	Err    error
	Debug  bool
	Entity string
}

func (e *StorageError) Error() string {
	if e.Debug && e.Err != nil {
		return fmt.Sprintf("storage failure during %s on %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("storage failure during %s on %s", e.Op, e.Entity)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// DeliveryError is a single recipient's failed webhook call. It is scoped to
// that recipient: the notify job logs it and keeps attempting the others.
type DeliveryError struct {
	SubscriptionID string
	Webhook        string
	HTTPStatus     int
	Err            error
}

func (e *DeliveryError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("delivery to subscription %s failed with HTTP %d", e.SubscriptionID, e.HTTPStatus)
	}
	return fmt.Sprintf("delivery to subscription %s failed: %v", e.SubscriptionID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsVerification reports whether err is (or wraps) a VerificationFailure.
func IsVerification(err error) bool {
	var v *VerificationFailure
	return errors.As(err, &v)
}
