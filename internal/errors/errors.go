// Copyright (c) 2025 Tokensession
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Every failure of the authenticated request pipeline
// is expressed as an *E so callers can branch on Kind instead of matching strings.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// MissingCredentials indicates no refresh token or user id is stored locally.
	MissingCredentials Kind = "missing_credentials"
	// Rejected indicates the backend declined the refresh exchange.
	Rejected Kind = "rejected"
	// NetworkFailure indicates a transport-level failure (DNS, refused, timeout).
	NetworkFailure Kind = "network_failure"
	// ServerRejected indicates a non-2xx status on a protected call.
	ServerRejected Kind = "server_rejected"
	// MalformedResponse indicates a 2xx response whose body is not valid JSON.
	MalformedResponse Kind = "malformed_response"
	// Unauthenticated indicates the session was cleared and the user must log in again.
	Unauthenticated Kind = "unauthenticated"
	// StorageFailed indicates the token store could not persist a write.
	StorageFailed Kind = "storage_failed"
	// LoginFailed indicates the identity provider redirected back with an error.
	LoginFailed Kind = "login_failed"
)

// E wraps an error with kind and human-friendly message.
// Status carries the HTTP status for ServerRejected and Rejected errors.
type E struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *E) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *E) Unwrap() error { return e.Err }

// Is reports whether target is an *E of the same kind. A target with a
// non-zero Status must also match the status.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Status == 0 || t.Status == e.Status
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// WithStatus builds an error that carries an HTTP status code.
func WithStatus(kind Kind, status int, msg string) *E {
	return &E{Kind: kind, Message: msg, Status: status}
}

// KindOf returns the Kind of the first *E in err's chain, or "" when there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.Status
	}
	return 0
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
