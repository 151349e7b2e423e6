// Package apperr defines the error taxonomy shared by services and handlers.
// Services return *Error values; the HTTP layer maps the kind to a status
// code and a JSON envelope without inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for HTTP status mapping.
type Kind int

const (
	// Internal is the catch-all for unexpected failures.
	Internal Kind = iota
	// Validation covers missing or malformed input and business-rule violations.
	Validation
	// NotFound means the requested resource does not exist.
	NotFound
	// Authentication means the session credential is missing, invalid or expired.
	Authentication
	// Authorization means the caller is authenticated but lacks role or subscription.
	Authorization
	// PaymentVerification means a gateway signature check failed.
	PaymentVerification
	// Upstream means a collaborator (media store, gateway, mailer) failed.
	Upstream
)

// Error carries a kind, a human-readable message and an optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches two *Error values by kind so sentinel-style checks work
// with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case Validation, PaymentVerification:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Authentication:
		return http.StatusUnauthorized
	case Authorization:
		return http.StatusForbidden
	case Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// E builds an *Error with the given kind and message.
func E(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error around a cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Validationf builds a Validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Kind: Validation, Msg: fmt.Sprintf(format, args...)}
}

// From extracts the *Error from err, wrapping unknown errors as Internal.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Internal, Msg: "something went wrong", Err: err}
}
