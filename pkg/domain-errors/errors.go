// Package domainerrors defines the typed error vocabulary shared across the
// engine. Services return these instead of raw errors so handlers and the
// orchestrator boundary can translate codes without string matching.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies an error for boundary translation.
type Code string

const (
	// CodeInvalidRequest marks a malformed or incomplete authorization
	// request. The caller must correct and re-submit; nothing was evaluated.
	CodeInvalidRequest Code = "invalid_request"

	// CodeStaleDecision marks a reviewer decision that arrived for a case no
	// longer in the expected pending state. Logged and dropped.
	CodeStaleDecision Code = "stale_decision"

	// CodeIdentifierCollision marks exhaustion of authorization-number
	// generation attempts. Treated as a fatal configuration error.
	CodeIdentifierCollision Code = "identifier_collision"

	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeInternal     Code = "internal_error"
)

// Error carries a code plus a human-readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New constructs a typed error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}

// ToHTTPStatus maps an error code to its HTTP status for transport handlers.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidRequest, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStaleDecision, CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
