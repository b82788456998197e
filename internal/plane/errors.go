package plane

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Kind classifies a failure into one of the four error families the
// tools report to the host.
type Kind int

const (
	KindGeneric Kind = iota
	KindAuthentication
	KindNotFound
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindAuthentication:
		return "authentication"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	default:
		return "generic"
	}
}

// Error is a classified Plane failure. Body is the parsed backend payload,
// or nil when the backend sent nothing parseable (or the error was raised
// locally without one).
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    any

	cause error
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the local cause (e.g. a sentinel from the resolver).
func (e *Error) Unwrap() error { return e.cause }

// Classify maps a non-2xx HTTP response to an *Error.
func Classify(status int, body any) *Error {
	e := &Error{Message: messageFrom(body), Status: status, Body: body}
	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuthentication
	case http.StatusNotFound:
		e.Kind = KindNotFound
	case http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	default:
		e.Kind = KindGeneric
	}
	return e
}

// messageFrom picks the human message out of a Plane error payload.
func messageFrom(body any) string {
	if m, ok := body.(map[string]any); ok {
		for _, key := range []string{"message", "detail"} {
			if s, ok := m[key].(string); ok && s != "" {
				return s
			}
		}
	}
	return "Plane API error"
}

// NotFound builds a not-found error raised locally, without a backend 404.
func NotFound(message string, cause error) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: message,
		Status:  http.StatusNotFound,
		Body:    map[string]any{"message": message},
		cause:   cause,
	}
}

// Invalid builds a validation error; details (may be nil) are reported
// alongside the message.
func Invalid(message string, details any, cause error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
		Status:  http.StatusUnprocessableEntity,
		Body:    details,
		cause:   cause,
	}
}

// Unauthenticated builds an authentication error.
func Unauthenticated(message string) *Error {
	return &Error{
		Kind:    KindAuthentication,
		Message: message,
		Status:  http.StatusUnauthorized,
		Body:    map[string]any{"message": message},
	}
}

// KindOf returns the Kind of err, or KindGeneric if err is not an *Error.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindGeneric
}

// Describe renders err as the single line (or two, for validation details)
// shown to the host in place of a tool result.
func Describe(err error) string {
	var pe *Error
	if !errors.As(err, &pe) {
		return "Error: " + err.Error()
	}

	switch pe.Kind {
	case KindNotFound:
		return "Not Found: " + pe.Message
	case KindAuthentication:
		return "Authentication Failed: " + pe.Message
	case KindValidation:
		msg := "Validation Error: " + pe.Message
		if pe.Body != nil {
			if details, err := json.Marshal(pe.Body); err == nil {
				msg += "\nDetails: " + string(details)
			}
		}
		return msg
	default:
		return "Plane API Error: " + pe.Message
	}
}
