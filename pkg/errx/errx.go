// Package errx provides structured application errors with stable codes,
// error types, and HTTP status mapping. Each domain owns a Registry keyed
// by a short prefix, so codes render as "RESUME_NOT_FOUND" and the HTTP
// layer can translate any *Error without knowing the domain.
package errx

import (
	"errors"
	"fmt"
	"net/http"
)

// Type classifies an error for transport-agnostic handling.
type Type string

const (
	TypeValidation     Type = "VALIDATION"
	TypeNotFound       Type = "NOT_FOUND"
	TypeConflict       Type = "CONFLICT"
	TypeBusiness       Type = "BUSINESS"
	TypeAuthorization  Type = "AUTHORIZATION"
	TypeAuthentication Type = "AUTHENTICATION"
	TypeExternal       Type = "EXTERNAL"
	TypeUnavailable    Type = "UNAVAILABLE"
	TypeInternal       Type = "INTERNAL"
)

// Code identifies a registered error within a registry.
type Code struct {
	registry *Registry
	key      string
}

// String returns the fully qualified code, e.g. "MATCH_NOT_FOUND".
func (c Code) String() string {
	if c.registry == nil {
		return c.key
	}
	return c.registry.prefix + "_" + c.key
}

type definition struct {
	errType    Type
	httpStatus int
	message    string
}

// Registry holds the error definitions of a single domain.
type Registry struct {
	prefix string
	defs   map[string]definition
}

// NewRegistry creates a registry whose codes are prefixed with the given
// domain name.
func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix, defs: make(map[string]definition)}
}

// Register declares an error code with its type, HTTP status, and default
// message. It is meant to be called from package-level var blocks.
func (r *Registry) Register(key string, t Type, httpStatus int, message string) Code {
	r.defs[key] = definition{errType: t, httpStatus: httpStatus, message: message}
	return Code{registry: r, key: key}
}

// New builds an *Error from a registered code.
func (r *Registry) New(code Code) *Error {
	def, ok := r.defs[code.key]
	if !ok {
		return &Error{
			Code:       code.String(),
			Type:       TypeInternal,
			HTTPStatus: http.StatusInternalServerError,
			Message:    "unknown error",
		}
	}
	return &Error{
		Code:       code.String(),
		Type:       def.errType,
		HTTPStatus: def.httpStatus,
		Message:    def.message,
	}
}

// NewWithCause builds an *Error from a registered code wrapping an
// underlying cause.
func (r *Registry) NewWithCause(code Code, cause error) *Error {
	e := r.New(code)
	e.Cause = cause
	return e
}

// Error is a structured application error.
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	HTTPStatus int            `json:"-"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail attaches a single key/value detail and returns the error for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithDetails merges a detail map into the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause attaches an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// ToHTTPResponse renders the error body sent to API clients. The cause is
// intentionally omitted.
func (e *Error) ToHTTPResponse() map[string]any {
	resp := map[string]any{
		"error":   e.Code,
		"type":    e.Type,
		"message": e.Message,
	}
	if len(e.Details) > 0 {
		resp["details"] = e.Details
	}
	return resp
}

// Wrap converts an arbitrary error into an *Error of the given type. If err
// is already an *Error it is returned unchanged so the original code and
// status survive layer crossings.
func Wrap(err error, message string, t Type) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return &Error{
		Code:       string(t),
		Type:       t,
		HTTPStatus: statusForType(t),
		Message:    message,
		Cause:      err,
	}
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, t Type) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Type == t
}

func statusForType(t Type) int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeAuthentication:
		return http.StatusUnauthorized
	case TypeExternal, TypeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
