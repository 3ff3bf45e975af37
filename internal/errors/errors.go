// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status. Conflicts are reported as
// 400 to stay compatible with existing clients.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain failure with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
	// Data is echoed in the response envelope, e.g. partial upload results.
	Data any
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on kind so callers can write errors.Is(err, appErrors.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Message == "" || t.Message == e.Message)
}

// Kind-only sentinels for errors.Is.
var (
	ErrValidation      = &Error{Kind: KindValidation}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated}
	ErrForbidden       = &Error{Kind: KindForbidden}
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrConflict        = &Error{Kind: KindConflict}
	ErrUpstream        = &Error{Kind: KindUpstream}
)

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func Validation(message string) *Error { return New(KindValidation, message) }
func Unauthenticated(message string) *Error { return New(KindUnauthenticated, message) }
func Forbidden(message string) *Error { return New(KindForbidden, message) }
func NotFound(message string) *Error { return New(KindNotFound, message) }
func Conflict(message string) *Error { return New(KindConflict, message) }

// KindOf returns the kind of the first *Error in the chain, or KindInternal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// As returns the first *Error in the chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// NewCampaignNotFound keeps the message the campaign endpoints have always used.
func NewCampaignNotFound(id string) error {
	return &Error{Kind: KindNotFound, Message: "Campaign not found", Cause: fmt.Errorf("campaign %q", id)}
}

func NewUserNotFound(id string) error {
	return &Error{Kind: KindNotFound, Message: "User not found", Cause: fmt.Errorf("user %q", id)}
}

func NewCustomFieldNotFound(id string) error {
	return &Error{Kind: KindNotFound, Message: "Custom field not found", Cause: fmt.Errorf("custom field %q", id)}
}

// NewAdminExists is returned once bootstrap has already produced an admin.
func NewAdminExists() error {
	return &Error{Kind: KindValidation, Message: "Admin already exists"}
}
