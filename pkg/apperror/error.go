package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an AppError independently of its HTTP status.
type Kind string

const (
	KindValidation           Kind = "ValidationError"
	KindUnauthorized         Kind = "Unauthorized"
	KindNotFound             Kind = "NotFoundError"
	KindPermissionDenied     Kind = "PermissionDenied"
	KindConflict             Kind = "ConflictError"
	KindQuotaExceeded        Kind = "QuotaExceeded"
	KindNoActiveSubscription Kind = "NoActiveSubscription"
	KindInvalidSignature     Kind = "InvalidSignature"
	KindIncompleteMetadata   Kind = "IncompleteMetadata"
	KindInvalidPeriod        Kind = "InvalidPeriod"
	KindUpstreamUnavailable  Kind = "UpstreamUnavailable"
	KindRateLimited          Kind = "RateLimitExceeded"
	KindInternal             Kind = "Internal"
)

type AppError struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForStatus(code),
		Message: message,
		Err:     err,
	}
}

func newKind(code int, kind Kind, message string, err error) *AppError {
	return &AppError{Code: code, Kind: kind, Message: message, Err: err}
}

func kindForStatus(code int) Kind {
	switch code {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindPermissionDenied
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusConflict:
		return KindConflict
	case http.StatusServiceUnavailable:
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}

func BadRequest(message string) *AppError {
	return newKind(http.StatusBadRequest, KindValidation, message, nil)
}

func Unauthorized(message string) *AppError {
	return newKind(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return newKind(http.StatusForbidden, KindPermissionDenied, message, nil)
}

func NotFound(message string) *AppError {
	return newKind(http.StatusNotFound, KindNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return newKind(http.StatusConflict, KindConflict, message, nil)
}

func QuotaExceeded(quota int) *AppError {
	return newKind(http.StatusForbidden, KindQuotaExceeded,
		fmt.Sprintf("job posting limit of %d reached for the current billing period", quota), nil)
}

func NoActiveSubscription() *AppError {
	return newKind(http.StatusForbidden, KindNoActiveSubscription, "no active plan", nil)
}

func InvalidSignature(err error) *AppError {
	return newKind(http.StatusBadRequest, KindInvalidSignature, "invalid webhook signature", err)
}

func IncompleteMetadata(message string) *AppError {
	return newKind(http.StatusBadRequest, KindIncompleteMetadata, message, nil)
}

func InvalidPeriod(message string) *AppError {
	return newKind(http.StatusBadRequest, KindInvalidPeriod, message, nil)
}

func UpstreamUnavailable(message string, err error) *AppError {
	return newKind(http.StatusServiceUnavailable, KindUpstreamUnavailable, message, err)
}

func Internal(err error) *AppError {
	return newKind(http.StatusInternalServerError, KindInternal, "Internal Server Error", err)
}

// KindOf reports the Kind of err, or KindInternal when err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
