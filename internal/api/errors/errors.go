package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	apperrors "github.com/AbbasKothari1552/StreamShield/internal/app/errors"
	"github.com/AbbasKothari1552/StreamShield/internal/app/repository"
)

// ErrorKind represents different types of API errors
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindConflict           ErrorKind = "conflict"
	KindInternal           ErrorKind = "internal"
	KindServiceUnavailable ErrorKind = "service_unavailable"
	KindBadRequest         ErrorKind = "bad_request"
	KindUnsupported        ErrorKind = "unsupported"
)

// APIError represents a structured API error response
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindUnsupported:
		return http.StatusUnsupportedMediaType
	case KindServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewServiceUnavailableError creates a service unavailable error
func NewServiceUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindServiceUnavailable,
		Message: message,
	}
}

// FromDomain maps errors returned by the application packages to API errors.
// Errors that are already APIErrors are returned unchanged.
func FromDomain(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case stderrors.Is(err, apperrors.ErrInputNotFound):
		return &APIError{Kind: KindNotFound, Message: err.Error()}
	case stderrors.Is(err, repository.ErrRunNotFound):
		return NewNotFoundError("run")
	case stderrors.Is(err, apperrors.ErrUnsupportedFileType):
		return &APIError{Kind: KindUnsupported, Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrVideoOpen):
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrModelNotLoaded):
		return NewServiceUnavailableError(err.Error())
	case stderrors.Is(err, apperrors.ErrBackendNotRegistered),
		stderrors.Is(err, apperrors.ErrInvalidConfig):
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	case stderrors.Is(err, apperrors.ErrModelLoad):
		return &APIError{Kind: KindInternal, Message: err.Error()}
	default:
		return NewInternalError("Internal server error")
	}
}
