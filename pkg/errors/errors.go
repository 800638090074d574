package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of a domain error
type ErrorType string

const (
	// Validation-time errors raised by the graph validator
	ErrorTypeShape       ErrorType = "SHAPE_ERROR"
	ErrorTypeReferential ErrorType = "REFERENTIAL_ERROR"
	ErrorTypeBounds      ErrorType = "BOUNDS_ERROR"

	// Session contract violations
	ErrorTypeConflict ErrorType = "CONFLICT"
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// Infrastructure errors
	ErrorTypeBackend  ErrorType = "BACKEND_ERROR"
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// DomainError is an application error with a machine-readable code and
// enough context (entity kind, key) for the editor UI to point the creator
// at the offending record.
type DomainError struct {
	Type       ErrorType              `json:"type"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Retryable  bool                   `json:"retryable"`
	StatusCode int                    `json:"-"`
}

// New creates a domain error with an explicit type and code
func New(errorType ErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:       errorType,
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		StatusCode: statusCodeFor(errorType),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on type and code so predefined errors work with errors.Is
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// WithCause attaches the underlying error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail entry
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// WithEntity records which entity the error is about
func (e *DomainError) WithEntity(kind, key string) *DomainError {
	e.Details["kind"] = kind
	e.Details["key"] = key
	return e
}

// WithRetryable marks the error as retryable
func (e *DomainError) WithRetryable(retryable bool) *DomainError {
	e.Retryable = retryable
	return e
}

// statusCodeFor maps error types to HTTP status codes for the REST layer
func statusCodeFor(errorType ErrorType) int {
	switch errorType {
	case ErrorTypeShape, ErrorTypeBounds:
		return http.StatusBadRequest
	case ErrorTypeReferential:
		return http.StatusUnprocessableEntity
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeConflict:
		return http.StatusConflict
	case ErrorTypeBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Constructors for the error taxonomy

// NewShapeError reports a structural/type failure on one entity
func NewShapeError(kind, key, message string) *DomainError {
	return New(ErrorTypeShape, "SHAPE_VIOLATION", fmt.Sprintf("%s %q: %s", kind, key, message)).
		WithEntity(kind, key)
}

// NewReferentialError reports a dangling or mismatched cross-reference
func NewReferentialError(kind, key, message string) *DomainError {
	return New(ErrorTypeReferential, "REFERENCE_VIOLATION", fmt.Sprintf("%s %q: %s", kind, key, message)).
		WithEntity(kind, key)
}

// NewBoundsError reports a timestamp outside the accepted range
func NewBoundsError(kind, key, message string) *DomainError {
	return New(ErrorTypeBounds, "TIMESTAMP_OUT_OF_BOUNDS", fmt.Sprintf("%s %q: %s", kind, key, message)).
		WithEntity(kind, key)
}

// NewIDCollision reports a create with an id already present in that kind's map
func NewIDCollision(kind, id string) *DomainError {
	return New(ErrorTypeConflict, "ID_COLLISION", fmt.Sprintf("%s %q already exists", kind, id)).
		WithEntity(kind, id)
}

// NewUnknownCategory reports a relocation target that does not exist
func NewUnknownCategory(id string) *DomainError {
	return New(ErrorTypeNotFound, "UNKNOWN_CATEGORY", fmt.Sprintf("category %q does not exist", id)).
		WithEntity("categories", id)
}

// NewEntityNotFound reports an update/delete against a missing entity
func NewEntityNotFound(kind, id string) *DomainError {
	return New(ErrorTypeNotFound, "ENTITY_NOT_FOUND", fmt.Sprintf("%s %q does not exist", kind, id)).
		WithEntity(kind, id)
}

// NewBackendError wraps a content backend failure
func NewBackendError(operation string, cause error) *DomainError {
	return New(ErrorTypeBackend, "BACKEND_FAILURE", fmt.Sprintf("content backend %s failed", operation)).
		WithCause(cause).
		WithRetryable(true)
}

// Predefined session errors

var (
	// ErrSessionNotLoaded is returned when a mutation runs before Load
	ErrSessionNotLoaded = New(ErrorTypeConflict, "SESSION_NOT_LOADED", "edit session has no working copy; call load first")

	// ErrSaveInFlight is returned when a save overlaps another save
	ErrSaveInFlight = New(ErrorTypeConflict, "SAVE_IN_FLIGHT", "a save is already in progress")
)

// Helpers

// GetDomainError extracts a DomainError from an error chain
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsType checks whether err carries a specific error type
func IsType(err error, errType ErrorType) bool {
	domainErr := GetDomainError(err)
	return domainErr != nil && domainErr.Type == errType
}

// IsValidation reports whether err is any validator-raised failure
func IsValidation(err error) bool {
	return IsType(err, ErrorTypeShape) || IsType(err, ErrorTypeReferential) || IsType(err, ErrorTypeBounds)
}

// IsBackend reports whether err is a content backend failure
func IsBackend(err error) bool {
	return IsType(err, ErrorTypeBackend)
}

// IsConflict reports whether err is a contract violation (collision, overlap)
func IsConflict(err error) bool {
	return IsType(err, ErrorTypeConflict)
}

// IsNotFound reports whether err names a missing entity
func IsNotFound(err error) bool {
	return IsType(err, ErrorTypeNotFound)
}

// Wrap adds context to an error, preserving a DomainError if present
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if domainErr := GetDomainError(err); domainErr != nil {
		domainErr.Message = fmt.Sprintf("%s: %s", message, domainErr.Message)
		return domainErr
	}
	return New(ErrorTypeInternal, "INTERNAL_ERROR", message).WithCause(err)
}
