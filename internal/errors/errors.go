// FilePath: server/apiary/internal/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeDatabase   ErrorType = "database"
	ErrorTypeAuth       ErrorType = "authentication"
	ErrorTypeAuthorize  ErrorType = "authorization"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeConflict   ErrorType = "conflict"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeInternal   ErrorType = "internal"
)

// Stable error codes. Callers branch on these, so they never change.
const (
	CodeMissingFields          = "MISSING_FIELDS"
	CodeMissingID              = "MISSING_ID"
	CodeInvalidEmailFormat     = "INVALID_EMAIL_FORMAT"
	CodePasswordMismatch       = "PASSWORD_MISMATCH"
	CodePasswordTooShort       = "PASSWORD_TOO_SHORT"
	CodeInvalidRole            = "INVALID_ROLE"
	CodeInvalidSensorType      = "INVALID_SENSOR_TYPE"
	CodeInvalidAction          = "INVALID_ACTION"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbiddenRole          = "FORBIDDEN_ROLE"
	CodeNotFoundOrUnauthorized = "NOT_FOUND_OR_UNAUTHORIZED"
	CodeSelfEditForbidden      = "SELF_EDIT_FORBIDDEN"
	CodeSelfDeleteForbidden    = "SELF_DELETE_FORBIDDEN"
	CodeNoHivesFound           = "NO_HIVES_FOUND"
	CodeNoSensorsFound         = "NO_SENSORS_FOUND"
	CodeDuplicateSerial        = "DUPLICATE_SERIAL"
	CodeEmailTaken             = "EMAIL_TAKEN"
	CodeAccountNotFound        = "ACCOUNT_NOT_FOUND"
	CodeAccountNotApproved     = "ACCOUNT_NOT_APPROVED"
	CodeIncorrectPassword      = "INCORRECT_PASSWORD"
	CodeRateLimited            = "RATE_LIMITED"
	CodeDBError                = "DB_ERROR"
	CodeInternalError          = "INTERNAL_ERROR"
	CodeNotFound               = "NOT_FOUND"
)

// APIError represents a structured API error
type APIError struct {
	Type      ErrorType `json:"type"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Status    int       `json:"-"`
	RequestID string    `json:"request_id,omitempty"`
	Details   any       `json:"details,omitempty"`
	err       error     // Internal error for logging
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s[%s]: %s (internal: %v)", e.Type, e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s[%s]: %s", e.Type, e.Code, e.Message)
}

// Unwrap exposes the internal cause to errors.Is / errors.As.
func (e *APIError) Unwrap() error {
	return e.err
}

// WithRequestID adds a request ID to the error
func (e *APIError) WithRequestID(id string) *APIError {
	e.RequestID = id
	return e
}

// WithDetails adds additional details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithCode replaces the stable code, keeping type and status.
func (e *APIError) WithCode(code string) *APIError {
	e.Code = code
	return e
}

func newError(t ErrorType, status int, code, msg string, err error) *APIError {
	return &APIError{
		Type:    t,
		Code:    code,
		Message: msg,
		Status:  status,
		err:     err,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(code, msg string, err error) *APIError {
	return newError(ErrorTypeValidation, http.StatusBadRequest, code, msg, err)
}

// NewDatabaseError creates a new database error. The code is always DB_ERROR;
// the cause is kept for logs only.
func NewDatabaseError(msg string, err error) *APIError {
	return newError(ErrorTypeDatabase, http.StatusInternalServerError, CodeDBError, msg, err)
}

// NewAuthError creates a new authentication error
func NewAuthError(msg string, err error) *APIError {
	return newError(ErrorTypeAuth, http.StatusUnauthorized, CodeUnauthorized, msg, err)
}

// NewAuthorizationError creates a new authorization error
func NewAuthorizationError(code, msg string, err error) *APIError {
	return newError(ErrorTypeAuthorize, http.StatusForbidden, code, msg, err)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, msg string, err error) *APIError {
	return newError(ErrorTypeNotFound, http.StatusNotFound, code, msg, err)
}

// NewConflictError creates a new conflict error
func NewConflictError(code, msg string, err error) *APIError {
	return newError(ErrorTypeConflict, http.StatusConflict, code, msg, err)
}

// NewRateLimitError creates a new rate limit error
func NewRateLimitError(msg string, err error) *APIError {
	return newError(ErrorTypeRateLimit, http.StatusTooManyRequests, CodeRateLimited, msg, err)
}

// NewInternalError creates a new internal server error
func NewInternalError(msg string, err error) *APIError {
	return newError(ErrorTypeInternal, http.StatusInternalServerError, CodeInternalError, msg, err)
}

// As extracts an *APIError from err, if there is one in the chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// CodeOf returns the stable code carried by err. Errors that are not
// APIErrors report INTERNAL_ERROR.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := As(err); ok {
		return apiErr.Code
	}
	return CodeInternalError
}

// Wrap converts an arbitrary error into an *APIError, keeping existing ones.
func Wrap(err error) *APIError {
	if apiErr, ok := As(err); ok {
		return apiErr
	}
	return NewInternalError("internal error", err)
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, ErrorTypeNotFound)
}

// IsValidation checks if an error is a Validation error
func IsValidation(err error) bool {
	return isType(err, ErrorTypeValidation)
}

// IsConflict checks if an error is a Conflict error
func IsConflict(err error) bool {
	return isType(err, ErrorTypeConflict)
}

// IsAuthorization checks if an error is an Authorization error
func IsAuthorization(err error) bool {
	return isType(err, ErrorTypeAuthorize)
}

func isType(err error, t ErrorType) bool {
	if apiErr, ok := As(err); ok {
		return apiErr.Type == t
	}
	return false
}
