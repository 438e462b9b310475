package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrAccountInactive is returned when the account is disabled.
	ErrAccountInactive = errors.New("account is not active")
	// ErrInvalidRefreshToken is returned when a refresh token is invalid, expired or revoked.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	// ErrUserAlreadyExists is returned when registering a taken username or email.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrPasswordMismatch is returned when password confirmation does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrPasswordTooShort is returned when a password is under the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrPermissionDenied is returned on role or ownership mismatch.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrTaskNotFound is returned when a task is not found.
	ErrTaskNotFound = errors.New("task not found")
	// ErrNotificationNotFound is returned when a notification is missing or not owned by the caller.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrAssigneeNotEmployee is returned when assigning a task to a non-employee.
	ErrAssigneeNotEmployee = errors.New("tasks can only be assigned to employees")
	// ErrTaskNotCompleted is returned when evaluating a task that is not completed.
	ErrTaskNotCompleted = errors.New("only completed tasks can be evaluated")
	// ErrTaskAlreadyEvaluated is returned when a task already has an evaluation.
	ErrTaskAlreadyEvaluated = errors.New("task has already been evaluated")
	// ErrInvalidRating is returned when a rating is outside 1-5.
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	// ErrInvalidStatus is returned for an unknown task status value.
	ErrInvalidStatus = errors.New("invalid task status")
	// ErrInvalidPriority is returned for an unknown task priority value.
	ErrInvalidPriority = errors.New("invalid task priority")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Unknown errors collapse
// to a generic 500 so internal detail never leaks to the caller.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrAccountInactive):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "ACCOUNT_INACTIVE")
	case errors.Is(err, ErrInvalidRefreshToken):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_REFRESH_TOKEN")
	case errors.Is(err, ErrUserAlreadyExists):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "USER_ALREADY_EXISTS")
	case errors.Is(err, ErrPasswordMismatch):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_MISMATCH")
	case errors.Is(err, ErrPasswordTooShort):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_TOO_SHORT")
	case errors.Is(err, ErrPermissionDenied):
		return NewHTTPError(http.StatusForbidden, err.Error(), "PERMISSION_DENIED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrTaskNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "TASK_NOT_FOUND")
	case errors.Is(err, ErrNotificationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOTIFICATION_NOT_FOUND")
	case errors.Is(err, ErrAssigneeNotEmployee):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ASSIGNEE_NOT_EMPLOYEE")
	case errors.Is(err, ErrTaskNotCompleted):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TASK_NOT_COMPLETED")
	case errors.Is(err, ErrTaskAlreadyEvaluated):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "TASK_ALREADY_EVALUATED")
	case errors.Is(err, ErrInvalidRating):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RATING")
	case errors.Is(err, ErrInvalidStatus):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_STATUS")
	case errors.Is(err, ErrInvalidPriority):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRIORITY")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
