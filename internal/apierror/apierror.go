package apierror

import (
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound             ErrorCode = "NOT_FOUND"
	ErrConflict             ErrorCode = "CONFLICT"
	ErrBadRequest           ErrorCode = "BAD_REQUEST"
	ErrInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrUnauthenticated      ErrorCode = "UNAUTHENTICATED"
	ErrMissionInactive      ErrorCode = "MISSION_INACTIVE"
	ErrDuplicateSubmission  ErrorCode = "DUPLICATE_SUBMISSION"
	ErrInvalidTransition    ErrorCode = "INVALID_TRANSITION"
	ErrStoreUnavailable     ErrorCode = "STORE_UNAVAILABLE"
	ErrRewardIssuanceFailed ErrorCode = "REWARD_ISSUANCE_FAILED"
	ErrInternalServer       ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// CodeOf extracts the error code from an APIError, or INTERNAL_SERVER_ERROR
// for anything else. Callers use it to branch on the taxonomy without type
// asserting everywhere.
func CodeOf(err error) ErrorCode {
	if apiErr, ok := err.(APIError); ok {
		return apiErr.Code
	}
	return ErrInternalServer
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrNotFound:
			return http.StatusNotFound
		case ErrConflict, ErrDuplicateSubmission, ErrInvalidTransition:
			return http.StatusConflict
		case ErrBadRequest, ErrInvalidInput, ErrMissionInactive:
			return http.StatusBadRequest
		case ErrUnauthenticated:
			return http.StatusUnauthorized
		case ErrStoreUnavailable:
			return http.StatusServiceUnavailable
		case ErrRewardIssuanceFailed, ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
