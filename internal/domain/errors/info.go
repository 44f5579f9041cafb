package errors

import (
	"library/internal/errors"
)

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "INVALID_CREDENTIAL_RECORD"
	Message string `json:"message"`           // Error message
	Details string `json:"details,omitempty"` // Detailed error information (optional)
}

// InfoOf extracts the first AppError in err's chain.
// Errors outside the domain are reported as INTERNAL_ERROR with err's text as details.
func InfoOf(err error) *ErrorInfo {
	if err == nil {
		return nil
	}

	var appErr AppError
	if errors.As(err, &appErr) {
		details := appErr.Details()
		if details == "" && err.Error() != appErr.Message() {
			details = err.Error()
		}

		return &ErrorInfo{
			Code:    appErr.ErrorCode(),
			Message: appErr.Message(),
			Details: details,
		}
	}

	return &ErrorInfo{
		Code:    "INTERNAL_ERROR",
		Message: "internal error",
		Details: err.Error(),
	}
}
