package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// APIError is rendered as the response envelope {"message": ...}.
// Code and Details are logged, never sent to the caller.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"-"` // Application-specific error code
	Message    string `json:"message"`
	Details    string `json:"-"`
}

// NewAPIError creates a new APIError instance
func NewAPIError(statusCode int, code string, message string, details string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
		Details:    details,
	}
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// RespondWithError sends the error envelope and aborts the handler chain.
func RespondWithError(c *gin.Context, err *APIError) {
	if err.Details != "" {
		log.Debug().Str("code", err.Code).Str("details", err.Details).Msg(err.Message)
	}
	c.AbortWithStatusJSON(err.StatusCode, err)
}

// Common Error Constants
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeInternalServerError = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
)

// RespondValidationFailed answers 406 Not Acceptable with the first violation as message.
func RespondValidationFailed(c *gin.Context, message, details string) {
	RespondWithError(c, NewAPIError(http.StatusNotAcceptable, ErrCodeValidationFailed, message, details))
}
