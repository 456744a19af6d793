package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aashari/go-eduverse-backend/internal/logger"
)

// ErrorType represents different types of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation_error"
	ErrorTypeInvalidProvider ErrorType = "invalid_provider"
	ErrorTypeNotFound        ErrorType = "not_found_error"
	ErrorTypeForbidden       ErrorType = "forbidden_error"
	ErrorTypeInternal        ErrorType = "internal_error"
	ErrorTypeUpstream        ErrorType = "upstream_error"
	ErrorTypeConfiguration   ErrorType = "configuration_error"
)

// Error codes carried in APIError.Code
const (
	CodeMissingInput    = "missing_input"
	CodeInvalidInput    = "invalid_input"
	CodeInvalidProvider = "invalid_provider"
	CodeTimeout         = "timeout"
)

// APIError represents a structured API error
type APIError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse represents the JSON error response format
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// NewAPIError creates a new APIError
func NewAPIError(errorType ErrorType, message string) *APIError {
	return &APIError{
		Type:    errorType,
		Message: message,
	}
}

// NewAPIErrorWithCode creates a new APIError with a code
func NewAPIErrorWithCode(errorType ErrorType, message, code string) *APIError {
	return &APIError{
		Type:    errorType,
		Message: message,
		Code:    code,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(errorType ErrorType, message, details string) *APIError {
	return &APIError{
		Type:    errorType,
		Message: message,
		Details: details,
	}
}

// HandleError writes a standardized error response to the HTTP response writer
func HandleError(w http.ResponseWriter, err error, statusCode int) {
	HandleErrorCtx(context.Background(), w, err, statusCode)
}

// HandleErrorCtx is HandleError with request-scoped logging
func HandleErrorCtx(ctx context.Context, w http.ResponseWriter, err error, statusCode int) {
	var apiError *APIError
	if ae, ok := err.(*APIError); ok {
		apiError = ae
	} else {
		apiError = inferErrorType(err, statusCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Error: *apiError}
	if jsonBytes, jsonErr := json.Marshal(response); jsonErr == nil {
		_, _ = w.Write(jsonBytes)
	} else {
		logger.Error(ctx, "Error marshaling error response", jsonErr)
		_, _ = w.Write([]byte(`{"error":{"type":"internal_error","message":"Internal server error"}}`))
	}

	logger.Warn(ctx, "API error returned",
		"response_status_code", statusCode,
		"error_type", string(apiError.Type),
		"error_code", apiError.Code,
		"error_message", apiError.Message,
	)
}

// inferErrorType attempts to infer the error type based on the status code
func inferErrorType(err error, statusCode int) *APIError {
	message := err.Error()

	switch statusCode {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		return NewAPIError(ErrorTypeValidation, message)
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		return NewAPIError(ErrorTypeNotFound, message)
	case http.StatusForbidden:
		return NewAPIError(ErrorTypeForbidden, message)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return NewAPIError(ErrorTypeUpstream, message)
	default:
		return NewAPIError(ErrorTypeInternal, message)
	}
}

// Common error constructors for convenience

// NewValidationError creates a validation error
func NewValidationError(message string) *APIError {
	return NewAPIErrorWithCode(ErrorTypeValidation, message, CodeInvalidInput)
}

// NewMissingInputError creates the error for an absent required field or file
func NewMissingInputError(field string) *APIError {
	return NewAPIErrorWithCode(ErrorTypeValidation, fmt.Sprintf("Field '%s' is required", field), CodeMissingInput)
}

// NewInvalidProviderError creates the error for an unrecognized provider tag
func NewInvalidProviderError(message string) *APIError {
	return NewAPIErrorWithCode(ErrorTypeInvalidProvider, message, CodeInvalidProvider)
}

// NewUpstreamError creates the error for a failed provider call
func NewUpstreamError(message string) *APIError {
	return NewAPIError(ErrorTypeUpstream, message)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(message string) *APIError {
	return NewAPIError(ErrorTypeNotFound, message)
}

// NewInternalError creates an internal error
func NewInternalError(message string) *APIError {
	return NewAPIError(ErrorTypeInternal, message)
}

// NewConfigurationError creates a configuration error
func NewConfigurationError(message string) *APIError {
	return NewAPIError(ErrorTypeConfiguration, message)
}

// Validation helpers

// ValidateRequired checks if a required field is present
func ValidateRequired(value, fieldName string) *APIError {
	if value == "" {
		return NewMissingInputError(fieldName)
	}
	return nil
}
