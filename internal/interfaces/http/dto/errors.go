package dto

import (
	"net/http"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Transport-level error codes; domain codes come from the shared package
const (
	ErrCodeInternal        = "INTERNAL_ERROR"
	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeInvalidInput    = shared.CodeInvalidInput
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable     = "SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:     http.StatusServiceUnavailable,

	shared.CodeInvalidInput: http.StatusBadRequest,
	shared.CodeNotFound:     http.StatusNotFound,

	// Checkout rejections the caller can fix -> 422
	shared.CodeItemUnavailable:  http.StatusUnprocessableEntity,
	shared.CodeEmptyCart:        http.StatusUnprocessableEntity,
	shared.CodeCurrencyMismatch: http.StatusUnprocessableEntity,

	// Collaborator failures; retryable by the caller
	shared.CodeShippingConfigUnavailable: http.StatusServiceUnavailable,
	shared.CodeItemResolverUnavailable:   http.StatusServiceUnavailable,
	shared.CodeTaxServiceError:           http.StatusBadGateway,
	shared.CodeUpstreamTimeout:           http.StatusGatewayTimeout,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
