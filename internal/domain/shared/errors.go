package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	var de *DomainError
	if !errors.As(target, &de) {
		return false
	}
	return de.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying the underlying cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// AsDomainError extracts the first DomainError in err's chain
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// Error codes
const (
	CodeNotFound                  = "NOT_FOUND"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeItemUnavailable           = "ITEM_UNAVAILABLE"
	CodeEmptyCart                 = "EMPTY_CART"
	CodeCurrencyMismatch          = "CURRENCY_MISMATCH"
	CodeShippingConfigUnavailable = "SHIPPING_CONFIG_UNAVAILABLE"
	CodeItemResolverUnavailable   = "ITEM_RESOLVER_UNAVAILABLE"
	CodeTaxServiceError           = "TAX_SERVICE_ERROR"
	CodeUpstreamTimeout           = "UPSTREAM_TIMEOUT"
)

// Common domain errors
var (
	ErrNotFound                  = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput              = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrItemUnavailable           = NewDomainError(CodeItemUnavailable, "Item is unavailable")
	ErrEmptyCart                 = NewDomainError(CodeEmptyCart, "Cart has no purchasable items")
	ErrCurrencyMismatch          = NewDomainError(CodeCurrencyMismatch, "Cart items use more than one currency")
	ErrShippingConfigUnavailable = NewDomainError(CodeShippingConfigUnavailable, "Shipping configuration is unavailable")
	ErrItemResolverUnavailable   = NewDomainError(CodeItemResolverUnavailable, "Item resolver is unavailable")
	ErrTaxService                = NewDomainError(CodeTaxServiceError, "Tax calculation failed")
	ErrUpstreamTimeout           = NewDomainError(CodeUpstreamTimeout, "Upstream call timed out")
)
