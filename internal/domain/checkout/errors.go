package checkout

import (
	"fmt"

	"github.com/marketplace/backend/internal/domain/shared"
)

// ItemUnavailable reports a cart line that cannot be priced
func ItemUnavailable(productID string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeItemUnavailable,
		fmt.Sprintf("Item %s is unavailable", productID))
}

// EmptyCart reports a cart without any merchant group
func EmptyCart() *shared.DomainError {
	return shared.NewDomainError(shared.CodeEmptyCart, "Cart has no purchasable items")
}

// CurrencyMismatch reports an item priced in a currency other than the checkout currency
func CurrencyMismatch(productID, itemCurrency, checkoutCurrency string) *shared.DomainError {
	return shared.NewDomainError(shared.CodeCurrencyMismatch,
		fmt.Sprintf("Item %s is priced in %s but checkout currency is %s", productID, itemCurrency, checkoutCurrency))
}

// ShippingConfigUnavailable wraps a failure to read shipping configuration
func ShippingConfigUnavailable(cause error) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeShippingConfigUnavailable,
		"Shipping configuration is unavailable", cause)
}

// ItemResolverUnavailable wraps a transport failure of the item detail resolver
func ItemResolverUnavailable(cause error) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeItemResolverUnavailable,
		"Item detail resolver is unavailable", cause)
}

// TaxServiceError wraps a failure of the tax service
func TaxServiceError(cause error) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeTaxServiceError, "Tax calculation failed", cause)
}

// UpstreamTimeout wraps a deadline exceeded on a collaborator call
func UpstreamTimeout(operation string, cause error) *shared.DomainError {
	return shared.WrapDomainError(shared.CodeUpstreamTimeout,
		fmt.Sprintf("%s timed out", operation), cause)
}
