package checkout

import (
	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
)

// CartItemInput is one requested cart line
type CartItemInput struct {
	ProductID string
	VariantID *string
	Quantity  int
}

// AddressInput is the requested shipping destination
type AddressInput struct {
	CountryCode       string
	StateProvinceCode *string
	PostalCode        *string
}

// CalculateRequest is the input of a checkout calculation
type CalculateRequest struct {
	Items           []CartItemInput
	ShippingAddress AddressInput
	Currency        string
}

// MerchantSubtotal is the priced result of one merchant group
type MerchantSubtotal struct {
	MerchantID               uuid.UUID
	ItemsSubtotal            valueobject.Money
	AvailableShippingOptions []shipping.ShippingOption
	SelectedShippingCost     *valueobject.Money
	TaxAmount                valueobject.Money
	TotalForMerchant         valueobject.Money
}

// CalculationResponse is the result of a checkout calculation
type CalculationResponse struct {
	MerchantBreakdown []MerchantSubtotal
	GrandTotal        valueobject.Money
	Currency          valueobject.Currency
}
