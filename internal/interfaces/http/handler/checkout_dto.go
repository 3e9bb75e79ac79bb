package handler

import (
	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
)

// CheckoutItemRequest is one cart line
type CheckoutItemRequest struct {
	ProductID string  `json:"product_id" binding:"required,max=128"`
	VariantID *string `json:"variant_id" binding:"omitempty,max=128"`
	Quantity  int     `json:"quantity" binding:"required,gt=0,lte=10000"`
}

// ShippingAddressRequest is the destination of a checkout calculation
type ShippingAddressRequest struct {
	CountryCode       string  `json:"country_code" binding:"required,len=2,alpha"`
	StateProvinceCode *string `json:"state_province_code" binding:"omitempty,max=16"`
	PostalCode        *string `json:"postal_code" binding:"omitempty,max=32"`
}

// CheckoutCalculationRequest is the body of POST /checkout/calculate
type CheckoutCalculationRequest struct {
	Items           []CheckoutItemRequest  `json:"items" binding:"required,min=1,max=500,dive"`
	ShippingAddress ShippingAddressRequest `json:"shipping_address"`
	Currency        string                 `json:"currency" binding:"required,len=3,alpha"`
}

// ToCommand converts the request to the application input
func (r CheckoutCalculationRequest) ToCommand() checkoutapp.CalculateRequest {
	items := make([]checkoutapp.CartItemInput, len(r.Items))
	for i, item := range r.Items {
		items[i] = checkoutapp.CartItemInput{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		}
	}
	return checkoutapp.CalculateRequest{
		Items: items,
		ShippingAddress: checkoutapp.AddressInput{
			CountryCode:       r.ShippingAddress.CountryCode,
			StateProvinceCode: r.ShippingAddress.StateProvinceCode,
			PostalCode:        r.ShippingAddress.PostalCode,
		},
		Currency: r.Currency,
	}
}

// ShippingOptionResponse is one costed shipping option
type ShippingOptionResponse struct {
	ShippingMethodID         string  `json:"shipping_method_id"`
	MethodName               string  `json:"method_name"`
	ZoneName                 string  `json:"zone_name"`
	RateName                 *string `json:"rate_name,omitempty"`
	Cost                     string  `json:"cost"`
	IsFreeShipping           bool    `json:"is_free_shipping"`
	EstimatedDeliveryMinDays *int    `json:"estimated_delivery_min_days,omitempty"`
	EstimatedDeliveryMaxDays *int    `json:"estimated_delivery_max_days,omitempty"`
}

// MerchantBreakdownResponse is the priced result of one merchant group
type MerchantBreakdownResponse struct {
	MerchantID               string                   `json:"merchant_id"`
	ItemsSubtotal            string                   `json:"items_subtotal"`
	AvailableShippingOptions []ShippingOptionResponse `json:"available_shipping_options"`
	SelectedShippingCost     *string                  `json:"selected_shipping_cost,omitempty"`
	TaxAmount                string                   `json:"tax_amount"`
	TotalForMerchant         string                   `json:"total_for_merchant"`
}

// CheckoutCalculationResponse is the data of a successful calculation
type CheckoutCalculationResponse struct {
	MerchantBreakdown []MerchantBreakdownResponse `json:"merchant_breakdown"`
	GrandTotal        string                      `json:"grand_total"`
	Currency          string                      `json:"currency"`
}

// NewCheckoutCalculationResponse renders amounts with two fractional digits
func NewCheckoutCalculationResponse(resp *checkoutapp.CalculationResponse) CheckoutCalculationResponse {
	breakdown := make([]MerchantBreakdownResponse, len(resp.MerchantBreakdown))
	for i, m := range resp.MerchantBreakdown {
		breakdown[i] = MerchantBreakdownResponse{
			MerchantID:               m.MerchantID.String(),
			ItemsSubtotal:            m.ItemsSubtotal.StringFixed(2),
			AvailableShippingOptions: toShippingOptions(m.AvailableShippingOptions),
			SelectedShippingCost:     fixedOrNil(m.SelectedShippingCost),
			TaxAmount:                m.TaxAmount.StringFixed(2),
			TotalForMerchant:         m.TotalForMerchant.StringFixed(2),
		}
	}
	return CheckoutCalculationResponse{
		MerchantBreakdown: breakdown,
		GrandTotal:        resp.GrandTotal.StringFixed(2),
		Currency:          resp.Currency.String(),
	}
}

func toShippingOptions(options []shipping.ShippingOption) []ShippingOptionResponse {
	out := make([]ShippingOptionResponse, len(options))
	for i, o := range options {
		out[i] = ShippingOptionResponse{
			ShippingMethodID:         o.ShippingMethodID.String(),
			MethodName:               o.MethodName,
			ZoneName:                 o.ZoneName,
			RateName:                 o.RateName,
			Cost:                     o.Cost.StringFixed(2),
			IsFreeShipping:           o.IsFreeShipping,
			EstimatedDeliveryMinDays: o.EstimatedDeliveryMinDays,
			EstimatedDeliveryMaxDays: o.EstimatedDeliveryMaxDays,
		}
	}
	return out
}

func fixedOrNil(m *valueobject.Money) *string {
	if m == nil {
		return nil
	}
	s := m.StringFixed(2)
	return &s
}
