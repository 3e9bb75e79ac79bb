package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/infrastructure/httpclient"
)

type remoteAddress struct {
	CountryCode       string  `json:"country_code"`
	StateProvinceCode *string `json:"state_province_code,omitempty"`
	PostalCode        *string `json:"postal_code,omitempty"`
}

type remoteRequest struct {
	MerchantID   string          `json:"merchant_id"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Currency     string          `json:"currency"`
	Address      remoteAddress   `json:"address"`
}

type remoteResponse struct {
	TaxAmount *decimal.Decimal `json:"tax_amount"`
}

// Remote delegates tax calculation to the tax service
type Remote struct {
	client *httpclient.Client
	path   string
}

// NewRemote creates a Remote service posting to path on client
func NewRemote(client *httpclient.Client, path string) *Remote {
	return &Remote{client: client, path: path}
}

// CalculateTax implements checkout.TaxService.
// A response without tax_amount is an error, never zero tax.
func (r *Remote) CalculateTax(ctx context.Context, req checkout.TaxRequest) (decimal.Decimal, error) {
	body := remoteRequest{
		MerchantID:   req.MerchantID.String(),
		Subtotal:     req.Subtotal,
		ShippingCost: req.ShippingCost,
		Currency:     req.Currency,
		Address: remoteAddress{
			CountryCode:       req.Destination.CountryCode,
			StateProvinceCode: optional(req.Destination.StateProvinceCode),
			PostalCode:        optional(req.Destination.PostalCode),
		},
	}

	var resp remoteResponse
	if err := r.client.PostJSON(ctx, r.path, body, &resp); err != nil {
		return decimal.Zero, err
	}
	if resp.TaxAmount == nil {
		return decimal.Zero, fmt.Errorf("tax response for merchant %s has no tax_amount", req.MerchantID)
	}
	return resp.TaxAmount.Round(2), nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
