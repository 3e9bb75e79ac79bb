// Package tax provides checkout.TaxService implementations.
package tax

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/checkout"
)

// FlatRate charges one rate on the merchant subtotal plus shipping
type FlatRate struct {
	rate decimal.Decimal
}

// NewFlatRate creates a FlatRate service; rate is a fraction such as 0.0825
func NewFlatRate(rate decimal.Decimal) (*FlatRate, error) {
	if rate.IsNegative() {
		return nil, fmt.Errorf("flat tax rate cannot be negative: %s", rate)
	}
	return &FlatRate{rate: rate}, nil
}

// CalculateTax implements checkout.TaxService, rounding half away from zero to cents
func (f *FlatRate) CalculateTax(ctx context.Context, req checkout.TaxRequest) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Zero, err
	}
	taxable := req.Subtotal.Add(req.ShippingCost)
	return taxable.Mul(f.rate).Round(2), nil
}
