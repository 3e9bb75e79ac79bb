package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shipping"
)

// ItemDetailResolver prices cart lines.
// It fails with ErrItemUnavailable when any line cannot be priced.
type ItemDetailResolver interface {
	Resolve(ctx context.Context, items []CartItem) ([]MerchantItemDetail, error)
}

// TaxRequest is the input of a tax calculation for one merchant group
type TaxRequest struct {
	MerchantID   uuid.UUID
	Subtotal     decimal.Decimal
	ShippingCost decimal.Decimal
	Destination  shipping.Destination
	Currency     string
}

// TaxService computes the tax owed for a merchant group
type TaxService interface {
	CalculateTax(ctx context.Context, req TaxRequest) (decimal.Decimal, error)
}
