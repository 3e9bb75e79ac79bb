package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared/valueobject"
)

// CartItem is one line of a checkout cart
type CartItem struct {
	ProductID string
	VariantID *string
	Quantity  int
}

// MerchantItemDetail is a cart line priced by the item detail resolver.
// Currency is empty when the resolver does not report one.
type MerchantItemDetail struct {
	ProductID  string
	VariantID  *string
	Name       string
	Price      decimal.Decimal
	WeightKg   *decimal.Decimal
	MerchantID uuid.UUID
	Quantity   int
	Currency   valueobject.Currency
}

// LineTotal returns price × quantity
func (d MerchantItemDetail) LineTotal() decimal.Decimal {
	return d.Price.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// LineWeightKg returns weight × quantity, treating a missing weight as zero
func (d MerchantItemDetail) LineWeightKg() decimal.Decimal {
	if d.WeightKg == nil {
		return decimal.Zero
	}
	return d.WeightKg.Mul(decimal.NewFromInt(int64(d.Quantity)))
}

// MerchantGroup is the subset of resolved items sold by one merchant
type MerchantGroup struct {
	MerchantID uuid.UUID
	Items      []MerchantItemDetail
}

// GroupByMerchant groups items by merchant, in order of first appearance
func GroupByMerchant(items []MerchantItemDetail) []MerchantGroup {
	index := make(map[uuid.UUID]int)
	groups := make([]MerchantGroup, 0)
	for _, item := range items {
		i, ok := index[item.MerchantID]
		if !ok {
			i = len(groups)
			index[item.MerchantID] = i
			groups = append(groups, MerchantGroup{MerchantID: item.MerchantID})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// Totals returns the group's order value and total weight in kilograms
func (g MerchantGroup) Totals() (orderValue, weightKg decimal.Decimal) {
	orderValue, weightKg = decimal.Zero, decimal.Zero
	for _, item := range g.Items {
		orderValue = orderValue.Add(item.LineTotal())
		weightKg = weightKg.Add(item.LineWeightKg())
	}
	return orderValue, weightKg
}
