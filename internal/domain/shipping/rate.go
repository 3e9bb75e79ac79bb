package shipping

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRate is a conditional pricing rule of a zone.
// Nil condition bounds are unbounded; set bounds are inclusive.
type ShippingRate struct {
	ID                     uuid.UUID
	ZoneID                 uuid.UUID
	Name                   *string
	ConditionMinOrderValue *decimal.Decimal
	ConditionMaxOrderValue *decimal.Decimal
	ConditionMinWeightKg   *decimal.Decimal
	ConditionMaxWeightKg   *decimal.Decimal
	BaseRate               decimal.Decimal
	RatePerKg              *decimal.Decimal
	IsFreeShipping         bool
}

// Applies reports whether the order aggregates fall within every configured bound
func (r ShippingRate) Applies(orderValue, weightKg decimal.Decimal) bool {
	if r.ConditionMinOrderValue != nil && orderValue.LessThan(*r.ConditionMinOrderValue) {
		return false
	}
	if r.ConditionMaxOrderValue != nil && orderValue.GreaterThan(*r.ConditionMaxOrderValue) {
		return false
	}
	if r.ConditionMinWeightKg != nil && weightKg.LessThan(*r.ConditionMinWeightKg) {
		return false
	}
	if r.ConditionMaxWeightKg != nil && weightKg.GreaterThan(*r.ConditionMaxWeightKg) {
		return false
	}
	return true
}

// Cost returns the shipping cost for weightKg, never negative and rounded half-up to cents
func (r ShippingRate) Cost(weightKg decimal.Decimal) decimal.Decimal {
	if r.IsFreeShipping {
		return decimal.Zero.Round(2)
	}

	cost := r.BaseRate
	if r.RatePerKg != nil && weightKg.IsPositive() {
		cost = cost.Add(r.RatePerKg.Mul(weightKg))
	}
	if cost.IsNegative() {
		cost = decimal.Zero
	}
	return cost.Round(2)
}
