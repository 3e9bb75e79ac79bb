package shipping

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingOption is a costed way to ship a merchant's items to a destination
type ShippingOption struct {
	ShippingMethodID         uuid.UUID
	MethodName               string
	ZoneName                 string
	RateName                 *string
	Cost                     decimal.Decimal
	IsFreeShipping           bool
	EstimatedDeliveryMinDays *int
	EstimatedDeliveryMaxDays *int
}

// SortOptionsByCost orders options by ascending cost, keeping discovery order for equal costs
func SortOptionsByCost(options []ShippingOption) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Cost.LessThan(options[j].Cost)
	})
}

// CheapestCost returns the lowest option cost, or nil when there are no options
func CheapestCost(options []ShippingOption) *decimal.Decimal {
	if len(options) == 0 {
		return nil
	}
	cheapest := options[0].Cost
	for _, o := range options[1:] {
		if o.Cost.LessThan(cheapest) {
			cheapest = o.Cost
		}
	}
	return &cheapest
}
