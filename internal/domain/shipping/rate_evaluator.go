package shipping

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateQuote is a qualifying rate together with its computed cost
type RateQuote struct {
	RateID         uuid.UUID
	RateName       *string
	Cost           decimal.Decimal
	IsFreeShipping bool
}

// EvaluateRates filters rates by the order aggregates and prices every qualifying one.
// Rates are considered in base_rate ascending order.
func EvaluateRates(rates []ShippingRate, orderValue, weightKg decimal.Decimal) []RateQuote {
	sorted := make([]ShippingRate, len(rates))
	copy(sorted, rates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BaseRate.LessThan(sorted[j].BaseRate)
	})

	quotes := make([]RateQuote, 0, len(sorted))
	for _, rate := range sorted {
		if !rate.Applies(orderValue, weightKg) {
			continue
		}
		quotes = append(quotes, RateQuote{
			RateID:         rate.ID,
			RateName:       rate.Name,
			Cost:           rate.Cost(weightKg),
			IsFreeShipping: rate.IsFreeShipping,
		})
	}
	return quotes
}

// RateEvaluator prices the rates configured for a zone
type RateEvaluator struct {
	rates RateReader
}

// NewRateEvaluator creates a new rate evaluator
func NewRateEvaluator(rates RateReader) *RateEvaluator {
	return &RateEvaluator{rates: rates}
}

// EvaluateRates loads the zone's rates and returns the qualifying quotes
func (e *RateEvaluator) EvaluateRates(ctx context.Context, zoneID uuid.UUID, orderValue, weightKg decimal.Decimal) ([]RateQuote, error) {
	rates, err := e.rates.FindRatesByZone(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	return EvaluateRates(rates, orderValue, weightKg), nil
}
