package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// Checkout calculation outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// CheckoutMetrics records checkout calculation metrics. A nil value records nothing.
type CheckoutMetrics struct {
	calculations *Counter
	duration     *Histogram
	options      *Histogram
	noShipping   *Counter
}

// NewCheckoutMetrics creates the checkout instruments on meter
func NewCheckoutMetrics(meter metric.Meter) (*CheckoutMetrics, error) {
	m := &CheckoutMetrics{}
	var err error
	if m.calculations, err = NewCounter(meter, Instrument{
		Name:        "checkout_calculations_total",
		Description: "Number of checkout calculations by outcome",
		Unit:        "{calculation}",
	}); err != nil {
		return nil, err
	}
	if m.duration, err = NewHistogram(meter, Instrument{
		Name:        "checkout_calculation_duration_seconds",
		Description: "Duration of checkout calculations",
		Unit:        "s",
		Buckets:     latencyBuckets,
	}); err != nil {
		return nil, err
	}
	if m.options, err = NewHistogram(meter, Instrument{
		Name:        "checkout_shipping_options_per_merchant",
		Description: "Shipping options offered to one merchant group",
		Unit:        "{option}",
		Buckets:     optionCountBuckets,
	}); err != nil {
		return nil, err
	}
	if m.noShipping, err = NewCounter(meter, Instrument{
		Name:        "checkout_merchants_without_shipping_total",
		Description: "Merchant groups for which no shipping option matched the destination",
		Unit:        "{merchant}",
	}); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCalculation records the outcome and duration of one calculation.
// errorCode is empty on success.
func (m *CheckoutMetrics) RecordCalculation(ctx context.Context, currency, errorCode string, started time.Time) {
	if m == nil {
		return
	}
	outcome := OutcomeSuccess
	if errorCode != "" {
		outcome = OutcomeFailure
	}
	m.calculations.Inc(ctx,
		AttrOutcome.String(outcome),
		AttrErrorCode.String(errorCode),
		AttrCurrency.String(currency),
	)
	m.duration.ObserveSince(ctx, started, AttrOutcome.String(outcome))
}

// RecordMerchantOptions records how many options one merchant group received
func (m *CheckoutMetrics) RecordMerchantOptions(ctx context.Context, count int) {
	if m == nil {
		return
	}
	m.options.Observe(ctx, float64(count))
	if count == 0 {
		m.noShipping.Inc(ctx)
	}
}
