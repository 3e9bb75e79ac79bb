package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestCheckoutMetrics(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer provider.Shutdown(ctx)

	m, err := NewCheckoutMetrics(provider.Meter("test"))
	require.NoError(t, err)

	started := time.Now().Add(-20 * time.Millisecond)
	m.RecordCalculation(ctx, "USD", "", started)
	m.RecordCalculation(ctx, "USD", "ITEM_UNAVAILABLE", started)
	m.RecordMerchantOptions(ctx, 3)
	m.RecordMerchantOptions(ctx, 0)

	metrics := collect(t, reader)

	t.Run("counts calculations by outcome", func(t *testing.T) {
		sum := metrics["checkout_calculations_total"].Data.(metricdata.Sum[int64])
		require.Len(t, sum.DataPoints, 2)
		var total int64
		for _, dp := range sum.DataPoints {
			total += dp.Value
		}
		assert.Equal(t, int64(2), total)
	})

	t.Run("records duration", func(t *testing.T) {
		hist := metrics["checkout_calculation_duration_seconds"].Data.(metricdata.Histogram[float64])
		var count uint64
		for _, dp := range hist.DataPoints {
			count += dp.Count
		}
		assert.Equal(t, uint64(2), count)
	})

	t.Run("counts merchants without shipping", func(t *testing.T) {
		sum := metrics["checkout_merchants_without_shipping_total"].Data.(metricdata.Sum[int64])
		require.Len(t, sum.DataPoints, 1)
		assert.Equal(t, int64(1), sum.DataPoints[0].Value)
	})
}

func TestCheckoutMetrics_NilSafe(t *testing.T) {
	var m *CheckoutMetrics
	assert.NotPanics(t, func() {
		m.RecordCalculation(context.Background(), "USD", "", time.Now())
		m.RecordMerchantOptions(context.Background(), 0)
	})
}
