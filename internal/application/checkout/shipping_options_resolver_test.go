package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shipping"
)

func TestShippingOptionsResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	merchant := uuid.New()
	dest := shipping.NewDestination("US", "CA", "90210")
	items := []domain.MerchantItemDetail{{ProductID: "p1", Price: d("20.00"), Quantity: 2, WeightKg: dp("1.5"), MerchantID: merchant}}

	t.Run("should return nothing for merchant without active methods", func(t *testing.T) {
		config := newFakeShippingConfig()
		config.addMethod(merchant, "Disabled", false)

		options, err := NewShippingOptionsResolver(config).Resolve(ctx, merchant, items, dest)
		require.NoError(t, err)
		assert.Empty(t, options)
	})

	t.Run("should combine methods and zones sorted by cost", func(t *testing.T) {
		config := newFakeShippingConfig()
		minDays, maxDays := 1, 2
		express := config.addMethod(merchant, "Express", true)
		config.methods[len(config.methods)-1].EstimatedDeliveryMinDays = &minDays
		config.methods[len(config.methods)-1].EstimatedDeliveryMaxDays = &maxDays
		standard := config.addMethod(merchant, "Standard", true)

		expressZone := config.addZone(express.ID, "US", shipping.ZoneLocation{CountryCode: "US"})
		config.addRate(expressZone, shipping.ShippingRate{BaseRate: d("20")})
		config.addRate(expressZone, shipping.ShippingRate{BaseRate: d("9"), ConditionMaxWeightKg: dp("1")})

		stateZone := config.addZone(standard.ID, "CA", shipping.ZoneLocation{CountryCode: "US", StateProvinceCode: shipping.Exactly("CA")})
		countryZone := config.addZone(standard.ID, "Rest of US", shipping.ZoneLocation{CountryCode: "US"})
		config.addRate(stateZone, shipping.ShippingRate{BaseRate: d("5"), RatePerKg: dp("1")})
		config.addRate(countryZone, shipping.ShippingRate{BaseRate: d("8")})

		options, err := NewShippingOptionsResolver(config).Resolve(ctx, merchant, items, dest)
		require.NoError(t, err)
		require.Len(t, options, 3)

		assert.Equal(t, "8.00", options[0].Cost.StringFixed(2))
		assert.Equal(t, "8.00", options[1].Cost.StringFixed(2))
		assert.Equal(t, "CA", options[0].ZoneName, "equal costs keep discovery order")
		assert.Equal(t, "Rest of US", options[1].ZoneName)
		assert.Equal(t, "Express", options[2].MethodName)
		assert.Equal(t, "20.00", options[2].Cost.StringFixed(2))
		require.NotNil(t, options[2].EstimatedDeliveryMinDays)
		assert.Equal(t, 1, *options[2].EstimatedDeliveryMinDays)
		assert.Equal(t, 2, *options[2].EstimatedDeliveryMaxDays)
	})

	t.Run("should honor most specific zone selection", func(t *testing.T) {
		config := newFakeShippingConfig()
		method := config.addMethod(merchant, "Standard", true)
		stateZone := config.addZone(method.ID, "CA", shipping.ZoneLocation{CountryCode: "US", StateProvinceCode: shipping.Exactly("CA")})
		countryZone := config.addZone(method.ID, "US", shipping.ZoneLocation{CountryCode: "US"})
		config.addRate(stateZone, shipping.ShippingRate{BaseRate: d("7")})
		config.addRate(countryZone, shipping.ShippingRate{BaseRate: d("3")})

		resolver := NewShippingOptionsResolver(config, shipping.WithZoneSelection(shipping.SelectMostSpecific))
		options, err := resolver.Resolve(ctx, merchant, items, dest)
		require.NoError(t, err)
		require.Len(t, options, 1)
		assert.Equal(t, "CA", options[0].ZoneName)
	})
}
