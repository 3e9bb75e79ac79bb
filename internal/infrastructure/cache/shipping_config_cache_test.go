package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/marketplace/backend/internal/domain/shipping"
)

type mockConfigReader struct {
	mock.Mock
}

func (m *mockConfigReader) FindActiveMethodsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]shipping.ShippingMethod, error) {
	args := m.Called(ctx, merchantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.ShippingMethod), args.Error(1)
}

func (m *mockConfigReader) FindLocations(ctx context.Context, query shipping.LocationQuery) ([]shipping.ZoneLocation, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.ZoneLocation), args.Error(1)
}

func (m *mockConfigReader) FindRatesByZone(ctx context.Context, zoneID uuid.UUID) ([]shipping.ShippingRate, error) {
	args := m.Called(ctx, zoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]shipping.ShippingRate), args.Error(1)
}

func newTestCache(t *testing.T) (*CachedShippingConfig, *mockConfigReader, *InMemoryStore) {
	t.Helper()
	next := new(mockConfigReader)
	store := NewInMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	return NewCachedShippingConfig(next, store, time.Minute), next, store
}

func TestCachedShippingConfig_Methods(t *testing.T) {
	ctx := context.Background()

	t.Run("should serve the second read from cache", func(t *testing.T) {
		cached, next, _ := newTestCache(t)
		merchantID := uuid.New()
		minDays := 2
		methods := []shipping.ShippingMethod{{
			ID:                       uuid.New(),
			MerchantID:               merchantID,
			Name:                     "Standard",
			IsActive:                 true,
			EstimatedDeliveryMinDays: &minDays,
		}}
		next.On("FindActiveMethodsByMerchant", ctx, merchantID).Return(methods, nil).Once()

		first, err := cached.FindActiveMethodsByMerchant(ctx, merchantID)
		require.NoError(t, err)
		second, err := cached.FindActiveMethodsByMerchant(ctx, merchantID)
		require.NoError(t, err)

		assert.Equal(t, methods, first)
		assert.Equal(t, methods, second)
		next.AssertNumberOfCalls(t, "FindActiveMethodsByMerchant", 1)
	})

	t.Run("should not cache reader errors", func(t *testing.T) {
		cached, next, _ := newTestCache(t)
		merchantID := uuid.New()
		dbErr := errors.New("database unavailable")
		next.On("FindActiveMethodsByMerchant", ctx, merchantID).Return(nil, dbErr).Twice()

		_, err := cached.FindActiveMethodsByMerchant(ctx, merchantID)
		assert.ErrorIs(t, err, dbErr)
		_, err = cached.FindActiveMethodsByMerchant(ctx, merchantID)
		assert.ErrorIs(t, err, dbErr)
		next.AssertExpectations(t)
	})

	t.Run("should cache empty configuration", func(t *testing.T) {
		cached, next, _ := newTestCache(t)
		merchantID := uuid.New()
		next.On("FindActiveMethodsByMerchant", ctx, merchantID).Return([]shipping.ShippingMethod{}, nil).Once()

		for i := 0; i < 2; i++ {
			methods, err := cached.FindActiveMethodsByMerchant(ctx, merchantID)
			require.NoError(t, err)
			assert.Empty(t, methods)
		}
		next.AssertExpectations(t)
	})
}

func TestCachedShippingConfig_LocationsKeepConstraints(t *testing.T) {
	ctx := context.Background()
	cached, next, _ := newTestCache(t)

	query := shipping.LocationQuery{MethodID: uuid.New(), CountryCode: "US"}
	locations := []shipping.ZoneLocation{
		{ID: uuid.New(), ZoneID: uuid.New(), ZoneName: "California", CountryCode: "US",
			StateProvinceCode: shipping.Exactly("CA"), PostalCodePattern: shipping.Exactly("9*")},
		{ID: uuid.New(), ZoneID: uuid.New(), ZoneName: "Domestic", CountryCode: "US"},
	}
	next.On("FindLocations", ctx, query).Return(locations, nil).Once()

	_, err := cached.FindLocations(ctx, query)
	require.NoError(t, err)

	// lower-case country maps to the same entry
	got, err := cached.FindLocations(ctx, shipping.LocationQuery{MethodID: query.MethodID, CountryCode: "us"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Specificity())
	assert.Equal(t, 0, got[1].Specificity())
	assert.True(t, got[1].PostalCodePattern.IsAny())
	next.AssertExpectations(t)
}

func TestCachedShippingConfig_RatesKeepDecimals(t *testing.T) {
	ctx := context.Background()
	cached, next, _ := newTestCache(t)

	zoneID := uuid.New()
	perKg := decimal.RequireFromString("0.75")
	rates := []shipping.ShippingRate{{
		ID:        uuid.New(),
		ZoneID:    zoneID,
		BaseRate:  decimal.RequireFromString("4.50"),
		RatePerKg: &perKg,
	}}
	next.On("FindRatesByZone", ctx, zoneID).Return(rates, nil).Once()

	_, err := cached.FindRatesByZone(ctx, zoneID)
	require.NoError(t, err)
	got, err := cached.FindRatesByZone(ctx, zoneID)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.True(t, got[0].BaseRate.Equal(decimal.RequireFromString("4.5")))
	require.NotNil(t, got[0].RatePerKg)
	assert.True(t, got[0].RatePerKg.Equal(perKg))
	assert.Nil(t, got[0].ConditionMinOrderValue)
	next.AssertExpectations(t)
}

func TestCachedShippingConfig_DiscardsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	cached, next, store := newTestCache(t)

	zoneID := uuid.New()
	require.NoError(t, store.Set(ctx, "shipping:rates:"+zoneID.String(), []byte("{not json"), time.Minute))
	next.On("FindRatesByZone", ctx, zoneID).Return([]shipping.ShippingRate{}, nil).Once()

	rates, err := cached.FindRatesByZone(ctx, zoneID)
	require.NoError(t, err)
	assert.Empty(t, rates)
	next.AssertExpectations(t)
}

func TestCachedShippingConfig_UnreachableRedisFallsThrough(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	core, recorded := observer.New(zapcore.WarnLevel)
	next := new(mockConfigReader)
	cached := NewCachedShippingConfig(next, NewRedisStoreWithClient(client, "test:"), time.Minute,
		WithCacheLogger(zap.New(core)))

	zoneID := uuid.New()
	next.On("FindRatesByZone", ctx, zoneID).Return([]shipping.ShippingRate{}, nil).Once()

	rates, err := cached.FindRatesByZone(ctx, zoneID)
	require.NoError(t, err)
	assert.Empty(t, rates)
	assert.Equal(t, 1, recorded.FilterMessage("Shipping config cache read failed").Len())
	assert.Equal(t, 1, recorded.FilterMessage("Shipping config cache write failed").Len())
	next.AssertExpectations(t)
}
