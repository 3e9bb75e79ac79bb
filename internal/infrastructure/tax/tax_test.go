package tax

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/httpclient"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFlatRate_CalculateTax(t *testing.T) {
	t.Run("should tax subtotal plus shipping and round to cents", func(t *testing.T) {
		svc, err := NewFlatRate(dec("0.0825"))
		require.NoError(t, err)

		amount, err := svc.CalculateTax(context.Background(), checkout.TaxRequest{
			Subtotal:     dec("40.00"),
			ShippingCost: dec("8.00"),
		})
		require.NoError(t, err)
		assert.Equal(t, "3.96", amount.StringFixed(2))
	})

	t.Run("should return zero for a zero rate", func(t *testing.T) {
		svc, err := NewFlatRate(decimal.Zero)
		require.NoError(t, err)

		amount, err := svc.CalculateTax(context.Background(), checkout.TaxRequest{Subtotal: dec("99.99")})
		require.NoError(t, err)
		assert.True(t, amount.IsZero())
	})

	t.Run("should reject a negative rate", func(t *testing.T) {
		_, err := NewFlatRate(dec("-0.01"))
		assert.Error(t, err)
	})

	t.Run("should honor a cancelled context", func(t *testing.T) {
		svc, _ := NewFlatRate(dec("0.1"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := svc.CalculateTax(ctx, checkout.TaxRequest{Subtotal: dec("1")})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func newRemote(t *testing.T, handler http.HandlerFunc) *Remote {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := httpclient.New("tax", server.URL)
	require.NoError(t, err)
	return NewRemote(client, "/internal/tax/calculate")
}

func TestRemote_CalculateTax(t *testing.T) {
	merchantID := uuid.New()
	req := checkout.TaxRequest{
		MerchantID:   merchantID,
		Subtotal:     dec("40.00"),
		ShippingCost: dec("8.00"),
		Destination:  shipping.NewDestination("us", "ca", ""),
		Currency:     "USD",
	}

	t.Run("should send the merchant group and parse the amount", func(t *testing.T) {
		var received map[string]any
		svc := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/internal/tax/calculate", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			_, _ = w.Write([]byte(`{"tax_amount":"3.955"}`))
		})

		amount, err := svc.CalculateTax(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "3.96", amount.StringFixed(2))

		assert.Equal(t, merchantID.String(), received["merchant_id"])
		assert.Equal(t, "40", received["subtotal"])
		assert.Equal(t, "8", received["shipping_cost"])
		assert.Equal(t, "USD", received["currency"])
		address := received["address"].(map[string]any)
		assert.Equal(t, "US", address["country_code"])
		assert.Equal(t, "CA", address["state_province_code"])
		_, hasPostal := address["postal_code"]
		assert.False(t, hasPostal)
	})

	t.Run("should fail when the amount is missing", func(t *testing.T) {
		svc := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		})

		_, err := svc.CalculateTax(context.Background(), req)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no tax_amount")
	})

	t.Run("should return status errors", func(t *testing.T) {
		svc := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := svc.CalculateTax(context.Background(), req)
		var statusErr *httpclient.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
	})
}

func TestNewService(t *testing.T) {
	t.Run("should build the flat service", func(t *testing.T) {
		svc, err := NewService(config.TaxConfig{Mode: config.TaxModeFlat, FlatRate: "0.05"})
		require.NoError(t, err)
		assert.IsType(t, &FlatRate{}, svc)
	})

	t.Run("should build the remote service", func(t *testing.T) {
		svc, err := NewService(config.TaxConfig{Mode: config.TaxModeRemote, BaseURL: "http://tax.local", CalculatePath: "/calc"})
		require.NoError(t, err)
		assert.IsType(t, &Remote{}, svc)
	})

	t.Run("should reject a remote service without base url", func(t *testing.T) {
		_, err := NewService(config.TaxConfig{Mode: config.TaxModeRemote})
		assert.Error(t, err)
	})

	t.Run("should reject unknown modes", func(t *testing.T) {
		_, err := NewService(config.TaxConfig{Mode: "vat"})
		assert.Error(t, err)
	})
}
