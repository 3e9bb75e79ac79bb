package shipping

import (
	"context"

	"github.com/google/uuid"
)

// LocationQuery selects zone locations by named filters.
// Zero-valued fields are not applied.
type LocationQuery struct {
	MethodID    uuid.UUID
	CountryCode string
}

// MethodReader reads shipping methods
type MethodReader interface {
	// FindActiveMethodsByMerchant returns the merchant's active methods ordered by name, then id
	FindActiveMethodsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]ShippingMethod, error)
}

// LocationReader reads zone locations joined with their zone names
type LocationReader interface {
	FindLocations(ctx context.Context, query LocationQuery) ([]ZoneLocation, error)
}

// RateReader reads the rates of a zone
type RateReader interface {
	FindRatesByZone(ctx context.Context, zoneID uuid.UUID) ([]ShippingRate, error)
}

// ConfigReader is the read-only view of merchant shipping configuration
type ConfigReader interface {
	MethodReader
	LocationReader
	RateReader
}
