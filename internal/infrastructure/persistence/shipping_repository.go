package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

// GormShippingRepository reads merchant shipping configuration using GORM.
// It implements shipping.ConfigReader.
type GormShippingRepository struct {
	db *gorm.DB
}

// NewGormShippingRepository creates a new GormShippingRepository
func NewGormShippingRepository(db *gorm.DB) *GormShippingRepository {
	return &GormShippingRepository{db: db}
}

// FindActiveMethodsByMerchant returns the merchant's active methods ordered by name, then id
func (r *GormShippingRepository) FindActiveMethodsByMerchant(ctx context.Context, merchantID uuid.UUID) ([]shipping.ShippingMethod, error) {
	var rows []models.ShippingMethodModel
	err := r.db.WithContext(ctx).
		Where("merchant_id = ? AND is_active = ?", merchantID, true).
		Order("name ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping methods for merchant %s: %w", merchantID, err)
	}

	methods := make([]shipping.ShippingMethod, len(rows))
	for i := range rows {
		methods[i] = rows[i].ToDomain()
	}
	return methods, nil
}

// FindLocations returns zone locations joined with their zone name.
// Each non-zero filter of the query is bound as a parameter.
func (r *GormShippingRepository) FindLocations(ctx context.Context, query shipping.LocationQuery) ([]shipping.ZoneLocation, error) {
	q := r.db.WithContext(ctx).
		Table("shipping_zone_locations AS l").
		Select("l.id, l.zone_id, z.name AS zone_name, l.country_code, l.state_province_code, l.postal_code_pattern").
		Joins("JOIN shipping_zones AS z ON z.id = l.zone_id")

	if query.MethodID != uuid.Nil {
		q = q.Where("z.method_id = ?", query.MethodID)
	}
	if country := strings.ToUpper(strings.TrimSpace(query.CountryCode)); country != "" {
		q = q.Where("l.country_code = ?", country)
	}

	var rows []models.ZoneLocationRow
	if err := q.Order("z.id ASC").Order("l.id ASC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load zone locations (method %s, country %q): %w", query.MethodID, query.CountryCode, err)
	}

	locations := make([]shipping.ZoneLocation, len(rows))
	for i := range rows {
		locations[i] = rows[i].ToDomain()
	}
	return locations, nil
}

// FindRatesByZone returns the zone's rates ordered by base rate, then id
func (r *GormShippingRepository) FindRatesByZone(ctx context.Context, zoneID uuid.UUID) ([]shipping.ShippingRate, error) {
	var rows []models.ShippingRateModel
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("base_rate ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shipping rates for zone %s: %w", zoneID, err)
	}

	rates := make([]shipping.ShippingRate, len(rows))
	for i := range rows {
		rates[i] = rows[i].ToDomain()
	}
	return rates, nil
}
