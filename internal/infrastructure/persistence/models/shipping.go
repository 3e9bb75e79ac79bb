package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shipping"
)

// configColumns are the key and audit columns of merchant-managed configuration rows.
// Timestamps are owned by the database and never mapped into the domain.
type configColumns struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"`
}

// ShippingMethodModel is the persistence model for shipping_methods.
// IsActive carries no gorm default so that false is written as-is.
type ShippingMethodModel struct {
	configColumns
	MerchantID               uuid.UUID `gorm:"type:uuid;not null;index:idx_shipping_methods_merchant_active,priority:1"`
	Name                     string    `gorm:"type:varchar(100);not null"`
	IsActive                 bool      `gorm:"not null;index:idx_shipping_methods_merchant_active,priority:2"`
	EstimatedDeliveryMinDays *int
	EstimatedDeliveryMaxDays *int
}

// TableName returns the table name for GORM
func (ShippingMethodModel) TableName() string {
	return "shipping_methods"
}

// ToDomain converts the model to a domain ShippingMethod
func (m *ShippingMethodModel) ToDomain() shipping.ShippingMethod {
	return shipping.ShippingMethod{
		ID:                       m.ID,
		MerchantID:               m.MerchantID,
		Name:                     m.Name,
		IsActive:                 m.IsActive,
		EstimatedDeliveryMinDays: m.EstimatedDeliveryMinDays,
		EstimatedDeliveryMaxDays: m.EstimatedDeliveryMaxDays,
	}
}

// FromDomain populates the model from a domain ShippingMethod
func (m *ShippingMethodModel) FromDomain(method shipping.ShippingMethod) {
	m.ID = method.ID
	m.MerchantID = method.MerchantID
	m.Name = method.Name
	m.IsActive = method.IsActive
	m.EstimatedDeliveryMinDays = method.EstimatedDeliveryMinDays
	m.EstimatedDeliveryMaxDays = method.EstimatedDeliveryMaxDays
}

// ShippingZoneModel is the persistence model for shipping_zones
type ShippingZoneModel struct {
	configColumns
	MethodID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (ShippingZoneModel) TableName() string {
	return "shipping_zones"
}

// ToDomain converts the model to a domain ShippingZone
func (m *ShippingZoneModel) ToDomain() shipping.ShippingZone {
	return shipping.ShippingZone{
		ID:       m.ID,
		MethodID: m.MethodID,
		Name:     m.Name,
	}
}

// FromDomain populates the model from a domain ShippingZone
func (m *ShippingZoneModel) FromDomain(zone shipping.ShippingZone) {
	m.ID = zone.ID
	m.MethodID = zone.MethodID
	m.Name = zone.Name
}

// ZoneLocationModel is the persistence model for shipping_zone_locations.
// NULL state or postal pattern means the location does not constrain that field.
type ZoneLocationModel struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	ZoneID            uuid.UUID `gorm:"type:uuid;not null;index:idx_zone_locations_zone_country,priority:1"`
	CountryCode       string    `gorm:"type:char(2);not null;index:idx_zone_locations_zone_country,priority:2"`
	StateProvinceCode *string   `gorm:"type:varchar(10)"`
	PostalCodePattern *string   `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (ZoneLocationModel) TableName() string {
	return "shipping_zone_locations"
}

// FromDomain populates the model from a domain ZoneLocation
func (m *ZoneLocationModel) FromDomain(loc shipping.ZoneLocation) {
	m.ID = loc.ID
	m.ZoneID = loc.ZoneID
	m.CountryCode = loc.CountryCode
	m.StateProvinceCode = loc.StateProvinceCode.Ptr()
	m.PostalCodePattern = loc.PostalCodePattern.Ptr()
}

// ZoneLocationRow is a zone location joined with the name of its zone
type ZoneLocationRow struct {
	ID                uuid.UUID
	ZoneID            uuid.UUID
	ZoneName          string
	CountryCode       string
	StateProvinceCode *string
	PostalCodePattern *string
}

// ToDomain converts the joined row to a domain ZoneLocation
func (r *ZoneLocationRow) ToDomain() shipping.ZoneLocation {
	return shipping.ZoneLocation{
		ID:                r.ID,
		ZoneID:            r.ZoneID,
		ZoneName:          r.ZoneName,
		CountryCode:       r.CountryCode,
		StateProvinceCode: shipping.ConstraintFromPtr(r.StateProvinceCode),
		PostalCodePattern: shipping.ConstraintFromPtr(r.PostalCodePattern),
	}
}

// ShippingRateModel is the persistence model for shipping_rates
type ShippingRateModel struct {
	ID                     uuid.UUID           `gorm:"type:uuid;primaryKey"`
	ZoneID                 uuid.UUID           `gorm:"type:uuid;not null;index:idx_shipping_rates_zone_base,priority:1"`
	Name                   *string             `gorm:"type:varchar(100)"`
	ConditionMinOrderValue decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	ConditionMaxOrderValue decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	ConditionMinWeightKg   decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	ConditionMaxWeightKg   decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	BaseRate               decimal.Decimal     `gorm:"type:numeric(18,4);not null;index:idx_shipping_rates_zone_base,priority:2"`
	RatePerKg              decimal.NullDecimal `gorm:"type:numeric(18,4)"`
	IsFreeShipping         bool                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ShippingRateModel) TableName() string {
	return "shipping_rates"
}

// ToDomain converts the model to a domain ShippingRate
func (m *ShippingRateModel) ToDomain() shipping.ShippingRate {
	return shipping.ShippingRate{
		ID:                     m.ID,
		ZoneID:                 m.ZoneID,
		Name:                   m.Name,
		ConditionMinOrderValue: nullDecimalPtr(m.ConditionMinOrderValue),
		ConditionMaxOrderValue: nullDecimalPtr(m.ConditionMaxOrderValue),
		ConditionMinWeightKg:   nullDecimalPtr(m.ConditionMinWeightKg),
		ConditionMaxWeightKg:   nullDecimalPtr(m.ConditionMaxWeightKg),
		BaseRate:               m.BaseRate,
		RatePerKg:              nullDecimalPtr(m.RatePerKg),
		IsFreeShipping:         m.IsFreeShipping,
	}
}

// FromDomain populates the model from a domain ShippingRate
func (m *ShippingRateModel) FromDomain(rate shipping.ShippingRate) {
	m.ID = rate.ID
	m.ZoneID = rate.ZoneID
	m.Name = rate.Name
	m.ConditionMinOrderValue = ptrNullDecimal(rate.ConditionMinOrderValue)
	m.ConditionMaxOrderValue = ptrNullDecimal(rate.ConditionMaxOrderValue)
	m.ConditionMinWeightKg = ptrNullDecimal(rate.ConditionMinWeightKg)
	m.ConditionMaxWeightKg = ptrNullDecimal(rate.ConditionMaxWeightKg)
	m.BaseRate = rate.BaseRate
	m.RatePerKg = ptrNullDecimal(rate.RatePerKg)
	m.IsFreeShipping = rate.IsFreeShipping
}

func nullDecimalPtr(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}

func ptrNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
