package shipping

import "github.com/google/uuid"

// ShippingMethod is a merchant-owned delivery option such as "Standard" or "Express"
type ShippingMethod struct {
	ID                       uuid.UUID
	MerchantID               uuid.UUID
	Name                     string
	IsActive                 bool
	EstimatedDeliveryMinDays *int
	EstimatedDeliveryMaxDays *int
}

// ShippingZone is a named coverage region of one shipping method
type ShippingZone struct {
	ID       uuid.UUID
	MethodID uuid.UUID
	Name     string
}
