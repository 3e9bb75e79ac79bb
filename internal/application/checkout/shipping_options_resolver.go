package checkout

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

// ShippingOptionsResolver produces the costed shipping options of a merchant group
type ShippingOptionsResolver struct {
	methods shipping.MethodReader
	zones   *shipping.ZoneMatcher
	rates   *shipping.RateEvaluator
}

// NewShippingOptionsResolver creates a new ShippingOptionsResolver
func NewShippingOptionsResolver(config shipping.ConfigReader, opts ...shipping.ZoneMatcherOption) *ShippingOptionsResolver {
	return &ShippingOptionsResolver{
		methods: config,
		zones:   shipping.NewZoneMatcher(config, opts...),
		rates:   shipping.NewRateEvaluator(config),
	}
}

// Resolve returns every qualifying option across the merchant's active methods, cheapest first
func (r *ShippingOptionsResolver) Resolve(ctx context.Context, merchantID uuid.UUID, items []domain.MerchantItemDetail, dest shipping.Destination) ([]shipping.ShippingOption, error) {
	ctx, span := telemetry.StartSpan(ctx, "shipping_options.resolve",
		telemetry.AttrMerchantID.String(merchantID.String()),
		telemetry.AttrCountryCode.String(dest.CountryCode),
	)
	defer span.End()

	orderValue, weightKg := domain.MerchantGroup{MerchantID: merchantID, Items: items}.Totals()

	methods, err := r.methods.FindActiveMethodsByMerchant(ctx, merchantID)
	if err != nil {
		err = translate(err, "shipping method lookup", domain.ShippingConfigUnavailable)
		telemetry.Fail(span, err)
		return nil, err
	}

	options := make([]shipping.ShippingOption, 0)
	seenZones := make(map[uuid.UUID]struct{})
	for _, method := range methods {
		if !method.IsActive {
			continue
		}

		zones, err := r.zones.FindMatchingZones(ctx, method.ID, dest)
		if err != nil {
			err = translate(err, "shipping zone lookup", domain.ShippingConfigUnavailable)
			telemetry.Fail(span, err)
			return nil, err
		}

		for _, zone := range zones {
			if _, seen := seenZones[zone.ZoneID]; seen {
				continue
			}
			seenZones[zone.ZoneID] = struct{}{}

			quotes, err := r.rates.EvaluateRates(ctx, zone.ZoneID, orderValue, weightKg)
			if err != nil {
				err = translate(err, "shipping rate lookup", domain.ShippingConfigUnavailable)
				telemetry.Fail(span, err)
				return nil, err
			}

			for _, quote := range quotes {
				options = append(options, shipping.ShippingOption{
					ShippingMethodID:         method.ID,
					MethodName:               method.Name,
					ZoneName:                 zone.ZoneName,
					RateName:                 quote.RateName,
					Cost:                     quote.Cost,
					IsFreeShipping:           quote.IsFreeShipping,
					EstimatedDeliveryMinDays: method.EstimatedDeliveryMinDays,
					EstimatedDeliveryMaxDays: method.EstimatedDeliveryMaxDays,
				})
			}
		}
	}

	shipping.SortOptionsByCost(options)
	span.SetAttributes(telemetry.AttrOptionCount.Int(len(options)))
	return options, nil
}
