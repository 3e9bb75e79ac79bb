package tax

import (
	"fmt"

	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/httpclient"
)

// NewService builds the TaxService selected by cfg.Mode
func NewService(cfg config.TaxConfig, opts ...httpclient.Option) (checkout.TaxService, error) {
	switch cfg.Mode {
	case config.TaxModeFlat:
		return NewFlatRate(cfg.FlatRateDecimal())
	case config.TaxModeRemote:
		client, err := httpclient.New("tax", cfg.BaseURL, opts...)
		if err != nil {
			return nil, err
		}
		return NewRemote(client, cfg.CalculatePath), nil
	default:
		return nil, fmt.Errorf("unsupported tax mode %q", cfg.Mode)
	}
}
