// Package catalog adapts the catalog service's item resolution endpoint to
// checkout.ItemDetailResolver.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/infrastructure/httpclient"
)

type resolveItem struct {
	ProductID string  `json:"product_id"`
	VariantID *string `json:"variant_id,omitempty"`
	Quantity  int     `json:"quantity"`
}

type resolveRequest struct {
	Items []resolveItem `json:"items"`
}

type resolvedItem struct {
	ProductID  string           `json:"product_id" validate:"required"`
	VariantID  *string          `json:"variant_id"`
	Name       string           `json:"name"`
	Price      *decimal.Decimal `json:"price" validate:"required"`
	WeightKg   *decimal.Decimal `json:"weight_kg"`
	MerchantID string           `json:"merchant_id" validate:"required,uuid"`
	Currency   string           `json:"currency"`
	Available  *bool            `json:"available"`
}

type resolveResponse struct {
	Items []resolvedItem `json:"items" validate:"dive"`
}

type unavailableBody struct {
	Code      string `json:"code"`
	ProductID string `json:"product_id"`
}

// Resolver calls the catalog service to price cart lines
type Resolver struct {
	client   *httpclient.Client
	path     string
	validate *validator.Validate
	logger   *zap.Logger
}

// NewResolver creates a Resolver posting to path on client
func NewResolver(client *httpclient.Client, path string, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:   client,
		path:     path,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// Resolve implements checkout.ItemDetailResolver.
// Quantities always come from the cart lines; a product repeated in the cart
// shares one catalog entry but keeps each line's quantity.
// A line missing from the response, or reported unavailable, fails with ITEM_UNAVAILABLE.
// Transport and protocol failures are returned wrapped for the caller to classify.
func (r *Resolver) Resolve(ctx context.Context, items []checkout.CartItem) ([]checkout.MerchantItemDetail, error) {
	req := resolveRequest{Items: make([]resolveItem, len(items))}
	for i, item := range items {
		req.Items[i] = resolveItem{ProductID: item.ProductID, VariantID: item.VariantID, Quantity: item.Quantity}
	}

	var resp resolveResponse
	if err := r.client.PostJSON(ctx, r.path, req, &resp); err != nil {
		return nil, r.classify(err, items)
	}
	if err := r.validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("invalid catalog response: %w", err)
	}

	byLine := make(map[string]resolvedItem, len(resp.Items))
	for _, item := range resp.Items {
		byLine[lineKey(item.ProductID, item.VariantID)] = item
	}

	details := make([]checkout.MerchantItemDetail, 0, len(items))
	for _, item := range items {
		resolved, ok := byLine[lineKey(item.ProductID, item.VariantID)]
		if !ok || (resolved.Available != nil && !*resolved.Available) {
			return nil, checkout.ItemUnavailable(item.ProductID)
		}
		detail, err := toDetail(item, resolved)
		if err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, nil
}

func (r *Resolver) classify(err error, items []checkout.CartItem) error {
	var statusErr *httpclient.StatusError
	if !errors.As(err, &statusErr) {
		return err
	}
	if statusErr.StatusCode != http.StatusNotFound && statusErr.StatusCode != http.StatusUnprocessableEntity {
		return err
	}

	productID := unavailableProduct(statusErr.Body)
	if productID == "" && len(items) > 0 {
		productID = items[0].ProductID
	}
	r.logger.Debug("Catalog reported item unavailable",
		zap.String("product_id", productID),
		zap.Int("status", statusErr.StatusCode),
	)
	return checkout.ItemUnavailable(productID)
}

func toDetail(item checkout.CartItem, resolved resolvedItem) (checkout.MerchantItemDetail, error) {
	merchantID, err := uuid.Parse(resolved.MerchantID)
	if err != nil {
		return checkout.MerchantItemDetail{}, fmt.Errorf("invalid merchant_id for product %s: %w", item.ProductID, err)
	}

	var currency valueobject.Currency
	if resolved.Currency != "" {
		currency, err = valueobject.ParseCurrency(resolved.Currency)
		if err != nil {
			return checkout.MerchantItemDetail{}, fmt.Errorf("invalid currency for product %s: %w", item.ProductID, err)
		}
	}

	if resolved.Price.IsNegative() {
		return checkout.MerchantItemDetail{}, fmt.Errorf("negative price %s for product %s", resolved.Price.String(), item.ProductID)
	}

	return checkout.MerchantItemDetail{
		ProductID:  item.ProductID,
		VariantID:  item.VariantID,
		Name:       resolved.Name,
		Price:      *resolved.Price,
		WeightKg:   resolved.WeightKg,
		MerchantID: merchantID,
		Quantity:   item.Quantity,
		Currency:   currency,
	}, nil
}

func lineKey(productID string, variantID *string) string {
	if variantID == nil {
		return productID + "\x00"
	}
	return productID + "\x00" + *variantID
}
