package checkout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/marketplace/backend/internal/domain/checkout"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/domain/shared/valueobject"
	"github.com/marketplace/backend/internal/domain/shipping"
	"github.com/marketplace/backend/internal/infrastructure/telemetry"
)

// centPlaces is the precision of every amount in a calculation response
const centPlaces = 2

// ServiceConfig bounds the concurrency and latency of a calculation
type ServiceConfig struct {
	MerchantConcurrency int
	CalculationTimeout  time.Duration
	ItemResolverTimeout time.Duration
	TaxTimeout          time.Duration
}

// DefaultServiceConfig returns the defaults used when no configuration is supplied
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MerchantConcurrency: 4,
		CalculationTimeout:  10 * time.Second,
		ItemResolverTimeout: 3 * time.Second,
		TaxTimeout:          3 * time.Second,
	}
}

// CheckoutService prices a multi-merchant cart for a destination
type CheckoutService struct {
	items    domain.ItemDetailResolver
	shipping *ShippingOptionsResolver
	tax      domain.TaxService
	config   ServiceConfig
	logger   *zap.Logger
	metrics  *telemetry.CheckoutMetrics
}

// CheckoutServiceOption is a functional option for configuring the checkout service
type CheckoutServiceOption func(*CheckoutService)

// WithServiceConfig sets concurrency and timeouts
func WithServiceConfig(cfg ServiceConfig) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.config = cfg
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.logger = logger
	}
}

// WithMetrics sets the checkout metrics recorder
func WithMetrics(metrics *telemetry.CheckoutMetrics) CheckoutServiceOption {
	return func(s *CheckoutService) {
		s.metrics = metrics
	}
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	items domain.ItemDetailResolver,
	shippingResolver *ShippingOptionsResolver,
	tax domain.TaxService,
	opts ...CheckoutServiceOption,
) *CheckoutService {
	s := &CheckoutService{
		items:    items,
		shipping: shippingResolver,
		tax:      tax,
		config:   DefaultServiceConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.config.MerchantConcurrency < 1 {
		s.config.MerchantConcurrency = 1
	}
	return s
}

// Calculate prices the cart per merchant and in total.
// Any failure aborts the whole calculation; no partial result is returned.
func (s *CheckoutService) Calculate(ctx context.Context, req CalculateRequest) (resp *CalculationResponse, err error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "checkout.calculate")
	defer span.End()

	var (
		currency valueobject.Currency
		cart     []domain.CartItem
		dest     shipping.Destination
	)

	defer func() {
		code := ""
		if err != nil {
			code = "INTERNAL_ERROR"
			if de, ok := shared.AsDomainError(err); ok {
				code = de.Code
			}
			telemetry.Fail(span, err)
			s.logger.Warn("Checkout calculation failed",
				zap.String("error_code", code),
				zap.Error(err),
			)
		}
		s.metrics.RecordCalculation(ctx, string(currency), code, started)
	}()

	// validate leaves currency empty on rejection so the metric label set stays bounded
	currency, cart, dest, err = s.validate(req)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		telemetry.AttrCurrency.String(string(currency)),
		telemetry.AttrItemCount.Int(len(cart)),
		telemetry.AttrCountryCode.String(dest.CountryCode),
	)

	if s.config.CalculationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.CalculationTimeout)
		defer cancel()
	}

	details, err := s.resolveItems(ctx, cart)
	if err != nil {
		return nil, err
	}

	for _, item := range details {
		if item.Currency != "" && item.Currency != currency {
			return nil, domain.CurrencyMismatch(item.ProductID, string(item.Currency), string(currency))
		}
	}

	groups := domain.GroupByMerchant(details)
	if len(groups) == 0 {
		return nil, domain.EmptyCart()
	}
	span.SetAttributes(telemetry.AttrMerchantCount.Int(len(groups)))

	breakdown := make([]MerchantSubtotal, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.MerchantConcurrency)
	for i, group := range groups {
		g.Go(func() error {
			subtotal, err := s.calculateMerchant(gctx, group, dest, currency)
			if err != nil {
				return err
			}
			breakdown[i] = subtotal
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	grandTotal := valueobject.Zero(currency)
	for _, m := range breakdown {
		grandTotal, err = grandTotal.Add(m.TotalForMerchant)
		if err != nil {
			return nil, fmt.Errorf("failed to sum merchant totals: %w", err)
		}
	}
	span.SetAttributes(telemetry.AttrGrandTotal.String(grandTotal.StringFixed(2)))

	return &CalculationResponse{
		MerchantBreakdown: breakdown,
		GrandTotal:        grandTotal,
		Currency:          currency,
	}, nil
}

func (s *CheckoutService) validate(req CalculateRequest) (valueobject.Currency, []domain.CartItem, shipping.Destination, error) {
	currency, err := valueobject.ParseCurrency(req.Currency)
	if err != nil {
		return "", nil, shipping.Destination{}, invalidInput(fmt.Sprintf("Invalid currency: %v", err))
	}

	if len(req.Items) == 0 {
		return "", nil, shipping.Destination{}, invalidInput("Cart must contain at least one item")
	}
	cart := make([]domain.CartItem, 0, len(req.Items))
	for i, item := range req.Items {
		productID := strings.TrimSpace(item.ProductID)
		if productID == "" {
			return "", nil, shipping.Destination{}, invalidInput(fmt.Sprintf("items[%d].product_id is required", i))
		}
		if item.Quantity <= 0 {
			return "", nil, shipping.Destination{}, invalidInput(fmt.Sprintf("items[%d].quantity must be greater than 0", i))
		}
		var variantID *string
		if item.VariantID != nil && strings.TrimSpace(*item.VariantID) != "" {
			v := strings.TrimSpace(*item.VariantID)
			variantID = &v
		}
		cart = append(cart, domain.CartItem{ProductID: productID, VariantID: variantID, Quantity: item.Quantity})
	}

	addr := req.ShippingAddress
	dest := shipping.NewDestination(addr.CountryCode, deref(addr.StateProvinceCode), deref(addr.PostalCode))
	if !isCountryCode(dest.CountryCode) {
		return "", nil, shipping.Destination{}, invalidInput("shipping_address.country_code must be a 2-letter code")
	}

	return currency, cart, dest, nil
}

func (s *CheckoutService) resolveItems(ctx context.Context, cart []domain.CartItem) ([]domain.MerchantItemDetail, error) {
	if s.config.ItemResolverTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ItemResolverTimeout)
		defer cancel()
	}

	details, err := s.items.Resolve(ctx, cart)
	if err != nil {
		return nil, translate(err, "item detail resolution", domain.ItemResolverUnavailable)
	}
	return details, nil
}

func (s *CheckoutService) calculateMerchant(ctx context.Context, group domain.MerchantGroup, dest shipping.Destination, currency valueobject.Currency) (MerchantSubtotal, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.calculate_merchant",
		telemetry.AttrMerchantID.String(group.MerchantID.String()),
	)
	defer span.End()

	orderValue, _ := group.Totals()
	orderValue = orderValue.Round(centPlaces)
	itemsSubtotal, err := valueobject.NewMoney(orderValue, currency)
	if err != nil {
		return MerchantSubtotal{}, err
	}

	options, err := s.shipping.Resolve(ctx, group.MerchantID, group.Items, dest)
	if err != nil {
		telemetry.Fail(span, err)
		return MerchantSubtotal{}, err
	}
	s.metrics.RecordMerchantOptions(ctx, len(options))

	var selected *valueobject.Money
	shippingCost := decimal.Zero
	if cheapest := shipping.CheapestCost(options); cheapest != nil {
		cost, err := valueobject.NewMoney(*cheapest, currency)
		if err != nil {
			return MerchantSubtotal{}, err
		}
		selected = &cost
		shippingCost = *cheapest
	}

	taxAmount, err := s.calculateTax(ctx, domain.TaxRequest{
		MerchantID:   group.MerchantID,
		Subtotal:     orderValue,
		ShippingCost: shippingCost,
		Destination:  dest,
		Currency:     string(currency),
	})
	if err != nil {
		telemetry.Fail(span, err)
		return MerchantSubtotal{}, err
	}
	taxAmount = taxAmount.Round(centPlaces)
	tax, err := valueobject.NewMoney(taxAmount, currency)
	if err != nil {
		return MerchantSubtotal{}, err
	}

	total := itemsSubtotal.AddAmount(taxAmount, shippingCost)

	s.logger.Debug("Merchant group priced",
		zap.String("merchant_id", group.MerchantID.String()),
		zap.Int("option_count", len(options)),
		zap.String("selected_shipping_cost", shippingCost.StringFixed(2)),
		zap.String("total_for_merchant", total.StringFixed(2)),
	)

	return MerchantSubtotal{
		MerchantID:               group.MerchantID,
		ItemsSubtotal:            itemsSubtotal,
		AvailableShippingOptions: options,
		SelectedShippingCost:     selected,
		TaxAmount:                tax,
		TotalForMerchant:         total,
	}, nil
}

func (s *CheckoutService) calculateTax(ctx context.Context, req domain.TaxRequest) (decimal.Decimal, error) {
	if s.config.TaxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.TaxTimeout)
		defer cancel()
	}

	amount, err := s.tax.CalculateTax(ctx, req)
	if err != nil {
		return decimal.Zero, translate(err, "tax calculation", domain.TaxServiceError)
	}
	if amount.IsNegative() {
		return decimal.Zero, domain.TaxServiceError(fmt.Errorf("negative tax amount %s for merchant %s", amount, req.MerchantID))
	}
	return amount, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isCountryCode(code string) bool {
	if len(code) != 2 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
