package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/marketplace/backend/internal/application/checkout"
)

// CheckoutCalculator prices a cart; implemented by checkoutapp.CheckoutService
type CheckoutCalculator interface {
	Calculate(ctx context.Context, req checkoutapp.CalculateRequest) (*checkoutapp.CalculationResponse, error)
}

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	calculator CheckoutCalculator
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(calculator CheckoutCalculator) *CheckoutHandler {
	return &CheckoutHandler{calculator: calculator}
}

// Calculate handles POST /api/v1/checkout/calculate
func (h *CheckoutHandler) Calculate(c *gin.Context) {
	var req CheckoutCalculationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.calculator.Calculate(c.Request.Context(), req.ToCommand())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, NewCheckoutCalculationResponse(resp))
}

// RegisterRoutes registers checkout routes under rg
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	checkout := rg.Group("/checkout")
	checkout.POST("/calculate", h.Calculate)
}
