package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/application/pricing"
)

// PricingHandler handles bulk price and stock propagation endpoints
type PricingHandler struct {
	BaseHandler
	pricing *pricing.Service
}

// NewPricingHandler creates a new PricingHandler
func NewPricingHandler(pricingService *pricing.Service) *PricingHandler {
	return &PricingHandler{pricing: pricingService}
}

// RegisterRoutes registers pricing routes
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/pricing")
	{
		group.POST("/bulk", h.BulkUpdatePrices)
		group.POST("/stock/bulk", h.BulkUpdateStock)
	}
}

// BulkPriceRequest describes one bulk price propagation run.
// source_market_id is either an account id or the literal "base_price".
type BulkPriceRequest struct {
	SourceMarketID string `json:"source_market_id" binding:"omitempty,max=50"`
	TargetMarketID string `json:"target_market_id" binding:"required,uuid"`
	Operation      string `json:"operation" binding:"required,oneof=copy inc_percent dec_percent"`
	Value          string `json:"value" binding:"omitempty"`
}

// BulkStockRequest describes one bulk stock propagation run
type BulkStockRequest struct {
	TargetMarketID string `json:"target_market_id" binding:"required,uuid"`
}

// BulkResultResponse summarizes a bulk run: how many listings were pushed
// and one line per product that failed.
type BulkResultResponse struct {
	Count  int      `json:"count"`
	Errors []string `json:"errors,omitempty"`
}

// BulkUpdatePrices runs a bulk price propagation
func (h *PricingHandler) BulkUpdatePrices(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req BulkPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	targetID, err := uuid.Parse(req.TargetMarketID)
	if err != nil {
		h.BadRequest(c, "Invalid target market ID")
		return
	}
	value := decimal.Zero
	if req.Value != "" {
		if value, err = decimal.NewFromString(req.Value); err != nil {
			h.BadRequest(c, "Invalid value format")
			return
		}
	}

	result, err := h.pricing.BulkUpdatePrices(c.Request.Context(), tenantID, pricing.BulkPriceUpdateRequest{
		SourceMarketID: req.SourceMarketID,
		TargetMarketID: targetID,
		Operation:      pricing.PriceOperation(req.Operation),
		Value:          value,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BulkResultResponse{Count: result.Count, Errors: result.Errors})
}

// BulkUpdateStock pushes catalog stock to every listing of one marketplace
func (h *PricingHandler) BulkUpdateStock(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req BulkStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetMarketID)
	if err != nil {
		h.BadRequest(c, "Invalid target market ID")
		return
	}

	result, err := h.pricing.BulkUpdateStock(c.Request.Context(), tenantID, targetID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BulkResultResponse{Count: result.Count, Errors: result.Errors})
}
