package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/application/pricing"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// ListingHandler handles listing endpoints: linking catalog products to
// marketplace accounts and pushing single-listing updates.
type ListingHandler struct {
	BaseHandler
	listings marketplace.ListingRepository
	pricing  *pricing.Service
}

// NewListingHandler creates a new ListingHandler
func NewListingHandler(listings marketplace.ListingRepository, pricingService *pricing.Service) *ListingHandler {
	return &ListingHandler{listings: listings, pricing: pricingService}
}

// RegisterRoutes registers listing routes
func (h *ListingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/accounts/:id/listings", h.ListByAccount)

	listings := rg.Group("/listings")
	{
		listings.POST("", h.Link)
		listings.PUT("/:id/price", h.PushPrice)
		listings.DELETE("/:id", h.Unlink)
	}
}

// LinkListingRequest manually links one product to one account
type LinkListingRequest struct {
	ProductID    string `json:"product_id" binding:"required,uuid"`
	AccountID    string `json:"account_id" binding:"required,uuid"`
	RemoteID     string `json:"remote_id" binding:"required,min=1,max=100"`
	InitialPrice string `json:"initial_price" binding:"omitempty"`
}

// PushPriceRequest pushes a new price to the vendor for one listing
type PushPriceRequest struct {
	Price string `json:"price" binding:"required"`
}

// ListingResponse is the API shape of a listing
type ListingResponse struct {
	ID              string     `json:"id"`
	ProductID       string     `json:"product_id"`
	AccountID       string     `json:"account_id"`
	RemoteProductID string     `json:"remote_product_id"`
	Barcode         string     `json:"barcode"`
	SalePrice       string     `json:"sale_price"`
	StockQuantity   int        `json:"stock_quantity"`
	Status          string     `json:"status"`
	LastSuccessAt   *time.Time `json:"last_success_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
}

// PushResponse pairs the vendor outcome with the updated listing
type PushResponse struct {
	Outcome string          `json:"outcome"`
	Listing ListingResponse `json:"listing"`
}

func toListingResponse(l *marketplace.Listing) ListingResponse {
	return ListingResponse{
		ID:              l.ID.String(),
		ProductID:       l.ProductID.String(),
		AccountID:       l.AccountID.String(),
		RemoteProductID: l.RemoteProductID,
		Barcode:         l.Barcode,
		SalePrice:       l.SalePrice.String(),
		StockQuantity:   l.StockQuantity,
		Status:          l.Status.String(),
		LastSuccessAt:   l.LastSuccessAt,
		LastError:       l.LastError,
	}
}

// ListByAccount returns the listings of one marketplace account
func (h *ListingHandler) ListByAccount(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	accountID, ok := h.pathID(c)
	if !ok {
		return
	}

	listings, err := h.listings.FindByAccount(c.Request.Context(), tenantID, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ListingResponse, 0, len(listings))
	for i := range listings {
		out = append(out, toListingResponse(&listings[i]))
	}
	h.Success(c, out)
}

// Link manually links a catalog product to a marketplace account
func (h *ListingHandler) Link(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req LinkListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	initialPrice := decimal.Zero
	if req.InitialPrice != "" {
		var err error
		if initialPrice, err = decimal.NewFromString(req.InitialPrice); err != nil {
			h.BadRequest(c, "Invalid price format")
			return
		}
	}

	linkReq, err := parseManualLink(req, initialPrice)
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return
	}

	listing, err := h.pricing.ManualLink(c.Request.Context(), tenantID, linkReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toListingResponse(listing))
}

// PushPrice pushes a price to the vendor for one listing. Vendor failures
// map to 502; the listing row is refreshed either way.
func (h *ListingHandler) PushPrice(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	listingID, ok := h.pathID(c)
	if !ok {
		return
	}

	var req PushPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		h.BadRequest(c, "Invalid price format")
		return
	}

	result, err := h.pricing.UpdateListingPrice(c.Request.Context(), tenantID, listingID, price)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, PushResponse{
		Outcome: string(result.Outcome),
		Listing: toListingResponse(result.Listing),
	})
}

// parseManualLink converts the wire request into the application request
func parseManualLink(req LinkListingRequest, initialPrice decimal.Decimal) (pricing.ManualLinkRequest, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return pricing.ManualLinkRequest{}, err
	}
	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return pricing.ManualLinkRequest{}, err
	}
	return pricing.ManualLinkRequest{
		ProductID:    productID,
		AccountID:    accountID,
		RemoteID:     req.RemoteID,
		InitialPrice: initialPrice,
	}, nil
}

// Unlink removes one listing
func (h *ListingHandler) Unlink(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	listingID, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.listings.Delete(c.Request.Context(), tenantID, listingID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
