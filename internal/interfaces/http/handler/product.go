package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/interfaces/http/dto"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	BaseHandler
	products catalog.ProductRepository
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products catalog.ProductRepository) *ProductHandler {
	return &ProductHandler{products: products}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.POST("", h.Create)
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.PUT("/:id/prices", h.UpdatePrices)
		products.POST("/:id/stock-adjustments", h.AdjustStock)
		products.DELETE("/:id", h.Delete)
	}
}

// CreateProductRequest represents a request to create a catalog product
type CreateProductRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	Code      string `json:"code" binding:"max=50"`
	Barcode   string `json:"barcode" binding:"required,min=1,max=50"`
	Price     string `json:"price" binding:"omitempty"`
	CostPrice string `json:"cost_price" binding:"omitempty"`
	Stock     int    `json:"stock" binding:"omitempty,min=0"`
}

// UpdateProductPricesRequest updates the base and cost prices
type UpdateProductPricesRequest struct {
	Price     string `json:"price" binding:"required"`
	CostPrice string `json:"cost_price" binding:"omitempty"`
}

// AdjustStockRequest applies a stock delta
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductResponse is the API shape of a catalog product
type ProductResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Code      string `json:"code"`
	Barcode   string `json:"barcode"`
	Stock     int    `json:"stock"`
	Price     string `json:"price"`
	CostPrice string `json:"cost_price"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID.String(),
		Name:      p.Name,
		Code:      p.Code,
		Barcode:   p.Barcode,
		Stock:     p.Stock,
		Price:     p.Price.String(),
		CostPrice: p.CostPrice.String(),
	}
}

// Create creates a catalog product
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	price, costPrice, err := parsePrices(req.Price, req.CostPrice)
	if err != nil {
		h.BadRequest(c, "Invalid price format")
		return
	}

	taken, err := h.products.ExistsByBarcode(c.Request.Context(), tenantID, req.Barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if taken {
		h.HandleError(c, catalog.ErrProductBarcodeTaken)
		return
	}

	product, err := catalog.NewProduct(tenantID, req.Name, req.Code, req.Barcode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	product.SetPrices(price, costPrice)
	if req.Stock > 0 {
		if err := product.AdjustStock(req.Stock); err != nil {
			h.HandleError(c, err)
			return
		}
	}

	if err := h.products.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toProductResponse(product))
}

// List returns every product of the tenant
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	products, err := h.products.FindAll(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, toProductResponse(&products[i]))
	}
	h.Success(c, out)
}

// Get returns one product by id
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// UpdatePrices updates the base and cost prices of a product
func (h *ProductHandler) UpdatePrices(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req UpdateProductPricesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	price, costPrice, err := parsePrices(req.Price, req.CostPrice)
	if err != nil {
		h.BadRequest(c, "Invalid price format")
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	product.SetPrices(price, costPrice)
	if err := h.products.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// AdjustStock applies a stock delta to a product
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.products.FindByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if err := product.AdjustStock(req.Delta); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.products.Save(c.Request.Context(), product); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toProductResponse(product))
}

// Delete deletes a product
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.products.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// pathID parses the :id path parameter or writes a 400
func (h *BaseHandler) pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parsePrices parses optional decimal strings, empty meaning zero
func parsePrices(price, costPrice string) (decimal.Decimal, decimal.Decimal, error) {
	p := decimal.Zero
	cp := decimal.Zero
	var err error
	if price != "" {
		if p, err = decimal.NewFromString(price); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	if costPrice != "" {
		if cp, err = decimal.NewFromString(costPrice); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	return p, cp, nil
}
