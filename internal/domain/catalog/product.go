package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

var (
	ErrProductInvalidTenantID = errors.New("catalog: invalid tenant ID")
	ErrProductInvalidName     = errors.New("catalog: product name is required")
	ErrProductInvalidBarcode  = errors.New("catalog: product barcode is required")
	ErrProductNegativeStock   = errors.New("catalog: stock cannot be negative")
	ErrProductNotFound        = errors.New("catalog: product not found")
	ErrProductBarcodeTaken    = errors.New("catalog: barcode already in use")
)

// ---------------------------------------------------------------------------
// Product Entity
// ---------------------------------------------------------------------------

// Product represents one sellable item owned by a tenant. The barcode is the
// matching key used by the marketplace import flows and is unique per tenant.
type Product struct {
	// ID is the unique identifier of this product
	ID uuid.UUID
	// TenantID is the tenant this product belongs to
	TenantID uuid.UUID
	// Name is the product display name
	Name string
	// Code is the internal SKU code
	Code string
	// Barcode identifies the product across marketplaces
	Barcode string
	// Stock is the on-hand quantity
	Stock int
	// Price is the base/list price
	Price decimal.Decimal
	// CostPrice is the purchase cost
	CostPrice decimal.Decimal
	// CreatedAt is when this product was created
	CreatedAt time.Time
	// UpdatedAt is when this product was last updated
	UpdatedAt time.Time
}

// NewProduct creates a new catalog product
func NewProduct(tenantID uuid.UUID, name, code, barcode string) (*Product, error) {
	if tenantID == uuid.Nil {
		return nil, ErrProductInvalidTenantID
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrProductInvalidName
	}
	if strings.TrimSpace(barcode) == "" {
		return nil, ErrProductInvalidBarcode
	}

	now := time.Now()
	return &Product{
		ID:        uuid.New(),
		TenantID:  tenantID,
		Name:      name,
		Code:      strings.ToUpper(code),
		Barcode:   strings.TrimSpace(barcode),
		Price:     decimal.Zero,
		CostPrice: decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetPrices updates the base and cost prices
func (p *Product) SetPrices(price, costPrice decimal.Decimal) {
	p.Price = price
	p.CostPrice = costPrice
	p.UpdatedAt = time.Now()
}

// AdjustStock applies a stock delta, rejecting adjustments below zero
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return ErrProductNegativeStock
	}
	p.Stock += delta
	p.UpdatedAt = time.Now()
	return nil
}

// ---------------------------------------------------------------------------
// ProductRepository Interface
// ---------------------------------------------------------------------------

// ProductRepository defines the persistence interface for catalog products
type ProductRepository interface {
	// FindByID finds a product by ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Product, error)

	// FindByBarcode finds a product by barcode within a tenant
	FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*Product, error)

	// FindAll returns every product of a tenant. Catalogs are expected in the
	// low thousands, so the full load is acceptable for the matching flows.
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Product, error)

	// ExistsByBarcode checks whether a barcode is already taken within a tenant
	ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
}
