package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/catalog"
)

// ProductModel is the persistence model for the catalog Product entity.
type ProductModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_products_tenant,priority:1;uniqueIndex:idx_products_tenant_barcode,priority:1"`
	Name      string          `gorm:"type:varchar(255);not null"`
	Code      string          `gorm:"type:varchar(100)"`
	Barcode   string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_products_tenant_barcode,priority:2"`
	Stock     int             `gorm:"not null;default:0"`
	Price     decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	CostPrice decimal.Decimal `gorm:"type:numeric(15,2);not null;default:0"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Name:      m.Name,
		Code:      m.Code,
		Barcode:   m.Barcode,
		Stock:     m.Stock,
		Price:     m.Price,
		CostPrice: m.CostPrice,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.TenantID = p.TenantID
	m.Name = p.Name
	m.Code = p.Code
	m.Barcode = p.Barcode
	m.Stock = p.Stock
	m.Price = p.Price
	m.CostPrice = p.CostPrice
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}
