package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/tenant"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by ID within a tenant
func (r *GormProductRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*catalog.Product, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBarcode finds a product by barcode within a tenant
func (r *GormProductRepository) FindByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (*catalog.Product, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "barcode = ?", barcode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns every product of a tenant
func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var productModels []models.ProductModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Order("name ASC").
		Find(&productModels).Error; err != nil {
		return nil, err
	}

	products := make([]catalog.Product, len(productModels))
	for i, model := range productModels {
		products[i] = *model.ToDomain()
	}
	return products, nil
}

// ExistsByBarcode checks whether a barcode is already taken within a tenant
func (r *GormProductRepository) ExistsByBarcode(ctx context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	if err := tenant.Require(tenantID); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("barcode = ?", barcode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if err := tenant.Require(product.TenantID); err != nil {
		return err
	}
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	if err := tenant.Require(tenantID); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ProductModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return catalog.ErrProductNotFound
	}
	return nil
}
