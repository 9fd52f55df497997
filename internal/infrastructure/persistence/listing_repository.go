package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/tenant"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations
const pgUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pq.Error
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// GormListingRepository implements marketplace.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

var _ marketplace.ListingRepository = (*GormListingRepository)(nil)

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// FindByID finds a listing by ID within a tenant
func (r *GormListingRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*marketplace.Listing, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.ListingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrListingNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByAccount returns all listings on a marketplace account
func (r *GormListingRepository) FindByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID) ([]marketplace.Listing, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("account_id = ?", accountID).
		Order("barcode ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}
	return toDomainListings(listingModels), nil
}

// FindByProduct returns all listings of a catalog product
func (r *GormListingRepository) FindByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) ([]marketplace.Listing, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}
	return toDomainListings(listingModels), nil
}

// FindAllForTenant returns every listing of a tenant
func (r *GormListingRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]marketplace.Listing, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var listingModels []models.ListingModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Order("created_at ASC").
		Find(&listingModels).Error; err != nil {
		return nil, err
	}
	return toDomainListings(listingModels), nil
}

// ExistsByProductAndAccount checks the pairwise uniqueness rule
func (r *GormListingRepository) ExistsByProductAndAccount(ctx context.Context, tenantID uuid.UUID, productID, accountID uuid.UUID) (bool, error) {
	if err := tenant.Require(tenantID); err != nil {
		return false, err
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ListingModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("product_id = ? AND account_id = ?", productID, accountID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a listing. A unique-index collision on
// (tenant_id, product_id, account_id) maps to ErrListingAlreadyExists.
func (r *GormListingRepository) Save(ctx context.Context, listing *marketplace.Listing) error {
	if err := tenant.Require(listing.TenantID); err != nil {
		return err
	}
	model := models.ListingModelFromDomain(listing)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if isUniqueViolation(err) {
			return marketplace.ErrListingAlreadyExists
		}
		return err
	}
	return nil
}

// CreateBatch inserts listings in a single all-or-nothing batch
func (r *GormListingRepository) CreateBatch(ctx context.Context, listings []marketplace.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	listingModels := make([]models.ListingModel, len(listings))
	for i := range listings {
		if err := tenant.Require(listings[i].TenantID); err != nil {
			return err
		}
		listingModels[i].FromDomain(&listings[i])
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&listingModels).Error; err != nil {
			if isUniqueViolation(err) {
				return marketplace.ErrListingAlreadyExists
			}
			return err
		}
		return nil
	})
}

// Delete deletes a listing
func (r *GormListingRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	if err := tenant.Require(tenantID); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ListingModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return marketplace.ErrListingNotFound
	}
	return nil
}

// DeleteByAccount removes every listing of one marketplace account
func (r *GormListingRepository) DeleteByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID) error {
	if err := tenant.Require(tenantID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Delete(&models.ListingModel{}, "account_id = ?", accountID).Error
}

func toDomainListings(listingModels []models.ListingModel) []marketplace.Listing {
	listings := make([]marketplace.Listing, len(listingModels))
	for i, model := range listingModels {
		listings[i] = *model.ToDomain()
	}
	return listings
}
