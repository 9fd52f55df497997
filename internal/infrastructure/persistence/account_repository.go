package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/models"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/tenant"
)

// GormAccountRepository implements marketplace.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

var _ marketplace.AccountRepository = (*GormAccountRepository)(nil)

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// FindByID finds an account by ID within a tenant
func (r *GormAccountRepository) FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*marketplace.Account, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns all connected accounts of a tenant
func (r *GormAccountRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]marketplace.Account, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Order("store_name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]marketplace.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByPlatform returns all accounts of a tenant on a platform
func (r *GormAccountRepository) FindByPlatform(ctx context.Context, tenantID uuid.UUID, platform marketplace.PlatformCode) ([]marketplace.Account, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var accountModels []models.AccountModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("platform = ?", platform).
		Order("store_name ASC").
		Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]marketplace.Account, len(accountModels))
	for i, model := range accountModels {
		accounts[i] = *model.ToDomain()
	}
	return accounts, nil
}

// FindByStoreName finds an account by exact store name within a tenant
func (r *GormAccountRepository) FindByStoreName(ctx context.Context, tenantID uuid.UUID, storeName string) (*marketplace.Account, error) {
	if err := tenant.Require(tenantID); err != nil {
		return nil, err
	}
	var model models.AccountModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "store_name = ?", storeName).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, marketplace.ErrAccountNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *marketplace.Account) error {
	if err := tenant.Require(account.TenantID); err != nil {
		return err
	}
	model := models.AccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes an account together with its listings. Both deletes run in
// one transaction so a failure cannot strand orphaned listings.
func (r *GormAccountRepository) Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error {
	if err := tenant.Require(tenantID); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Delete(&models.ListingModel{}, "account_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Scopes(tenant.Scope(tenantID)).
			Delete(&models.AccountModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return marketplace.ErrAccountNotFound
		}
		return nil
	})
}
