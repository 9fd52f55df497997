package marketplace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Account Entity
// ---------------------------------------------------------------------------

// Credentials holds the platform-dependent credential bundle of an account.
// Which fields are required depends on the platform: Trendyol needs key,
// secret and supplier ID; WooCommerce needs key, secret and base URL.
type Credentials struct {
	// APIKey is the vendor API key (WooCommerce consumer key)
	APIKey string
	// APISecret is the vendor API secret (WooCommerce consumer secret)
	APISecret string
	// SupplierID is the Trendyol seller/supplier identifier
	SupplierID string
	// BaseURL is the store base URL for self-hosted platforms
	BaseURL string
}

// Account represents one connected external seller account on a platform
type Account struct {
	// ID is the unique identifier of this account
	ID uuid.UUID
	// TenantID is the tenant this account belongs to
	TenantID uuid.UUID
	// Platform identifies the marketplace platform
	Platform PlatformCode
	// StoreName is the display name of the connected store
	StoreName string
	// Credentials is the credential bundle used for vendor calls
	Credentials Credentials
	// CreatedAt is when this account was connected
	CreatedAt time.Time
	// UpdatedAt is when this account was last updated
	UpdatedAt time.Time
}

// NewAccount creates a new marketplace account
func NewAccount(tenantID uuid.UUID, platform PlatformCode, storeName string, creds Credentials) (*Account, error) {
	if tenantID == uuid.Nil {
		return nil, ErrAccountInvalidTenantID
	}
	if !platform.IsValid() {
		return nil, ErrAccountInvalidPlatform
	}
	if strings.TrimSpace(storeName) == "" {
		return nil, ErrAccountInvalidStoreName
	}

	now := time.Now()
	return &Account{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Platform:    platform,
		StoreName:   storeName,
		Credentials: creds,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// HasCompleteCredentials reports whether the credential bundle is sufficient
// for vendor calls on this account's platform. Accounts with incomplete
// credentials are skipped (with a warning) by the sync flows, never fatal.
func (a *Account) HasCompleteCredentials() bool {
	c := a.Credentials
	switch a.Platform {
	case PlatformCodeTrendyol:
		return c.APIKey != "" && c.APISecret != "" && c.SupplierID != ""
	case PlatformCodeWooCommerce:
		return c.APIKey != "" && c.APISecret != "" && c.BaseURL != ""
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// AccountRepository Interface
// ---------------------------------------------------------------------------

// AccountRepository defines the persistence interface for marketplace accounts
type AccountRepository interface {
	// FindByID finds an account by ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Account, error)

	// FindAll returns all connected accounts of a tenant
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Account, error)

	// FindByPlatform returns all accounts of a tenant on a platform
	FindByPlatform(ctx context.Context, tenantID uuid.UUID, platform PlatformCode) ([]Account, error)

	// FindByStoreName finds an account by exact store name within a tenant
	FindByStoreName(ctx context.Context, tenantID uuid.UUID, storeName string) (*Account, error)

	// Save creates or updates an account
	Save(ctx context.Context, account *Account) error

	// Delete deletes an account. Listings of the account are removed with it.
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error
}
