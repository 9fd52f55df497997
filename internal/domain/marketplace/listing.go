package marketplace

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Listing Entity
// ---------------------------------------------------------------------------

// Listing is the association between a catalog product and its remote listing
// on one marketplace account. At most one listing may exist per
// (product, account) pair; the same rule is enforced by the manual link flow,
// the bulk import flow, and a database unique index.
type Listing struct {
	// ID is the unique identifier of this listing
	ID uuid.UUID
	// TenantID is the tenant this listing belongs to
	TenantID uuid.UUID
	// ProductID is the local catalog product
	ProductID uuid.UUID
	// AccountID is the marketplace account the product is listed on
	AccountID uuid.UUID
	// RemoteProductID is the product identifier on the vendor side
	RemoteProductID string
	// RemoteVariantID is the variant/SKU identifier on the vendor side
	RemoteVariantID string
	// Barcode is a denormalized copy of the product barcode; Trendyol's
	// batch API addresses items by barcode rather than remote ID.
	Barcode string
	// SalePrice is the price currently stored for the remote listing
	SalePrice decimal.Decimal
	// StockQuantity is the stock currently stored for the remote listing
	StockQuantity int
	// Status is the sync status of the listing
	Status SyncStatus
	// LastSuccessAt is when the last push was accepted
	LastSuccessAt *time.Time
	// LastError is the message of the last failed push
	LastError string
	// CreatedAt is when this listing was created
	CreatedAt time.Time
	// UpdatedAt is when this listing was last updated
	UpdatedAt time.Time
}

// NewListing creates a new listing
func NewListing(tenantID, productID, accountID uuid.UUID, remoteProductID, barcode string) (*Listing, error) {
	if tenantID == uuid.Nil {
		return nil, ErrAccountInvalidTenantID
	}
	if productID == uuid.Nil {
		return nil, ErrListingInvalidProductID
	}
	if accountID == uuid.Nil {
		return nil, ErrListingInvalidAccountID
	}
	if strings.TrimSpace(remoteProductID) == "" {
		return nil, ErrListingInvalidRemoteID
	}

	now := time.Now()
	return &Listing{
		ID:              uuid.New(),
		TenantID:        tenantID,
		ProductID:       productID,
		AccountID:       accountID,
		RemoteProductID: strings.TrimSpace(remoteProductID),
		Barcode:         strings.TrimSpace(barcode),
		SalePrice:       decimal.Zero,
		Status:          SyncStatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// RecordPushSuccess records an accepted push: the stored price moves to
// newPrice, the status clears to active and the error is wiped.
func (l *Listing) RecordPushSuccess(newPrice decimal.Decimal) {
	now := time.Now()
	l.SalePrice = newPrice
	l.Status = SyncStatusActive
	l.LastError = ""
	l.LastSuccessAt = &now
	l.UpdatedAt = now
}

// RecordStockPushSuccess records an accepted stock push
func (l *Listing) RecordStockPushSuccess(quantity int) {
	now := time.Now()
	l.StockQuantity = quantity
	l.Status = SyncStatusActive
	l.LastError = ""
	l.LastSuccessAt = &now
	l.UpdatedAt = now
}

// RecordPushFailure records a failed push. The stored price is left unchanged
// so the listing keeps reflecting the last value the vendor accepted.
func (l *Listing) RecordPushFailure(errMsg string) {
	l.Status = SyncStatusError
	l.LastError = errMsg
	l.UpdatedAt = time.Now()
}

// ---------------------------------------------------------------------------
// ListingRepository Interface
// ---------------------------------------------------------------------------

// ListingRepository defines the persistence interface for listings
type ListingRepository interface {
	// FindByID finds a listing by ID within a tenant
	FindByID(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) (*Listing, error)

	// FindByAccount returns all listings on a marketplace account
	FindByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID) ([]Listing, error)

	// FindByProduct returns all listings of a catalog product
	FindByProduct(ctx context.Context, tenantID uuid.UUID, productID uuid.UUID) ([]Listing, error)

	// FindAllForTenant returns every listing of a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]Listing, error)

	// ExistsByProductAndAccount checks the pairwise uniqueness rule
	ExistsByProductAndAccount(ctx context.Context, tenantID uuid.UUID, productID, accountID uuid.UUID) (bool, error)

	// Save creates or updates a listing
	Save(ctx context.Context, listing *Listing) error

	// CreateBatch inserts listings in a single batch. The batch is
	// all-or-nothing: a failure aborts the whole insert.
	CreateBatch(ctx context.Context, listings []Listing) error

	// Delete deletes a listing
	Delete(ctx context.Context, tenantID uuid.UUID, id uuid.UUID) error

	// DeleteByAccount deletes every listing of a marketplace account
	DeleteByAccount(ctx context.Context, tenantID uuid.UUID, accountID uuid.UUID) error
}
