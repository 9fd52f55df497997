package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// AccountModel
// ---------------------------------------------------------------------------

// AccountModel is the persistence model for the marketplace Account entity.
type AccountModel struct {
	ID         uuid.UUID                `gorm:"type:uuid;primary_key"`
	TenantID   uuid.UUID                `gorm:"type:uuid;not null;index:idx_marketplace_accounts_tenant,priority:1"`
	Platform   marketplace.PlatformCode `gorm:"type:varchar(20);not null;index:idx_marketplace_accounts_platform,priority:1"`
	StoreName  string                   `gorm:"type:varchar(255);not null"`
	APIKey     string                   `gorm:"type:varchar(255)"`
	APISecret  string                   `gorm:"type:varchar(255)"`
	SupplierID string                   `gorm:"type:varchar(100)"`
	BaseURL    string                   `gorm:"type:varchar(500)"`
	CreatedAt  time.Time                `gorm:"not null"`
	UpdatedAt  time.Time                `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "marketplace_accounts"
}

// ToDomain converts the persistence model to a domain Account entity.
func (m *AccountModel) ToDomain() *marketplace.Account {
	return &marketplace.Account{
		ID:        m.ID,
		TenantID:  m.TenantID,
		Platform:  m.Platform,
		StoreName: m.StoreName,
		Credentials: marketplace.Credentials{
			APIKey:     m.APIKey,
			APISecret:  m.APISecret,
			SupplierID: m.SupplierID,
			BaseURL:    m.BaseURL,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Account entity.
func (m *AccountModel) FromDomain(a *marketplace.Account) {
	m.ID = a.ID
	m.TenantID = a.TenantID
	m.Platform = a.Platform
	m.StoreName = a.StoreName
	m.APIKey = a.Credentials.APIKey
	m.APISecret = a.Credentials.APISecret
	m.SupplierID = a.Credentials.SupplierID
	m.BaseURL = a.Credentials.BaseURL
	m.CreatedAt = a.CreatedAt
	m.UpdatedAt = a.UpdatedAt
}

// AccountModelFromDomain creates a new persistence model from a domain Account entity.
func AccountModelFromDomain(a *marketplace.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}

// ---------------------------------------------------------------------------
// ListingModel
// ---------------------------------------------------------------------------

// ListingModel is the persistence model for the marketplace Listing entity.
// The (tenant_id, product_id, account_id) unique index enforces that a
// catalog product is linked at most once per marketplace account.
type ListingModel struct {
	ID              uuid.UUID              `gorm:"type:uuid;primary_key"`
	TenantID        uuid.UUID              `gorm:"type:uuid;not null;index:idx_listings_tenant,priority:1;uniqueIndex:idx_listings_product_account,priority:1"`
	ProductID       uuid.UUID              `gorm:"type:uuid;not null;uniqueIndex:idx_listings_product_account,priority:2"`
	AccountID       uuid.UUID              `gorm:"type:uuid;not null;index:idx_listings_account,priority:1;uniqueIndex:idx_listings_product_account,priority:3"`
	RemoteProductID string                 `gorm:"type:varchar(100)"`
	RemoteVariantID string                 `gorm:"type:varchar(100)"`
	Barcode         string                 `gorm:"type:varchar(100);not null;index:idx_listings_barcode,priority:1"`
	SalePrice       decimal.Decimal        `gorm:"type:numeric(15,2);not null;default:0"`
	StockQuantity   int                    `gorm:"not null;default:0"`
	Status          marketplace.SyncStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastSuccessAt   *time.Time
	LastError       string    `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ListingModel) TableName() string {
	return "marketplace_listings"
}

// ToDomain converts the persistence model to a domain Listing entity.
func (m *ListingModel) ToDomain() *marketplace.Listing {
	return &marketplace.Listing{
		ID:              m.ID,
		TenantID:        m.TenantID,
		ProductID:       m.ProductID,
		AccountID:       m.AccountID,
		RemoteProductID: m.RemoteProductID,
		RemoteVariantID: m.RemoteVariantID,
		Barcode:         m.Barcode,
		SalePrice:       m.SalePrice,
		StockQuantity:   m.StockQuantity,
		Status:          m.Status,
		LastSuccessAt:   m.LastSuccessAt,
		LastError:       m.LastError,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Listing entity.
func (m *ListingModel) FromDomain(l *marketplace.Listing) {
	m.ID = l.ID
	m.TenantID = l.TenantID
	m.ProductID = l.ProductID
	m.AccountID = l.AccountID
	m.RemoteProductID = l.RemoteProductID
	m.RemoteVariantID = l.RemoteVariantID
	m.Barcode = l.Barcode
	m.SalePrice = l.SalePrice
	m.StockQuantity = l.StockQuantity
	m.Status = l.Status
	m.LastSuccessAt = l.LastSuccessAt
	m.LastError = l.LastError
	m.CreatedAt = l.CreatedAt
	m.UpdatedAt = l.UpdatedAt
}

// ListingModelFromDomain creates a new persistence model from a domain Listing entity.
func ListingModelFromDomain(l *marketplace.Listing) *ListingModel {
	m := &ListingModel{}
	m.FromDomain(l)
	return m
}

// ---------------------------------------------------------------------------
// QuestionModel
// ---------------------------------------------------------------------------

// QuestionModel is the persistence model for the marketplace Question entity.
// The primary key is the locally synthesized 53-bit id, not a UUID, so the
// same vendor question always maps onto the same row.
type QuestionModel struct {
	ID              int64                      `gorm:"primary_key;autoIncrement:false"`
	TenantID        uuid.UUID                  `gorm:"type:uuid;not null;index:idx_questions_tenant,priority:1"`
	AccountID       uuid.UUID                  `gorm:"type:uuid;not null;index:idx_questions_account,priority:1"`
	Text            string                     `gorm:"type:text;not null"`
	CustomerName    string                     `gorm:"type:varchar(255)"`
	ProductName     string                     `gorm:"type:varchar(255)"`
	ProductImageURL string                     `gorm:"type:varchar(500)"`
	Status          marketplace.QuestionStatus `gorm:"type:varchar(20);not null"`
	AnswerText      string                     `gorm:"type:text"`
	AnsweredAt      *time.Time
	RawPayload      string    `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (QuestionModel) TableName() string {
	return "marketplace_questions"
}

// ToDomain converts the persistence model to a domain Question entity.
func (m *QuestionModel) ToDomain() *marketplace.Question {
	return &marketplace.Question{
		ID:              m.ID,
		TenantID:        m.TenantID,
		AccountID:       m.AccountID,
		Text:            m.Text,
		CustomerName:    m.CustomerName,
		ProductName:     m.ProductName,
		ProductImageURL: m.ProductImageURL,
		Status:          m.Status,
		AnswerText:      m.AnswerText,
		AnsweredAt:      m.AnsweredAt,
		RawPayload:      m.RawPayload,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Question entity.
func (m *QuestionModel) FromDomain(q *marketplace.Question) {
	m.ID = q.ID
	m.TenantID = q.TenantID
	m.AccountID = q.AccountID
	m.Text = q.Text
	m.CustomerName = q.CustomerName
	m.ProductName = q.ProductName
	m.ProductImageURL = q.ProductImageURL
	m.Status = q.Status
	m.AnswerText = q.AnswerText
	m.AnsweredAt = q.AnsweredAt
	m.RawPayload = q.RawPayload
	m.CreatedAt = q.CreatedAt
	m.UpdatedAt = q.UpdatedAt
}

// QuestionModelFromDomain creates a new persistence model from a domain Question entity.
func QuestionModelFromDomain(q *marketplace.Question) *QuestionModel {
	m := &QuestionModel{}
	m.FromDomain(q)
	return m
}
