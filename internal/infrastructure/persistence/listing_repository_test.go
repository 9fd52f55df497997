package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/infrastructure/persistence/tenant"
)

// newMockListingRepository creates a GormListingRepository with a mocked SQL connection
func newMockListingRepository(t *testing.T) (*GormListingRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormListingRepository(gormDB), mock, mockDB
}

func listingRows(tenantID, productID, accountID, listingID uuid.UUID) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "tenant_id", "product_id", "account_id", "remote_product_id",
		"remote_variant_id", "barcode", "sale_price", "stock_quantity", "status",
	}).AddRow(
		listingID, tenantID, productID, accountID, "4411",
		"", "8690000000001", decimal.NewFromInt(100), 5, "active",
	)
}

func TestGormListingRepository_FindByID(t *testing.T) {
	t.Run("finds existing listing", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		listingID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "marketplace_listings" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, listingID, 1).
			WillReturnRows(listingRows(tenantID, uuid.New(), uuid.New(), listingID))

		listing, err := repo.FindByID(context.Background(), tenantID, listingID)

		assert.NoError(t, err)
		require.NotNil(t, listing)
		assert.Equal(t, listingID, listing.ID)
		assert.Equal(t, "8690000000001", listing.Barcode)
		assert.True(t, listing.SalePrice.Equal(decimal.NewFromInt(100)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrListingNotFound for missing listing", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		listingID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "marketplace_listings" WHERE tenant_id = \$1 AND id = \$2 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, listingID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		listing, err := repo.FindByID(context.Background(), tenantID, listingID)

		assert.Nil(t, listing)
		assert.Equal(t, marketplace.ErrListingNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects nil tenant id without querying", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		listing, err := repo.FindByID(context.Background(), uuid.Nil, uuid.New())

		assert.Nil(t, listing)
		assert.Equal(t, tenant.ErrTenantRequired, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormListingRepository_ExistsByProductAndAccount(t *testing.T) {
	t.Run("reports existing pair", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		accountID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "marketplace_listings" WHERE tenant_id = \$1 AND \(product_id = \$2 AND account_id = \$3\)`).
			WithArgs(tenantID, productID, accountID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		exists, err := repo.ExistsByProductAndAccount(context.Background(), tenantID, productID, accountID)

		assert.NoError(t, err)
		assert.True(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports free pair", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()
		accountID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "marketplace_listings" WHERE tenant_id = \$1 AND \(product_id = \$2 AND account_id = \$3\)`).
			WithArgs(tenantID, productID, accountID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		exists, err := repo.ExistsByProductAndAccount(context.Background(), tenantID, productID, accountID)

		assert.NoError(t, err)
		assert.False(t, exists)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormListingRepository_Save(t *testing.T) {
	t.Run("maps unique violation to ErrListingAlreadyExists", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		listing, err := marketplace.NewListing(tenantID, uuid.New(), uuid.New(), "4411", "8690000000001")
		require.NoError(t, err)

		mock.ExpectExec(`UPDATE "marketplace_listings" SET`).
			WillReturnError(&pq.Error{Code: pgUniqueViolation})

		err = repo.Save(context.Background(), listing)

		assert.Equal(t, marketplace.ErrListingAlreadyExists, err)
	})

	t.Run("rejects nil tenant id", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		err := repo.Save(context.Background(), &marketplace.Listing{})

		assert.Equal(t, tenant.ErrTenantRequired, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormListingRepository_Delete(t *testing.T) {
	t.Run("returns ErrListingNotFound when nothing deleted", func(t *testing.T) {
		repo, mock, mockDB := newMockListingRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		listingID := uuid.New()

		mock.ExpectExec(`DELETE FROM "marketplace_listings" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, listingID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Delete(context.Background(), tenantID, listingID)

		assert.Equal(t, marketplace.ErrListingNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
