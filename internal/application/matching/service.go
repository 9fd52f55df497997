// Package matching imports vendor export files and reconciles their rows
// against the local catalog, creating marketplace listings for matched
// barcodes.
package matching

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/infrastructure/spreadsheet"
)

// MatchResult summarizes one import run. NotFound rows and batch errors are
// reported side by side; partial failure of individual rows never aborts the
// run, only the final batch insert is all-or-nothing.
type MatchResult struct {
	Matched  int
	Skipped  int
	NotFound int
	Errors   []string
}

// RowParser turns raw export bytes into rows; the xlsx parser implements it
type RowParser interface {
	Parse(fileBytes []byte, platformHint string) ([]spreadsheet.ParsedRow, error)
}

// Service runs the Excel ingestion and matching flow
type Service struct {
	products catalog.ProductRepository
	accounts marketplace.AccountRepository
	listings marketplace.ListingRepository
	parser   RowParser
	logger   *zap.Logger
}

// NewService creates a new matching Service
func NewService(
	products catalog.ProductRepository,
	accounts marketplace.AccountRepository,
	listings marketplace.ListingRepository,
	parser RowParser,
	logger *zap.Logger,
) *Service {
	return &Service{
		products: products,
		accounts: accounts,
		listings: listings,
		parser:   parser,
		logger:   logger,
	}
}

// ParseExport parses a vendor export file into rows
func (s *Service) ParseExport(fileBytes []byte, platformHint string) ([]spreadsheet.ParsedRow, error) {
	return s.parser.Parse(fileBytes, platformHint)
}

// BulkMatch matches parsed rows against the tenant catalog by barcode and
// links the matches to the resolved marketplace account. The whole catalog is
// loaded into a barcode map up front; catalogs run in the low thousands, so
// the one-time O(n) load beats per-row queries. Staged links go in as a
// single all-or-nothing batch: a batch failure surfaces the database error as
// the sole error entry rather than leaving a partially imported file.
func (s *Service) BulkMatch(ctx context.Context, tenantID uuid.UUID, rows []spreadsheet.ParsedRow, marketplaceName string) (*MatchResult, error) {
	account, err := s.resolveAccount(ctx, tenantID, marketplaceName)
	if err != nil {
		return nil, err
	}

	products, err := s.products.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byBarcode := make(map[string]*catalog.Product, len(products))
	for i := range products {
		byBarcode[products[i].Barcode] = &products[i]
	}

	result := &MatchResult{}
	staged := make([]marketplace.Listing, 0, len(rows))
	stagedProducts := make(map[uuid.UUID]bool)

	for _, row := range rows {
		product, ok := byBarcode[row.Barcode]
		if !ok {
			result.NotFound++
			result.Errors = append(result.Errors, fmt.Sprintf("no catalog product with barcode %s", row.Barcode))
			continue
		}

		if stagedProducts[product.ID] {
			result.Skipped++
			continue
		}
		exists, err := s.listings.ExistsByProductAndAccount(ctx, tenantID, product.ID, account.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			result.Skipped++
			continue
		}

		listing, err := marketplace.NewListing(tenantID, product.ID, account.ID, row.RemoteProductID, row.Barcode)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("barcode %s: %v", row.Barcode, err))
			continue
		}
		listing.SalePrice = row.Price
		listing.StockQuantity = row.Stock
		staged = append(staged, *listing)
		stagedProducts[product.ID] = true
	}

	if len(staged) > 0 {
		if err := s.listings.CreateBatch(ctx, staged); err != nil {
			// All-or-nothing: the batch failed, nothing was linked.
			result.Errors = []string{err.Error()}
			s.logger.Warn("bulk match batch insert failed",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
			return result, nil
		}
		result.Matched = len(staged)
	}

	s.logger.Info("bulk match finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("account_id", account.ID.String()),
		zap.Int("matched", result.Matched),
		zap.Int("skipped", result.Skipped),
		zap.Int("not_found", result.NotFound))
	return result, nil
}

// resolveAccount finds the marketplace account by exact store name first,
// then by parsing the name as a platform hint. Two accounts on the same
// platform are not disambiguated: first match wins.
func (s *Service) resolveAccount(ctx context.Context, tenantID uuid.UUID, marketplaceName string) (*marketplace.Account, error) {
	account, err := s.accounts.FindByStoreName(ctx, tenantID, marketplaceName)
	if err == nil {
		return account, nil
	}

	if platform, ok := marketplace.ParsePlatformCode(marketplaceName); ok {
		accounts, err := s.accounts.FindByPlatform(ctx, tenantID, platform)
		if err != nil {
			return nil, err
		}
		if len(accounts) > 0 {
			return &accounts[0], nil
		}
	}
	return nil, marketplace.ErrAccountNotFound
}
