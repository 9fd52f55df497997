package pricing

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
	"github.com/sellerdesk/backend/internal/domain/shared"
)

// Errors returned by the pricing service
var (
	ErrTargetMarketRequired = shared.NewDomainError("TARGET_REQUIRED", "a target market must be specified")
	ErrInvalidOperation     = shared.NewDomainError("INVALID_OPERATION", "unsupported price operation")
	ErrDuplicateLink        = shared.NewDomainError("DUPLICATE_LINK", "product is already linked to this account")
)

const (
	defaultWorkers       = 4
	defaultVendorTimeout = 30 * time.Second
	hundred              = 100
)

// Config holds tuning knobs for the pricing service
type Config struct {
	// Workers bounds concurrent vendor calls during bulk runs
	Workers int
	// VendorTimeout bounds each individual vendor call
	VendorTimeout time.Duration
}

// Service propagates catalog prices and stock to marketplace listings and
// keeps the per-listing sync bookkeeping.
type Service struct {
	products      catalog.ProductRepository
	accounts      marketplace.AccountRepository
	listings      marketplace.ListingRepository
	registry      marketplace.AdapterRegistry
	logger        *zap.Logger
	workers       int
	vendorTimeout time.Duration
}

// NewService creates a new pricing Service
func NewService(
	products catalog.ProductRepository,
	accounts marketplace.AccountRepository,
	listings marketplace.ListingRepository,
	registry marketplace.AdapterRegistry,
	logger *zap.Logger,
	cfg Config,
) *Service {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.VendorTimeout <= 0 {
		cfg.VendorTimeout = defaultVendorTimeout
	}
	return &Service{
		products:      products,
		accounts:      accounts,
		listings:      listings,
		registry:      registry,
		logger:        logger,
		workers:       cfg.Workers,
		vendorTimeout: cfg.VendorTimeout,
	}
}

// ---------------------------------------------------------------------------
// Single-listing operations
// ---------------------------------------------------------------------------

// UpdateListingPrice pushes a new price for one listing. Whatever the vendor
// says, the listing row is updated afterwards: an accepted push stores the new
// price and clears the error state, a failed push records the error and leaves
// the price at the last value the vendor accepted. The vendor error is still
// returned to the caller.
func (s *Service) UpdateListingPrice(ctx context.Context, tenantID, listingID uuid.UUID, newPrice decimal.Decimal) (*PushResult, error) {
	listing, err := s.listings.FindByID(ctx, tenantID, listingID)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.FindByID(ctx, tenantID, listing.AccountID)
	if err != nil {
		return nil, err
	}
	return s.pushPrice(ctx, account, listing, newPrice)
}

func (s *Service) pushPrice(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, newPrice decimal.Decimal) (*PushResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.vendorTimeout)
	defer cancel()

	adapter := s.registry.AdapterFor(account.Platform)
	outcome, pushErr := adapter.UpdatePrice(callCtx, account, listing, newPrice)

	if pushErr != nil {
		listing.RecordPushFailure(pushErr.Error())
	} else {
		listing.RecordPushSuccess(newPrice)
	}
	if saveErr := s.listings.Save(ctx, listing); saveErr != nil {
		// The vendor already has the new state; losing the local write is a
		// logged inconsistency reconciled by the next push.
		s.logger.Error("failed to persist listing after push",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(saveErr))
		if pushErr == nil {
			return nil, saveErr
		}
	}
	if pushErr != nil {
		return nil, pushErr
	}
	return &PushResult{Outcome: outcome, Listing: listing}, nil
}

func (s *Service) pushStock(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, quantity int) (*PushResult, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.vendorTimeout)
	defer cancel()

	adapter := s.registry.AdapterFor(account.Platform)
	outcome, pushErr := adapter.UpdateStock(callCtx, account, listing, quantity)

	if pushErr != nil {
		listing.RecordPushFailure(pushErr.Error())
	} else {
		listing.RecordStockPushSuccess(quantity)
	}
	if saveErr := s.listings.Save(ctx, listing); saveErr != nil {
		s.logger.Error("failed to persist listing after stock push",
			zap.String("listing_id", listing.ID.String()),
			zap.Error(saveErr))
		if pushErr == nil {
			return nil, saveErr
		}
	}
	if pushErr != nil {
		return nil, pushErr
	}
	return &PushResult{Outcome: outcome, Listing: listing}, nil
}

// ManualLink links one catalog product to one marketplace account. The
// (product, account) pair is unique: re-linking returns DUPLICATE_LINK.
func (s *Service) ManualLink(ctx context.Context, tenantID uuid.UUID, req ManualLinkRequest) (*marketplace.Listing, error) {
	product, err := s.products.FindByID(ctx, tenantID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := s.accounts.FindByID(ctx, tenantID, req.AccountID); err != nil {
		return nil, err
	}

	exists, err := s.listings.ExistsByProductAndAccount(ctx, tenantID, req.ProductID, req.AccountID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateLink
	}

	listing, err := marketplace.NewListing(tenantID, req.ProductID, req.AccountID, req.RemoteID, product.Barcode)
	if err != nil {
		return nil, err
	}
	listing.SalePrice = req.InitialPrice

	if err := s.listings.Save(ctx, listing); err != nil {
		if errors.Is(err, marketplace.ErrListingAlreadyExists) {
			return nil, ErrDuplicateLink
		}
		return nil, err
	}
	return listing, nil
}

// ---------------------------------------------------------------------------
// Bulk propagation
// ---------------------------------------------------------------------------

// productJob is one unit of bulk work: a product with its listings
type productJob struct {
	product  catalog.Product
	listings []marketplace.Listing
}

// BulkUpdatePrices propagates prices from a source market (or the catalog base
// price) to every linked product on the target market. Products without a
// target listing, without a resolvable non-zero base price, or already at the
// computed price are skipped silently. Vendor calls run on a bounded worker
// pool; one product failing never stops the run.
func (s *Service) BulkUpdatePrices(ctx context.Context, tenantID uuid.UUID, req BulkPriceUpdateRequest) (*BulkResult, error) {
	if req.TargetMarketID == uuid.Nil {
		return nil, ErrTargetMarketRequired
	}
	if !req.Operation.IsValid() {
		return nil, ErrInvalidOperation
	}

	target, err := s.accounts.FindByID(ctx, tenantID, req.TargetMarketID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.loadJobs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	var mu sync.Mutex

	s.runPool(ctx, jobs, func(ctx context.Context, job productJob) {
		targetListing := listingForAccount(job.listings, req.TargetMarketID)
		if targetListing == nil {
			return // nothing to update on the target market
		}

		basePrice, ok := resolveBasePrice(&job.product, job.listings, req.SourceMarketID)
		if !ok || basePrice.IsZero() {
			return // no meaningful base to derive from
		}

		newPrice := computePrice(basePrice, req.Operation, req.Value)
		if newPrice.Equal(targetListing.SalePrice) {
			return // already at the computed price, skip the vendor call
		}

		if _, err := s.pushPrice(ctx, target, targetListing, newPrice); err != nil {
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", job.product.Name, err))
			mu.Unlock()
			return
		}
		mu.Lock()
		result.Count++
		mu.Unlock()
	})

	s.logger.Info("bulk price update finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("target_market_id", req.TargetMarketID.String()),
		zap.Int("updated", result.Count),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

// BulkUpdateStock propagates catalog stock levels to every linked product on
// the target market, mirroring the price propagation run.
func (s *Service) BulkUpdateStock(ctx context.Context, tenantID, targetMarketID uuid.UUID) (*BulkResult, error) {
	if targetMarketID == uuid.Nil {
		return nil, ErrTargetMarketRequired
	}

	target, err := s.accounts.FindByID(ctx, tenantID, targetMarketID)
	if err != nil {
		return nil, err
	}

	jobs, err := s.loadJobs(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	result := &BulkResult{}
	var mu sync.Mutex

	s.runPool(ctx, jobs, func(ctx context.Context, job productJob) {
		targetListing := listingForAccount(job.listings, targetMarketID)
		if targetListing == nil {
			return
		}
		if targetListing.StockQuantity == job.product.Stock {
			return
		}

		if _, err := s.pushStock(ctx, target, targetListing, job.product.Stock); err != nil {
			mu.Lock()
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", job.product.Name, err))
			mu.Unlock()
			return
		}
		mu.Lock()
		result.Count++
		mu.Unlock()
	})

	s.logger.Info("bulk stock update finished",
		zap.String("tenant_id", tenantID.String()),
		zap.String("target_market_id", targetMarketID.String()),
		zap.Int("updated", result.Count),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

// loadJobs loads the full tenant catalog with its listings grouped by product
func (s *Service) loadJobs(ctx context.Context, tenantID uuid.UUID) ([]productJob, error) {
	products, err := s.products.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	listings, err := s.listings.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[uuid.UUID][]marketplace.Listing, len(products))
	for _, l := range listings {
		byProduct[l.ProductID] = append(byProduct[l.ProductID], l)
	}

	jobs := make([]productJob, 0, len(products))
	for _, p := range products {
		jobs = append(jobs, productJob{product: p, listings: byProduct[p.ID]})
	}
	return jobs, nil
}

// runPool fans jobs out to the bounded worker pool and waits for completion
func (s *Service) runPool(ctx context.Context, jobs []productJob, fn func(context.Context, productJob)) {
	queue := make(chan productJob)
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range queue {
				fn(ctx, job)
			}
		}()
	}

	for _, job := range jobs {
		queue <- job
	}
	close(queue)
	wg.Wait()
}

// listingForAccount returns the job's listing on the given account, if any
func listingForAccount(listings []marketplace.Listing, accountID uuid.UUID) *marketplace.Listing {
	for i := range listings {
		if listings[i].AccountID == accountID {
			return &listings[i]
		}
	}
	return nil
}

// resolveBasePrice resolves the price the operation derives from: the
// catalog's own price for the base-price sentinel, otherwise the current
// price of the product's listing on the source market.
func resolveBasePrice(product *catalog.Product, listings []marketplace.Listing, sourceMarketID string) (decimal.Decimal, bool) {
	if sourceMarketID == "" || sourceMarketID == SourceBasePrice {
		return product.Price, true
	}
	sourceID, err := uuid.Parse(sourceMarketID)
	if err != nil {
		return decimal.Zero, false
	}
	if source := listingForAccount(listings, sourceID); source != nil {
		return source.SalePrice, true
	}
	return decimal.Zero, false
}

// computePrice applies the operation and rounds half away from zero to 2
// decimal places.
func computePrice(base decimal.Decimal, op PriceOperation, value decimal.Decimal) decimal.Decimal {
	switch op {
	case OperationIncreasePercent:
		factor := decimal.NewFromInt(1).Add(value.Div(decimal.NewFromInt(hundred)))
		return base.Mul(factor).Round(2)
	case OperationDecreasePercent:
		factor := decimal.NewFromInt(1).Sub(value.Div(decimal.NewFromInt(hundred)))
		return base.Mul(factor).Round(2)
	default:
		return base.Round(2)
	}
}
