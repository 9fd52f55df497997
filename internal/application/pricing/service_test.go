package pricing

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sellerdesk/backend/internal/domain/catalog"
	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok && p.TenantID == tenantID {
		cp := *p
		return &cp, nil
	}
	return nil, catalog.ErrProductNotFound
}

func (r *fakeProductRepo) FindByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Barcode == barcode {
			cp := *p
			return &cp, nil
		}
	}
	return nil, catalog.ErrProductNotFound
}

func (r *fakeProductRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		if p.TenantID == tenantID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ExistsByBarcode(_ context.Context, tenantID uuid.UUID, barcode string) (bool, error) {
	for _, p := range r.products {
		if p.TenantID == tenantID && p.Barcode == barcode {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) Save(_ context.Context, product *catalog.Product) error {
	cp := *product
	r.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*marketplace.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*marketplace.Account)}
}

func (r *fakeAccountRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*marketplace.Account, error) {
	if a, ok := r.accounts[id]; ok && a.TenantID == tenantID {
		cp := *a
		return &cp, nil
	}
	return nil, marketplace.ErrAccountNotFound
}

func (r *fakeAccountRepo) FindAll(_ context.Context, tenantID uuid.UUID) ([]marketplace.Account, error) {
	var out []marketplace.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindByPlatform(_ context.Context, tenantID uuid.UUID, platform marketplace.PlatformCode) ([]marketplace.Account, error) {
	var out []marketplace.Account
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.Platform == platform {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAccountRepo) FindByStoreName(_ context.Context, tenantID uuid.UUID, storeName string) (*marketplace.Account, error) {
	for _, a := range r.accounts {
		if a.TenantID == tenantID && a.StoreName == storeName {
			cp := *a
			return &cp, nil
		}
	}
	return nil, marketplace.ErrAccountNotFound
}

func (r *fakeAccountRepo) Save(_ context.Context, account *marketplace.Account) error {
	cp := *account
	r.accounts[account.ID] = &cp
	return nil
}

func (r *fakeAccountRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	delete(r.accounts, id)
	return nil
}

type fakeListingRepo struct {
	mu       sync.Mutex
	listings map[uuid.UUID]*marketplace.Listing
	saveErr  error
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: make(map[uuid.UUID]*marketplace.Listing)}
}

func (r *fakeListingRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.listings[id]; ok && l.TenantID == tenantID {
		cp := *l
		return &cp, nil
	}
	return nil, marketplace.ErrListingNotFound
}

func (r *fakeListingRepo) FindByAccount(_ context.Context, tenantID, accountID uuid.UUID) ([]marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketplace.Listing
	for _, l := range r.listings {
		if l.TenantID == tenantID && l.AccountID == accountID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID) ([]marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketplace.Listing
	for _, l := range r.listings {
		if l.TenantID == tenantID && l.ProductID == productID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]marketplace.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []marketplace.Listing
	for _, l := range r.listings {
		if l.TenantID == tenantID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (r *fakeListingRepo) ExistsByProductAndAccount(_ context.Context, tenantID, productID, accountID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.listings {
		if l.TenantID == tenantID && l.ProductID == productID && l.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeListingRepo) Save(_ context.Context, listing *marketplace.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r *fakeListingRepo) CreateBatch(_ context.Context, listings []marketplace.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for i := range listings {
		cp := listings[i]
		r.listings[cp.ID] = &cp
	}
	return nil
}

func (r *fakeListingRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.listings, id)
	return nil
}

func (r *fakeListingRepo) DeleteByAccount(_ context.Context, tenantID, accountID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.listings {
		if l.AccountID == accountID {
			delete(r.listings, id)
		}
	}
	return nil
}

func (r *fakeListingRepo) get(id uuid.UUID) *marketplace.Listing {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listings[id]
}

// fakeAdapter scripts push outcomes and records the prices it was called with
type fakeAdapter struct {
	mu       sync.Mutex
	platform marketplace.PlatformCode
	outcome  marketplace.PushOutcome
	err      error
	calls    []decimal.Decimal
}

func (a *fakeAdapter) Platform() marketplace.PlatformCode { return a.platform }

func (a *fakeAdapter) UpdatePrice(_ context.Context, _ *marketplace.Account, _ *marketplace.Listing, newPrice decimal.Decimal) (marketplace.PushOutcome, error) {
	a.mu.Lock()
	a.calls = append(a.calls, newPrice)
	a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	return a.outcome, nil
}

func (a *fakeAdapter) UpdateStock(_ context.Context, _ *marketplace.Account, _ *marketplace.Listing, quantity int) (marketplace.PushOutcome, error) {
	a.mu.Lock()
	a.calls = append(a.calls, decimal.NewFromInt(int64(quantity)))
	a.mu.Unlock()
	if a.err != nil {
		return "", a.err
	}
	return a.outcome, nil
}

func (a *fakeAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

type fakeRegistry struct {
	adapters map[marketplace.PlatformCode]marketplace.RemoteSyncAdapter
	fallback marketplace.RemoteSyncAdapter
}

func (r *fakeRegistry) AdapterFor(platform marketplace.PlatformCode) marketplace.RemoteSyncAdapter {
	if a, ok := r.adapters[platform]; ok {
		return a
	}
	return r.fallback
}

// ---------------------------------------------------------------------------
// Fixture
// ---------------------------------------------------------------------------

type pricingFixture struct {
	tenantID uuid.UUID
	products *fakeProductRepo
	accounts *fakeAccountRepo
	listings *fakeListingRepo
	adapter  *fakeAdapter
	service  *Service
}

func newPricingFixture(t *testing.T, outcome marketplace.PushOutcome, pushErr error) *pricingFixture {
	t.Helper()
	f := &pricingFixture{
		tenantID: uuid.New(),
		products: newFakeProductRepo(),
		accounts: newFakeAccountRepo(),
		listings: newFakeListingRepo(),
		adapter:  &fakeAdapter{platform: marketplace.PlatformCodeWooCommerce, outcome: outcome, err: pushErr},
	}
	registry := &fakeRegistry{
		adapters: map[marketplace.PlatformCode]marketplace.RemoteSyncAdapter{
			marketplace.PlatformCodeWooCommerce: f.adapter,
		},
		fallback: &fakeAdapter{outcome: marketplace.PushOutcomeSkippedNoAdapter},
	}
	f.service = NewService(f.products, f.accounts, f.listings, registry, zap.NewNop(), Config{Workers: 2})
	return f
}

func (f *pricingFixture) addAccount(t *testing.T, platform marketplace.PlatformCode, name string) *marketplace.Account {
	t.Helper()
	account, err := marketplace.NewAccount(f.tenantID, platform, name, marketplace.Credentials{
		APIKey: "k", APISecret: "s", SupplierID: "1", BaseURL: "https://shop.example",
	})
	require.NoError(t, err)
	require.NoError(t, f.accounts.Save(context.Background(), account))
	return account
}

func (f *pricingFixture) addProduct(t *testing.T, name, barcode string, price decimal.Decimal, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(f.tenantID, name, "", barcode)
	require.NoError(t, err)
	product.Price = price
	product.Stock = stock
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *pricingFixture) addListing(t *testing.T, product *catalog.Product, account *marketplace.Account, price decimal.Decimal) *marketplace.Listing {
	t.Helper()
	listing, err := marketplace.NewListing(f.tenantID, product.ID, account.ID, "remote-"+product.Barcode, product.Barcode)
	require.NoError(t, err)
	listing.SalePrice = price
	require.NoError(t, f.listings.Save(context.Background(), listing))
	return listing
}

// ---------------------------------------------------------------------------
// UpdateListingPrice
// ---------------------------------------------------------------------------

func TestService_UpdateListingPrice(t *testing.T) {
	t.Run("accepted push stores price and clears error state", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(90))
		listing.Status = marketplace.SyncStatusError
		listing.LastError = "old failure"
		require.NoError(t, f.listings.Save(context.Background(), listing))

		result, err := f.service.UpdateListingPrice(context.Background(), f.tenantID, listing.ID, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.Equal(t, marketplace.PushOutcomeConfirmed, result.Outcome)
		saved := f.listings.get(listing.ID)
		assert.True(t, saved.SalePrice.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, marketplace.SyncStatusActive, saved.Status)
		assert.Empty(t, saved.LastError)
		assert.NotNil(t, saved.LastSuccessAt)
	})

	t.Run("vendor failure records error and leaves price unchanged", func(t *testing.T) {
		f := newPricingFixture(t, "", errors.New("status 500: upstream down"))
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(90))

		_, err := f.service.UpdateListingPrice(context.Background(), f.tenantID, listing.ID, decimal.NewFromInt(100))

		require.Error(t, err)
		saved := f.listings.get(listing.ID)
		assert.True(t, saved.SalePrice.Equal(decimal.NewFromInt(90)), "stored price must stay at the last accepted value")
		assert.Equal(t, marketplace.SyncStatusError, saved.Status)
		assert.Contains(t, saved.LastError, "upstream down")
	})

	t.Run("platform without adapter skips remotely but updates locally", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeHepsiburada, "HB Store")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(90))

		result, err := f.service.UpdateListingPrice(context.Background(), f.tenantID, listing.ID, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.Equal(t, marketplace.PushOutcomeSkippedNoAdapter, result.Outcome)
		saved := f.listings.get(listing.ID)
		assert.True(t, saved.SalePrice.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, 0, f.adapter.callCount(), "the real adapter must not be touched")
	})
}

// ---------------------------------------------------------------------------
// ManualLink
// ---------------------------------------------------------------------------

func TestService_ManualLink(t *testing.T) {
	t.Run("creates a listing carrying the product barcode", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)

		listing, err := f.service.ManualLink(context.Background(), f.tenantID, ManualLinkRequest{
			ProductID:    product.ID,
			AccountID:    account.ID,
			RemoteID:     "5512",
			InitialPrice: decimal.NewFromInt(95),
		})

		require.NoError(t, err)
		assert.Equal(t, "869001", listing.Barcode)
		assert.True(t, listing.SalePrice.Equal(decimal.NewFromInt(95)))
	})

	t.Run("second link of the same pair is a duplicate", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		f.addListing(t, product, account, decimal.NewFromInt(90))

		_, err := f.service.ManualLink(context.Background(), f.tenantID, ManualLinkRequest{
			ProductID: product.ID,
			AccountID: account.ID,
			RemoteID:  "5512",
		})

		assert.Equal(t, ErrDuplicateLink, err)
	})

	t.Run("unknown product rejected", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")

		_, err := f.service.ManualLink(context.Background(), f.tenantID, ManualLinkRequest{
			ProductID: uuid.New(),
			AccountID: account.ID,
			RemoteID:  "5512",
		})

		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
	})
}

// ---------------------------------------------------------------------------
// BulkUpdatePrices
// ---------------------------------------------------------------------------

func TestService_BulkUpdatePrices(t *testing.T) {
	t.Run("fails fast without a target market", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)

		_, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			Operation: OperationCopy,
		})

		assert.Equal(t, ErrTargetMarketRequired, err)
	})

	t.Run("copies base price to the target market", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromFloat(129.90), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(90))

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: SourceBasePrice,
			TargetMarketID: account.ID,
			Operation:      OperationCopy,
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		assert.Empty(t, result.Errors)
		assert.True(t, f.listings.get(listing.ID).SalePrice.Equal(decimal.NewFromFloat(129.90)))
	})

	t.Run("percentage increase rounds to two decimals", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromFloat(99.99), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(90))

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: SourceBasePrice,
			TargetMarketID: account.ID,
			Operation:      OperationIncreasePercent,
			Value:          decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		// 99.99 * 1.10 = 109.989 -> 109.99
		assert.True(t, f.listings.get(listing.ID).SalePrice.Equal(decimal.NewFromFloat(109.99)))
	})

	t.Run("skips without vendor call when already at the computed price", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		f.addListing(t, product, account, decimal.NewFromInt(100))

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: SourceBasePrice,
			TargetMarketID: account.ID,
			Operation:      OperationCopy,
		})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 0, f.adapter.callCount())
	})

	t.Run("skips products with zero base price or no target listing", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		zeroPriced := f.addProduct(t, "Free Thing", "869002", decimal.Zero, 5)
		f.addListing(t, zeroPriced, account, decimal.NewFromInt(10))
		f.addProduct(t, "Unlinked", "869003", decimal.NewFromInt(50), 5)

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: SourceBasePrice,
			TargetMarketID: account.ID,
			Operation:      OperationCopy,
		})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.Empty(t, result.Errors)
		assert.Equal(t, 0, f.adapter.callCount())
	})

	t.Run("uses a source listing price when source is a market", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		source := f.addAccount(t, marketplace.PlatformCodeTrendyol, "TY Store")
		target := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		f.addListing(t, product, source, decimal.NewFromInt(200))
		targetListing := f.addListing(t, product, target, decimal.NewFromInt(90))

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: source.ID.String(),
			TargetMarketID: target.ID,
			Operation:      OperationDecreasePercent,
			Value:          decimal.NewFromInt(10),
		})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		// 200 * 0.90 = 180
		assert.True(t, f.listings.get(targetListing.ID).SalePrice.Equal(decimal.NewFromInt(180)))
	})

	t.Run("collects errors and keeps going", func(t *testing.T) {
		f := newPricingFixture(t, "", errors.New("vendor rejected"))
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		for i, barcode := range []string{"869001", "869002", "869003"} {
			product := f.addProduct(t, barcode, barcode, decimal.NewFromInt(int64(100+i)), 5)
			f.addListing(t, product, account, decimal.NewFromInt(1))
		}

		result, err := f.service.BulkUpdatePrices(context.Background(), f.tenantID, BulkPriceUpdateRequest{
			SourceMarketID: SourceBasePrice,
			TargetMarketID: account.ID,
			Operation:      OperationCopy,
		})

		require.NoError(t, err, "partial failure is a result, not an error")
		assert.Equal(t, 0, result.Count)
		assert.Len(t, result.Errors, 3)
		assert.Equal(t, 3, f.adapter.callCount())
	})
}

// ---------------------------------------------------------------------------
// BulkUpdateStock
// ---------------------------------------------------------------------------

func TestService_BulkUpdateStock(t *testing.T) {
	t.Run("pushes catalog stock to the target market", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 17)
		listing := f.addListing(t, product, account, decimal.NewFromInt(100))

		result, err := f.service.BulkUpdateStock(context.Background(), f.tenantID, account.ID)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Count)
		assert.Equal(t, 17, f.listings.get(listing.ID).StockQuantity)
	})

	t.Run("skips listings already at the catalog stock", func(t *testing.T) {
		f := newPricingFixture(t, marketplace.PushOutcomeConfirmed, nil)
		account := f.addAccount(t, marketplace.PlatformCodeWooCommerce, "Shop")
		product := f.addProduct(t, "Bottle", "869001", decimal.NewFromInt(100), 5)
		listing := f.addListing(t, product, account, decimal.NewFromInt(100))
		listing.StockQuantity = 5
		require.NoError(t, f.listings.Save(context.Background(), listing))

		result, err := f.service.BulkUpdateStock(context.Background(), f.tenantID, account.ID)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Count)
		assert.Equal(t, 0, f.adapter.callCount())
	})
}
