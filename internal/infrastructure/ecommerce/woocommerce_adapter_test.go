package ecommerce

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

func wooTestAccount(t *testing.T, baseURL string) *marketplace.Account {
	t.Helper()
	account, err := marketplace.NewAccount(uuid.New(), marketplace.PlatformCodeWooCommerce, "My Shop", marketplace.Credentials{
		APIKey:    "ck_key",
		APISecret: "cs_secret",
		BaseURL:   baseURL,
	})
	require.NoError(t, err)
	return account
}

func wooTestListing(t *testing.T, account *marketplace.Account) *marketplace.Listing {
	t.Helper()
	listing, err := marketplace.NewListing(account.TenantID, uuid.New(), account.ID, "5512", "8690000000002")
	require.NoError(t, err)
	return listing
}

func TestWooCommerceAdapter_UpdatePrice(t *testing.T) {
	t.Run("confirmed on 2xx with string-typed prices", func(t *testing.T) {
		var gotMethod, gotPath string
		var gotBody map[string]any
		var gotUser, gotPass string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotPath = r.URL.Path
			gotUser, gotPass, _ = r.BasicAuth()
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"id":5512}`))
		}))
		defer server.Close()

		adapter := NewWooCommerceAdapter(WooCommerceConfig{})
		account := wooTestAccount(t, server.URL)
		listing := wooTestListing(t, account)

		outcome, err := adapter.UpdatePrice(context.Background(), account, listing, decimal.NewFromFloat(79.9))

		require.NoError(t, err)
		assert.Equal(t, marketplace.PushOutcomeConfirmed, outcome)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "/wp-json/wc/v3/products/5512", gotPath)
		assert.Equal(t, "ck_key", gotUser)
		assert.Equal(t, "cs_secret", gotPass)
		// The vendor API requires numeric fields as strings.
		assert.Equal(t, "79.90", gotBody["regular_price"])
		assert.Equal(t, "79.90", gotBody["price"])
	})

	t.Run("non-2xx body surfaced verbatim", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"code":"woocommerce_rest_product_invalid_id"}`))
		}))
		defer server.Close()

		adapter := NewWooCommerceAdapter(WooCommerceConfig{})
		account := wooTestAccount(t, server.URL)
		listing := wooTestListing(t, account)

		outcome, err := adapter.UpdatePrice(context.Background(), account, listing, decimal.NewFromInt(10))

		assert.ErrorIs(t, err, marketplace.ErrVendorRequestFailed)
		assert.Contains(t, err.Error(), "woocommerce_rest_product_invalid_id")
		assert.False(t, outcome.Reached())
	})

	t.Run("missing remote id rejected before any call", func(t *testing.T) {
		adapter := NewWooCommerceAdapter(WooCommerceConfig{})
		account := wooTestAccount(t, "http://127.0.0.1:1")
		listing := wooTestListing(t, account)
		listing.RemoteProductID = ""

		_, err := adapter.UpdatePrice(context.Background(), account, listing, decimal.NewFromInt(10))

		assert.ErrorIs(t, err, marketplace.ErrListingInvalidRemoteID)
	})
}

func TestWooCommerceAdapter_UpdateStock(t *testing.T) {
	t.Run("enables stock management with the quantity", func(t *testing.T) {
		var gotBody map[string]any
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
			_, _ = w.Write([]byte(`{"id":5512}`))
		}))
		defer server.Close()

		adapter := NewWooCommerceAdapter(WooCommerceConfig{})
		account := wooTestAccount(t, server.URL)
		listing := wooTestListing(t, account)

		outcome, err := adapter.UpdateStock(context.Background(), account, listing, 12)

		require.NoError(t, err)
		assert.Equal(t, marketplace.PushOutcomeConfirmed, outcome)
		assert.Equal(t, float64(12), gotBody["stock_quantity"])
		assert.Equal(t, true, gotBody["manage_stock"])
	})
}

func TestRegistry_AdapterFor(t *testing.T) {
	t.Run("resolves registered adapters by platform", func(t *testing.T) {
		trendyol := NewTrendyolAdapter(TrendyolConfig{})
		woo := NewWooCommerceAdapter(WooCommerceConfig{})
		registry := NewRegistry(trendyol, woo)

		assert.Equal(t, marketplace.PlatformCodeTrendyol, registry.AdapterFor(marketplace.PlatformCodeTrendyol).Platform())
		assert.Equal(t, marketplace.PlatformCodeWooCommerce, registry.AdapterFor(marketplace.PlatformCodeWooCommerce).Platform())
	})

	t.Run("unknown platform falls back to skip outcome", func(t *testing.T) {
		registry := NewRegistry()
		adapter := registry.AdapterFor(marketplace.PlatformCodeHepsiburada)

		outcome, err := adapter.UpdatePrice(context.Background(), nil, nil, decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, marketplace.PushOutcomeSkippedNoAdapter, outcome)
		assert.False(t, outcome.Reached())
	})
}
