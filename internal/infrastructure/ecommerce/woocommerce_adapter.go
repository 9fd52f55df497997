package ecommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// WooCommerceConfig holds connection settings for the WooCommerce REST API.
// The store URL itself is per-account; only transport settings live here.
type WooCommerceConfig struct {
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int
}

// WooCommerceProductUpdate is the product update payload. The vendor API
// requires numeric fields as strings.
type WooCommerceProductUpdate struct {
	RegularPrice  string `json:"regular_price,omitempty"`
	Price         string `json:"price,omitempty"`
	StockQuantity *int   `json:"stock_quantity,omitempty"`
	ManageStock   *bool  `json:"manage_stock,omitempty"`
}

// WooCommerceAdapter implements the RemoteSyncAdapter port for WooCommerce.
// Unlike the batch-oriented Trendyol API, WooCommerce applies the update
// synchronously, so a 2xx response is a confirmed write.
type WooCommerceAdapter struct {
	httpClient *http.Client
}

var _ marketplace.RemoteSyncAdapter = (*WooCommerceAdapter)(nil)

// NewWooCommerceAdapter creates a new WooCommerce adapter
func NewWooCommerceAdapter(config WooCommerceConfig) *WooCommerceAdapter {
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = 30
	}
	return &WooCommerceAdapter{
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

// Platform returns the platform code this adapter handles
func (a *WooCommerceAdapter) Platform() marketplace.PlatformCode {
	return marketplace.PlatformCodeWooCommerce
}

// UpdatePrice pushes a new price to the store's REST product endpoint
func (a *WooCommerceAdapter) UpdatePrice(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, newPrice decimal.Decimal) (marketplace.PushOutcome, error) {
	price := newPrice.Round(2).StringFixed(2)
	return a.updateProduct(ctx, account, listing, WooCommerceProductUpdate{
		RegularPrice: price,
		Price:        price,
	})
}

// UpdateStock pushes a new stock quantity, enabling stock management so the
// quantity actually takes effect on stores that have it off.
func (a *WooCommerceAdapter) UpdateStock(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, quantity int) (marketplace.PushOutcome, error) {
	manage := true
	return a.updateProduct(ctx, account, listing, WooCommerceProductUpdate{
		StockQuantity: &quantity,
		ManageStock:   &manage,
	})
}

func (a *WooCommerceAdapter) updateProduct(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, update WooCommerceProductUpdate) (marketplace.PushOutcome, error) {
	if !account.HasCompleteCredentials() {
		return "", marketplace.ErrAccountCredentialsNeeded
	}
	if listing.RemoteProductID == "" {
		return "", marketplace.ErrListingInvalidRemoteID
	}

	payload, err := json.Marshal(update)
	if err != nil {
		return "", fmt.Errorf("woocommerce: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/wp-json/wc/v3/products/%s",
		strings.TrimRight(account.Credentials.BaseURL, "/"), listing.RemoteProductID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("woocommerce: failed to build request: %w", err)
	}
	req.SetBasicAuth(account.Credentials.APIKey, account.Credentials.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("woocommerce: %w: %v", marketplace.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("woocommerce: failed to read response: %w", err)
	}

	// Non-2xx responses surface the body verbatim so operators see the
	// vendor's own message.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("woocommerce: %w: status %d: %s",
			marketplace.ErrVendorRequestFailed, resp.StatusCode, string(respBody))
	}
	return marketplace.PushOutcomeConfirmed, nil
}
