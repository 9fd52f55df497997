package ecommerce

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

const (
	// maxResponseSize limits response body reads to prevent memory exhaustion
	maxResponseSize = 10 * 1024 * 1024 // 10MB

	defaultTrendyolBaseURL = "https://api.trendyol.com/sapigw"
	defaultTrendyolQnaURL  = "https://apigw.trendyol.com/integration/qna"
)

// TrendyolConfig holds connection settings for the Trendyol API
type TrendyolConfig struct {
	// BaseURL is the supplier API root (price/inventory endpoints)
	BaseURL string
	// QnaBaseURL is the Q&A integration gateway root
	QnaBaseURL string
	// TimeoutSeconds is the per-request timeout
	TimeoutSeconds int
}

func (c *TrendyolConfig) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultTrendyolBaseURL
	}
	if c.QnaBaseURL == "" {
		c.QnaBaseURL = defaultTrendyolQnaURL
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
}

// TrendyolAdapter implements the RemoteSyncAdapter and QuestionGateway ports
// for Trendyol. Credentials are per-account, not per-adapter: every call
// builds its auth header from the account's credential bundle.
type TrendyolAdapter struct {
	config     TrendyolConfig
	httpClient *http.Client
}

var (
	_ marketplace.RemoteSyncAdapter = (*TrendyolAdapter)(nil)
	_ marketplace.QuestionGateway   = (*TrendyolAdapter)(nil)
)

// NewTrendyolAdapter creates a new Trendyol adapter
func NewTrendyolAdapter(config TrendyolConfig) *TrendyolAdapter {
	config.applyDefaults()
	return &TrendyolAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}
}

// Platform returns the platform code this adapter handles
func (a *TrendyolAdapter) Platform() marketplace.PlatformCode {
	return marketplace.PlatformCodeTrendyol
}

// ---------------------------------------------------------------------------
// Price & stock push
// ---------------------------------------------------------------------------

// UpdatePrice pushes a new sale price through the batch price-and-inventory
// endpoint. The endpoint is asynchronous: a batch-request id in the response
// means "accepted for processing", so the outcome is Submitted, never
// Confirmed.
func (a *TrendyolAdapter) UpdatePrice(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, newPrice decimal.Decimal) (marketplace.PushOutcome, error) {
	price, _ := newPrice.Round(2).Float64()
	return a.submitBatch(ctx, account, TrendyolPriceInventoryItem{
		Barcode:   listing.Barcode,
		SalePrice: price,
		ListPrice: price,
	})
}

// UpdateStock pushes a new stock quantity through the same batch endpoint
func (a *TrendyolAdapter) UpdateStock(ctx context.Context, account *marketplace.Account, listing *marketplace.Listing, quantity int) (marketplace.PushOutcome, error) {
	return a.submitBatch(ctx, account, TrendyolPriceInventoryItem{
		Barcode:  listing.Barcode,
		Quantity: &quantity,
	})
}

func (a *TrendyolAdapter) submitBatch(ctx context.Context, account *marketplace.Account, item TrendyolPriceInventoryItem) (marketplace.PushOutcome, error) {
	if !account.HasCompleteCredentials() {
		return "", marketplace.ErrAccountCredentialsNeeded
	}

	url := fmt.Sprintf("%s/suppliers/%s/products/price-and-inventory",
		a.config.BaseURL, account.Credentials.SupplierID)
	body := TrendyolPriceInventoryRequest{Items: []TrendyolPriceInventoryItem{item}}

	respBody, err := a.doRequest(ctx, account, http.MethodPost, url, body)
	if err != nil {
		return "", err
	}

	var batch TrendyolBatchResponse
	if err := json.Unmarshal(respBody, &batch); err != nil {
		return "", fmt.Errorf("trendyol: failed to parse response: %w", err)
	}
	if batch.BatchRequestID == "" {
		return "", fmt.Errorf("trendyol: %w: response carries no batchRequestId", marketplace.ErrVendorInvalidResponse)
	}
	return marketplace.PushOutcomeSubmitted, nil
}

// ---------------------------------------------------------------------------
// Q&A feed
// ---------------------------------------------------------------------------

// FetchQuestions returns one page of the seller question feed. Each item's
// verbatim JSON is preserved so the vendor id survives even beyond float64
// precision.
func (a *TrendyolAdapter) FetchQuestions(ctx context.Context, account *marketplace.Account, page, size int) ([]marketplace.RemoteQuestion, error) {
	if !account.HasCompleteCredentials() {
		return nil, marketplace.ErrAccountCredentialsNeeded
	}

	url := fmt.Sprintf("%s/sellers/%s/questions/filter?page=%d&size=%d",
		a.config.QnaBaseURL, account.Credentials.SupplierID, page, size)

	respBody, err := a.doRequest(ctx, account, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	var feed TrendyolQuestionFeedResponse
	if err := json.Unmarshal(respBody, &feed); err != nil {
		return nil, fmt.Errorf("trendyol: failed to parse question feed: %w", err)
	}

	questions := make([]marketplace.RemoteQuestion, 0, len(feed.Content))
	for _, raw := range feed.Content {
		var item TrendyolQuestion
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("trendyol: failed to parse question item: %w", err)
		}
		questions = append(questions, marketplace.RemoteQuestion{
			ID:              item.ID.String(),
			Text:            item.Text,
			CustomerName:    item.CustomerName,
			ProductName:     item.ProductName,
			ProductImageURL: item.ImageURL,
			Status:          item.Status,
			Raw:             string(raw),
		})
	}
	return questions, nil
}

// SubmitAnswer posts an answer for the given vendor question id
func (a *TrendyolAdapter) SubmitAnswer(ctx context.Context, account *marketplace.Account, remoteQuestionID, text string) error {
	if !account.HasCompleteCredentials() {
		return marketplace.ErrAccountCredentialsNeeded
	}

	url := fmt.Sprintf("%s/sellers/%s/questions/%s/answers",
		a.config.QnaBaseURL, account.Credentials.SupplierID, remoteQuestionID)

	_, err := a.doRequest(ctx, account, http.MethodPost, url, TrendyolAnswerRequest{Text: text})
	return err
}

// ---------------------------------------------------------------------------
// HTTP plumbing
// ---------------------------------------------------------------------------

func (a *TrendyolAdapter) doRequest(ctx context.Context, account *marketplace.Account, method, url string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("trendyol: failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("trendyol: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+basicAuth(account.Credentials.APIKey, account.Credentials.APISecret))
	// Trendyol rejects Q&A calls without this exact User-Agent form.
	req.Header.Set("User-Agent", fmt.Sprintf("%s - SelfIntegration", account.Credentials.SupplierID))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("trendyol: %w: %v", marketplace.ErrVendorUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("trendyol: failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("trendyol: %w: status %d: %s",
			marketplace.ErrVendorRequestFailed, resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func basicAuth(key, secret string) string {
	return base64.StdEncoding.EncodeToString([]byte(key + ":" + secret))
}
