package ecommerce

import "encoding/json"

// ---------------------------------------------------------------------------
// Price & Inventory API
// ---------------------------------------------------------------------------

// TrendyolPriceInventoryItem is one item of a batch price/stock update.
// Items are keyed by barcode; the batch API does not address remote ids.
type TrendyolPriceInventoryItem struct {
	Barcode   string  `json:"barcode"`
	SalePrice float64 `json:"salePrice,omitempty"`
	ListPrice float64 `json:"listPrice,omitempty"`
	Quantity  *int    `json:"quantity,omitempty"`
}

// TrendyolPriceInventoryRequest is the batch price-and-inventory payload
type TrendyolPriceInventoryRequest struct {
	Items []TrendyolPriceInventoryItem `json:"items"`
}

// TrendyolBatchResponse is the acknowledgement of an asynchronous batch
// submission. The presence of BatchRequestID is the only success signal; the
// vendor never confirms synchronously that the update applied.
type TrendyolBatchResponse struct {
	BatchRequestID string `json:"batchRequestId"`
}

// ---------------------------------------------------------------------------
// Q&A API
// ---------------------------------------------------------------------------

// TrendyolQuestion is one item of the seller question feed
type TrendyolQuestion struct {
	ID           json.Number `json:"id"`
	Text         string      `json:"text"`
	CustomerName string      `json:"userName"`
	ProductName  string      `json:"productName"`
	ImageURL     string      `json:"imageUrl"`
	Status       string      `json:"status"`
	CreationDate int64       `json:"creationDate"`
}

// TrendyolQuestionFeedResponse is one page of the seller question feed
type TrendyolQuestionFeedResponse struct {
	Content       []json.RawMessage `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int               `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
}

// TrendyolAnswerRequest is the answer submission payload
type TrendyolAnswerRequest struct {
	Text string `json:"text"`
}
