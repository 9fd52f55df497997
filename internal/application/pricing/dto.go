package pricing

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// SourceBasePrice is the sentinel source market selecting the catalog's own
// price field instead of another marketplace's listing price.
const SourceBasePrice = "base_price"

// PriceOperation selects how the new price derives from the base price
type PriceOperation string

const (
	// OperationCopy copies the base price unchanged
	OperationCopy PriceOperation = "copy"
	// OperationIncreasePercent raises the base price by Value percent
	OperationIncreasePercent PriceOperation = "inc_percent"
	// OperationDecreasePercent lowers the base price by Value percent
	OperationDecreasePercent PriceOperation = "dec_percent"
)

// IsValid checks if the operation is one of the supported values
func (o PriceOperation) IsValid() bool {
	switch o {
	case OperationCopy, OperationIncreasePercent, OperationDecreasePercent:
		return true
	default:
		return false
	}
}

// BulkPriceUpdateRequest describes one price propagation run.
// SourceMarketID is either a marketplace account id or the SourceBasePrice
// sentinel; TargetMarketID is always a marketplace account id.
type BulkPriceUpdateRequest struct {
	SourceMarketID string
	TargetMarketID uuid.UUID
	Operation      PriceOperation
	Value          decimal.Decimal
}

// BulkResult is the outcome of a bulk propagation run. Errors carries one
// human-readable line per failed product; partial failure is expected.
type BulkResult struct {
	Count  int
	Errors []string
}

// PushResult is the outcome of a single-listing push
type PushResult struct {
	Outcome marketplace.PushOutcome
	Listing *marketplace.Listing
}

// ManualLinkRequest links one catalog product to one marketplace account
type ManualLinkRequest struct {
	ProductID    uuid.UUID
	AccountID    uuid.UUID
	RemoteID     string
	InitialPrice decimal.Decimal
}
