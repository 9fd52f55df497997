package marketplace

import (
	"context"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// PushOutcome
// ---------------------------------------------------------------------------

// PushOutcome names the result of a remote push. "Submitted" and "Confirmed"
// are deliberately distinct: Trendyol's batch API is asynchronous and only
// acknowledges that an update was accepted for processing, while WooCommerce
// confirms the write synchronously. Operators should see the difference.
type PushOutcome string

const (
	// PushOutcomeConfirmed means the vendor confirmed the write applied
	PushOutcomeConfirmed PushOutcome = "CONFIRMED"
	// PushOutcomeSubmitted means the vendor accepted the update for
	// asynchronous processing; application is not confirmed.
	PushOutcomeSubmitted PushOutcome = "SUBMITTED"
	// PushOutcomeSkippedNoAdapter means no adapter exists for the platform.
	// Local bookkeeping still updates, but nothing reached any vendor.
	PushOutcomeSkippedNoAdapter PushOutcome = "SKIPPED_NO_ADAPTER"
)

// String returns the string representation of PushOutcome
func (o PushOutcome) String() string {
	return string(o)
}

// Reached reports whether the push reached a vendor at all
func (o PushOutcome) Reached() bool {
	return o == PushOutcomeConfirmed || o == PushOutcomeSubmitted
}

// ---------------------------------------------------------------------------
// RemoteSyncAdapter Port Interface
// ---------------------------------------------------------------------------

// RemoteSyncAdapter translates a local price/stock update into one vendor's
// wire format and performs the call. Implementations live in the
// infrastructure layer, one per platform (Ports & Adapters).
type RemoteSyncAdapter interface {
	// Platform returns the platform code this adapter handles
	Platform() PlatformCode

	// UpdatePrice pushes a new price for the listing to the vendor
	UpdatePrice(ctx context.Context, account *Account, listing *Listing, newPrice decimal.Decimal) (PushOutcome, error)

	// UpdateStock pushes a new stock quantity for the listing to the vendor
	UpdateStock(ctx context.Context, account *Account, listing *Listing, quantity int) (PushOutcome, error)
}

// AdapterRegistry resolves the sync adapter for a platform. Platforms without
// an adapter resolve to a no-op adapter returning PushOutcomeSkippedNoAdapter
// rather than an error, so local bookkeeping keeps moving.
type AdapterRegistry interface {
	// AdapterFor returns the adapter handling the given platform
	AdapterFor(platform PlatformCode) RemoteSyncAdapter
}

// ---------------------------------------------------------------------------
// QuestionGateway Port Interface
// ---------------------------------------------------------------------------

// RemoteQuestion is one customer question as delivered by a vendor feed. Raw
// holds the verbatim vendor JSON for the item; it is stored unmodified so the
// vendor id can be recovered later regardless of its numeric width.
type RemoteQuestion struct {
	// ID is the vendor question id rendered as a string
	ID string
	// Text is the question text
	Text string
	// CustomerName is the asking customer's display name
	CustomerName string
	// ProductName is the name of the product the question concerns
	ProductName string
	// ProductImageURL is the product image shown next to the question
	ProductImageURL string
	// Status is the vendor-reported lifecycle state, unnormalized
	Status string
	// Raw is the verbatim vendor JSON for this question
	Raw string
}

// QuestionGateway pulls the customer Q&A feed from a vendor and submits
// seller answers. Only platforms with a question API implement it.
type QuestionGateway interface {
	// FetchQuestions returns one page of the vendor question feed
	FetchQuestions(ctx context.Context, account *Account, page, size int) ([]RemoteQuestion, error)

	// SubmitAnswer posts an answer for the given vendor question id. The
	// vendor must acknowledge before any local state changes.
	SubmitAnswer(ctx context.Context, account *Account, remoteQuestionID, text string) error
}
