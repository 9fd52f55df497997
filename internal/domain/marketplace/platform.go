package marketplace

import (
	"errors"
	"strings"
)

// ---------------------------------------------------------------------------
// Marketplace Errors
// ---------------------------------------------------------------------------

var (
	// Account errors
	ErrAccountInvalidTenantID   = errors.New("marketplace: invalid tenant ID")
	ErrAccountInvalidPlatform   = errors.New("marketplace: invalid platform code")
	ErrAccountInvalidStoreName  = errors.New("marketplace: store name is required")
	ErrAccountNotFound          = errors.New("marketplace: account not found")
	ErrAccountCredentialsNeeded = errors.New("marketplace: account credentials incomplete")

	// Listing errors
	ErrListingInvalidProductID = errors.New("marketplace: invalid product ID")
	ErrListingInvalidAccountID = errors.New("marketplace: invalid account ID")
	ErrListingInvalidRemoteID  = errors.New("marketplace: invalid remote product ID")
	ErrListingNotFound         = errors.New("marketplace: listing not found")
	ErrListingAlreadyExists    = errors.New("marketplace: product already linked to this account")

	// Vendor errors
	ErrVendorUnavailable     = errors.New("marketplace: vendor temporarily unavailable")
	ErrVendorRequestFailed   = errors.New("marketplace: vendor request failed")
	ErrVendorInvalidResponse = errors.New("marketplace: invalid vendor response")

	// Question errors
	ErrQuestionNotFound        = errors.New("marketplace: question not found")
	ErrQuestionRemoteIDMissing = errors.New("marketplace: remote question ID missing from payload")
	ErrQuestionDuplicate       = errors.New("marketplace: question already ingested")
)

// ---------------------------------------------------------------------------
// PlatformCode
// ---------------------------------------------------------------------------

// PlatformCode identifies a supported marketplace platform. Free-text platform
// hints are resolved to a code exactly once, at the account boundary, via
// ParsePlatformCode; everywhere else the closed enum is used.
type PlatformCode string

const (
	// PlatformCodeTrendyol represents the Trendyol marketplace
	PlatformCodeTrendyol PlatformCode = "TRENDYOL"
	// PlatformCodeWooCommerce represents a self-hosted WooCommerce store
	PlatformCodeWooCommerce PlatformCode = "WOOCOMMERCE"
	// PlatformCodeHepsiburada represents the Hepsiburada marketplace.
	// No sync adapter exists for it yet; pushes resolve to SkippedNoAdapter.
	PlatformCodeHepsiburada PlatformCode = "HEPSIBURADA"
)

// IsValid returns true if the platform code is valid
func (c PlatformCode) IsValid() bool {
	switch c {
	case PlatformCodeTrendyol, PlatformCodeWooCommerce, PlatformCodeHepsiburada:
		return true
	default:
		return false
	}
}

// String returns the string representation of PlatformCode
func (c PlatformCode) String() string {
	return string(c)
}

// DisplayName returns a human-readable name for the platform
func (c PlatformCode) DisplayName() string {
	switch c {
	case PlatformCodeTrendyol:
		return "Trendyol"
	case PlatformCodeWooCommerce:
		return "WooCommerce"
	case PlatformCodeHepsiburada:
		return "Hepsiburada"
	default:
		return string(c)
	}
}

// ParsePlatformCode resolves a free-text platform hint to a PlatformCode.
// Matching is case-insensitive on substrings ("woo" matches WooCommerce).
func ParsePlatformCode(hint string) (PlatformCode, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	switch {
	case h == "":
		return "", false
	case strings.Contains(h, "trendyol"):
		return PlatformCodeTrendyol, true
	case strings.Contains(h, "woo"):
		return PlatformCodeWooCommerce, true
	case strings.Contains(h, "hepsiburada"):
		return PlatformCodeHepsiburada, true
	default:
		if c := PlatformCode(strings.ToUpper(h)); c.IsValid() {
			return c, true
		}
		return "", false
	}
}

// ---------------------------------------------------------------------------
// SyncStatus
// ---------------------------------------------------------------------------

// SyncStatus represents the sync state of a listing
type SyncStatus string

const (
	// SyncStatusActive indicates the last push was accepted
	SyncStatusActive SyncStatus = "active"
	// SyncStatusError indicates the last push failed
	SyncStatusError SyncStatus = "error"
)

// IsValid returns true if the status is valid
func (s SyncStatus) IsValid() bool {
	return s == SyncStatusActive || s == SyncStatusError
}

// String returns the string representation of SyncStatus
func (s SyncStatus) String() string {
	return string(s)
}
