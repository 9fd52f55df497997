package ecommerce

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/sellerdesk/backend/internal/domain/marketplace"
)

// Registry maps platform codes to their sync adapters. Platforms without an
// adapter resolve to a no-op adapter that reports SkippedNoAdapter, so the
// calling service can finish its local bookkeeping without special-casing
// unknown platforms.
type Registry struct {
	adapters map[marketplace.PlatformCode]marketplace.RemoteSyncAdapter
	noop     noopAdapter
}

var _ marketplace.AdapterRegistry = (*Registry)(nil)

// NewRegistry creates a registry over the given adapters
func NewRegistry(adapters ...marketplace.RemoteSyncAdapter) *Registry {
	r := &Registry{
		adapters: make(map[marketplace.PlatformCode]marketplace.RemoteSyncAdapter, len(adapters)),
	}
	for _, adapter := range adapters {
		r.adapters[adapter.Platform()] = adapter
	}
	return r
}

// AdapterFor returns the adapter handling the given platform
func (r *Registry) AdapterFor(platform marketplace.PlatformCode) marketplace.RemoteSyncAdapter {
	if adapter, ok := r.adapters[platform]; ok {
		return adapter
	}
	return r.noop
}

// noopAdapter stands in for platforms with no remote integration
type noopAdapter struct{}

func (noopAdapter) Platform() marketplace.PlatformCode {
	return ""
}

func (noopAdapter) UpdatePrice(context.Context, *marketplace.Account, *marketplace.Listing, decimal.Decimal) (marketplace.PushOutcome, error) {
	return marketplace.PushOutcomeSkippedNoAdapter, nil
}

func (noopAdapter) UpdateStock(context.Context, *marketplace.Account, *marketplace.Listing, int) (marketplace.PushOutcome, error) {
	return marketplace.PushOutcomeSkippedNoAdapter, nil
}
