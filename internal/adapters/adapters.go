// Package adapters defines the contract every product catalog integration
// implements, plus the closed registry the services resolve adapters from.
package adapters

import (
	"context"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// Search limits are clamped by callers before reaching an adapter.
const (
	MinSearchLimit = 1
	MaxSearchLimit = 20
)

// ProductSource is implemented once per catalog. Implementations normalize
// raw catalog payloads into models.Product and never leak catalog types.
//
// FetchByID returns *models.NotFoundError when the catalog reports no such
// record and *models.ExternalAPIError on transport, non-success status or
// parse failures. Search is best-effort; ranking is delegated to the catalog.
type ProductSource interface {
	FetchByID(ctx context.Context, productID string) (models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// Registry maps the closed set of source tags to their adapters.
type Registry map[models.Source]ProductSource

// For returns the adapter registered for the given source tag.
func (r Registry) For(source models.Source) (ProductSource, bool) {
	adapter, ok := r[source]
	return adapter, ok
}

// ClampLimit bounds a caller-supplied search limit to the supported window.
func ClampLimit(limit int) int {
	if limit < MinSearchLimit {
		return MinSearchLimit
	}
	if limit > MaxSearchLimit {
		return MaxSearchLimit
	}
	return limit
}
