package manual

import (
	"context"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
)

// Adapter serves tenant-created products through the same contract the
// external catalogs use, so the resolution and logging paths never care
// where a product came from.
type Adapter struct {
	repo repository.ManualProductRepository
}

// New wires the manual adapter onto its backing repository.
func New(repo repository.ManualProductRepository) *Adapter {
	return &Adapter{repo: repo}
}

// FetchByID returns a stored manual product.
func (a *Adapter) FetchByID(ctx context.Context, productID string) (models.Product, error) {
	return a.repo.FindByID(ctx, productID)
}

// Search matches stored manual products by name.
func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	return a.repo.Search(ctx, query, limit)
}
