package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/adapters"
	"github.com/nutrilog/nutrilog/internal/cache"
	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
)

// Service resolves products from the configured catalogs, memoizing results
// in the product cache, and owns manual product creation.
type Service struct {
	registry   adapters.Registry
	cache      *cache.ProductCache
	manualRepo repository.ManualProductRepository
	logger     *zap.Logger
}

// NewService wires a product service instance.
func NewService(registry adapters.Registry, productCache *cache.ProductCache, manualRepo repository.ManualProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		registry:   registry,
		cache:      productCache,
		manualRepo: manualRepo,
		logger:     logger,
	}
}

// Resolve returns the canonical product for (source, id), consulting the
// cache first. A successful fetch populates the cache unless the caller's
// context was cancelled while the fetch was in flight.
func (s *Service) Resolve(ctx context.Context, source models.Source, productID string) (models.Product, error) {
	if product, ok := s.cache.Get(source, productID); ok {
		return product, nil
	}

	adapter, ok := s.registry.For(source)
	if !ok {
		return models.Product{}, fmt.Errorf("no adapter registered for source %q", source)
	}

	product, err := adapter.FetchByID(ctx, productID)
	if err != nil {
		return models.Product{}, err
	}

	if ctx.Err() == nil {
		s.cache.Put(source, productID, product)
	}

	return product, nil
}

// Search queries one catalog for products matching the query text. The
// limit is clamped to the supported window before it reaches the adapter.
func (s *Service) Search(ctx context.Context, source models.Source, query string, limit int) ([]models.Product, error) {
	adapter, ok := s.registry.For(source)
	if !ok {
		return nil, fmt.Errorf("no adapter registered for source %q", source)
	}
	return adapter.Search(ctx, query, adapters.ClampLimit(limit))
}

// CreateManual registers a product that exists in no external catalog.
func (s *Service) CreateManual(ctx context.Context, payload models.ManualProductCreate) (models.Product, error) {
	product := models.Product{
		ID:              uuid.NewString(),
		Source:          models.SourceManual,
		Name:            payload.Name,
		Brand:           payload.Brand,
		Barcode:         payload.Barcode,
		Macronutrients:  payload.Macronutrients,
		Micronutrients:  payload.Micronutrients,
		IsLiquid:        payload.IsLiquid,
		VolumeMlPer100g: payload.VolumeMlPer100g,
	}
	if product.IsLiquid && product.VolumeMlPer100g == nil {
		product.VolumeMlPer100g = models.DefaultVolumeFactor()
	}

	if err := product.Validate(); err != nil {
		return models.Product{}, &models.ValidationError{Detail: err.Error()}
	}

	if err := s.manualRepo.Save(ctx, product); err != nil {
		return models.Product{}, fmt.Errorf("save manual product: %w", err)
	}

	s.logger.Info("manual product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}
