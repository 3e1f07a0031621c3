package barcode

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/adapters"
	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// Service resolves a product by barcode without the caller naming a catalog.
// It walks the configured source order; "not found" moves on to the next
// catalog, while a live catalog failure aborts immediately so an outage is
// never misreported as "not found".
type Service struct {
	registry adapters.Registry
	order    []models.Source
	logger   *zap.Logger
}

// NewService parses the configured lookup order and wires the service.
// Unknown tags and tags without a registered adapter are skipped with a
// warning instead of failing startup.
func NewService(registry adapters.Registry, lookupOrder []string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	order := make([]models.Source, 0, len(lookupOrder))
	for _, raw := range lookupOrder {
		source, err := models.ParseSource(raw)
		if err != nil {
			logger.Warn("ignoring invalid source in barcode lookup order", zap.String("source", raw))
			continue
		}
		if _, ok := registry.For(source); !ok {
			logger.Warn("no adapter registered for barcode lookup source", zap.String("source", raw))
			continue
		}
		order = append(order, source)
	}

	return &Service{registry: registry, order: order, logger: logger}
}

// Lookup tries each configured catalog in order. The result is deterministic
// for a fixed configuration and catalog state.
func (s *Service) Lookup(ctx context.Context, barcodeValue string) (models.Product, error) {
	for _, source := range s.order {
		adapter, _ := s.registry.For(source)

		product, err := adapter.FetchByID(ctx, barcodeValue)
		if err == nil {
			return product, nil
		}

		var notFound *models.NotFoundError
		if errors.As(err, &notFound) {
			s.logger.Debug("barcode not in catalog, trying next",
				zap.String("barcode", barcodeValue),
				zap.String("source", string(source)))
			continue
		}

		return models.Product{}, err
	}

	return models.Product{}, &models.NotFoundError{ProductID: barcodeValue, Source: "all_configured_sources"}
}
