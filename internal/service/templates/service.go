package templates

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/service/logs"
)

// Service manages reusable meals and replays them through the log service,
// so logged template items go through the exact same resolution and
// validation path as individually created entries.
type Service struct {
	repo   repository.TemplateRepository
	logSvc *logs.Service
	logger *zap.Logger
}

// NewService wires the template service.
func NewService(repo repository.TemplateRepository, logSvc *logs.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logSvc: logSvc, logger: logger}
}

// Create stores a new meal template for the tenant.
func (s *Service) Create(ctx context.Context, tenantID string, payload models.MealTemplateCreate) (models.MealTemplate, error) {
	if len(payload.Items) == 0 {
		return models.MealTemplate{}, &models.ValidationError{Detail: "a template needs at least one item"}
	}
	for _, item := range payload.Items {
		if !item.Source.Valid() {
			return models.MealTemplate{}, &models.ValidationError{Detail: fmt.Sprintf("unknown product source %q", item.Source)}
		}
		if !item.QuantityG.IsPositive() {
			return models.MealTemplate{}, &models.ValidationError{Detail: "template item quantity_g must be greater than zero"}
		}
	}

	template := models.MealTemplate{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Name:      payload.Name,
		Items:     payload.Items,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Save(ctx, template); err != nil {
		return models.MealTemplate{}, fmt.Errorf("save template: %w", err)
	}
	return template, nil
}

// List returns all templates owned by the tenant.
func (s *Service) List(ctx context.Context, tenantID string) ([]models.MealTemplate, error) {
	return s.repo.FindAll(ctx, tenantID)
}

// Delete removes one template owned by the tenant.
func (s *Service) Delete(ctx context.Context, tenantID, templateID string) error {
	return s.repo.Delete(ctx, tenantID, templateID)
}

// Log replays every template item as a fresh log entry for the given date.
// Entries created before a failing item stay logged; the error reports where
// the replay stopped.
func (s *Service) Log(ctx context.Context, tenantID, templateID, logDate string) ([]models.LogEntry, error) {
	template, err := s.repo.FindByID(ctx, tenantID, templateID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.LogEntry, 0, len(template.Items))
	for _, item := range template.Items {
		entry, err := s.logSvc.Create(ctx, tenantID, models.LogEntryCreate{
			ProductID: item.ProductID,
			Source:    string(item.Source),
			QuantityG: item.QuantityG,
			LogDate:   logDate,
			Note:      item.Note,
		})
		if err != nil {
			return entries, fmt.Errorf("log template item %s: %w", item.ProductID, err)
		}
		entries = append(entries, entry)
	}

	s.logger.Info("template logged",
		zap.String("tenant_id", tenantID),
		zap.String("template_id", templateID),
		zap.Int("entries", len(entries)))
	return entries, nil
}
