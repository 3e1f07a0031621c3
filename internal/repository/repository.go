// Package repository declares the persistence ports the services depend on.
// Tenant is always the first argument after the context; no implementation
// may return data across tenant boundaries.
package repository

import (
	"context"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// LogRepository is the durable store for consumption log entries.
type LogRepository interface {
	Save(ctx context.Context, entry models.LogEntry) error
	FindByID(ctx context.Context, tenantID, entryID string) (models.LogEntry, error)
	FindByDate(ctx context.Context, tenantID string, date time.Time) ([]models.LogEntry, error)
	FindByDateRange(ctx context.Context, tenantID string, dateRange models.DateRange) ([]models.LogEntry, error)
	Delete(ctx context.Context, tenantID, entryID string) error
	Update(ctx context.Context, entry models.LogEntry) error
}

// ManualProductRepository stores tenant-created products. Manual products
// are served through the manual source adapter, so nutrition data stays
// catalog-shaped regardless of origin.
type ManualProductRepository interface {
	Save(ctx context.Context, product models.Product) error
	FindByID(ctx context.Context, productID string) (models.Product, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// GoalsRepository stores one Goals document per tenant. The found flag is
// false when the tenant never saved goals.
type GoalsRepository interface {
	Get(ctx context.Context, tenantID string) (models.Goals, bool, error)
	Save(ctx context.Context, tenantID string, goals models.Goals) error
}

// TemplateRepository stores tenant-owned meal templates.
type TemplateRepository interface {
	Save(ctx context.Context, template models.MealTemplate) error
	FindByID(ctx context.Context, tenantID, templateID string) (models.MealTemplate, error)
	FindAll(ctx context.Context, tenantID string) ([]models.MealTemplate, error)
	Delete(ctx context.Context, tenantID, templateID string) error
}
