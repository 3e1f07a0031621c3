// Package memory holds in-process implementations of the persistence ports.
// They back the test suites and the STORAGE_DRIVER=memory deployment mode.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

// LogRepository keeps log entries per tenant in memory.
type LogRepository struct {
	mu      sync.RWMutex
	entries map[string]map[string]models.LogEntry // tenant -> entry id -> entry
}

// NewLogRepository builds an empty in-memory log store.
func NewLogRepository() *LogRepository {
	return &LogRepository{entries: make(map[string]map[string]models.LogEntry)}
}

func (r *LogRepository) Save(_ context.Context, entry models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant, ok := r.entries[entry.TenantID]
	if !ok {
		tenant = make(map[string]models.LogEntry)
		r.entries[entry.TenantID] = tenant
	}
	tenant[entry.ID] = entry
	return nil
}

func (r *LogRepository) FindByID(_ context.Context, tenantID, entryID string) (models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[tenantID][entryID]
	if !ok {
		return models.LogEntry{}, models.ErrEntryNotFound
	}
	return entry, nil
}

func (r *LogRepository) FindByDate(_ context.Context, tenantID string, date time.Time) ([]models.LogEntry, error) {
	date = models.NormalizeDate(date)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.LogEntry
	for _, entry := range r.entries[tenantID] {
		if entry.LogDate.Equal(date) {
			out = append(out, entry)
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *LogRepository) FindByDateRange(_ context.Context, tenantID string, dateRange models.DateRange) ([]models.LogEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.LogEntry
	for _, entry := range r.entries[tenantID] {
		if entry.LogDate.Before(dateRange.Start) || entry.LogDate.After(dateRange.End) {
			continue
		}
		out = append(out, entry)
	}
	sortEntries(out)
	return out, nil
}

func (r *LogRepository) Delete(_ context.Context, tenantID, entryID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[tenantID][entryID]; !ok {
		return models.ErrEntryNotFound
	}
	delete(r.entries[tenantID], entryID)
	return nil
}

func (r *LogRepository) Update(_ context.Context, entry models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.TenantID][entry.ID]; !ok {
		return models.ErrEntryNotFound
	}
	r.entries[entry.TenantID][entry.ID] = entry
	return nil
}

func sortEntries(entries []models.LogEntry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].LogDate.Equal(entries[j].LogDate) {
			return entries[i].LogDate.Before(entries[j].LogDate)
		}
		return entries[i].ConsumedAt.Before(entries[j].ConsumedAt)
	})
}

// ManualProductRepository keeps manual products in memory. Manual products
// are shared catalog data, not tenant-partitioned.
type ManualProductRepository struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

// NewManualProductRepository builds an empty in-memory product store.
func NewManualProductRepository() *ManualProductRepository {
	return &ManualProductRepository{products: make(map[string]models.Product)}
}

func (r *ManualProductRepository) Save(_ context.Context, product models.Product) error {
	r.mu.Lock()
	r.products[product.ID] = product
	r.mu.Unlock()
	return nil
}

func (r *ManualProductRepository) FindByID(_ context.Context, productID string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[productID]
	if !ok {
		return models.Product{}, &models.NotFoundError{ProductID: productID, Source: string(models.SourceManual)}
	}
	return product, nil
}

func (r *ManualProductRepository) Search(_ context.Context, query string, limit int) ([]models.Product, error) {
	needle := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Product
	for _, product := range r.products {
		if strings.Contains(strings.ToLower(product.Name), needle) {
			out = append(out, product)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GoalsRepository keeps one goals document per tenant in memory.
type GoalsRepository struct {
	mu    sync.RWMutex
	goals map[string]models.Goals
}

// NewGoalsRepository builds an empty in-memory goals store.
func NewGoalsRepository() *GoalsRepository {
	return &GoalsRepository{goals: make(map[string]models.Goals)}
}

func (r *GoalsRepository) Get(_ context.Context, tenantID string) (models.Goals, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals, ok := r.goals[tenantID]
	return goals, ok, nil
}

func (r *GoalsRepository) Save(_ context.Context, tenantID string, goals models.Goals) error {
	r.mu.Lock()
	r.goals[tenantID] = goals
	r.mu.Unlock()
	return nil
}

// TemplateRepository keeps meal templates per tenant in memory.
type TemplateRepository struct {
	mu        sync.RWMutex
	templates map[string]map[string]models.MealTemplate // tenant -> template id -> template
}

// NewTemplateRepository builds an empty in-memory template store.
func NewTemplateRepository() *TemplateRepository {
	return &TemplateRepository{templates: make(map[string]map[string]models.MealTemplate)}
}

func (r *TemplateRepository) Save(_ context.Context, template models.MealTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tenant, ok := r.templates[template.TenantID]
	if !ok {
		tenant = make(map[string]models.MealTemplate)
		r.templates[template.TenantID] = tenant
	}
	tenant[template.ID] = template
	return nil
}

func (r *TemplateRepository) FindByID(_ context.Context, tenantID, templateID string) (models.MealTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	template, ok := r.templates[tenantID][templateID]
	if !ok {
		return models.MealTemplate{}, models.ErrTemplateNotFound
	}
	return template, nil
}

func (r *TemplateRepository) FindAll(_ context.Context, tenantID string) ([]models.MealTemplate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.MealTemplate, 0, len(r.templates[tenantID]))
	for _, template := range r.templates[tenantID] {
		out = append(out, template)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *TemplateRepository) Delete(_ context.Context, tenantID, templateID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.templates[tenantID][templateID]; !ok {
		return models.ErrTemplateNotFound
	}
	delete(r.templates[tenantID], templateID)
	return nil
}
