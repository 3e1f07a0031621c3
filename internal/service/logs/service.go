package logs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
)

// ProductResolver resolves a canonical product by (source, id). Implemented
// by the products service; stubbed in tests.
type ProductResolver interface {
	Resolve(ctx context.Context, source models.Source, productID string) (models.Product, error)
}

// Notifier dispatches fire-and-forget notifications. Implementations must
// never block the caller or surface delivery errors.
type Notifier interface {
	Notify(title, message string)
}

// Service is the aggregation engine: it owns log entry lifecycle and folds
// entries into nutrition and hydration summaries. It performs no caching of
// its own, and every repository call carries the tenant id explicitly.
type Service struct {
	resolver     ProductResolver
	repo         repository.LogRepository
	notifier     Notifier
	maxRangeDays int
	logger       *zap.Logger
}

// NewService wires the log service.
func NewService(resolver ProductResolver, repo repository.LogRepository, notifier Notifier, maxRangeDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		resolver:     resolver,
		repo:         repo,
		notifier:     notifier,
		maxRangeDays: maxRangeDays,
		logger:       logger,
	}
}

// Create resolves the product, snapshots it into a new entry and persists
// it. The notification hook fires after the write succeeds and never affects
// the result.
func (s *Service) Create(ctx context.Context, tenantID string, payload models.LogEntryCreate) (models.LogEntry, error) {
	if !payload.QuantityG.IsPositive() {
		return models.LogEntry{}, &models.ValidationError{Detail: "quantity_g must be greater than zero"}
	}

	source, err := models.ParseSource(payload.Source)
	if err != nil {
		return models.LogEntry{}, &models.ValidationError{Detail: err.Error()}
	}

	logDate := models.NormalizeDate(time.Now())
	if payload.LogDate != "" {
		parsed, err := time.ParseInLocation(models.DateLayout, payload.LogDate, time.UTC)
		if err != nil {
			return models.LogEntry{}, &models.ValidationError{Detail: fmt.Sprintf("log_date must match %s", models.DateLayout)}
		}
		logDate = parsed
	}

	product, err := s.resolver.Resolve(ctx, source, payload.ProductID)
	if err != nil {
		return models.LogEntry{}, err
	}

	entry := models.LogEntry{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		LogDate:    logDate,
		Product:    product,
		QuantityG:  payload.QuantityG,
		ConsumedAt: time.Now().UTC(),
		Note:       payload.Note,
	}

	if err := s.repo.Save(ctx, entry); err != nil {
		return models.LogEntry{}, fmt.Errorf("save log entry: %w", err)
	}

	if s.notifier != nil {
		s.notifier.Notify("Log entry created",
			fmt.Sprintf("%s: %s g of %s", logDate.Format(models.DateLayout), entry.QuantityG, product.Name))
	}

	return entry, nil
}

// Get returns one entry owned by the tenant.
func (s *Service) Get(ctx context.Context, tenantID, entryID string) (models.LogEntry, error) {
	return s.repo.FindByID(ctx, tenantID, entryID)
}

// EntriesForDate lists the tenant's entries for a calendar date.
func (s *Service) EntriesForDate(ctx context.Context, tenantID string, date time.Time) ([]models.LogEntry, error) {
	return s.repo.FindByDate(ctx, tenantID, date)
}

// Update applies the mutable fields onto a copy of the stored entry. The
// embedded product snapshot and the tenant are never touched.
func (s *Service) Update(ctx context.Context, tenantID, entryID string, payload models.LogEntryUpdate) (models.LogEntry, error) {
	entry, err := s.repo.FindByID(ctx, tenantID, entryID)
	if err != nil {
		return models.LogEntry{}, err
	}

	if payload.QuantityG != nil {
		if !payload.QuantityG.IsPositive() {
			return models.LogEntry{}, &models.ValidationError{Detail: "quantity_g must be greater than zero"}
		}
		entry = entry.WithQuantity(*payload.QuantityG)
	}
	if payload.Note != nil {
		entry = entry.WithNote(*payload.Note)
	}

	if err := s.repo.Update(ctx, entry); err != nil {
		return models.LogEntry{}, err
	}
	return entry, nil
}

// Delete removes one entry owned by the tenant.
func (s *Service) Delete(ctx context.Context, tenantID, entryID string) error {
	return s.repo.Delete(ctx, tenantID, entryID)
}

// DailyNutrition folds one day's entries into a nutrition summary.
func (s *Service) DailyNutrition(ctx context.Context, tenantID string, date time.Time) (models.NutritionSummary, error) {
	entries, err := s.repo.FindByDate(ctx, tenantID, date)
	if err != nil {
		return models.NutritionSummary{}, fmt.Errorf("load entries: %w", err)
	}
	return summarizeNutrition(models.NormalizeDate(date), entries), nil
}

// DailyHydration folds one day's liquid entries into a hydration summary.
func (s *Service) DailyHydration(ctx context.Context, tenantID string, date time.Time) (models.HydrationSummary, error) {
	entries, err := s.repo.FindByDate(ctx, tenantID, date)
	if err != nil {
		return models.HydrationSummary{}, fmt.Errorf("load entries: %w", err)
	}
	return summarizeHydration(models.NormalizeDate(date), entries), nil
}

// NutritionRange returns one nutrition summary per day of the inclusive
// range. Days without entries appear with zero counts and zero sums rather
// than being omitted.
func (s *Service) NutritionRange(ctx context.Context, tenantID string, start, end time.Time) ([]models.NutritionSummary, error) {
	dateRange, err := models.NewDateRange(start, end, s.maxRangeDays)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindByDateRange(ctx, tenantID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	byDay := groupByDay(entries)
	summaries := make([]models.NutritionSummary, 0, len(dateRange.Days()))
	for _, day := range dateRange.Days() {
		summaries = append(summaries, summarizeNutrition(day, byDay[day.Format(models.DateLayout)]))
	}
	return summaries, nil
}

// HydrationRange returns one hydration summary per day of the inclusive
// range, empty days included.
func (s *Service) HydrationRange(ctx context.Context, tenantID string, start, end time.Time) ([]models.HydrationSummary, error) {
	dateRange, err := models.NewDateRange(start, end, s.maxRangeDays)
	if err != nil {
		return nil, err
	}

	entries, err := s.repo.FindByDateRange(ctx, tenantID, dateRange)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}

	byDay := groupByDay(entries)
	summaries := make([]models.HydrationSummary, 0, len(dateRange.Days()))
	for _, day := range dateRange.Days() {
		summaries = append(summaries, summarizeHydration(day, byDay[day.Format(models.DateLayout)]))
	}
	return summaries, nil
}

func groupByDay(entries []models.LogEntry) map[string][]models.LogEntry {
	byDay := make(map[string][]models.LogEntry)
	for _, entry := range entries {
		key := entry.LogDate.Format(models.DateLayout)
		byDay[key] = append(byDay[key], entry)
	}
	return byDay
}

// summarizeNutrition sums the per-entry scaled values. Each entry is rounded
// before it enters the sum; sub-sums are never rounded again. An absent
// optional field contributes nothing for that entry, and the aggregate field
// stays absent until some entry contributes a real value.
func summarizeNutrition(day time.Time, entries []models.LogEntry) models.NutritionSummary {
	totals := models.Macronutrients{
		CaloriesKcal:   decimal.Zero,
		ProteinG:       decimal.Zero,
		CarbohydratesG: decimal.Zero,
		FatG:           decimal.Zero,
	}

	for _, entry := range entries {
		scaled := entry.ScaledMacros()
		totals.CaloriesKcal = totals.CaloriesKcal.Add(scaled.CaloriesKcal)
		totals.ProteinG = totals.ProteinG.Add(scaled.ProteinG)
		totals.CarbohydratesG = totals.CarbohydratesG.Add(scaled.CarbohydratesG)
		totals.FatG = totals.FatG.Add(scaled.FatG)
		totals.FiberG = addOptional(totals.FiberG, scaled.FiberG)
		totals.SugarG = addOptional(totals.SugarG, scaled.SugarG)
	}

	return models.NutritionSummary{
		LogDate:      day,
		TotalEntries: len(entries),
		Totals:       totals,
	}
}

// summarizeHydration considers only liquid entries; everything else neither
// adds volume nor counts as contributing.
func summarizeHydration(day time.Time, entries []models.LogEntry) models.HydrationSummary {
	total := decimal.Zero
	contributing := 0

	for _, entry := range entries {
		volume := entry.ConsumedVolumeMl()
		if volume == nil {
			continue
		}
		total = total.Add(*volume)
		contributing++
	}

	return models.HydrationSummary{
		LogDate:             day,
		TotalVolumeMl:       total,
		ContributingEntries: contributing,
	}
}

func addOptional(sum, contribution *decimal.Decimal) *decimal.Decimal {
	if contribution == nil {
		return sum
	}
	if sum == nil {
		v := *contribution
		return &v
	}
	v := sum.Add(*contribution)
	return &v
}
