package goals

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/service/logs"
)

var hundred = decimal.NewFromInt(100)

// Service tracks per-tenant daily targets and computes progress against the
// aggregation engine's summaries.
type Service struct {
	repo   repository.GoalsRepository
	logSvc *logs.Service
	logger *zap.Logger
}

// NewService wires the goals service.
func NewService(repo repository.GoalsRepository, logSvc *logs.Service, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logSvc: logSvc, logger: logger}
}

// Get returns the tenant's goals, or an empty set when none were saved.
func (s *Service) Get(ctx context.Context, tenantID string) (models.Goals, error) {
	goals, _, err := s.repo.Get(ctx, tenantID)
	if err != nil {
		return models.Goals{}, fmt.Errorf("load goals: %w", err)
	}
	return goals, nil
}

// Update replaces the tenant's goals.
func (s *Service) Update(ctx context.Context, tenantID string, goals models.Goals) (models.Goals, error) {
	for _, target := range []*decimal.Decimal{
		goals.CaloriesKcal, goals.ProteinG, goals.CarbohydratesG, goals.FatG, goals.WaterMl,
	} {
		if target != nil && target.IsNegative() {
			return models.Goals{}, &models.ValidationError{Detail: "goal targets must not be negative"}
		}
	}

	if err := s.repo.Save(ctx, tenantID, goals); err != nil {
		return models.Goals{}, fmt.Errorf("save goals: %w", err)
	}
	return goals, nil
}

// Progress reports, per set target, how the tenant's day measures up.
func (s *Service) Progress(ctx context.Context, tenantID string, date time.Time) (models.GoalsProgress, error) {
	goals, err := s.Get(ctx, tenantID)
	if err != nil {
		return models.GoalsProgress{}, err
	}

	nutrition, err := s.logSvc.DailyNutrition(ctx, tenantID, date)
	if err != nil {
		return models.GoalsProgress{}, err
	}
	hydration, err := s.logSvc.DailyHydration(ctx, tenantID, date)
	if err != nil {
		return models.GoalsProgress{}, err
	}

	return models.GoalsProgress{
		LogDate:       models.NormalizeDate(date),
		Calories:      progressFor(goals.CaloriesKcal, nutrition.Totals.CaloriesKcal),
		Protein:       progressFor(goals.ProteinG, nutrition.Totals.ProteinG),
		Carbohydrates: progressFor(goals.CarbohydratesG, nutrition.Totals.CarbohydratesG),
		Fat:           progressFor(goals.FatG, nutrition.Totals.FatG),
		Water:         progressFor(goals.WaterMl, hydration.TotalVolumeMl),
	}, nil
}

// progressFor is nil for unset targets. Percent is rounded to one decimal
// place; a non-positive target counts as fully achieved.
func progressFor(target *decimal.Decimal, actual decimal.Decimal) *models.GoalProgress {
	if target == nil {
		return nil
	}

	remaining := target.Sub(actual)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	percent := hundred
	if target.IsPositive() {
		percent = actual.Div(*target).Mul(hundred).Round(1)
	}

	return &models.GoalProgress{
		Target:          *target,
		Actual:          actual,
		Remaining:       remaining,
		PercentAchieved: percent,
	}
}
