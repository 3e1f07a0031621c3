package goals_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository/memory"
	"github.com/nutrilog/nutrilog/internal/service/goals"
	"github.com/nutrilog/nutrilog/internal/service/logs"
)

type fixedResolver struct {
	product models.Product
}

func (r fixedResolver) Resolve(context.Context, models.Source, string) (models.Product, error) {
	return r.product, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func newServices(t *testing.T, product models.Product) (*goals.Service, *logs.Service) {
	t.Helper()
	logSvc := logs.NewService(fixedResolver{product: product}, memory.NewLogRepository(), nil, 366, nil)
	return goals.NewService(memory.NewGoalsRepository(), logSvc, nil), logSvc
}

func TestGetReturnsEmptyGoalsWhenUnset(t *testing.T) {
	svc, _ := newServices(t, models.Product{})

	got, err := svc.Get(context.Background(), "tenant_a")
	require.NoError(t, err)
	assert.Nil(t, got.CaloriesKcal)
	assert.Nil(t, got.WaterMl)
}

func TestUpdateRejectsNegativeTargets(t *testing.T) {
	svc, _ := newServices(t, models.Product{})

	_, err := svc.Update(context.Background(), "tenant_a", models.Goals{
		ProteinG: decPtr(t, "-10"),
	})

	var validation *models.ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))
}

func TestProgressAgainstDailySummaries(t *testing.T) {
	juice := models.Product{
		ID:     "juice",
		Source: models.SourceManual,
		Name:   "Apple Juice",
		Macronutrients: models.Macronutrients{
			CaloriesKcal:   dec(t, "50"),
			ProteinG:       dec(t, "0.1"),
			CarbohydratesG: dec(t, "11"),
			FatG:           dec(t, "0.1"),
		},
		IsLiquid:        true,
		VolumeMlPer100g: models.DefaultVolumeFactor(),
	}
	svc, logSvc := newServices(t, juice)

	_, err := svc.Update(context.Background(), "tenant_a", models.Goals{
		CaloriesKcal: decPtr(t, "2000"),
		WaterMl:      decPtr(t, "2000"),
	})
	require.NoError(t, err)

	_, err = logSvc.Create(context.Background(), "tenant_a", models.LogEntryCreate{
		ProductID: "juice",
		Source:    "manual",
		QuantityG: dec(t, "1000"),
		LogDate:   "2026-08-20",
	})
	require.NoError(t, err)

	progress, err := svc.Progress(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NotNil(t, progress.Calories)
	assert.Equal(t, "500", progress.Calories.Actual.String())
	assert.Equal(t, "1500", progress.Calories.Remaining.String())
	assert.Equal(t, "25", progress.Calories.PercentAchieved.String())

	require.NotNil(t, progress.Water)
	assert.Equal(t, "1000", progress.Water.Actual.String())
	assert.Equal(t, "50", progress.Water.PercentAchieved.String())

	// Targets that were never set are not tracked.
	assert.Nil(t, progress.Protein)
	assert.Nil(t, progress.Fat)
}

func TestProgressClampsRemainingAtZero(t *testing.T) {
	oats := models.Product{
		ID:     "oats",
		Source: models.SourceManual,
		Name:   "Rolled Oats",
		Macronutrients: models.Macronutrients{
			CaloriesKcal: dec(t, "370"),
		},
	}
	svc, logSvc := newServices(t, oats)

	_, err := svc.Update(context.Background(), "tenant_a", models.Goals{
		CaloriesKcal: decPtr(t, "300"),
	})
	require.NoError(t, err)

	_, err = logSvc.Create(context.Background(), "tenant_a", models.LogEntryCreate{
		ProductID: "oats",
		Source:    "manual",
		QuantityG: dec(t, "200"),
		LogDate:   "2026-08-20",
	})
	require.NoError(t, err)

	progress, err := svc.Progress(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.NotNil(t, progress.Calories)
	assert.Equal(t, "740", progress.Calories.Actual.String())
	assert.True(t, progress.Calories.Remaining.IsZero())
	assert.Equal(t, "246.7", progress.Calories.PercentAchieved.String())
}
