package templates_test

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
	"github.com/nutrilog/nutrilog/internal/service/logs"
	"github.com/nutrilog/nutrilog/internal/service/templates"
)

type catalogResolver struct {
	products map[string]models.Product
}

func (r catalogResolver) Resolve(_ context.Context, source models.Source, productID string) (models.Product, error) {
	product, ok := r.products[productID]
	if !ok {
		return models.Product{}, &models.NotFoundError{ProductID: productID, Source: string(source)}
	}
	return product, nil
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func product(t *testing.T, id, name string) models.Product {
	t.Helper()
	return models.Product{
		ID:     id,
		Source: models.SourceOpenFoodFacts,
		Name:   name,
		Macronutrients: models.Macronutrients{
			CaloriesKcal: dec(t, "100"),
		},
	}
}

func newServices(t *testing.T, catalog map[string]models.Product) (*templates.Service, *logs.Service) {
	t.Helper()
	logSvc := logs.NewService(catalogResolver{products: catalog}, memory.NewLogRepository(), nil, 366, nil)
	return templates.NewService(memory.NewTemplateRepository(), logSvc, nil), logSvc
}

func TestCreateValidatesItems(t *testing.T) {
	svc, _ := newServices(t, nil)
	ctx := context.Background()

	var validation *models.ValidationError

	_, err := svc.Create(ctx, "tenant_a", models.MealTemplateCreate{Name: "Empty"})
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))

	_, err = svc.Create(ctx, "tenant_a", models.MealTemplateCreate{
		Name: "Bad source",
		Items: []models.TemplateItem{
			{ProductID: "oats", Source: "mystery_catalog", QuantityG: dec(t, "80")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))

	_, err = svc.Create(ctx, "tenant_a", models.MealTemplateCreate{
		Name: "Bad quantity",
		Items: []models.TemplateItem{
			{ProductID: "oats", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "0")},
		},
	})
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newServices(t, nil)

	created, err := svc.Create(context.Background(), "tenant_a", models.MealTemplateCreate{
		Name: "Breakfast",
		Items: []models.TemplateItem{
			{ProductID: "oats", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "80")},
		},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	all, err := svc.List(context.Background(), "tenant_a")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Breakfast", all[0].Name)

	other, err := svc.List(context.Background(), "tenant_b")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestLogReplaysEveryItem(t *testing.T) {
	svc, logSvc := newServices(t, map[string]models.Product{
		"oats": product(t, "oats", "Rolled Oats"),
		"milk": product(t, "milk", "Whole Milk"),
	})

	created, err := svc.Create(context.Background(), "tenant_a", models.MealTemplateCreate{
		Name: "Breakfast",
		Items: []models.TemplateItem{
			{ProductID: "oats", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "80")},
			{ProductID: "milk", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "200"), Note: "with oats"},
		},
	})
	require.NoError(t, err)

	entries, err := svc.Log(context.Background(), "tenant_a", created.ID, "2026-08-20")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "Rolled Oats", entries[0].Product.Name)
	assert.Equal(t, "with oats", entries[1].Note)

	stored, err := logSvc.EntriesForDate(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestLogStopsAtFirstFailureKeepingEarlierEntries(t *testing.T) {
	svc, logSvc := newServices(t, map[string]models.Product{
		"oats": product(t, "oats", "Rolled Oats"),
	})

	created, err := svc.Create(context.Background(), "tenant_a", models.MealTemplateCreate{
		Name: "Breakfast",
		Items: []models.TemplateItem{
			{ProductID: "oats", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "80")},
			{ProductID: "ghost", Source: models.SourceOpenFoodFacts, QuantityG: dec(t, "100")},
		},
	})
	require.NoError(t, err)

	entries, err := svc.Log(context.Background(), "tenant_a", created.ID, "2026-08-20")
	require.Error(t, err)
	assert.Len(t, entries, 1)

	stored, err := logSvc.EntriesForDate(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLogUnknownTemplate(t *testing.T) {
	svc, _ := newServices(t, nil)

	_, err := svc.Log(context.Background(), "tenant_a", "ghost", "2026-08-20")
	assert.ErrorIs(t, err, models.ErrTemplateNotFound)
}
