package products_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/adapters"
	"github.com/nutrilog/nutrilog/internal/cache"
	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository/memory"
	"github.com/nutrilog/nutrilog/internal/service/products"
)

type countingSource struct {
	product    models.Product
	err        error
	fetchCalls int
	lastLimit  int
}

func (s *countingSource) FetchByID(context.Context, string) (models.Product, error) {
	s.fetchCalls++
	if s.err != nil {
		return models.Product{}, s.err
	}
	return s.product, nil
}

func (s *countingSource) Search(_ context.Context, _ string, limit int) ([]models.Product, error) {
	s.lastLimit = limit
	return []models.Product{s.product}, nil
}

func newService(t *testing.T, source adapters.ProductSource) (*products.Service, *memory.ManualProductRepository) {
	t.Helper()
	manualRepo := memory.NewManualProductRepository()
	registry := adapters.Registry{models.SourceOpenFoodFacts: source}
	return products.NewService(registry, cache.New(time.Hour), manualRepo, nil), manualRepo
}

func TestResolveMemoizesFetches(t *testing.T) {
	source := &countingSource{product: models.Product{ID: "123", Source: models.SourceOpenFoodFacts, Name: "Cola"}}
	svc, _ := newService(t, source)

	for i := 0; i < 3; i++ {
		product, err := svc.Resolve(context.Background(), models.SourceOpenFoodFacts, "123")
		require.NoError(t, err)
		assert.Equal(t, "Cola", product.Name)
	}

	assert.Equal(t, 1, source.fetchCalls)
}

func TestResolveDoesNotCacheFailures(t *testing.T) {
	source := &countingSource{err: &models.NotFoundError{ProductID: "123", Source: "open_food_facts"}}
	svc, _ := newService(t, source)

	for i := 0; i < 2; i++ {
		_, err := svc.Resolve(context.Background(), models.SourceOpenFoodFacts, "123")
		var notFound *models.NotFoundError
		require.Error(t, err)
		assert.True(t, errors.As(err, &notFound))
	}

	assert.Equal(t, 2, source.fetchCalls)
}

func TestResolveUnregisteredSource(t *testing.T) {
	svc, _ := newService(t, &countingSource{})

	_, err := svc.Resolve(context.Background(), models.SourceUSDAFoodData, "123")
	assert.Error(t, err)
}

func TestSearchClampsLimit(t *testing.T) {
	source := &countingSource{product: models.Product{ID: "123", Name: "Cola"}}
	svc, _ := newService(t, source)

	_, err := svc.Search(context.Background(), models.SourceOpenFoodFacts, "cola", 500)
	require.NoError(t, err)
	assert.Equal(t, adapters.MaxSearchLimit, source.lastLimit)

	_, err = svc.Search(context.Background(), models.SourceOpenFoodFacts, "cola", -3)
	require.NoError(t, err)
	assert.Equal(t, adapters.MinSearchLimit, source.lastLimit)
}

func TestCreateManualAssignsIDAndDefaults(t *testing.T) {
	svc, manualRepo := newService(t, &countingSource{})

	product, err := svc.CreateManual(context.Background(), models.ManualProductCreate{
		Name:     "Homemade Lemonade",
		IsLiquid: true,
		Macronutrients: models.Macronutrients{
			CaloriesKcal: decimal.NewFromInt(40),
		},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID)
	assert.Equal(t, models.SourceManual, product.Source)
	require.NotNil(t, product.VolumeMlPer100g)
	assert.Equal(t, "100", product.VolumeMlPer100g.String())

	stored, err := manualRepo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Homemade Lemonade", stored.Name)
}

func TestCreateManualRejectsInvalidProduct(t *testing.T) {
	svc, _ := newService(t, &countingSource{})

	_, err := svc.CreateManual(context.Background(), models.ManualProductCreate{
		Name: "Broken",
		Macronutrients: models.Macronutrients{
			CaloriesKcal: decimal.NewFromInt(-1),
		},
	})

	var validation *models.ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))
}
