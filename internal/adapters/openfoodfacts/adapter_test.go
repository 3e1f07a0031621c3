package openfoodfacts

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

func jsonHandler(t *testing.T, wantPath, body string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}
}

func TestFetchByIDNormalizesPayload(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/api/v0/product/3017620422003.json", `{
		"status": 1,
		"product": {
			"code": "3017620422003",
			"product_name": "Nutella",
			"brands": "Ferrero",
			"pnns_groups_1": "Sweets",
			"nutriments": {
				"energy-kcal_100g": 539,
				"proteins_100g": 6.3,
				"carbohydrates_100g": 57.5,
				"fat_100g": 30.9,
				"sugars_100g": 56.3,
				"sodium_100g": 0.107
			}
		}
	}`))
	defer srv.Close()

	product, err := New(srv.URL, nil).FetchByID(context.Background(), "3017620422003")
	require.NoError(t, err)

	assert.Equal(t, "3017620422003", product.ID)
	assert.Equal(t, models.SourceOpenFoodFacts, product.Source)
	assert.Equal(t, "Nutella", product.Name)
	assert.Equal(t, "Ferrero", product.Brand)
	assert.Equal(t, "3017620422003", product.Barcode)
	assert.False(t, product.IsLiquid)

	assert.Equal(t, "539", product.Macronutrients.CaloriesKcal.String())
	require.NotNil(t, product.Macronutrients.SugarG)
	assert.Equal(t, "56.3", product.Macronutrients.SugarG.String())
	assert.Nil(t, product.Macronutrients.FiberG)

	// Minerals come back in grams and are normalized to milligrams.
	require.NotNil(t, product.Micronutrients)
	require.NotNil(t, product.Micronutrients.SodiumMg)
	assert.Equal(t, "107", product.Micronutrients.SodiumMg.String())
	assert.Nil(t, product.Micronutrients.PotassiumMg)
}

func TestFetchByIDFlagsBeveragesAsLiquid(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/api/v0/product/123.json", `{
		"status": 1,
		"product": {
			"code": "123",
			"product_name": "Orange Juice",
			"pnns_groups_1": "Beverages",
			"nutriments": {"energy-kcal_100g": 45}
		}
	}`))
	defer srv.Close()

	product, err := New(srv.URL, nil).FetchByID(context.Background(), "123")
	require.NoError(t, err)

	assert.True(t, product.IsLiquid)
	require.NotNil(t, product.VolumeMlPer100g)
	assert.Equal(t, "100", product.VolumeMlPer100g.String())
}

func TestFetchByIDMissingRequiredFieldsDefaultToZero(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/api/v0/product/123.json", `{
		"status": 1,
		"product": {"code": "123", "nutriments": {}}
	}`))
	defer srv.Close()

	product, err := New(srv.URL, nil).FetchByID(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "Unknown Product", product.Name)
	assert.True(t, product.Macronutrients.CaloriesKcal.IsZero())
	assert.Nil(t, product.Macronutrients.FiberG)
	assert.Nil(t, product.Micronutrients)
}

func TestFetchByIDNotFound(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/api/v0/product/000.json", `{"status": 0}`))
	defer srv.Close()

	_, err := New(srv.URL, nil).FetchByID(context.Background(), "000")

	var notFound *models.NotFoundError
	require.Error(t, err)
	assert.True(t, errors.As(err, &notFound))
}

func TestFetchByIDServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).FetchByID(context.Background(), "123")

	var external *models.ExternalAPIError
	require.Error(t, err)
	assert.True(t, errors.As(err, &external))
}

func TestSearchSkipsHitsWithoutBarcode(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(t, "/cgi/search.pl", `{
		"products": [
			{"code": "123", "product_name": "Oat Drink", "product_type": "beverages", "nutriments": {"energy-kcal_100g": 46}},
			{"product_name": "Partial Record"}
		]
	}`))
	defer srv.Close()

	products, err := New(srv.URL, nil).Search(context.Background(), "oat", 10)
	require.NoError(t, err)

	require.Len(t, products, 1)
	assert.Equal(t, "123", products[0].ID)
	assert.True(t, products[0].IsLiquid)
}
