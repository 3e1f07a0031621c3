package usda

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

const sourceName = string(models.SourceUSDAFoodData)

// FoodData Central nutrient numbers for the canonical nutrient set. USDA
// already reports minerals in mg and vitamin D in µg, so no unit conversion
// is required here.
const (
	nutrientCalories      = 1008
	nutrientProtein       = 1003
	nutrientCarbohydrates = 1005
	nutrientFat           = 1004
	nutrientFiber         = 1079
	nutrientSugar         = 2000
	nutrientSodium        = 1093
	nutrientPotassium     = 1092
	nutrientCalcium       = 1087
	nutrientIron          = 1089
	nutrientVitaminC      = 1162
	nutrientVitaminD      = 1110
)

var liquidFoodCategories = map[string]bool{
	"Beverages":                  true,
	"Soups, Sauces, and Gravies": true,
}

// usdaFoodNutrient covers both payload shapes FoodData Central uses: the
// detail endpoint nests the id under "nutrient" and carries "amount", the
// search endpoint flattens it to "nutrientId"/"value".
type usdaFoodNutrient struct {
	Nutrient struct {
		ID int `json:"id"`
	} `json:"nutrient"`
	NutrientID int              `json:"nutrientId"`
	Amount     *decimal.Decimal `json:"amount"`
	Value      *decimal.Decimal `json:"value"`
}

func (n usdaFoodNutrient) id() int {
	if n.Nutrient.ID != 0 {
		return n.Nutrient.ID
	}
	return n.NutrientID
}

func (n usdaFoodNutrient) amount() *decimal.Decimal {
	if n.Amount != nil {
		return n.Amount
	}
	return n.Value
}

type usdaFoodItem struct {
	FdcID         int64              `json:"fdcId"`
	Description   string             `json:"description"`
	BrandOwner    string             `json:"brandOwner"`
	FoodNutrients []usdaFoodNutrient `json:"foodNutrients"`
	FoodCategory  string             `json:"foodCategory"`
}

type usdaSearchResponse struct {
	Foods []usdaFoodItem `json:"foods"`
}

// Adapter integrates the USDA FoodData Central API. Product identifiers are
// FDC ids.
type Adapter struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New builds a FoodData Central adapter. The api key is attached to every
// request as a query parameter, as the API requires.
func New(baseURL, apiKey string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetQueryParam("api_key", apiKey).
		SetTimeout(15 * time.Second)

	return &Adapter{httpClient: restyClient, logger: logger}
}

// FetchByID looks up a food by its FDC id.
func (a *Adapter) FetchByID(ctx context.Context, productID string) (models.Product, error) {
	result := new(usdaFoodItem)

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(fmt.Sprintf("/food/%s", productID))
	if err != nil {
		return models.Product{}, &models.ExternalAPIError{Source: sourceName, Detail: err.Error(), Err: err}
	}
	if resp.StatusCode() == http.StatusNotFound {
		return models.Product{}, &models.NotFoundError{ProductID: productID, Source: sourceName}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return models.Product{}, &models.ExternalAPIError{
			Source: sourceName,
			Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	return a.normalize(*result), nil
}

// Search runs a food search; ranking is left to the catalog.
func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	result := new(usdaSearchResponse)

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"query":    query,
			"pageSize": strconv.Itoa(limit),
		}).
		SetResult(result).
		Get("/foods/search")
	if err != nil {
		return nil, &models.ExternalAPIError{Source: sourceName, Detail: err.Error(), Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &models.ExternalAPIError{
			Source: sourceName,
			Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	products := make([]models.Product, 0, len(result.Foods))
	for _, food := range result.Foods {
		if food.FdcID == 0 {
			a.logger.Warn("skipping usda search hit without fdc id", zap.String("description", food.Description))
			continue
		}
		products = append(products, a.normalize(food))
	}

	return products, nil
}

func (a *Adapter) normalize(raw usdaFoodItem) models.Product {
	values := extractNutrients(raw.FoodNutrients)
	isLiquid := liquidFoodCategories[raw.FoodCategory]

	macros := models.Macronutrients{
		CaloriesKcal:   requiredValue(values[nutrientCalories]),
		ProteinG:       requiredValue(values[nutrientProtein]),
		CarbohydratesG: requiredValue(values[nutrientCarbohydrates]),
		FatG:           requiredValue(values[nutrientFat]),
		FiberG:         values[nutrientFiber],
		SugarG:         values[nutrientSugar],
	}

	var micros *models.Micronutrients
	if values[nutrientSodium] != nil || values[nutrientPotassium] != nil ||
		values[nutrientCalcium] != nil || values[nutrientIron] != nil {
		micros = &models.Micronutrients{
			SodiumMg:    values[nutrientSodium],
			PotassiumMg: values[nutrientPotassium],
			CalciumMg:   values[nutrientCalcium],
			IronMg:      values[nutrientIron],
			VitaminCMg:  values[nutrientVitaminC],
			VitaminDUg:  values[nutrientVitaminD],
		}
	}

	var volume *decimal.Decimal
	if isLiquid {
		volume = models.DefaultVolumeFactor()
	}

	return models.Product{
		ID:              strconv.FormatInt(raw.FdcID, 10),
		Source:          models.SourceUSDAFoodData,
		Name:            raw.Description,
		Brand:           raw.BrandOwner,
		Macronutrients:  macros,
		Micronutrients:  micros,
		IsLiquid:        isLiquid,
		VolumeMlPer100g: volume,
	}
}

func extractNutrients(nutrients []usdaFoodNutrient) map[int]*decimal.Decimal {
	values := make(map[int]*decimal.Decimal, len(nutrients))
	for _, n := range nutrients {
		if amount := n.amount(); amount != nil {
			values[n.id()] = amount
		}
	}
	return values
}

func requiredValue(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}
