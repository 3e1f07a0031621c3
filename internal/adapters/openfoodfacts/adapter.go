package openfoodfacts

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
)

const sourceName = string(models.SourceOpenFoodFacts)

// Open Food Facts groups beverages under these category markers.
var (
	liquidPnnsGroups   = map[string]bool{"Beverages": true}
	liquidProductTypes = map[string]bool{"beverages": true}
)

// offNutriments maps the relevant per-100g fields of an OFF payload. All
// fields are optional because OFF data is notoriously inconsistent. Decimal
// fields unmarshal straight from the JSON text, so no float conversion ever
// happens.
type offNutriments struct {
	EnergyKcal100g    *decimal.Decimal `json:"energy-kcal_100g"`
	Proteins100g      *decimal.Decimal `json:"proteins_100g"`
	Carbohydrates100g *decimal.Decimal `json:"carbohydrates_100g"`
	Fat100g           *decimal.Decimal `json:"fat_100g"`
	Fiber100g         *decimal.Decimal `json:"fiber_100g"`
	Sugars100g        *decimal.Decimal `json:"sugars_100g"`
	Sodium100g        *decimal.Decimal `json:"sodium_100g"`
	Potassium100g     *decimal.Decimal `json:"potassium_100g"`
	Calcium100g       *decimal.Decimal `json:"calcium_100g"`
	Iron100g          *decimal.Decimal `json:"iron_100g"`
}

type offProduct struct {
	Code        string        `json:"code"`
	ProductName string        `json:"product_name"`
	Brands      string        `json:"brands"`
	Nutriments  offNutriments `json:"nutriments"`
	PnnsGroups1 string        `json:"pnns_groups_1"`
	ProductType string        `json:"product_type"`
}

type offLookupResponse struct {
	Status  int         `json:"status"` // 1 = found, 0 = not found
	Product *offProduct `json:"product"`
}

type offSearchResponse struct {
	Products []offProduct `json:"products"`
}

// Adapter integrates the Open Food Facts API. Product identifiers are
// EAN/UPC barcodes.
type Adapter struct {
	httpClient *resty.Client
	logger     *zap.Logger
}

// New builds an Open Food Facts adapter against the given base URL.
func New(baseURL string, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("User-Agent", "nutrilog/1.0 (homelab)").
		SetTimeout(15 * time.Second)

	return &Adapter{httpClient: restyClient, logger: logger}
}

// FetchByID looks up a product by barcode.
func (a *Adapter) FetchByID(ctx context.Context, productID string) (models.Product, error) {
	result := new(offLookupResponse)

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		Get(fmt.Sprintf("/api/v0/product/%s.json", productID))
	if err != nil {
		return models.Product{}, &models.ExternalAPIError{Source: sourceName, Detail: err.Error(), Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return models.Product{}, &models.ExternalAPIError{
			Source: sourceName,
			Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	if result.Status == 0 || result.Product == nil {
		return models.Product{}, &models.NotFoundError{ProductID: productID, Source: sourceName}
	}

	return a.normalize(productID, *result.Product), nil
}

// Search runs a full-text product search. Malformed hits are skipped, not
// fatal: OFF search pages routinely contain partial records.
func (a *Adapter) Search(ctx context.Context, query string, limit int) ([]models.Product, error) {
	result := new(offSearchResponse)

	resp, err := a.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_terms":  query,
			"search_simple": "1",
			"action":        "process",
			"json":          "1",
			"page_size":     fmt.Sprintf("%d", limit),
			"fields":        "code,product_name,brands,nutriments,pnns_groups_1,product_type",
		}).
		SetResult(result).
		Get("/cgi/search.pl")
	if err != nil {
		return nil, &models.ExternalAPIError{Source: sourceName, Detail: err.Error(), Err: err}
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return nil, &models.ExternalAPIError{
			Source: sourceName,
			Detail: fmt.Sprintf("unexpected status %d", resp.StatusCode()),
		}
	}

	products := make([]models.Product, 0, len(result.Products))
	for _, raw := range result.Products {
		if raw.Code == "" {
			a.logger.Warn("skipping off search hit without barcode", zap.String("name", raw.ProductName))
			continue
		}
		products = append(products, a.normalize(raw.Code, raw))
	}

	return products, nil
}

func (a *Adapter) normalize(productID string, raw offProduct) models.Product {
	isLiquid := liquidPnnsGroups[raw.PnnsGroups1] || liquidProductTypes[strings.ToLower(raw.ProductType)]
	n := raw.Nutriments

	macros := models.Macronutrients{
		CaloriesKcal:   requiredValue(n.EnergyKcal100g),
		ProteinG:       requiredValue(n.Proteins100g),
		CarbohydratesG: requiredValue(n.Carbohydrates100g),
		FatG:           requiredValue(n.Fat100g),
		FiberG:         n.Fiber100g,
		SugarG:         n.Sugars100g,
	}

	// OFF reports minerals in grams per 100g; the canonical unit is mg.
	var micros *models.Micronutrients
	if n.Sodium100g != nil || n.Potassium100g != nil || n.Calcium100g != nil || n.Iron100g != nil {
		micros = &models.Micronutrients{
			SodiumMg:    gramsToMilligrams(n.Sodium100g),
			PotassiumMg: gramsToMilligrams(n.Potassium100g),
			CalciumMg:   gramsToMilligrams(n.Calcium100g),
			IronMg:      gramsToMilligrams(n.Iron100g),
		}
	}

	name := raw.ProductName
	if name == "" {
		name = "Unknown Product"
	}

	var volume *decimal.Decimal
	if isLiquid {
		volume = models.DefaultVolumeFactor()
	}

	return models.Product{
		ID:              productID,
		Source:          models.SourceOpenFoodFacts,
		Name:            name,
		Brand:           raw.Brands,
		Barcode:         productID,
		Macronutrients:  macros,
		Micronutrients:  micros,
		IsLiquid:        isLiquid,
		VolumeMlPer100g: volume,
	}
}

// requiredValue turns an absent required field into a true zero. Only the
// four mandatory macro fields go through here; optional fields keep their
// absent state.
func requiredValue(v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return *v
}

func gramsToMilligrams(v *decimal.Decimal) *decimal.Decimal {
	if v == nil {
		return nil
	}
	mg := v.Mul(decimal.NewFromInt(1000))
	return &mg
}
