package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// referenceMass is the baseline every catalog nutrient value is expressed
// against: 100 g for solids, 100 ml for liquids.
var referenceMass = decimal.NewFromInt(100)

// Macronutrients holds per-100g/100ml macro values. Fiber and sugar are
// optional: a nil pointer means the catalog did not report the field, which
// is distinct from a reported zero.
type Macronutrients struct {
	CaloriesKcal   decimal.Decimal  `json:"calories_kcal"`
	ProteinG       decimal.Decimal  `json:"protein_g"`
	CarbohydratesG decimal.Decimal  `json:"carbohydrates_g"`
	FatG           decimal.Decimal  `json:"fat_g"`
	FiberG         *decimal.Decimal `json:"fiber_g,omitempty"`
	SugarG         *decimal.Decimal `json:"sugar_g,omitempty"`
}

// Micronutrients holds per-100g/100ml micro values, all optional.
type Micronutrients struct {
	SodiumMg    *decimal.Decimal `json:"sodium_mg,omitempty"`
	PotassiumMg *decimal.Decimal `json:"potassium_mg,omitempty"`
	CalciumMg   *decimal.Decimal `json:"calcium_mg,omitempty"`
	IronMg      *decimal.Decimal `json:"iron_mg,omitempty"`
	VitaminCMg  *decimal.Decimal `json:"vitamin_c_mg,omitempty"`
	VitaminDUg  *decimal.Decimal `json:"vitamin_d_ug,omitempty"`
}

// Product is the canonical, source-agnostic representation of a food or
// beverage item. It is constructed once by an adapter's normalization routine
// (or from a manual-entry request) and treated as immutable afterwards: any
// change constructs a new value.
type Product struct {
	ID             string          `json:"id"`
	Source         Source          `json:"source"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand,omitempty"`
	Barcode        string          `json:"barcode,omitempty"`
	Macronutrients Macronutrients  `json:"macronutrients"`
	Micronutrients *Micronutrients `json:"micronutrients,omitempty"`
	IsLiquid       bool            `json:"is_liquid"`
	// VolumeMlPer100g is the milliliters obtained per 100 g of product.
	// Required whenever IsLiquid is set; usually exactly 100 (1:1 density).
	VolumeMlPer100g *decimal.Decimal `json:"volume_ml_per_100g,omitempty"`
}

// Validate enforces the product invariants at construction sites.
func (p Product) Validate() error {
	if p.ID == "" {
		return errors.New("product id must not be empty")
	}
	if !p.Source.Valid() {
		return fmt.Errorf("unknown product source %q", p.Source)
	}
	if p.Name == "" {
		return errors.New("product name must not be empty")
	}
	for _, v := range []decimal.Decimal{
		p.Macronutrients.CaloriesKcal,
		p.Macronutrients.ProteinG,
		p.Macronutrients.CarbohydratesG,
		p.Macronutrients.FatG,
	} {
		if v.IsNegative() {
			return errors.New("macronutrient values must not be negative")
		}
	}
	if p.IsLiquid {
		if p.VolumeMlPer100g == nil {
			return errors.New("volume_ml_per_100g must be set for liquid products")
		}
		if p.VolumeMlPer100g.IsNegative() {
			return errors.New("volume_ml_per_100g must not be negative")
		}
	}
	return nil
}

// DefaultVolumeFactor returns the 1:1 mass-to-volume factor applied to
// liquids when the source does not report a density.
func DefaultVolumeFactor() *decimal.Decimal {
	v := decimal.NewFromInt(100)
	return &v
}
