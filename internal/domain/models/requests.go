package models

import "github.com/shopspring/decimal"

// LogEntryCreate is the payload for recording a consumption event. The
// tenant never appears here; it is resolved at the authentication boundary.
type LogEntryCreate struct {
	ProductID string          `json:"product_id" binding:"required"`
	Source    string          `json:"source" binding:"required"`
	QuantityG decimal.Decimal `json:"quantity_g"`
	LogDate   string          `json:"log_date"` // optional, DateLayout; defaults to today (UTC)
	Note      string          `json:"note"`
}

// LogEntryUpdate carries the mutable fields of a log entry. Nil means
// "leave unchanged".
type LogEntryUpdate struct {
	QuantityG *decimal.Decimal `json:"quantity_g"`
	Note      *string          `json:"note"`
}

// ManualProductCreate is the payload for registering a product that exists
// in no external catalog.
type ManualProductCreate struct {
	Name            string           `json:"name" binding:"required"`
	Brand           string           `json:"brand"`
	Barcode         string           `json:"barcode"`
	Macronutrients  Macronutrients   `json:"macronutrients"`
	Micronutrients  *Micronutrients  `json:"micronutrients"`
	IsLiquid        bool             `json:"is_liquid"`
	VolumeMlPer100g *decimal.Decimal `json:"volume_ml_per_100g"`
}

// MealTemplateCreate is the payload for saving a reusable meal.
type MealTemplateCreate struct {
	Name  string         `json:"name" binding:"required"`
	Items []TemplateItem `json:"items" binding:"required"`
}
