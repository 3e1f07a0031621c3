package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateItem is one product reference inside a meal template. The product
// is resolved through the usual adapter path when the template is logged, so
// stored templates survive catalog updates.
type TemplateItem struct {
	ProductID string          `json:"product_id"`
	Source    Source          `json:"source"`
	QuantityG decimal.Decimal `json:"quantity_g"`
	Note      string          `json:"note,omitempty"`
}

// MealTemplate is a named, tenant-owned list of products that can be logged
// in one call.
type MealTemplate struct {
	ID        string         `json:"id"`
	TenantID  string         `json:"tenant_id"`
	Name      string         `json:"name"`
	Items     []TemplateItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}
