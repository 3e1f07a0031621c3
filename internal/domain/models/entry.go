package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used across the API and storage.
const DateLayout = "2006-01-02"

// scaledDigits is the fixed number of fractional digits every scaled
// nutrient value is rounded to, half-up, once per entry before summation.
const scaledDigits = 2

// LogEntry records one consumption event. The embedded Product is a snapshot
// captured at creation time and is never re-fetched. TenantID comes from the
// authentication boundary only, never from the request payload, and is the
// partition key for every repository operation.
type LogEntry struct {
	ID         string          `json:"id"`
	TenantID   string          `json:"tenant_id"`
	LogDate    time.Time       `json:"log_date"`
	Product    Product         `json:"product"`
	QuantityG  decimal.Decimal `json:"quantity_g"`
	ConsumedAt time.Time       `json:"consumed_at"`
	Note       string          `json:"note,omitempty"`
}

// WithQuantity returns a copy of the entry with the quantity replaced.
func (e LogEntry) WithQuantity(quantity decimal.Decimal) LogEntry {
	e.QuantityG = quantity
	return e
}

// WithNote returns a copy of the entry with the note replaced.
func (e LogEntry) WithNote(note string) LogEntry {
	e.Note = note
	return e
}

// scale computes value * quantity / 100 rounded half-up to two fractional
// digits. Rounding happens exactly once per entry; sums are built from the
// already-rounded per-entry values.
func (e LogEntry) scale(per100 decimal.Decimal) decimal.Decimal {
	return per100.Mul(e.QuantityG).Div(referenceMass).Round(scaledDigits)
}

func (e LogEntry) scaleOptional(per100 *decimal.Decimal) *decimal.Decimal {
	if per100 == nil {
		return nil
	}
	v := e.scale(*per100)
	return &v
}

// ScaledMacros returns the absolute macro totals contributed by this entry,
// derived from the per-100 snapshot values and the consumed quantity. Absent
// optional fields stay absent.
func (e LogEntry) ScaledMacros() Macronutrients {
	m := e.Product.Macronutrients
	return Macronutrients{
		CaloriesKcal:   e.scale(m.CaloriesKcal),
		ProteinG:       e.scale(m.ProteinG),
		CarbohydratesG: e.scale(m.CarbohydratesG),
		FatG:           e.scale(m.FatG),
		FiberG:         e.scaleOptional(m.FiberG),
		SugarG:         e.scaleOptional(m.SugarG),
	}
}

// ScaledMicros returns the absolute micro totals contributed by this entry,
// or nil when the snapshot carries no micronutrient block.
func (e LogEntry) ScaledMicros() *Micronutrients {
	if e.Product.Micronutrients == nil {
		return nil
	}
	m := e.Product.Micronutrients
	return &Micronutrients{
		SodiumMg:    e.scaleOptional(m.SodiumMg),
		PotassiumMg: e.scaleOptional(m.PotassiumMg),
		CalciumMg:   e.scaleOptional(m.CalciumMg),
		IronMg:      e.scaleOptional(m.IronMg),
		VitaminCMg:  e.scaleOptional(m.VitaminCMg),
		VitaminDUg:  e.scaleOptional(m.VitaminDUg),
	}
}

// ConsumedVolumeMl returns the liquid volume this entry contributes, defined
// only when the embedded product is a liquid.
func (e LogEntry) ConsumedVolumeMl() *decimal.Decimal {
	if !e.Product.IsLiquid || e.Product.VolumeMlPer100g == nil {
		return nil
	}
	v := e.scale(*e.Product.VolumeMlPer100g)
	return &v
}

// NormalizeDate truncates a timestamp to its UTC calendar date.
func NormalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
