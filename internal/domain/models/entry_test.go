package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

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

func testProduct(t *testing.T) Product {
	t.Helper()
	return Product{
		ID:     "3017620422003",
		Source: SourceOpenFoodFacts,
		Name:   "Apple Juice",
		Macronutrients: Macronutrients{
			CaloriesKcal:   dec(t, "52"),
			ProteinG:       dec(t, "0.3"),
			CarbohydratesG: dec(t, "11.4"),
			FatG:           dec(t, "0.2"),
		},
	}
}

func TestScaledMacros(t *testing.T) {
	entry := LogEntry{
		Product:   testProduct(t),
		QuantityG: dec(t, "330"),
	}

	scaled := entry.ScaledMacros()

	assert.Equal(t, "171.6", scaled.CaloriesKcal.String())
	assert.Equal(t, "0.99", scaled.ProteinG.String())
	assert.Equal(t, "37.62", scaled.CarbohydratesG.String())
	assert.Equal(t, "0.66", scaled.FatG.String())
	assert.Nil(t, scaled.FiberG)
	assert.Nil(t, scaled.SugarG)
}

func TestScaledMacrosRoundsHalfUpOncePerEntry(t *testing.T) {
	product := testProduct(t)
	product.Macronutrients.CaloriesKcal = dec(t, "1.005")

	entry := LogEntry{Product: product, QuantityG: dec(t, "100")}

	assert.Equal(t, "1.01", entry.ScaledMacros().CaloriesKcal.String())
}

func TestScaledMacrosKeepsZeroDistinctFromAbsent(t *testing.T) {
	withZero := testProduct(t)
	withZero.Macronutrients.FiberG = decPtr(t, "0")

	withAbsent := testProduct(t)

	entry := LogEntry{Product: withZero, QuantityG: dec(t, "150")}
	scaled := entry.ScaledMacros()
	require.NotNil(t, scaled.FiberG)
	assert.True(t, scaled.FiberG.IsZero())

	entry = LogEntry{Product: withAbsent, QuantityG: dec(t, "150")}
	assert.Nil(t, entry.ScaledMacros().FiberG)
}

func TestScaledMicrosNilWithoutSnapshotBlock(t *testing.T) {
	entry := LogEntry{Product: testProduct(t), QuantityG: dec(t, "100")}
	assert.Nil(t, entry.ScaledMicros())

	product := testProduct(t)
	product.Micronutrients = &Micronutrients{SodiumMg: decPtr(t, "500")}
	entry = LogEntry{Product: product, QuantityG: dec(t, "50")}

	micros := entry.ScaledMicros()
	require.NotNil(t, micros)
	require.NotNil(t, micros.SodiumMg)
	assert.Equal(t, "250", micros.SodiumMg.String())
	assert.Nil(t, micros.PotassiumMg)
}

func TestConsumedVolumeMl(t *testing.T) {
	solid := LogEntry{Product: testProduct(t), QuantityG: dec(t, "250")}
	assert.Nil(t, solid.ConsumedVolumeMl())

	product := testProduct(t)
	product.IsLiquid = true
	product.VolumeMlPer100g = DefaultVolumeFactor()

	liquid := LogEntry{Product: product, QuantityG: dec(t, "250")}
	volume := liquid.ConsumedVolumeMl()
	require.NotNil(t, volume)
	assert.Equal(t, "250", volume.String())
}

func TestWithQuantityAndWithNoteCopy(t *testing.T) {
	original := LogEntry{Product: testProduct(t), QuantityG: dec(t, "100"), Note: "breakfast"}

	updated := original.WithQuantity(dec(t, "200")).WithNote("lunch")

	assert.Equal(t, "100", original.QuantityG.String())
	assert.Equal(t, "breakfast", original.Note)
	assert.Equal(t, "200", updated.QuantityG.String())
	assert.Equal(t, "lunch", updated.Note)
}

func TestNormalizeDate(t *testing.T) {
	stamp := time.Date(2026, 8, 25, 23, 59, 17, 0, time.FixedZone("CET", 3600))
	got := NormalizeDate(stamp)

	assert.Equal(t, time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), got)
}
