package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository/memory"
	"github.com/nutrilog/nutrilog/internal/service/export"
)

type recordingSink struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (s *recordingSink) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	s.sheetRange = sheetRange
	s.rows = rows
	return s.err
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedEntries(t *testing.T) *memory.LogRepository {
	t.Helper()
	repo := memory.NewLogRepository()

	sugar := dec(t, "56.3")
	oats := models.LogEntry{
		ID:       "entry-1",
		TenantID: "tenant_a",
		LogDate:  time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Product: models.Product{
			ID:     "oats",
			Source: models.SourceOpenFoodFacts,
			Name:   "Rolled Oats",
			Brand:  "Acme",
			Macronutrients: models.Macronutrients{
				CaloriesKcal:   dec(t, "370"),
				ProteinG:       dec(t, "13.5"),
				CarbohydratesG: dec(t, "58.7"),
				FatG:           dec(t, "7"),
				SugarG:         &sugar,
			},
		},
		QuantityG:  dec(t, "80"),
		ConsumedAt: time.Date(2026, 8, 20, 7, 30, 0, 0, time.UTC),
		Note:       "breakfast",
	}

	juice := models.LogEntry{
		ID:       "entry-2",
		TenantID: "tenant_a",
		LogDate:  time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
		Product: models.Product{
			ID:     "juice",
			Source: models.SourceManual,
			Name:   "Apple Juice",
			Macronutrients: models.Macronutrients{
				CaloriesKcal:   dec(t, "46"),
				ProteinG:       dec(t, "0.1"),
				CarbohydratesG: dec(t, "11.3"),
				FatG:           dec(t, "0.1"),
			},
			IsLiquid:        true,
			VolumeMlPer100g: models.DefaultVolumeFactor(),
		},
		QuantityG:  dec(t, "250"),
		ConsumedAt: time.Date(2026, 8, 21, 12, 15, 30, 0, time.UTC),
	}

	require.NoError(t, repo.Save(context.Background(), oats))
	require.NoError(t, repo.Save(context.Background(), juice))
	return repo
}

func TestWriteCSV(t *testing.T) {
	svc := export.NewService(seedEntries(t), nil, 366, nil)

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), &buf, "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"date", "time", "product_name", "brand", "source", "quantity_g",
		"calories_kcal", "protein_g", "carbohydrates_g", "fat_g", "fiber_g",
		"sugar_g", "is_liquid", "volume_ml", "note",
	}, records[0])

	oatsRow := records[1]
	assert.Equal(t, "2026-08-20", oatsRow[0])
	assert.Equal(t, "07:30:00", oatsRow[1])
	assert.Equal(t, "Rolled Oats", oatsRow[2])
	assert.Equal(t, "Acme", oatsRow[3])
	assert.Equal(t, "open_food_facts", oatsRow[4])
	assert.Equal(t, "80.00", oatsRow[5])
	assert.Equal(t, "296.00", oatsRow[6])
	assert.Equal(t, "10.80", oatsRow[7])
	// Absent fiber renders the same as a true zero.
	assert.Equal(t, "0.00", oatsRow[10])
	assert.Equal(t, "45.04", oatsRow[11])
	assert.Equal(t, "false", oatsRow[12])
	assert.Equal(t, "0.00", oatsRow[13])
	assert.Equal(t, "breakfast", oatsRow[14])

	juiceRow := records[2]
	assert.Equal(t, "2026-08-21", juiceRow[0])
	assert.Equal(t, "manual", juiceRow[4])
	assert.Equal(t, "true", juiceRow[12])
	assert.Equal(t, "250.00", juiceRow[13])
	assert.Equal(t, "", juiceRow[14])
}

func TestWriteCSVEmptyRangeStillWritesHeader(t *testing.T) {
	svc := export.NewService(memory.NewLogRepository(), nil, 366, nil)

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), &buf, "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteCSVRejectsInvalidRange(t *testing.T) {
	svc := export.NewService(memory.NewLogRepository(), nil, 366, nil)

	var buf bytes.Buffer
	err := svc.WriteCSV(context.Background(), &buf, "tenant_a",
		time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC))

	var validation *models.ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))
	assert.Zero(t, buf.Len(), "nothing may be written before the range validates")
}

func TestAppendToSheet(t *testing.T) {
	sink := &recordingSink{}
	svc := export.NewService(seedEntries(t), sink, 366, nil)

	rows, err := svc.AppendToSheet(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, 2, rows)
	assert.Equal(t, "Export!A:O", sink.sheetRange)
	require.Len(t, sink.rows, 2)
	assert.Equal(t, "Rolled Oats", sink.rows[0][2])
}

func TestAppendToSheetUnconfigured(t *testing.T) {
	svc := export.NewService(memory.NewLogRepository(), nil, 366, nil)

	_, err := svc.AppendToSheet(context.Background(), "tenant_a",
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC))

	var validation *models.ValidationError
	require.Error(t, err)
	assert.True(t, errors.As(err, &validation))
}
