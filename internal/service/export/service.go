package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/nutrilog/nutrilog/internal/domain/models"
	"github.com/nutrilog/nutrilog/internal/repository"
	"github.com/nutrilog/nutrilog/internal/repository/sheets"
)

// header is the fixed export column order. Numeric columns always render
// with two fractional digits; an absent optional nutrient renders as "0.00",
// the same as a true zero, because a per-entry row has no notion of "didn't
// contribute".
var header = []string{
	"date", "time", "product_name", "brand", "source", "quantity_g",
	"calories_kcal", "protein_g", "carbohydrates_g", "fat_g", "fiber_g",
	"sugar_g", "is_liquid", "volume_ml", "note",
}

const sheetAppendRange = "Export!A:O"

// Service renders a tenant's entries as row-oriented text. Rows are written
// to the destination one entry at a time; the full result set is never
// buffered.
type Service struct {
	repo         repository.LogRepository
	sink         sheets.Sink
	maxRangeDays int
	logger       *zap.Logger
}

// NewService wires the export service. The sheets sink may be nil, which
// disables spreadsheet export.
func NewService(repo repository.LogRepository, sink sheets.Sink, maxRangeDays int, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, sink: sink, maxRangeDays: maxRangeDays, logger: logger}
}

// WriteCSV streams the tenant's entries for the range as CSV rows into w,
// header first, flushing after every row.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, tenantID string, start, end time.Time) error {
	dateRange, err := models.NewDateRange(start, end, s.maxRangeDays)
	if err != nil {
		return err
	}

	entries, err := s.repo.FindByDateRange(ctx, tenantID, dateRange)
	if err != nil {
		return fmt.Errorf("load entries: %w", err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()

	for _, entry := range entries {
		if err := writer.Write(entryRow(entry)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("flush csv row: %w", err)
		}
	}

	return writer.Error()
}

// AppendToSheet mirrors the same rows into the configured spreadsheet.
func (s *Service) AppendToSheet(ctx context.Context, tenantID string, start, end time.Time) (int, error) {
	if s.sink == nil {
		return 0, &models.ValidationError{Detail: "sheets export is not configured"}
	}

	dateRange, err := models.NewDateRange(start, end, s.maxRangeDays)
	if err != nil {
		return 0, err
	}

	entries, err := s.repo.FindByDateRange(ctx, tenantID, dateRange)
	if err != nil {
		return 0, fmt.Errorf("load entries: %w", err)
	}

	rows := make([][]interface{}, 0, len(entries))
	for _, entry := range entries {
		row := entryRow(entry)
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		rows = append(rows, cells)
	}

	if len(rows) == 0 {
		return 0, nil
	}

	if err := s.sink.AppendRows(ctx, sheetAppendRange, rows); err != nil {
		return 0, err
	}

	s.logger.Info("entries exported to sheet", zap.String("tenant_id", tenantID), zap.Int("rows", len(rows)))
	return len(rows), nil
}

// entryRow converts one entry using the same per-entry scaling law the
// aggregation engine applies, not aggregate sums.
func entryRow(entry models.LogEntry) []string {
	scaled := entry.ScaledMacros()

	return []string{
		entry.LogDate.Format(models.DateLayout),
		entry.ConsumedAt.Format("15:04:05"),
		entry.Product.Name,
		entry.Product.Brand,
		string(entry.Product.Source),
		entry.QuantityG.StringFixed(2),
		scaled.CaloriesKcal.StringFixed(2),
		scaled.ProteinG.StringFixed(2),
		scaled.CarbohydratesG.StringFixed(2),
		scaled.FatG.StringFixed(2),
		fixedOrZero(scaled.FiberG),
		fixedOrZero(scaled.SugarG),
		boolString(entry.Product.IsLiquid),
		fixedOrZero(entry.ConsumedVolumeMl()),
		entry.Note,
	}
}

func fixedOrZero(v *decimal.Decimal) string {
	if v == nil {
		return "0.00"
	}
	return v.StringFixed(2)
}

func boolString(v bool) string {
	if v {
		return "true"
	}
	return "false"
}
