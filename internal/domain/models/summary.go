package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// NutritionSummary aggregates the scaled macro contributions of one tenant's
// entries for a single day. Required fields sum to zero for empty days;
// fiber and sugar are present only when at least one entry contributed a
// non-absent value.
type NutritionSummary struct {
	LogDate      time.Time      `json:"log_date"`
	TotalEntries int            `json:"total_entries"`
	Totals       Macronutrients `json:"totals"`
}

// HydrationSummary aggregates consumed liquid volume for a single day.
// Non-liquid entries are ignored entirely: they contribute no volume and do
// not increment the contributing-entry counter.
type HydrationSummary struct {
	LogDate             time.Time       `json:"log_date"`
	TotalVolumeMl       decimal.Decimal `json:"total_volume_ml"`
	ContributingEntries int             `json:"contributing_entries"`
}

// DateRange is a validated inclusive calendar-date window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange validates and normalizes a date window before any I/O is
// issued against the persistence port.
func NewDateRange(start, end time.Time, maxDays int) (DateRange, error) {
	start = NormalizeDate(start)
	end = NormalizeDate(end)

	if end.Before(start) {
		return DateRange{}, &ValidationError{Detail: "range end must not be before range start"}
	}
	if maxDays > 0 {
		if days := int(end.Sub(start).Hours()/24) + 1; days > maxDays {
			return DateRange{}, &ValidationError{
				Detail: fmt.Sprintf("range spans %d days, exceeding the maximum of %d", days, maxDays),
			}
		}
	}

	return DateRange{Start: start, End: end}, nil
}

// Days iterates the range inclusively, one calendar day at a time.
func (r DateRange) Days() []time.Time {
	var days []time.Time
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}
