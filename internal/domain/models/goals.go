package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goals holds a tenant's daily nutrition and hydration targets. Every target
// is optional; unset targets are simply not tracked.
type Goals struct {
	CaloriesKcal   *decimal.Decimal `json:"calories_kcal,omitempty"`
	ProteinG       *decimal.Decimal `json:"protein_g,omitempty"`
	CarbohydratesG *decimal.Decimal `json:"carbohydrates_g,omitempty"`
	FatG           *decimal.Decimal `json:"fat_g,omitempty"`
	WaterMl        *decimal.Decimal `json:"water_ml,omitempty"`
}

// GoalProgress describes how far a single target has been met on a day.
type GoalProgress struct {
	Target          decimal.Decimal `json:"target"`
	Actual          decimal.Decimal `json:"actual"`
	Remaining       decimal.Decimal `json:"remaining"`
	PercentAchieved decimal.Decimal `json:"percent_achieved"`
}

// GoalsProgress is the per-day progress report across all set targets.
type GoalsProgress struct {
	LogDate       time.Time     `json:"log_date"`
	Calories      *GoalProgress `json:"calories,omitempty"`
	Protein       *GoalProgress `json:"protein,omitempty"`
	Carbohydrates *GoalProgress `json:"carbohydrates,omitempty"`
	Fat           *GoalProgress `json:"fat,omitempty"`
	Water         *GoalProgress `json:"water,omitempty"`
}
