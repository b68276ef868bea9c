package models

import "github.com/shopspring/decimal"

// DateDuration is a per-date duration rollup (group-by-date queries).
type DateDuration struct {
	Date  string
	Total int64 // seconds
}

// CategoryDuration is a per-category duration rollup.
type CategoryDuration struct {
	CategoryID int
	Name       string
	Total      int64 // seconds
}

// DateAmount is a per-date money rollup.
type DateAmount struct {
	Date   string
	Amount decimal.Decimal
}

// CategoryAmount is a per-category money rollup.
type CategoryAmount struct {
	CategoryID int
	Name       string
	Amount     decimal.Decimal
}

// TaskCounts summarizes a day's tasks.
type TaskCounts struct {
	Total int
	Done  int
}
