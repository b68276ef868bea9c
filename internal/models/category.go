package models

import "time"

// CategoryKind distinguishes what a category organizes.
type CategoryKind string

const (
	CategoryHabit    CategoryKind = "habit"
	CategoryActivity CategoryKind = "activity"
	CategoryExpense  CategoryKind = "expense"
)

// DefaultCategoryKind is applied when a stored kind is not recognized.
const DefaultCategoryKind = CategoryActivity

// ParseCategoryKind decodes a stored kind string. The second return value
// reports whether the input was recognized; unrecognized values fall back
// to DefaultCategoryKind so historical rows stay readable.
func ParseCategoryKind(s string) (CategoryKind, bool) {
	switch CategoryKind(s) {
	case CategoryHabit, CategoryActivity, CategoryExpense:
		return CategoryKind(s), true
	default:
		return DefaultCategoryKind, false
	}
}

// Category groups sessions and expenses. Categories with historical
// dependents are archived (Active=false) rather than hard-deleted so
// aggregates over old records keep resolving.
type Category struct {
	ID        int
	Name      string
	Kind      CategoryKind
	Color     string
	Icon      string
	DailyGoal *int // minutes per day, nil when no goal is set
	Active    bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
