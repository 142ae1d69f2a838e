package models

import "strings"

// FilterKey selects which transactions the list shows
type FilterKey string

const (
	FilterAll     FilterKey = "all"
	FilterIncome  FilterKey = "income"
	FilterExpense FilterKey = "expense"
)

// FilterKeys lists the keys in chip order
var FilterKeys = []FilterKey{FilterAll, FilterIncome, FilterExpense}

// ParseFilterKey maps user input to a filter key. Unknown values select all.
func ParseFilterKey(s string) FilterKey {
	switch FilterKey(strings.ToLower(strings.TrimSpace(s))) {
	case FilterIncome:
		return FilterIncome
	case FilterExpense:
		return FilterExpense
	default:
		return FilterAll
	}
}

// Label returns the chip caption
func (k FilterKey) Label() string {
	switch k {
	case FilterIncome:
		return "Income"
	case FilterExpense:
		return "Expense"
	default:
		return "All"
	}
}
