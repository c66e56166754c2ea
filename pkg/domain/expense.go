package domain

import (
	"strings"
	"unicode"
)

// Expense is a single expense record. IDs are assigned by the server.
type Expense struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	ExpenseDate Date    `json:"expenseDate"`
}

// Valid expense categories, in the uppercase canonical form the API expects.
var Categories = []string{
	"FOOD",
	"TRANSPORT",
	"ENTERTAINMENT",
	"UTILITIES",
	"HEALTH",
	"SHOPPING",
	"TRAVEL",
	"OTHER",
}

var categorySet = func() map[string]bool {
	m := make(map[string]bool, len(Categories))
	for _, c := range Categories {
		m[c] = true
	}
	return m
}()

// ValidCategory returns true if the given category is a known one.
func ValidCategory(category string) bool {
	return categorySet[category]
}

// CategoryLabel re-cases a canonical category for display: first rune upper,
// remainder lower. "FOOD" becomes "Food", "TRAVEL_EXPENSE" becomes
// "Travel_expense".
func CategoryLabel(category string) string {
	if category == "" {
		return ""
	}
	runes := []rune(category)
	rest := strings.ToLower(string(runes[1:]))
	return string(unicode.ToUpper(runes[0])) + rest
}

// Total sums the amounts of the given expenses.
func Total(expenses []Expense) float64 {
	var total float64
	for _, e := range expenses {
		total += e.Amount
	}
	return total
}
