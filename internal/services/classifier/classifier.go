// Package classifier fills in categories and icons for exported bank rows
// and recognises internal transfers.
package classifier

import (
	"strings"

	"golang.org/x/text/cases"

	"walletdash/internal/models"
)

// Rule assigns Category to transactions whose title contains a keyword.
// Income rules only match positive amounts, other rules only negative ones.
type Rule struct {
	Category string
	Income   bool
	Keywords []string
}

// DefaultRules cover the built-in categories (keywords lowercase)
var DefaultRules = []Rule{
	{Category: "Salary", Income: true, Keywords: []string{
		"payroll", "salary", "paycheck", "direct deposit", "direct dep",
		"wages", "net pay", "bonus", "employer",
	}},
	{Category: "Freelance", Income: true, Keywords: []string{
		"freelance", "invoice", "commission", "consulting",
	}},
	{Category: "Investment", Income: true, Keywords: []string{
		"dividend", "interest earned", "interest", "brokerage", "capital gain",
	}},
	{Category: "Food & Dining", Keywords: []string{
		"grocery", "supermarket", "restaurant", "coffee", "cafe", "bakery",
		"dinner", "lunch", "pizza", "doordash", "ubereats", "starbucks",
	}},
	{Category: "Transportation", Keywords: []string{
		"uber", "lyft", "taxi", "gas station", "fuel", "parking", "transit",
		"metro", "toll",
	}},
	{Category: "Entertainment", Keywords: []string{
		"netflix", "spotify", "hulu", "movie", "cinema", "concert", "theater",
		"steam", "tickets",
	}},
	{Category: "Utilities", Keywords: []string{
		"electric", "water bill", "gas bill", "internet", "utility", "phone bill",
		"mobile", "sewer",
	}},
	{Category: "Shopping", Keywords: []string{
		"amazon", "clothing", "walmart", "target", "mall", "store", "ikea",
	}},
	{Category: "Healthcare", Keywords: []string{
		"doctor", "pharmacy", "hospital", "dental", "dentist", "clinic",
		"medical", "gym",
	}},
}

// IncomeKeywords mark a transfer-looking row as real income (lowercase)
var IncomeKeywords = []string{
	"payroll", "salary", "paycheck", "direct deposit", "dividend",
	"refund", "reimbursement", "interest",
}

// InternalTransferPatterns identify moves between own accounts (lowercase)
var InternalTransferPatterns = []string{
	"funds transfer",
	"internal transfer",
	"credit card payment",
	"automatic payment - thank you",
	"cc payment",
	"recurring scheduled payment",
	"transfer to savings",
	"transfer from savings",
}

// Classifier applies keyword rules and a category icon table
type Classifier struct {
	rules []Rule
	icons map[string]string
}

// New creates a classifier. icons maps category names to icons and may be nil.
func New(rules []Rule, icons map[string]string) *Classifier {
	return &Classifier{rules: rules, icons: icons}
}

// Category returns the first matching rule's category, or "" when none match
func (c *Classifier) Category(t models.Transaction) string {
	title := fold(t.Title)
	if title == "" || t.Amount.IsZero() {
		return ""
	}
	for _, rule := range c.rules {
		if rule.Income != t.IsIncome() {
			continue
		}
		if containsAny(title, rule.Keywords) {
			return rule.Category
		}
	}
	return ""
}

// Classify fills empty categories and icons in place. Values already
// present are never overwritten.
func (c *Classifier) Classify(transactions []models.Transaction) {
	for i := range transactions {
		t := &transactions[i]
		if t.Category == "" {
			t.Category = c.Category(*t)
		}
		if t.Icon == "" && t.Category != "" {
			t.Icon = c.icons[t.Category]
		}
	}
}

// IsInternalTransfer checks if a transaction moves money between own accounts
func IsInternalTransfer(t models.Transaction) bool {
	title := fold(t.Title)
	category := fold(t.Category)

	for _, pattern := range InternalTransferPatterns {
		if strings.Contains(title, pattern) {
			// Don't filter if it looks like income
			if t.IsIncome() && containsAny(title, IncomeKeywords) {
				return false
			}
			return true
		}
	}

	return category == "credit card payment" || category == "transfer"
}

// FilterInternalTransfers removes internal transfers to avoid double
// counting and reports how many were dropped
func FilterInternalTransfers(transactions []models.Transaction) ([]models.Transaction, int) {
	filtered := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		if !IsInternalTransfer(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered, len(transactions) - len(filtered)
}

// fold case-folds s for caseless matching against the lowercase keyword
// lists, so "STRASSE" and "Straße" compare equal
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// containsAny checks if text contains any of the keywords
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
