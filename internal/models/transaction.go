package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a single financial transaction as shown on the dashboard.
// Positive amounts are income, negative amounts are expenses.
type Transaction struct {
	ID       string          `json:"id" yaml:"id"`
	Date     time.Time       `json:"date" yaml:"date"`
	Amount   decimal.Decimal `json:"amount" yaml:"amount"`
	Title    string          `json:"title" yaml:"title"`
	Subtitle string          `json:"subtitle" yaml:"subtitle"`
	Icon     string          `json:"icon" yaml:"icon"`
	Category string          `json:"category" yaml:"category"`
}

// IsIncome reports whether the transaction adds money
func (t Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction takes money out
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// AbsAmount returns the absolute value of the amount
func (t Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// TransactionSet wraps a slice with filtering/aggregation methods.
// Every method returns a new set; the receiver is never modified.
type TransactionSet struct {
	Transactions []Transaction
}

// NewTransactionSet creates a new TransactionSet from a slice
func NewTransactionSet(transactions []Transaction) *TransactionSet {
	return &TransactionSet{Transactions: transactions}
}

// Len returns the number of transactions
func (ts *TransactionSet) Len() int {
	return len(ts.Transactions)
}

// Filter returns the transactions matching keep, in original order
func (ts *TransactionSet) Filter(keep func(Transaction) bool) *TransactionSet {
	result := &TransactionSet{Transactions: make([]Transaction, 0, len(ts.Transactions))}
	for _, t := range ts.Transactions {
		if keep(t) {
			result.Transactions = append(result.Transactions, t)
		}
	}
	return result
}

// FilterIncome returns transactions with amount > 0
func (ts *TransactionSet) FilterIncome() *TransactionSet {
	return ts.Filter(Transaction.IsIncome)
}

// FilterExpense returns transactions with amount < 0
func (ts *TransactionSet) FilterExpense() *TransactionSet {
	return ts.Filter(Transaction.IsExpense)
}

// FilterByKey applies the projection selected by a filter key
func (ts *TransactionSet) FilterByKey(key FilterKey) *TransactionSet {
	switch key {
	case FilterIncome:
		return ts.FilterIncome()
	case FilterExpense:
		return ts.FilterExpense()
	default:
		return ts.Copy()
	}
}

// SumAmount returns the sum of all signed amounts
func (ts *TransactionSet) SumAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range ts.Transactions {
		sum = sum.Add(t.Amount)
	}
	return sum
}

// SumAbsAmount returns the sum of absolute values
func (ts *TransactionSet) SumAbsAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range ts.Transactions {
		sum = sum.Add(t.Amount.Abs())
	}
	return sum
}

// GroupByCategory groups transactions by category. The returned names are
// in first-seen order.
func (ts *TransactionSet) GroupByCategory() ([]string, map[string]*TransactionSet) {
	var order []string
	groups := make(map[string]*TransactionSet)
	for _, t := range ts.Transactions {
		cat := t.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		if groups[cat] == nil {
			groups[cat] = &TransactionSet{}
			order = append(order, cat)
		}
		groups[cat].Transactions = append(groups[cat].Transactions, t)
	}
	return order, groups
}

// Copy creates a shallow copy of the TransactionSet
func (ts *TransactionSet) Copy() *TransactionSet {
	copied := make([]Transaction, len(ts.Transactions))
	copy(copied, ts.Transactions)
	return &TransactionSet{Transactions: copied}
}
