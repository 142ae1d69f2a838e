// Package provider supplies dashboard input data and guarantees the view
// is never empty: whatever the host cannot provide is replaced by the
// built-in demo dataset.
package provider

import (
	"github.com/shopspring/decimal"

	"walletdash/internal/models"
	"walletdash/internal/money"
)

// DataProvider is the host capability the dashboard reads from. Each
// method reports false when the host has no data for it.
type DataProvider interface {
	Balance() (string, bool)
	Transactions() ([]models.Transaction, bool)
	CategoryTotals() (*models.CategoryTotals, bool)
	UpcomingPayments() ([]models.Transaction, bool)
}

// Static is a DataProvider over fixed values. Nil fields are absent.
type Static struct {
	BalanceText *string
	Txns        []models.Transaction
	Categories  *models.CategoryTotals
	Upcoming    []models.Transaction
}

func (s Static) Balance() (string, bool) {
	if s.BalanceText == nil {
		return "", false
	}
	return *s.BalanceText, true
}

func (s Static) Transactions() ([]models.Transaction, bool) {
	return s.Txns, s.Txns != nil
}

func (s Static) CategoryTotals() (*models.CategoryTotals, bool) {
	return s.Categories, s.Categories != nil
}

func (s Static) UpcomingPayments() ([]models.Transaction, bool) {
	return s.Upcoming, s.Upcoming != nil
}

// Safe wraps a provider and falls back to demo data per source
type Safe struct {
	p DataProvider
}

// NewSafe wraps p; p may be nil
func NewSafe(p DataProvider) *Safe {
	return &Safe{p: p}
}

// Balance returns the parsed balance. An unparseable string is zero;
// a missing one falls back to the demo balance.
func (s *Safe) Balance() decimal.Decimal {
	if s.p != nil {
		if text, ok := s.p.Balance(); ok {
			return money.ParseBalance(text)
		}
	}
	return money.ParseBalance(Demo().BalanceText)
}

// Transactions returns the host transactions or the demo set
func (s *Safe) Transactions() []models.Transaction {
	if s.p != nil {
		if txs, ok := s.p.Transactions(); ok {
			return txs
		}
	}
	return Demo().Transactions
}

// CategoryTotals returns the host category totals or the demo totals
func (s *Safe) CategoryTotals() *models.CategoryTotals {
	if s.p != nil {
		if totals, ok := s.p.CategoryTotals(); ok && totals != nil {
			return totals
		}
	}
	return Demo().Categories
}

// UpcomingPayments returns the host upcoming payments or the demo set
func (s *Safe) UpcomingPayments() []models.Transaction {
	if s.p != nil {
		if up, ok := s.p.UpcomingPayments(); ok {
			return up
		}
	}
	return Demo().Upcoming
}

// IsDemo reports whether every source falls back to demo data
func (s *Safe) IsDemo() bool {
	if s.p == nil {
		return true
	}
	_, hasBalance := s.p.Balance()
	_, hasTxns := s.p.Transactions()
	totals, hasTotals := s.p.CategoryTotals()
	return !hasBalance && !hasTxns && (!hasTotals || totals == nil)
}
