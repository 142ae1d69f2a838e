// Package aggregator derives dashboard summaries and chart segments from
// transactions and category totals. All methods are pure.
package aggregator

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"walletdash/internal/models"
)

// DefaultCategoryColor is used for categories without a palette entry
const DefaultCategoryColor = "#6C63FF"

// Service provides aggregation functionality
type Service struct{}

// New creates a new aggregator service
func New() *Service {
	return &Service{}
}

// Summarize partitions transactions on sign and sums each partition.
// The balance is passed through as supplied by the host.
func (s *Service) Summarize(txs []models.Transaction, balance decimal.Decimal) models.Summary {
	ts := models.NewTransactionSet(txs)
	return models.Summary{
		Balance: balance,
		Income:  ts.FilterIncome().SumAmount(),
		Expense: ts.FilterExpense().SumAbsAmount(),
	}
}

// Segments converts category totals into chart segments in mapping order.
// Negative amounts are folded to their absolute value.
func (s *Service) Segments(totals *models.CategoryTotals) []models.CategorySegment {
	segments := make([]models.CategorySegment, 0, totals.Len())
	totals.Each(func(name string, total models.CategoryTotal) {
		segments = append(segments, models.CategorySegment{
			Name:  name,
			Value: total.Amount.Abs(),
			Color: total.Color,
		})
	})
	return segments
}

// Total returns the sum of segment values, the chart's 100% reference
func (s *Service) Total(segments []models.CategorySegment) decimal.Decimal {
	total := decimal.Zero
	for _, seg := range segments {
		total = total.Add(seg.Value)
	}
	return total
}

// Percentages rounds each segment's share independently. The results are
// not reconciled and may not sum to exactly 100.
func (s *Service) Percentages(segments []models.CategorySegment) []int {
	result := make([]int, len(segments))
	total := s.Total(segments)
	if total.IsZero() {
		return result
	}
	for i, seg := range segments {
		result[i] = RoundPercent(seg.Value, total)
	}
	return result
}

// RoundPercent returns round(value/total*100); zero when total is zero
func RoundPercent(value, total decimal.Decimal) int {
	if total.IsZero() {
		return 0
	}
	share := value.InexactFloat64() / total.InexactFloat64() * 100
	return int(math.Round(share))
}

// CategoryTotalsFromExpenses groups expense transactions by category and
// orders the result by total descending. Colours come from the palette.
func (s *Service) CategoryTotalsFromExpenses(txs []models.Transaction, palette map[string]string) *models.CategoryTotals {
	order, groups := models.NewTransactionSet(txs).FilterExpense().GroupByCategory()

	sums := make(map[string]decimal.Decimal, len(order))
	for _, cat := range order {
		sums[cat] = groups[cat].SumAbsAmount()
	}
	sort.SliceStable(order, func(i, j int) bool {
		return sums[order[i]].GreaterThan(sums[order[j]])
	})

	totals := models.NewCategoryTotals()
	for _, cat := range order {
		color, ok := palette[cat]
		if !ok || color == "" {
			color = DefaultCategoryColor
		}
		totals.Set(cat, models.CategoryTotal{Amount: sums[cat], Color: color})
	}
	return totals
}

// Breakdown reports each expense category's amount and share of total expense
func (s *Service) Breakdown(txs []models.Transaction) []models.CategoryShare {
	totals := s.CategoryTotalsFromExpenses(txs, nil)
	expense := models.NewTransactionSet(txs).FilterExpense().SumAbsAmount()

	shares := make([]models.CategoryShare, 0, totals.Len())
	totals.Each(func(name string, total models.CategoryTotal) {
		var pct float64
		if !expense.IsZero() {
			pct = total.Amount.Div(expense).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
		}
		shares = append(shares, models.CategoryShare{
			Category:         name,
			Amount:           total.Amount,
			PercentOfExpense: pct,
		})
	})
	return shares
}
