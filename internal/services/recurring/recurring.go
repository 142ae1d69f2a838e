// Package recurring detects repeating payments in a transaction history
// and projects when they are due next.
package recurring

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"walletdash/internal/models"
)

const (
	// minOccurrences is the smallest group that can be called recurring
	minOccurrences = 3
	// maxIntervalStdDev is the tolerated jitter between payments, in days
	maxIntervalStdDev = 7
	// maxAmountDrift is the tolerated relative deviation from the average amount
	maxAmountDrift = 0.10
	minConfidence  = 0.5
	maxPayments    = 20
)

// Payment is a detected recurring outflow
type Payment struct {
	Title        string          `json:"title"`
	Category     string          `json:"category,omitempty"`
	Icon         string          `json:"icon,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Frequency    string          `json:"frequency"`
	LastDate     time.Time       `json:"last_date"`
	NextExpected time.Time       `json:"next_expected"`
	AnnualCost   decimal.Decimal `json:"annual_cost"`
	Occurrences  int             `json:"occurrences"`
	Confidence   float64         `json:"confidence"`
}

// Detect groups expenses by title and keeps the groups that repeat on a
// steady schedule with a steady amount. Results are ordered by annual cost.
func Detect(transactions []models.Transaction) []Payment {
	groups := make(map[string][]models.Transaction)
	var order []string
	for _, t := range transactions {
		if !t.IsExpense() || t.Date.IsZero() {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(t.Title))
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	var payments []Payment
	for _, key := range order {
		if p, ok := detectGroup(groups[key]); ok {
			payments = append(payments, p)
		}
	}

	sort.SliceStable(payments, func(i, j int) bool {
		return payments[i].AnnualCost.GreaterThan(payments[j].AnnualCost)
	})
	if len(payments) > maxPayments {
		payments = payments[:maxPayments]
	}
	return payments
}

func detectGroup(txns []models.Transaction) (Payment, bool) {
	if len(txns) < minOccurrences {
		return Payment{}, false
	}

	sorted := make([]models.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	intervals := make([]float64, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		intervals = append(intervals, sorted[i].Date.Sub(sorted[i-1].Date).Hours()/24)
	}

	ordered := make([]float64, len(intervals))
	copy(ordered, intervals)
	sort.Float64s(ordered)
	median := ordered[len(ordered)/2]
	if median <= 0 {
		return Payment{}, false
	}

	var sumSq float64
	for _, interval := range intervals {
		diff := interval - median
		sumSq += diff * diff
	}
	stdDev := math.Sqrt(sumSq / float64(len(intervals)))
	if stdDev > maxIntervalStdDev {
		return Payment{}, false
	}

	total := decimal.Zero
	for _, t := range sorted {
		total = total.Add(t.Amount.Abs())
	}
	avg := total.Div(decimal.NewFromInt(int64(len(sorted)))).Round(2)
	if avg.IsZero() {
		return Payment{}, false
	}
	limit := avg.Mul(decimal.NewFromFloat(maxAmountDrift))
	for _, t := range sorted {
		if t.Amount.Abs().Sub(avg).Abs().GreaterThan(limit) {
			return Payment{}, false
		}
	}

	frequency, perYear, ok := classifyInterval(median, len(sorted))
	if !ok {
		return Payment{}, false
	}

	confidence := 1.0 - stdDev/median
	if confidence < minConfidence {
		return Payment{}, false
	}

	last := sorted[len(sorted)-1]
	return Payment{
		Title:        last.Title,
		Category:     last.Category,
		Icon:         last.Icon,
		Amount:       avg,
		Frequency:    frequency,
		LastDate:     last.Date,
		NextExpected: last.Date.AddDate(0, 0, int(math.Round(median))),
		AnnualCost:   avg.Mul(decimal.NewFromInt(perYear)),
		Occurrences:  len(sorted),
		Confidence:   confidence,
	}, true
}

// classifyInterval names a median interval in days. Weekly and biweekly
// schedules need at least four payments.
func classifyInterval(days float64, count int) (string, int64, bool) {
	switch {
	case days >= 5 && days <= 9:
		return "weekly", 52, count >= 4
	case days >= 12 && days <= 16:
		return "biweekly", 26, count >= 4
	case days >= 25 && days <= 35:
		return "monthly", 12, true
	case days >= 85 && days <= 95:
		return "quarterly", 4, true
	case days >= 350 && days <= 380:
		return "yearly", 1, true
	default:
		return "", 0, false
	}
}

// Upcoming turns payments due on or after from into upcoming-payment rows,
// soonest first, capped at limit (no cap when limit <= 0)
func Upcoming(payments []Payment, from time.Time, limit int) []models.Transaction {
	var due []Payment
	for _, p := range payments {
		if !p.NextExpected.Before(from) {
			due = append(due, p)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].NextExpected.Before(due[j].NextExpected)
	})
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	upcoming := make([]models.Transaction, 0, len(due))
	for _, p := range due {
		upcoming = append(upcoming, models.Transaction{
			Date:     p.NextExpected,
			Amount:   p.Amount.Neg(),
			Title:    p.Title,
			Subtitle: "Due " + p.NextExpected.Format("Jan 2"),
			Icon:     p.Icon,
			Category: p.Category,
		})
	}
	return upcoming
}
