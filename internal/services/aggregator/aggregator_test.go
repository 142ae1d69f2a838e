package aggregator

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletdash/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func tx(title, amount, category string) models.Transaction {
	return models.Transaction{Title: title, Amount: dec(amount), Category: category}
}

func TestSummarizeExample(t *testing.T) {
	txs := []models.Transaction{
		tx("Salary", "100", "Salary"),
		tx("Groceries", "-40", "Food"),
		tx("Coffee", "-10", "Food"),
	}

	summary := New().Summarize(txs, dec("1234.56"))

	assert.True(t, summary.Income.Equal(dec("100")), "income %s", summary.Income)
	assert.True(t, summary.Expense.Equal(dec("50")), "expense %s", summary.Expense)
	assert.True(t, summary.Balance.Equal(dec("1234.56")))
}

func TestSummarizeEmpty(t *testing.T) {
	summary := New().Summarize(nil, decimal.Zero)
	assert.True(t, summary.Income.IsZero())
	assert.True(t, summary.Expense.IsZero())
	assert.True(t, summary.Balance.IsZero())
}

func TestSummarizeReconciles(t *testing.T) {
	svc := New()
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		txs := make([]models.Transaction, n)
		sum := decimal.Zero
		for i := range txs {
			cents := rng.Int63n(2_000_000) - 1_000_000
			amount := decimal.New(cents, -2)
			txs[i] = models.Transaction{Amount: amount}
			sum = sum.Add(amount)
		}

		summary := svc.Summarize(txs, decimal.Zero)
		require.True(t, sum.Equal(summary.Income.Sub(summary.Expense)),
			"round %d: sum %s != income %s - expense %s", round, sum, summary.Income, summary.Expense)
		require.False(t, summary.Income.IsNegative())
		require.False(t, summary.Expense.IsNegative())
	}
}

func TestSegmentsPreserveOrder(t *testing.T) {
	totals := models.NewCategoryTotals()
	totals.Set("Food", models.CategoryTotal{Amount: dec("30"), Color: "#f00"})
	totals.Set("Fun", models.CategoryTotal{Amount: dec("70"), Color: "#0f0"})

	svc := New()
	segments := svc.Segments(totals)

	require.Len(t, segments, 2)
	assert.Equal(t, "Food", segments[0].Name)
	assert.True(t, segments[0].Value.Equal(dec("30")))
	assert.Equal(t, "#f00", segments[0].Color)
	assert.Equal(t, "Fun", segments[1].Name)
	assert.True(t, svc.Total(segments).Equal(dec("100")))
	assert.Equal(t, []int{30, 70}, svc.Percentages(segments))
}

func TestSegmentsFoldNegativeAmounts(t *testing.T) {
	totals := models.NewCategoryTotals()
	totals.Set("Rent", models.CategoryTotal{Amount: dec("-900"), Color: "#123456"})

	segments := New().Segments(totals)
	require.Len(t, segments, 1)
	assert.True(t, segments[0].Value.Equal(dec("900")))
}

func TestSegmentsEmpty(t *testing.T) {
	assert.Empty(t, New().Segments(nil))
	assert.Empty(t, New().Segments(models.NewCategoryTotals()))
}

func TestPercentagesAreRoundedIndependently(t *testing.T) {
	segments := []models.CategorySegment{
		{Name: "A", Value: dec("1")},
		{Name: "B", Value: dec("1")},
		{Name: "C", Value: dec("1")},
	}
	pcts := New().Percentages(segments)
	assert.Equal(t, []int{33, 33, 33}, pcts)

	var sum int
	for _, p := range pcts {
		sum += p
	}
	assert.Equal(t, 99, sum)
}

func TestPercentagesZeroTotal(t *testing.T) {
	segments := []models.CategorySegment{{Name: "A", Value: decimal.Zero}, {Name: "B", Value: decimal.Zero}}
	assert.Equal(t, []int{0, 0}, New().Percentages(segments))
}

func TestCategoryTotalsFromExpenses(t *testing.T) {
	txs := []models.Transaction{
		tx("Salary", "3500", "Salary"),
		tx("Coffee", "-4.50", "Food & Dining"),
		tx("Electric Bill", "-120", "Utilities"),
		tx("Grocery", "-85.50", "Food & Dining"),
		tx("Mystery", "-12", ""),
	}
	palette := map[string]string{"Food & Dining": "#F44336", "Utilities": "#607D8B"}

	totals := New().CategoryTotalsFromExpenses(txs, palette)

	assert.Equal(t, []string{"Utilities", "Food & Dining", "Uncategorized"}, totals.Names())
	food, _ := totals.Get("Food & Dining")
	assert.True(t, food.Amount.Equal(dec("90")))
	assert.Equal(t, "#F44336", food.Color)
	other, _ := totals.Get("Uncategorized")
	assert.Equal(t, DefaultCategoryColor, other.Color)
	_, hasSalary := totals.Get("Salary")
	assert.False(t, hasSalary)
}

func TestBreakdown(t *testing.T) {
	txs := []models.Transaction{
		tx("Rent", "-75", "Housing"),
		tx("Food", "-25", "Food"),
		tx("Pay", "500", "Salary"),
	}
	shares := New().Breakdown(txs)
	require.Len(t, shares, 2)
	assert.Equal(t, "Housing", shares[0].Category)
	assert.Equal(t, 75.0, shares[0].PercentOfExpense)
	assert.Equal(t, 25.0, shares[1].PercentOfExpense)

	assert.Empty(t, New().Breakdown([]models.Transaction{tx("Pay", "10", "Salary")}))
}
