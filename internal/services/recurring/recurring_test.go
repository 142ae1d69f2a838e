package recurring

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletdash/internal/models"
)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func tx(title, date, amount string) models.Transaction {
	return models.Transaction{Title: title, Date: day(date), Amount: decimal.RequireFromString(amount)}
}

func history() []models.Transaction {
	return []models.Transaction{
		tx("Netflix", "2024-01-15", "-15.99"),
		tx("Gym", "2024-01-03", "-49.99"),
		tx("Netflix", "2024-02-15", "-15.99"),
		tx("Coffee", "2024-02-01", "-4.50"),
		tx("Gym", "2024-02-03", "-49.99"),
		tx("NETFLIX", "2024-03-15", "-15.99"),
		tx("Gym", "2024-03-04", "-49.99"),
		tx("Salary", "2024-01-31", "3000"),
		tx("Salary", "2024-02-29", "3000"),
		tx("Salary", "2024-03-31", "3000"),
		tx("Coffee", "2024-03-20", "-5.75"),
		tx("Coffee", "2024-03-21", "-4.50"),
	}
}

func TestDetect(t *testing.T) {
	payments := Detect(history())
	require.Len(t, payments, 2)

	gym := payments[0]
	assert.Equal(t, "Gym", gym.Title)
	assert.Equal(t, "monthly", gym.Frequency)
	assert.True(t, gym.Amount.Equal(decimal.RequireFromString("49.99")))
	assert.True(t, gym.AnnualCost.Equal(decimal.RequireFromString("599.88")))
	assert.Equal(t, 3, gym.Occurrences)
	assert.Equal(t, day("2024-03-04"), gym.LastDate)

	netflix := payments[1]
	assert.Equal(t, "NETFLIX", netflix.Title)
	assert.Equal(t, day("2024-03-15"), netflix.LastDate)
	assert.Greater(t, netflix.Confidence, 0.9)
}

func TestDetectRejectsDriftingAmounts(t *testing.T) {
	txs := []models.Transaction{
		tx("Electric", "2024-01-10", "-80"),
		tx("Electric", "2024-02-10", "-120"),
		tx("Electric", "2024-03-10", "-60"),
	}
	assert.Empty(t, Detect(txs))
}

func TestDetectWeeklyNeedsFourPayments(t *testing.T) {
	txs := []models.Transaction{
		tx("Lunch club", "2024-01-01", "-10"),
		tx("Lunch club", "2024-01-08", "-10"),
		tx("Lunch club", "2024-01-15", "-10"),
	}
	assert.Empty(t, Detect(txs))

	txs = append(txs, tx("Lunch club", "2024-01-22", "-10"))
	payments := Detect(txs)
	require.Len(t, payments, 1)
	assert.Equal(t, "weekly", payments[0].Frequency)
	assert.Equal(t, day("2024-01-29"), payments[0].NextExpected)
}

func TestUpcoming(t *testing.T) {
	payments := Detect(history())

	upcoming := Upcoming(payments, day("2024-03-31"), 0)
	require.Len(t, upcoming, 2)
	assert.Equal(t, "Gym", upcoming[0].Title)
	assert.True(t, upcoming[0].Amount.Equal(decimal.RequireFromString("-49.99")))
	assert.True(t, upcoming[0].IsExpense())
	assert.Equal(t, "Due "+upcoming[0].Date.Format("Jan 2"), upcoming[0].Subtitle)
	assert.Equal(t, "NETFLIX", upcoming[1].Title)

	assert.Len(t, Upcoming(payments, day("2024-03-31"), 1), 1)
	assert.Empty(t, Upcoming(payments, day("2025-01-01"), 0))
}
