package classifier

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"walletdash/internal/models"
)

func tx(title, amount, category string) models.Transaction {
	return models.Transaction{Title: title, Amount: decimal.RequireFromString(amount), Category: category}
}

func TestCategory(t *testing.T) {
	c := New(DefaultRules, nil)

	tests := []struct {
		title, amount, want string
	}{
		{"ACME PAYROLL 0315", "2500", "Salary"},
		{"Upwork freelance payout", "400", "Freelance"},
		{"Vanguard dividend", "12.30", "Investment"},
		{"Whole Foods grocery", "-85.50", "Food & Dining"},
		{"UBER *TRIP", "-12.50", "Transportation"},
		{"NETFLIX.COM", "-15.99", "Entertainment"},
		{"City Water Bill", "-45", "Utilities"},
		{"AMAZON MKTPLACE", "-23.99", "Shopping"},
		{"CVS Pharmacy", "-9.99", "Healthcare"},
		{"CAFÉ COFFEE DAY", "-3.20", "Food & Dining"},
		{"Salary advance repayment", "-100", ""},
		{"Mystery", "-5", ""},
		{"Netflix", "0", ""},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Category(tx(tt.title, tt.amount, "")))
		})
	}
}

func TestClassifyKeepsExistingValues(t *testing.T) {
	c := New(DefaultRules, map[string]string{"Entertainment": "🎬", "Food & Dining": "🍽️"})
	txs := []models.Transaction{
		tx("Netflix", "-15.99", ""),
		tx("Coffee", "-4", "Treats"),
		{Title: "Spotify", Amount: decimal.NewFromInt(-10), Icon: "🎵"},
	}

	c.Classify(txs)

	assert.Equal(t, "Entertainment", txs[0].Category)
	assert.Equal(t, "🎬", txs[0].Icon)
	assert.Equal(t, "Treats", txs[1].Category)
	assert.Empty(t, txs[1].Icon)
	assert.Equal(t, "🎵", txs[2].Icon)
}

func TestIsInternalTransfer(t *testing.T) {
	assert.True(t, IsInternalTransfer(tx("CREDIT CARD PAYMENT - THANK YOU", "-500", "")))
	assert.True(t, IsInternalTransfer(tx("Online transfer to savings", "-200", "")))
	assert.True(t, IsInternalTransfer(tx("Move", "-20", "Transfer")))
	assert.True(t, IsInternalTransfer(tx("Move", "-20", "TRANSFER")))
	assert.False(t, IsInternalTransfer(tx("Internal transfer payroll", "1000", "")))
	assert.False(t, IsInternalTransfer(tx("Grocery", "-20", "")))
}

func TestFilterInternalTransfers(t *testing.T) {
	txs := []models.Transaction{
		tx("Grocery", "-20", ""),
		tx("cc payment", "-300", ""),
		tx("Salary", "3000", ""),
	}
	kept, dropped := FilterInternalTransfers(txs)
	assert.Equal(t, 1, dropped)
	assert.Len(t, kept, 2)
	assert.Equal(t, "Salary", kept[1].Title)
}
