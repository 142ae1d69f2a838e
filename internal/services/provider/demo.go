package provider

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/aggregator"
)

// DemoCategory describes a sample category
type DemoCategory struct {
	Name     string
	Color    string
	Icon     string
	IsIncome bool
}

// DemoCategories are the sample categories with their chart colours
var DemoCategories = []DemoCategory{
	{Name: "Salary", Color: "#4CAF50", Icon: "💰", IsIncome: true},
	{Name: "Freelance", Color: "#2196F3", Icon: "💼", IsIncome: true},
	{Name: "Investment", Color: "#FF9800", Icon: "📈", IsIncome: true},
	{Name: "Food & Dining", Color: "#F44336", Icon: "🍽️"},
	{Name: "Transportation", Color: "#9C27B0", Icon: "🚗"},
	{Name: "Entertainment", Color: "#E91E63", Icon: "🎬"},
	{Name: "Utilities", Color: "#607D8B", Icon: "⚡"},
	{Name: "Shopping", Color: "#795548", Icon: "🛍️"},
	{Name: "Healthcare", Color: "#3F51B5", Icon: "🏥"},
}

// Dataset is a complete set of dashboard inputs
type Dataset struct {
	BalanceText  string
	Transactions []models.Transaction
	Categories   *models.CategoryTotals
	Upcoming     []models.Transaction
}

var demoBase = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// Demo returns a fresh copy of the built-in sample dataset
func Demo() Dataset {
	byName := make(map[string]DemoCategory, len(DemoCategories))
	for _, c := range DemoCategories {
		byName[c.Name] = c
	}

	// newest first, matching loaded data
	samples := []struct {
		title    string
		amount   string
		category string
		day      int
	}{
		{"Water Bill", "45.00", "Utilities", 28},
		{"Movie Tickets", "24.00", "Entertainment", 26},
		{"Uber Ride", "12.50", "Transportation", 23},
		{"Restaurant Dinner", "65.00", "Food & Dining", 21},
		{"Doctor Visit", "150.00", "Healthcare", 19},
		{"Clothing Store", "89.99", "Shopping", 17},
		{"Coffee Shop", "4.50", "Food & Dining", 15},
		{"Electric Bill", "120.00", "Utilities", 14},
		{"Netflix Subscription", "15.99", "Entertainment", 12},
		{"Gas Station", "45.00", "Transportation", 11},
		{"Grocery Shopping", "85.50", "Food & Dining", 10},
		{"Bonus Payment", "500.00", "Salary", 9},
		{"Stock Dividends", "120.50", "Investment", 6},
		{"Freelance Project", "850.00", "Freelance", 4},
		{"Monthly Salary", "3500.00", "Salary", 1},
	}

	txs := make([]models.Transaction, 0, len(samples))
	for i, s := range samples {
		cat := byName[s.category]
		amount := decimal.RequireFromString(s.amount)
		if !cat.IsIncome {
			amount = amount.Neg()
		}
		date := demoBase.AddDate(0, 0, s.day)
		txs = append(txs, models.Transaction{
			ID:       fmt.Sprintf("demo-%02d", i+1),
			Date:     date,
			Amount:   amount,
			Title:    s.title,
			Subtitle: s.category + " · " + date.Format("Jan 2"),
			Icon:     cat.Icon,
			Category: s.category,
		})
	}

	agg := aggregator.New()
	balance := models.NewTransactionSet(txs).SumAmount()

	return Dataset{
		BalanceText:  money.Format(balance),
		Transactions: txs,
		Categories:   agg.CategoryTotalsFromExpenses(txs, Palette()),
		Upcoming: []models.Transaction{
			{ID: "upcoming-1", Title: "Netflix", Subtitle: "Due Jan 15", Amount: decimal.RequireFromString("-15.99"), Icon: "🎬"},
			{ID: "upcoming-2", Title: "Spotify", Subtitle: "Due Jan 20", Amount: decimal.RequireFromString("-9.99"), Icon: "🎵"},
			{ID: "upcoming-3", Title: "Gym Membership", Subtitle: "Due Jan 25", Amount: decimal.RequireFromString("-49.99"), Icon: "💪"},
		},
	}
}

// Palette returns the demo category colours keyed by name
func Palette() map[string]string {
	palette := make(map[string]string, len(DemoCategories))
	for _, c := range DemoCategories {
		palette[c.Name] = c.Color
	}
	return palette
}

// Icons returns the demo category icons keyed by name
func Icons() map[string]string {
	icons := make(map[string]string, len(DemoCategories))
	for _, c := range DemoCategories {
		icons[c.Name] = c.Icon
	}
	return icons
}
