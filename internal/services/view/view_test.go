package view

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletdash/internal/models"
	"walletdash/internal/services/donut"
	"walletdash/internal/services/provider"
	"walletdash/internal/sinks"
)

type pageSinks struct {
	balance, sumBalance, sumIncome, sumExpense, center *sinks.Text
	list, upcoming                                     *sinks.List
	legend                                             *sinks.Legend
	overlay                                            *sinks.Overlay
	chips                                              *sinks.Chips
	svg                                                *donut.SVGSurface
}

func newPage() (*pageSinks, *sinks.RenderSinks) {
	p := &pageSinks{
		balance:    &sinks.Text{},
		sumBalance: &sinks.Text{},
		sumIncome:  &sinks.Text{},
		sumExpense: &sinks.Text{},
		center:     &sinks.Text{},
		list:       &sinks.List{},
		upcoming:   &sinks.List{},
		legend:     &sinks.Legend{},
		overlay:    &sinks.Overlay{},
		chips:      sinks.NewChips(models.FilterKeys...),
		svg:        donut.NewSVGSurface(220),
	}
	return p, &sinks.RenderSinks{
		Balance:          p.balance,
		SummaryBalance:   p.sumBalance,
		SummaryIncome:    p.sumIncome,
		SummaryExpense:   p.sumExpense,
		Transactions:     p.list,
		Upcoming:         p.upcoming,
		Chart:            p.svg,
		ChartCenter:      p.overlay,
		ChartCenterValue: p.center,
		Legend:           p.legend,
		Chips:            p.chips,
	}
}

func strPtr(s string) *string { return &s }

func TestRenderDemoDashboard(t *testing.T) {
	page, s := newPage()

	result := New(nil, donut.Options{}, nil).Render(s, models.FilterAll)

	assert.True(t, result.Demo)
	assert.Equal(t, "$4,313.02", page.balance.Value)
	assert.Equal(t, "$4,313.02", page.sumBalance.Value)
	assert.Equal(t, "$4,970.50", page.sumIncome.Value)
	assert.Equal(t, "$657.48", page.sumExpense.Value)

	require.Len(t, page.list.Items, DefaultRecentLimit)
	assert.Equal(t, "Water Bill", page.list.Items[0].Title)
	require.Len(t, page.upcoming.Items, 3)
	assert.Equal(t, models.ItemView{
		Icon: "🎬", Title: "Netflix", Subtitle: "Due Jan 15",
		AmountText: "-$15.99", AmountClass: "negative",
	}, page.upcoming.Items[0])

	assert.Equal(t, []models.FilterKey{models.FilterAll}, page.chips.Active())
	assert.Equal(t, "$657.48", page.center.Value)
	assert.Len(t, page.legend.Items, 6)
	assert.Equal(t, "Utilities • 25%", page.legend.Items[0].Label)
	assert.True(t, page.overlay.Placed)
	assert.Equal(t, 110.0, page.overlay.X)
	assert.Equal(t, DefaultLineWidth, result.Layout.LineWidth)
	assert.Contains(t, page.svg.String(), `stroke-width="32"`)
}

func TestRenderHostData(t *testing.T) {
	totals := models.NewCategoryTotals()
	totals.Set("Food", models.CategoryTotal{Amount: decimal.NewFromInt(30), Color: "#f00"})
	totals.Set("Fun", models.CategoryTotal{Amount: decimal.NewFromInt(70), Color: "#0f0"})

	host := provider.Static{
		BalanceText: strPtr("$1,234.56"),
		Txns: []models.Transaction{
			{Title: "Salary", Amount: decimal.NewFromInt(100), Icon: "💰", Subtitle: "Work"},
			{Title: "Groceries", Amount: decimal.NewFromInt(-40)},
			{Title: "Coffee", Amount: decimal.NewFromInt(-10)},
		},
		Categories: totals,
		Upcoming:   []models.Transaction{},
	}
	page, s := newPage()

	result := New(host, donut.Options{LineWidth: 28}, nil).Render(s, models.FilterExpense)

	assert.False(t, result.Demo)
	assert.Equal(t, "$1,234.56", page.balance.Value)
	assert.Equal(t, "$100.00", page.sumIncome.Value)
	assert.Equal(t, "$50.00", page.sumExpense.Value)
	assert.Empty(t, page.upcoming.Items)

	require.Len(t, page.list.Items, 2)
	assert.Equal(t, "Groceries", page.list.Items[0].Title)
	assert.Equal(t, []models.FilterKey{models.FilterExpense}, page.chips.Active())

	assert.Equal(t, "$100.00", page.center.Value)
	assert.Equal(t, []models.LegendItem{
		{Color: "#f00", Label: "Food • 30%"},
		{Color: "#0f0", Label: "Fun • 70%"},
	}, page.legend.Items)

	shown := result.Filter.SetFilter(models.FilterIncome)
	require.Len(t, shown, 1)
	assert.Equal(t, "Salary", page.list.Items[0].Title)
	assert.Equal(t, "+$100.00", page.list.Items[0].AmountText)
}

func TestRecentLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"default", DefaultRecentLimit, 5},
		{"smaller", 2, 2},
		{"unlimited", 0, 15},
		{"negative", -3, 15},
		{"larger than data", 50, 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, s := newPage()
			result := New(nil, donut.Options{}, nil).WithRecentLimit(tt.limit).Render(s, models.FilterAll)

			assert.Len(t, page.list.Items, tt.want)
			assert.Equal(t, "$4,970.50", page.sumIncome.Value)
			assert.Equal(t, "$657.48", page.center.Value)
			assert.Len(t, result.Filter.SetFilter(models.FilterAll), tt.want)
		})
	}
}

func TestRecentLimitFiltersWithinRecent(t *testing.T) {
	page, s := newPage()
	result := New(nil, donut.Options{}, nil).Render(s, models.FilterAll)

	// the five newest demo rows are all expenses
	assert.Empty(t, result.Filter.SetFilter(models.FilterIncome))
	assert.Empty(t, page.list.Items)
	assert.Len(t, result.Filter.SetFilter(models.FilterExpense), 5)
}

func TestRenderSkipsMissingSinks(t *testing.T) {
	d := New(nil, donut.Options{}, nil)
	assert.NotPanics(t, func() { d.Render(nil, models.FilterAll) })

	balance := &sinks.Text{}
	assert.NotPanics(t, func() { d.Render(&sinks.RenderSinks{Balance: balance}, models.FilterAll) })
	assert.Equal(t, "$4,313.02", balance.Value)
}

func TestQueries(t *testing.T) {
	d := New(nil, donut.Options{}, nil)

	summary := d.Summary()
	assert.True(t, summary.Income.Sub(summary.Expense).Equal(summary.Balance))

	assert.Len(t, d.Transactions(models.FilterIncome), 4)
	assert.Len(t, d.Transactions(models.FilterExpense), 11)
	assert.Len(t, d.Percentages(), 6)
	assert.NotEmpty(t, d.Breakdown())

	layout := d.Layout(220)
	assert.Equal(t, 90.0, layout.Radius)
	assert.Len(t, layout.Arcs, 6)
}

func TestDrawChartUsesPixelRatio(t *testing.T) {
	surface := donut.NewRasterSurface(100)
	layout := New(nil, donut.Options{}, nil).DrawChart(surface, 2)

	assert.Len(t, layout.Arcs, 6)
	assert.Equal(t, 200, surface.Image().Bounds().Dx())
}
