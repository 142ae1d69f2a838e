// Package view runs the page-ready render pass of the dashboard.
package view

import (
	"walletdash/internal/log"
	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/aggregator"
	"walletdash/internal/services/donut"
	"walletdash/internal/services/listfilter"
	"walletdash/internal/services/provider"
	"walletdash/internal/sinks"
)

const (
	// DefaultLineWidth is the ring width the dashboard page uses
	DefaultLineWidth = 32.0
	// DefaultRecentLimit is how many transactions the dashboard list shows
	DefaultRecentLimit = 5
)

// Dashboard renders all widgets from one data provider
type Dashboard struct {
	data   *provider.Safe
	agg    *aggregator.Service
	donut  *donut.Renderer
	chart  donut.Options
	recent int
	logger *log.Logger
}

// New creates a dashboard view. p may be nil, in which case demo data is shown.
func New(p provider.DataProvider, chart donut.Options, logger *log.Logger) *Dashboard {
	if !donut.Positive(chart.LineWidth) {
		chart.LineWidth = DefaultLineWidth
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Dashboard{
		data:   provider.NewSafe(p),
		agg:    aggregator.New(),
		donut:  donut.New(),
		chart:  chart,
		recent: DefaultRecentLimit,
		logger: logger.WithComponent("view"),
	}
}

// WithRecentLimit caps the rendered transaction list at n entries. Zero or
// less shows every transaction. Totals and categories are unaffected.
func (d *Dashboard) WithRecentLimit(n int) *Dashboard {
	d.recent = max(n, 0)
	return d
}

// Recent returns the transactions the list widget starts from
func (d *Dashboard) Recent() []models.Transaction {
	txs := d.data.Transactions()
	if d.recent > 0 && len(txs) > d.recent {
		return txs[:d.recent]
	}
	return txs
}

// Result captures what a render pass produced
type Result struct {
	Summary  models.Summary
	Segments []models.CategorySegment
	Layout   donut.Layout
	Filter   *listfilter.Engine
	Demo     bool
}

// Render writes every widget into s and starts the list filter with the
// given key. The returned engine handles later filter events.
func (d *Dashboard) Render(s *sinks.RenderSinks, filter models.FilterKey) Result {
	if s == nil {
		s = &sinks.RenderSinks{}
	}
	if d.data.IsDemo() {
		d.logger.Debug("No host data, rendering demo dataset")
	}

	balance := d.data.Balance()
	sinks.SetText(s.Balance, money.Format(balance))
	sinks.SetText(s.SummaryBalance, money.Format(balance))

	txs := d.data.Transactions()
	summary := d.agg.Summarize(txs, balance)
	sinks.SetText(s.SummaryIncome, money.Format(summary.Income))
	sinks.SetText(s.SummaryExpense, money.Format(summary.Expense))

	if s.Upcoming != nil {
		s.Upcoming.Replace(sinks.NewItemViews(d.data.UpcomingPayments()))
	}

	engine := listfilter.NewWithState(listfilter.FilterState{Active: filter}, d.Recent(), s.Transactions, s.Chips)
	engine.Start()

	segments := d.Segments()
	layout := d.donut.Render(s, segments, d.chart)

	d.logger.Debug("Dashboard rendered",
		"transactions", len(txs),
		"segments", len(segments),
		"filter", string(engine.State().Active),
	)

	return Result{
		Summary:  summary,
		Segments: segments,
		Layout:   layout,
		Filter:   engine,
		Demo:     d.data.IsDemo(),
	}
}

// Summary returns the balance panel figures
func (d *Dashboard) Summary() models.Summary {
	return d.agg.Summarize(d.data.Transactions(), d.data.Balance())
}

// Segments returns the donut segments
func (d *Dashboard) Segments() []models.CategorySegment {
	return d.agg.Segments(d.data.CategoryTotals())
}

// Percentages returns the rounded legend percentages
func (d *Dashboard) Percentages() []int {
	return d.agg.Percentages(d.Segments())
}

// Breakdown returns the per-category share of expenses
func (d *Dashboard) Breakdown() []models.CategoryShare {
	return d.agg.Breakdown(d.data.Transactions())
}

// Transactions returns the transactions matching key
func (d *Dashboard) Transactions(key models.FilterKey) []models.Transaction {
	return listfilter.New(d.data.Transactions(), nil, nil).SetFilter(key)
}

// DrawChart renders only the donut onto the given surface
func (d *Dashboard) DrawChart(surface sinks.Surface, pixelRatio float64) donut.Layout {
	opts := d.chart
	if pixelRatio > 0 {
		opts.PixelRatio = pixelRatio
	}
	return d.donut.Render(&sinks.RenderSinks{Chart: surface}, d.Segments(), opts)
}

// Layout computes the chart geometry for a surface of the given size
func (d *Dashboard) Layout(size float64) donut.Layout {
	return d.donut.Plan(size, d.Segments(), d.chart)
}

// IsDemo reports whether the dashboard is showing the built-in dataset
func (d *Dashboard) IsDemo() bool {
	return d.data.IsDemo()
}

// Options returns the chart options in effect
func (d *Dashboard) Options() donut.Options {
	return d.chart
}
