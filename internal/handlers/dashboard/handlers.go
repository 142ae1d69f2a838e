// Package dashboard serves the dashboard page, its partials, chart images
// and JSON endpoints.
package dashboard

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"

	"walletdash/internal/config"
	apphttp "walletdash/internal/http"
	"walletdash/internal/log"
	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/donut"
	"walletdash/internal/services/view"
	"walletdash/internal/sinks"
	"walletdash/internal/templates"
	"walletdash/internal/version"
)

var (
	dash     *view.Dashboard
	renderer *templates.Renderer
	chart    config.ChartConfig
	logger   *log.Logger
)

// Initialize sets up the dashboard package with required dependencies
func Initialize(d *view.Dashboard, r *templates.Renderer, c config.ChartConfig, l *log.Logger) {
	dash = d
	renderer = r
	chart = c
	if l == nil {
		l = log.Discard()
	}
	logger = l.WithComponent("dashboard")
}

// RegisterRoutes registers all dashboard routes
func RegisterRoutes(r chi.Router) {
	r.Get("/dashboard", handleDashboard)
	r.Get("/dashboard/transactions", handleTransactionsPartial)
	r.Get("/dashboard/chart.svg", handleChartSVG)
	r.Get("/dashboard/chart.png", handleChartPNG)
	r.Get("/dashboard/chart.json", handleChartLayout)
	r.Get("/api/summary", handleSummary)
	r.Get("/api/dashboard/by-category", handleByCategory)
	r.Get("/transactions/new", handleNewTransaction)
}

// pageSinks collects everything one dashboard render writes
type pageSinks struct {
	balance, summaryBalance, income, expense, centerValue sinks.Text
	transactions, upcoming                                sinks.List
	legend                                                sinks.Legend
	center                                                sinks.Overlay
	chips                                                 *sinks.Chips
	chart                                                 *donut.SVGSurface
}

func newPageSinks(size float64) *pageSinks {
	return &pageSinks{
		chips: sinks.NewChips(models.FilterKeys...),
		chart: donut.NewSVGSurface(size),
	}
}

func (p *pageSinks) registry() *sinks.RenderSinks {
	return &sinks.RenderSinks{
		Balance:          &p.balance,
		SummaryBalance:   &p.summaryBalance,
		SummaryIncome:    &p.income,
		SummaryExpense:   &p.expense,
		Transactions:     &p.transactions,
		Upcoming:         &p.upcoming,
		Chart:            p.chart,
		ChartCenter:      &p.center,
		ChartCenterValue: &p.centerValue,
		Legend:           &p.legend,
		Chips:            p.chips,
	}
}

func handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter := models.ParseFilterKey(r.URL.Query().Get("filter"))

	page := newPageSinks(chart.Size)
	result := dash.Render(page.registry(), filter)

	pageData := map[string]any{
		"Title":          "Dashboard",
		"Version":        version.Version,
		"Demo":           result.Demo,
		"Filter":         string(filter),
		"Balance":        page.balance.Value,
		"SummaryBalance": page.summaryBalance.Value,
		"Income":         page.income.Value,
		"Expense":        page.expense.Value,
		"Transactions":   page.transactions.Items,
		"Upcoming":       page.upcoming.Items,
		"Chips":          page.chips.Items,
		"ChartSize":      chart.Size,
		"ChartSVG":       page.chart.String(),
		"Center": map[string]any{
			"X":         page.center.X,
			"Y":         page.center.Y,
			"Transform": template.CSS(page.center.Transform),
			"Value":     page.centerValue.Value,
		},
		"Legend": page.legend.Items,
	}

	apphttp.RenderTemplate(w, renderer, "dashboard.html", pageData)
}

func handleTransactionsPartial(w http.ResponseWriter, r *http.Request) {
	filter := models.ParseFilterKey(r.URL.Query().Get("filter"))

	var list sinks.List
	dash.Render(&sinks.RenderSinks{Transactions: &list}, filter)

	apphttp.RenderPartial(w, renderer, "transactions-list", list.Items)
}

func chartSize(r *http.Request) float64 {
	return apphttp.QueryFloat(r, "size", chart.Size, donut.MinSize, donut.MaxSize)
}

func handleChartSVG(w http.ResponseWriter, r *http.Request) {
	surface := donut.NewSVGSurface(chartSize(r))
	dash.DrawChart(surface, 1)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(surface.Bytes())
}

func handleChartPNG(w http.ResponseWriter, r *http.Request) {
	ratio := apphttp.QueryFloat(r, "dpr", chart.PixelRatio, 1, donut.MaxPixelRatio)
	surface := donut.NewRasterSurface(int(chartSize(r)))
	dash.DrawChart(surface, ratio)

	var buf bytes.Buffer
	if err := surface.EncodePNG(&buf); err != nil {
		apphttp.ErrorResponse(w, logger, "failed to encode chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	buf.WriteTo(w)
}

func handleChartLayout(w http.ResponseWriter, r *http.Request) {
	apphttp.JSON(w, logger, dash.Layout(chartSize(r)))
}

// summaryResponse is the /api/summary payload
type summaryResponse struct {
	Summary     models.Summary           `json:"summary"`
	Formatted   formattedSummary         `json:"formatted"`
	Segments    []models.CategorySegment `json:"segments"`
	Percentages []int                    `json:"percentages"`
	Demo        bool                     `json:"demo"`
}

type formattedSummary struct {
	Balance string `json:"balance"`
	Income  string `json:"income"`
	Expense string `json:"expense"`
}

func handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := dash.Summary()
	apphttp.JSON(w, logger, summaryResponse{
		Summary: summary,
		Formatted: formattedSummary{
			Balance: money.Format(summary.Balance),
			Income:  money.Format(summary.Income),
			Expense: money.Format(summary.Expense),
		},
		Segments:    dash.Segments(),
		Percentages: dash.Percentages(),
		Demo:        dash.IsDemo(),
	})
}

func handleByCategory(w http.ResponseWriter, r *http.Request) {
	breakdown := dash.Breakdown()
	if breakdown == nil {
		breakdown = []models.CategoryShare{}
	}
	apphttp.JSON(w, logger, breakdown)
}

func handleNewTransaction(w http.ResponseWriter, r *http.Request) {
	apphttp.RenderTemplate(w, renderer, "new_transaction.html", map[string]any{
		"Title":   "Add new transaction",
		"Version": version.Version,
	})
}
