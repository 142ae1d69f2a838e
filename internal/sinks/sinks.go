// Package sinks defines the render targets the dashboard core writes into.
//
// Every field of RenderSinks is optional. A nil sink means the target is
// absent from the page and the corresponding render step is skipped.
package sinks

import (
	"walletdash/internal/models"
	"walletdash/internal/money"
)

// TextSink receives a text value (balance, summary figures, center label)
type TextSink interface {
	SetText(text string)
}

// ListSink is fully replaced on every render pass
type ListSink interface {
	Replace(items []models.ItemView)
}

// LegendSink is fully replaced on every chart render
type LegendSink interface {
	Replace(items []models.LegendItem)
}

// OverlaySink positions an element on top of the chart
type OverlaySink interface {
	Position(x, y float64, transform string)
}

// ChipSink exposes the filter controls, each tagged with a filter key
type ChipSink interface {
	Keys() []models.FilterKey
	SetActive(key models.FilterKey, active bool)
}

// LineCap mirrors the canvas line cap styles
type LineCap int

const (
	LineCapButt LineCap = iota
	LineCapRound
)

// Surface is a square 2D drawing target with a canvas-like path API.
// Coordinates are logical units; angles are radians, clockwise, 0 at 3 o'clock.
type Surface interface {
	LogicalSize() float64
	SetPixelRatio(ratio float64)
	BeginPath()
	Arc(cx, cy, radius, startAngle, endAngle float64)
	SetLineWidth(width float64)
	SetLineCap(lineCap LineCap)
	SetStrokeStyle(color string)
	Stroke()
}

// RenderSinks is the registry of render targets for one dashboard view
type RenderSinks struct {
	Balance          TextSink
	SummaryBalance   TextSink
	SummaryIncome    TextSink
	SummaryExpense   TextSink
	Transactions     ListSink
	Upcoming         ListSink
	Chart            Surface
	ChartCenter      OverlaySink
	ChartCenterValue TextSink
	Legend           LegendSink
	Chips            ChipSink
}

// NewItemView builds a row/card view of a transaction. List rows and
// upcoming cards share this formatting.
func NewItemView(t models.Transaction) models.ItemView {
	text, class := money.Signed(t.Amount)
	return models.ItemView{
		Icon:        t.Icon,
		Title:       t.Title,
		Subtitle:    t.Subtitle,
		AmountText:  text,
		AmountClass: class,
	}
}

// NewItemViews maps transactions to views in order
func NewItemViews(txs []models.Transaction) []models.ItemView {
	views := make([]models.ItemView, 0, len(txs))
	for _, t := range txs {
		views = append(views, NewItemView(t))
	}
	return views
}

// SetText writes to a text sink if it is present
func SetText(s TextSink, text string) {
	if s != nil {
		s.SetText(text)
	}
}
