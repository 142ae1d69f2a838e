// Package donut draws the category donut chart and its legend.
//
// Segments stack clockwise from 12 o'clock. Each sweep is proportional to
// the segment's share of the total, so the sweeps add up to a full circle
// whenever the total is positive. A zero total draws the background ring
// only.
package donut

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"walletdash/internal/models"
	"walletdash/internal/money"
	"walletdash/internal/services/aggregator"
	"walletdash/internal/sinks"
)

const (
	// Margin is the gap between the ring's centerline and the surface edge
	Margin = 20.0

	DefaultLineWidth = 28.0
	BackgroundColor  = "#F3F4F6"
	CenterTransform  = "translate(-50%, -50%)"

	// Size and pixel-ratio limits for rendered charts
	MinSize       = 64.0
	MaxSize       = 1024.0
	MaxPixelRatio = 4.0

	startDeg = -90.0
)

// Options controls stroke width and device pixel ratio
type Options struct {
	LineWidth  float64
	PixelRatio float64
}

func (o Options) withDefaults() Options {
	if !Positive(o.LineWidth) {
		o.LineWidth = DefaultLineWidth
	}
	if !Positive(o.PixelRatio) {
		o.PixelRatio = 1
	}
	return o
}

// Positive reports whether v is a usable measure: greater than zero and
// finite. NaN fails.
func Positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// ClampSize limits a logical chart size to [MinSize, MaxSize]
func ClampSize(size float64) float64 {
	return min(max(size, MinSize), MaxSize)
}

// ClampPixelRatio limits a device pixel ratio to [1, MaxPixelRatio]
func ClampPixelRatio(ratio float64) float64 {
	return min(max(ratio, 1), MaxPixelRatio)
}

// Arc is the computed geometry of one segment
type Arc struct {
	Name     string  `json:"name"`
	Color    string  `json:"color"`
	StartDeg float64 `json:"start_deg"`
	SweepDeg float64 `json:"sweep_deg"`
	Percent  int     `json:"percent"`
}

// Layout is the full geometry of a chart render
type Layout struct {
	Size      float64             `json:"size"`
	Center    float64             `json:"center"`
	Radius    float64             `json:"radius"`
	LineWidth float64             `json:"line_width"`
	Total     decimal.Decimal     `json:"total"`
	TotalText string              `json:"total_text"`
	Arcs      []Arc               `json:"arcs"`
	Legend    []models.LegendItem `json:"legend"`
}

// Renderer draws donut charts
type Renderer struct {
	agg *aggregator.Service
}

// New creates a new donut renderer
func New() *Renderer {
	return &Renderer{agg: aggregator.New()}
}

// Plan computes the chart geometry for a square surface of the given
// logical size without drawing anything.
func (r *Renderer) Plan(size float64, segments []models.CategorySegment, opts Options) Layout {
	opts = opts.withDefaults()
	total := r.agg.Total(segments)

	layout := Layout{
		Size:      size,
		Center:    size / 2,
		Radius:    size/2 - Margin,
		LineWidth: opts.LineWidth,
		Total:     total,
		TotalText: money.Format(total),
		Arcs:      []Arc{},
		Legend:    []models.LegendItem{},
	}
	if !total.IsPositive() {
		return layout
	}

	totalF := total.InexactFloat64()
	start := startDeg
	for _, seg := range segments {
		sweep := seg.Value.InexactFloat64() / totalF * 360
		pct := aggregator.RoundPercent(seg.Value, total)
		layout.Arcs = append(layout.Arcs, Arc{
			Name:     seg.Name,
			Color:    seg.Color,
			StartDeg: start,
			SweepDeg: sweep,
			Percent:  pct,
		})
		layout.Legend = append(layout.Legend, models.LegendItem{
			Color: seg.Color,
			Label: fmt.Sprintf("%s • %d%%", seg.Name, pct),
		})
		start += sweep
	}
	return layout
}

// Render draws the chart onto s.Chart and updates the center label,
// center overlay and legend sinks. Without a chart surface nothing is
// rendered and a zero Layout is returned.
func (r *Renderer) Render(s *sinks.RenderSinks, segments []models.CategorySegment, opts Options) Layout {
	if s == nil || s.Chart == nil {
		return Layout{}
	}
	opts = opts.withDefaults()
	surface := s.Chart
	layout := r.Plan(surface.LogicalSize(), segments, opts)

	surface.SetPixelRatio(opts.PixelRatio)

	surface.BeginPath()
	surface.SetLineWidth(layout.LineWidth)
	surface.SetLineCap(sinks.LineCapButt)
	surface.SetStrokeStyle(BackgroundColor)
	surface.Arc(layout.Center, layout.Center, layout.Radius, 0, 2*math.Pi)
	surface.Stroke()

	for _, arc := range layout.Arcs {
		start := radians(arc.StartDeg)
		surface.BeginPath()
		surface.SetLineCap(sinks.LineCapRound)
		surface.SetLineWidth(layout.LineWidth)
		surface.SetStrokeStyle(arc.Color)
		surface.Arc(layout.Center, layout.Center, layout.Radius, start, start+radians(arc.SweepDeg))
		surface.Stroke()
	}

	if s.ChartCenter != nil {
		s.ChartCenter.Position(layout.Center, layout.Center, CenterTransform)
	}
	sinks.SetText(s.ChartCenterValue, layout.TotalText)
	if s.Legend != nil {
		s.Legend.Replace(layout.Legend)
	}
	return layout
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
