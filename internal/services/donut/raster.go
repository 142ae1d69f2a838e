package donut

import (
	"image"
	"io"
	"math"

	"github.com/fogleman/gg"

	"walletdash/internal/sinks"
)

// RasterSurface draws onto an RGBA image with gg.
// The backing store is size*ratio pixels square and the context is scaled
// by the ratio, so callers keep drawing in logical units.
type RasterSurface struct {
	size      float64
	ratio     float64
	lineWidth float64
	dc        *gg.Context
}

// NewRasterSurface creates a raster surface with the given logical size
func NewRasterSurface(size int) *RasterSurface {
	return &RasterSurface{
		size:      float64(size),
		ratio:     1,
		lineWidth: 1,
		dc:        gg.NewContext(size, size),
	}
}

func (s *RasterSurface) LogicalSize() float64 { return s.size }

func (s *RasterSurface) SetPixelRatio(ratio float64) {
	if !Positive(ratio) {
		ratio = 1
	}
	px := int(math.Round(s.size * ratio))
	s.dc = gg.NewContext(px, px)
	s.dc.Scale(ratio, ratio)
	s.ratio = ratio
	s.SetLineWidth(s.lineWidth)
}

func (s *RasterSurface) BeginPath() { s.dc.ClearPath() }

func (s *RasterSurface) Arc(cx, cy, radius, startAngle, endAngle float64) {
	if endAngle <= startAngle {
		return
	}
	s.dc.DrawArc(cx, cy, radius, startAngle, endAngle)
}

// SetLineWidth takes logical units. gg applies the transform to path
// points but not to the stroke width, so the width is scaled here.
func (s *RasterSurface) SetLineWidth(width float64) {
	s.lineWidth = width
	s.dc.SetLineWidth(width * s.ratio)
}

func (s *RasterSurface) SetLineCap(lineCap sinks.LineCap) {
	if lineCap == sinks.LineCapRound {
		s.dc.SetLineCap(gg.LineCapRound)
		return
	}
	s.dc.SetLineCap(gg.LineCapButt)
}

// SetStrokeStyle accepts hex colours (#rgb, #rrggbb, #rrggbbaa)
func (s *RasterSurface) SetStrokeStyle(color string) { s.dc.SetHexColor(color) }

func (s *RasterSurface) Stroke() { s.dc.Stroke() }

// Image returns the backing image
func (s *RasterSurface) Image() image.Image { return s.dc.Image() }

// EncodePNG writes the backing image as PNG
func (s *RasterSurface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }
