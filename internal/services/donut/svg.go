package donut

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"walletdash/internal/sinks"
)

// SVGSurface records canvas-style drawing calls as SVG elements.
// Output is vector, so the pixel ratio is only remembered, never applied.
type SVGSurface struct {
	size      float64
	ratio     float64
	lineWidth float64
	lineCap   sinks.LineCap
	stroke    string
	path      strings.Builder
	circles   []string
	body      bytes.Buffer
}

// NewSVGSurface creates a square SVG surface of the given logical size
func NewSVGSurface(size float64) *SVGSurface {
	return &SVGSurface{size: size, ratio: 1, lineWidth: 1, stroke: "#000000"}
}

func (s *SVGSurface) LogicalSize() float64 { return s.size }

// PixelRatio returns the ratio requested by the last render pass
func (s *SVGSurface) PixelRatio() float64 { return s.ratio }

func (s *SVGSurface) SetPixelRatio(ratio float64) {
	if !Positive(ratio) {
		ratio = 1
	}
	s.ratio = ratio
}

func (s *SVGSurface) BeginPath() {
	s.path.Reset()
	s.circles = s.circles[:0]
}

func (s *SVGSurface) Arc(cx, cy, radius, startAngle, endAngle float64) {
	sweep := endAngle - startAngle
	if sweep <= 0 {
		return
	}
	if sweep >= 2*math.Pi-1e-9 {
		s.circles = append(s.circles, fmt.Sprintf(`cx="%s" cy="%s" r="%s"`, num(cx), num(cy), num(radius)))
		return
	}
	x0 := cx + radius*math.Cos(startAngle)
	y0 := cy + radius*math.Sin(startAngle)
	x1 := cx + radius*math.Cos(endAngle)
	y1 := cy + radius*math.Sin(endAngle)
	largeArc := 0
	if sweep > math.Pi {
		largeArc = 1
	}
	if s.path.Len() > 0 {
		s.path.WriteByte(' ')
	}
	fmt.Fprintf(&s.path, "M %s %s A %s %s 0 %d 1 %s %s",
		num(x0), num(y0), num(radius), num(radius), largeArc, num(x1), num(y1))
}

func (s *SVGSurface) SetLineWidth(width float64) { s.lineWidth = width }

func (s *SVGSurface) SetLineCap(lineCap sinks.LineCap) { s.lineCap = lineCap }

func (s *SVGSurface) SetStrokeStyle(color string) { s.stroke = color }

func (s *SVGSurface) Stroke() {
	attrs := fmt.Sprintf(`fill="none" stroke="%s" stroke-width="%s" stroke-linecap="%s"`,
		html.EscapeString(s.stroke), num(s.lineWidth), capName(s.lineCap))
	for _, c := range s.circles {
		fmt.Fprintf(&s.body, `<circle %s %s/>`, c, attrs)
	}
	if s.path.Len() > 0 {
		fmt.Fprintf(&s.body, `<path d="%s" %s/>`, s.path.String(), attrs)
	}
	s.BeginPath()
}

// Bytes returns the complete SVG document
func (s *SVGSurface) Bytes() []byte {
	var buf bytes.Buffer
	size := num(s.size)
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		size, size, size, size)
	buf.Write(s.body.Bytes())
	buf.WriteString(`</svg>`)
	return buf.Bytes()
}

// String returns the complete SVG document
func (s *SVGSurface) String() string {
	return string(s.Bytes())
}

func capName(c sinks.LineCap) string {
	if c == sinks.LineCapRound {
		return "round"
	}
	return "butt"
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
