package sink

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo/float"

	"github.com/molpic/molpic/pkg/render/layout"
)

// SVG encodes a single drawing as an SVG document.
func SVG(w io.Writer, d layout.Drawing) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(d.Width, d.Height)
	if !d.Transparent {
		canvas.Rect(0, 0, d.Width, d.Height, "fill:white")
	}
	drawPanelSVG(canvas, d, 0, 0)
	canvas.End()
	return ew.err
}

// SVGGrid encodes a composed grid figure as an SVG document.
func SVGGrid(w io.Writer, g layout.GridLayout) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(g.Width, g.Height)
	if !g.Transparent {
		canvas.Rect(0, 0, g.Width, g.Height, "fill:white")
	}
	if g.Spec.Title != "" {
		canvas.Text(g.Width/2, g.TitleY, g.Spec.Title, textStyle(g.TitleFontSize))
	}
	for _, p := range g.Panels {
		drawPanelSVG(canvas, p.Drawing, p.X, p.Y)
	}
	canvas.End()
	return ew.err
}

func drawPanelSVG(canvas *svg.SVG, d layout.Drawing, ox, oy float64) {
	stroke := fmt.Sprintf("stroke:black;stroke-width:%.2f;stroke-linecap:round", math.Max(d.FontSize/12, 1))

	for _, b := range d.Bonds {
		drawBondSVG(canvas, b, ox, oy, d.FontSize/6, stroke)
	}

	labelStyle := textStyle(d.FontSize)
	if !d.Transparent {
		// White outline behind the glyphs stands in for the raster halo.
		labelStyle += fmt.Sprintf(";paint-order:stroke;stroke:white;stroke-width:%.2f", d.FontSize/3)
	}
	for _, l := range d.Labels {
		canvas.Text(ox+l.X, oy+l.Y, l.Text, labelStyle)
	}

	if d.Legend != "" {
		canvas.Text(ox+d.Width/2, oy+d.LegendY, d.Legend, textStyle(legendFontSize))
	}
}

func drawBondSVG(canvas *svg.SVG, b layout.BondLine, ox, oy, delta float64, style string) {
	x1, y1 := ox+b.X1, oy+b.Y1
	x2, y2 := ox+b.X2, oy+b.Y2

	rad := math.Atan2(y2-y1, x2-x1)
	dx := math.Sin(rad) * delta
	dy := -math.Cos(rad) * delta

	switch b.Order {
	case 2:
		canvas.Line(x1+dx/2, y1+dy/2, x2+dx/2, y2+dy/2, style)
		canvas.Line(x1-dx/2, y1-dy/2, x2-dx/2, y2-dy/2, style)
	case 3:
		canvas.Line(x1, y1, x2, y2, style)
		canvas.Line(x1+dx, y1+dy, x2+dx, y2+dy, style)
		canvas.Line(x1-dx, y1-dy, x2-dx, y2-dy, style)
	default:
		canvas.Line(x1, y1, x2, y2, style)
	}
}

func textStyle(size float64) string {
	return fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-size:%.1fpx;font-family:%s;fill:black", size, svgFontFamily)
}

// errWriter records the first write failure so svgo's unchecked writes
// still surface I/O errors.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	if err != nil {
		ew.err = err
	}
	return n, err
}
