package sink

import (
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/molpic/molpic/pkg/render/layout"
)

// legendFontSize is the size of legend text under a structure.
const legendFontSize = 16.0

// PNG encodes a single drawing as a PNG image.
func PNG(w io.Writer, d layout.Drawing) error {
	dc := gg.NewContext(int(d.Width), int(d.Height))
	if !d.Transparent {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	}
	drawPanel(dc, d, 0, 0)
	return dc.EncodePNG(w)
}

// PNGGrid encodes a composed grid figure as a PNG image.
func PNGGrid(w io.Writer, g layout.GridLayout) error {
	dc := gg.NewContext(int(g.Width), int(g.Height))
	if !g.Transparent {
		dc.SetRGB(1, 1, 1)
		dc.Clear()
	}
	if g.Spec.Title != "" {
		setFace(dc, g.TitleFontSize)
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(g.Spec.Title, g.Width/2, g.TitleY, 0.5, 0.5)
	}
	for _, p := range g.Panels {
		drawPanel(dc, p.Drawing, p.X, p.Y)
	}
	return dc.EncodePNG(w)
}

// drawPanel draws one structure with its cell origin at (ox, oy).
// Bonds are stroked first so label halos can cover the line ends.
func drawPanel(dc *gg.Context, d layout.Drawing, ox, oy float64) {
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(math.Max(d.FontSize/12, 1))

	for _, b := range d.Bonds {
		drawBond(dc, b, ox, oy, d.FontSize/6)
	}
	dc.Stroke()

	setFace(dc, d.FontSize)
	for _, l := range d.Labels {
		// Opaque halo so labels read over bond lines. Skipped on
		// transparent backgrounds where a white disc would show.
		if !d.Transparent {
			dc.SetRGB(1, 1, 1)
			dc.DrawCircle(ox+l.X, oy+l.Y, d.FontSize*0.65)
			dc.Fill()
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(l.Text, ox+l.X, oy+l.Y, 0.5, 0.5)
	}

	if d.Legend != "" {
		setFace(dc, legendFontSize)
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(d.Legend, ox+d.Width/2, oy+d.LegendY, 0.5, 0.5)
	}
}

// drawBond strokes one bond. Double and triple bonds are parallel lines
// offset perpendicular to the bond axis by delta.
func drawBond(dc *gg.Context, b layout.BondLine, ox, oy, delta float64) {
	x1, y1 := ox+b.X1, oy+b.Y1
	x2, y2 := ox+b.X2, oy+b.Y2

	rad := math.Atan2(y2-y1, x2-x1)
	dx := math.Sin(rad) * delta
	dy := -math.Cos(rad) * delta

	switch b.Order {
	case 2:
		dc.DrawLine(x1+dx/2, y1+dy/2, x2+dx/2, y2+dy/2)
		dc.DrawLine(x1-dx/2, y1-dy/2, x2-dx/2, y2-dy/2)
	case 3:
		dc.DrawLine(x1, y1, x2, y2)
		dc.DrawLine(x1+dx, y1+dy, x2+dx, y2+dy)
		dc.DrawLine(x1-dx, y1-dy, x2-dx, y2-dy)
	default:
		dc.DrawLine(x1, y1, x2, y2)
	}
}

// setFace installs a sized system font face, keeping gg's built-in face
// when none is available.
func setFace(dc *gg.Context, size float64) {
	if face := fontFace(size); face != nil {
		dc.SetFontFace(face)
	}
}
