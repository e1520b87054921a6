package layout

import (
	"math"

	"github.com/molpic/molpic/pkg/chem"
	"github.com/molpic/molpic/pkg/errors"
)

const (
	// paddingFrac is the fraction of the shorter canvas side kept clear
	// around the structure.
	paddingFrac = 0.06

	// fontBondRatio derives the atom label font size from the average bond
	// length: labels must fit between bonded atoms.
	fontBondRatio = 1.8

	// fontCapFrac caps the font size relative to the shorter canvas side so
	// tiny molecules don't get billboard lettering.
	fontCapFrac = 1.0 / 16.0

	// legendBand is the vertical space reserved under the structure for the
	// legend text, when one is present.
	legendBand = 30.0
)

// Style holds the rendering options exposed to callers.
type Style struct {
	// HideHydrogens strips explicit hydrogen atoms (and their bonds)
	// before layout. Heavy-atom connectivity is unaffected.
	HideHydrogens bool

	// Transparent leaves the background unfilled instead of white.
	Transparent bool
}

// BondLine is one bond scaled to canvas coordinates. Order 2 and 3 are
// drawn by the sinks as parallel offset lines.
type BondLine struct {
	X1, Y1, X2, Y2 float64
	Order          int
}

// AtomLabel is an element symbol placed at canvas coordinates. Carbons in
// chains and rings are drawn implicitly (no label), matching standard
// skeletal depiction.
type AtomLabel struct {
	X, Y float64
	Text string
}

// Drawing is a molecule laid out on a fixed canvas: deterministic geometry
// ready for any sink. Identical molecule, style and canvas always produce
// an identical Drawing.
type Drawing struct {
	Width, Height float64 // Canvas size including the legend band
	FontSize      float64
	Transparent   bool
	Bonds         []BondLine
	Labels        []AtomLabel
	Legend        string  // Text centered beneath the structure ("" for none)
	LegendY       float64 // Baseline for the legend text
}

// FromMolecule lays out a molecule on a w×h canvas.
//
// The scale is min((w-pad)/rangeX, (h-pad)/rangeY) so the structure fits
// without distortion; the structure is centered in the remaining space.
// SDF y grows upward, canvas y grows downward, so y is flipped. Fails with
// EMPTY_STRUCTURE if no atoms remain after hydrogen removal.
func FromMolecule(mol *chem.Molecule, style Style, legend string, w, h float64) (Drawing, error) {
	if style.HideHydrogens {
		mol = mol.RemoveHydrogens()
	}
	if mol.Len() == 0 {
		return Drawing{}, errors.New(errors.ErrCodeEmptyStructure, "no atoms to draw")
	}

	band := 0.0
	if legend != "" {
		band = legendBand
	}

	pad := paddingFrac * math.Min(w, h)
	boxW := w - 2*pad
	boxH := h - 2*pad - band

	minX, minY, maxX, maxY := mol.Bounds()
	rx, ry := maxX-minX, maxY-minY

	// Single atoms and linear molecules have a zero extent on one or both
	// axes; scale against the other axis, or fall back to unit scale.
	scale := math.Inf(1)
	if rx > 0 {
		scale = boxW / rx
	}
	if ry > 0 {
		scale = math.Min(scale, boxH/ry)
	}
	if math.IsInf(scale, 1) {
		scale = 1
	}

	fontSize := math.Min(w, h) * fontCapFrac
	if avg := mol.AverageBondLength(); avg > 0 {
		fontSize = math.Min(avg/fontBondRatio*scale, fontSize)
	}

	// Center the structure in the box above the legend band.
	offX := pad + (boxW-rx*scale)/2
	offY := pad + (boxH-ry*scale)/2
	tx := func(x float64) float64 { return offX + (x-minX)*scale }
	ty := func(y float64) float64 { return offY + (maxY-y)*scale }

	d := Drawing{
		Width:       w,
		Height:      h,
		FontSize:    fontSize,
		Transparent: style.Transparent,
		Legend:      legend,
		LegendY:     h - band/2,
	}

	for _, b := range mol.Bonds {
		from, to := mol.Atoms[b.From], mol.Atoms[b.To]
		d.Bonds = append(d.Bonds, BondLine{
			X1: tx(from.X), Y1: ty(from.Y),
			X2: tx(to.X), Y2: ty(to.Y),
			Order: b.Order,
		})
	}

	for _, a := range mol.Atoms {
		if a.Element == "C" && mol.Len() > 1 {
			continue
		}
		d.Labels = append(d.Labels, AtomLabel{X: tx(a.X), Y: ty(a.Y), Text: a.Element})
	}

	return d, nil
}
