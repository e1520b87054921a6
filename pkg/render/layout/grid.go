package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/molpic/molpic/pkg/errors"
)

// Ordering selects the panel order within a grid figure.
type Ordering string

const (
	// OrderByInput keeps panels in the order they were supplied.
	OrderByInput Ordering = "input"

	// OrderByName sorts panels by their legend, case-insensitively.
	// The sort is stable: duplicate legends keep their input order.
	OrderByName Ordering = "name"
)

// ValidOrderings is the set of supported ordering policies.
var ValidOrderings = map[Ordering]bool{
	OrderByInput: true,
	OrderByName:  true,
}

// GridSpec describes a multi-panel figure: shape, optional title and
// caption text, and the panel ordering policy.
type GridSpec struct {
	Rows, Cols int
	Title      string
	Caption    string
	OrderBy    Ordering // Zero value means OrderByInput
}

// Capacity returns the number of cells in the grid.
func (s GridSpec) Capacity() int { return s.Rows * s.Cols }

// Validate checks the spec against the number of panels to place.
// It runs before any resolution or rendering work so an undersized grid
// fails immediately.
func (s GridSpec) Validate(panels int) error {
	if s.Rows <= 0 || s.Cols <= 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "grid must have positive rows and cols, got %dx%d", s.Rows, s.Cols)
	}
	if s.OrderBy != "" && !ValidOrderings[s.OrderBy] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid ordering %q (must be input or name)", s.OrderBy)
	}
	if s.Capacity() < panels {
		return errors.New(errors.ErrCodeGridTooSmall, "grid %dx%d has %d cells, %d panels requested",
			s.Rows, s.Cols, s.Capacity(), panels)
	}
	return nil
}

// ParseShape parses a grid shape string like "2x3" into rows and cols.
// The separator is case-insensitive and surrounding spaces are ignored.
func ParseShape(s string) (rows, cols int, err error) {
	normalized := strings.ToLower(strings.ReplaceAll(s, " ", ""))
	a, b, found := strings.Cut(normalized, "x")
	if !found {
		return 0, 0, errors.New(errors.ErrCodeInvalidGrid, "grid must look like 2x3, got %q", s)
	}
	rows, err = strconv.Atoi(a)
	if err == nil {
		cols, err = strconv.Atoi(b)
	}
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeInvalidGrid, "grid must look like 2x3, got %q", s)
	}
	if rows <= 0 || cols <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidGrid, "grid rows/cols must be positive, got %q", s)
	}
	return rows, cols, nil
}

// Shape formats the spec's dimensions as "RxC".
func (s GridSpec) Shape() string { return fmt.Sprintf("%dx%d", s.Rows, s.Cols) }

const (
	// gridGutter is the spacing between cells and around the grid edge.
	gridGutter = 12.0

	// titleBand is the vertical space reserved for a grid title.
	titleBand = 56.0

	// titleFontSize is the title text size.
	titleFontSize = 28.0
)

// PlacedPanel is one drawing positioned at its cell origin.
type PlacedPanel struct {
	X, Y    float64
	Drawing Drawing
}

// GridLayout is the fully computed composite figure: canvas size, title
// placement, and each panel's cell origin. It contains only plain values,
// so two calls to [Compose] with equal inputs produce identical layouts.
type GridLayout struct {
	Spec          GridSpec
	Width, Height float64
	CellWidth     float64 // Uniform cell size: max panel dimensions
	CellHeight    float64
	TitleY        float64 // Title baseline (meaningful only when Spec.Title != "")
	TitleFontSize float64
	Transparent   bool
	Panels        []PlacedPanel
}

// Compose arranges drawings into a grid figure.
//
// Validation happens first: an undersized grid fails with GRID_TOO_SMALL
// before any placement work. The ordering policy is applied (stable sort
// on lowercased legend for name ordering), cells are sized uniformly to
// the largest panel to avoid distortion, and panels fill the grid
// left-to-right, top-to-bottom. Trailing cells stay blank.
func Compose(drawings []Drawing, spec GridSpec) (GridLayout, error) {
	if err := spec.Validate(len(drawings)); err != nil {
		return GridLayout{}, err
	}
	if len(drawings) == 0 {
		return GridLayout{}, errors.New(errors.ErrCodeInvalidInput, "no panels to compose")
	}

	ordered := make([]Drawing, len(drawings))
	copy(ordered, drawings)
	if spec.OrderBy == OrderByName {
		sort.SliceStable(ordered, func(i, j int) bool {
			return strings.ToLower(ordered[i].Legend) < strings.ToLower(ordered[j].Legend)
		})
	}

	var cellW, cellH float64
	transparent := true
	for _, d := range ordered {
		cellW = max(cellW, d.Width)
		cellH = max(cellH, d.Height)
		transparent = transparent && d.Transparent
	}

	band := 0.0
	if spec.Title != "" {
		band = titleBand
	}

	g := GridLayout{
		Spec:          spec,
		CellWidth:     cellW,
		CellHeight:    cellH,
		Width:         float64(spec.Cols)*(cellW+gridGutter) + gridGutter,
		Height:        float64(spec.Rows)*(cellH+gridGutter) + gridGutter + band,
		TitleY:        gridGutter + titleBand*0.6,
		TitleFontSize: titleFontSize,
		Transparent:   transparent,
	}

	for i, d := range ordered {
		row, col := i/spec.Cols, i%spec.Cols
		g.Panels = append(g.Panels, PlacedPanel{
			X:       gridGutter + float64(col)*(cellW+gridGutter),
			Y:       band + gridGutter + float64(row)*(cellH+gridGutter),
			Drawing: d,
		})
	}

	return g, nil
}

// Legends returns the panel legends in placed order. Used for caption
// files and failure summaries.
func (g GridLayout) Legends() []string {
	out := make([]string, len(g.Panels))
	for i, p := range g.Panels {
		out[i] = p.Drawing.Legend
	}
	return out
}
