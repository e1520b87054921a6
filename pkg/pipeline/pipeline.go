// Package pipeline provides the core resolve → layout → encode pipeline
// for molpic.
//
// This package implements the complete flow shared by the CLI commands and
// the HTTP server. By centralizing this logic, every entry point gets the
// same resolution policy, failure accounting, and output encoding.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Resolve: Map names/SMILES to structures with 2D coordinates
//  2. Layout: Compute deterministic drawing geometry (single or grid)
//  3. Encode: Produce PNG or SVG bytes
//
// In single mode a failure at any stage aborts the run. In grid and batch
// modes each request is processed independently: failures are recorded in
// the result and the run succeeds as long as at least one panel renders.
//
// # Usage
//
//	runner := pipeline.NewRunner(resolve.New(), logger)
//	opts := pipeline.Options{
//	    Format: render.FormatSVG,
//	    Grid:   &layout.GridSpec{Rows: 2, Cols: 3, Title: "Analgesics"},
//	}
//	result, err := runner.Execute(ctx, requests, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("panel.svg", result.Image, 0o644)
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/render"
	"github.com/molpic/molpic/pkg/render/layout"
	"github.com/molpic/molpic/pkg/resolve"
)

// Default values shared by CLI, server, and batch entry points.
const (
	// DefaultWidth is the default single-image width in pixels.
	DefaultWidth = 900.0

	// DefaultHeight is the default single-image height in pixels.
	DefaultHeight = 700.0

	// DefaultPanelWidth is the default per-cell width in grid figures.
	DefaultPanelWidth = 550.0

	// DefaultPanelHeight is the default per-cell height in grid figures.
	DefaultPanelHeight = 450.0
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = render.FormatSVG

// Request is one compound to process: a name or SMILES plus an optional
// display label.
type Request = resolve.Request

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Width and Height size the canvas: the full image in single mode,
	// each cell in grid mode.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Format selects the output encoding (png or svg).
	Format render.Format `json:"format,omitempty"`

	// HideHydrogens strips explicit hydrogens before layout.
	HideHydrogens bool `json:"no_h,omitempty"`

	// Transparent leaves the background unfilled instead of white.
	Transparent bool `json:"transparent,omitempty"`

	// Grid selects grid mode when non-nil; nil means single mode.
	Grid *layout.GridSpec `json:"grid,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent: calling it twice has the effect of calling it
// once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
		if o.Grid != nil {
			o.Width = DefaultPanelWidth
		}
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
		if o.Grid != nil {
			o.Height = DefaultPanelHeight
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "image dimensions must be positive, got %gx%g", o.Width, o.Height)
	}
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if !render.ValidFormats[o.Format] {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be png or svg)", o.Format)
	}
	if o.Grid != nil {
		if o.Grid.Rows <= 0 || o.Grid.Cols <= 0 {
			return errors.New(errors.ErrCodeInvalidGrid, "grid must have positive rows and cols, got %s", o.Grid.Shape())
		}
		if o.Grid.OrderBy != "" && !layout.ValidOrderings[o.Grid.OrderBy] {
			return errors.New(errors.ErrCodeInvalidInput, "invalid ordering %q (must be input or name)", o.Grid.OrderBy)
		}
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	o.validated = true
	return nil
}

// style converts the option flags into a layout style.
func (o *Options) style() layout.Style {
	return layout.Style{HideHydrogens: o.HideHydrogens, Transparent: o.Transparent}
}

// Failure records one request that could not be resolved or rendered.
type Failure struct {
	Query   string      `json:"query"`
	Label   string      `json:"label"`
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Image holds the encoded output.
	Image []byte

	// Structures are the successfully resolved compounds, in input order.
	Structures []*resolve.Structure

	// Legends are the panel labels in placed order (after the ordering
	// policy). Used for caption files and summaries.
	Legends []string

	// Failures records requests excluded from the output.
	Failures []Failure

	// Stats contains timing and count information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Requested   int
	Rendered    int
	Failed      int
	ResolveTime time.Duration
	RenderTime  time.Duration
}

// Caption formats the caption text written alongside a grid figure:
// the title line (when present) followed by the numbered compound list.
func Caption(title string, legends []string) string {
	items := make([]string, len(legends))
	for i, l := range legends {
		items[i] = fmt.Sprintf("%d) %s", i+1, l)
	}
	list := "Compounds: " + strings.Join(items, "; ") + "\n"
	if t := strings.TrimSpace(title); t != "" {
		return t + "\n" + list
	}
	return list
}
