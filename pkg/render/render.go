// Package render turns resolved molecules into image files.
//
// # Overview
//
// Rendering is split into two stages:
//
//   - [layout]: pure geometry — scale, center, and place bonds, labels,
//     legends, and grid cells deterministically
//   - [sink]: format encoders for the computed layout (PNG via
//     fogleman/gg, SVG via ajstarks/svgo)
//
// This package is the thin entry point over both stages: pick a format
// (usually from the output path with [FormatFromPath]) and encode a
// single structure or a composed grid.
//
//	d, err := layout.FromMolecule(mol, style, "Aspirin", 900, 700)
//	err = render.Single(w, d, render.FormatPNG)
//
// [layout]: github.com/molpic/molpic/pkg/render/layout
// [sink]: github.com/molpic/molpic/pkg/render/sink
package render

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/render/layout"
	"github.com/molpic/molpic/pkg/render/sink"
)

// Format identifies an output image format.
type Format string

// Supported output formats.
const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[Format]bool{
	FormatPNG: true,
	FormatSVG: true,
}

// ParseFormat validates a format name (case-insensitive).
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (must be png or svg)", s)
	}
	return f, nil
}

// FormatFromPath derives the output format from a file extension.
// Fails with INVALID_FORMAT for missing or unknown extensions.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "output path %q has no extension", path)
	}
	f := Format(ext)
	if !ValidFormats[f] {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported output extension %q (must be .png or .svg)", filepath.Ext(path))
	}
	return f, nil
}

// Single encodes one drawing in the given format.
func Single(w io.Writer, d layout.Drawing, f Format) error {
	switch f {
	case FormatSVG:
		return sink.SVG(w, d)
	case FormatPNG:
		return sink.PNG(w, d)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}

// Grid encodes a composed grid figure in the given format.
func Grid(w io.Writer, g layout.GridLayout, f Format) error {
	switch f {
	case FormatSVG:
		return sink.SVGGrid(w, g)
	case FormatPNG:
		return sink.PNGGrid(w, g)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", f)
	}
}
