package render

import (
	"bytes"
	"testing"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/render/layout"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"out.png", FormatPNG, false},
		{"out.svg", FormatSVG, false},
		{"figures/Grid.SVG", FormatSVG, false},
		{"out.PNG", FormatPNG, false},
		{"out", "", true},
		{"out.pdf", "", true},
		{"archive.tar.gz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("expected INVALID_FORMAT, got %v", err)
			}
			if got != tt.want {
				t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("SVG"); err != nil || f != FormatSVG {
		t.Errorf("ParseFormat(SVG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("jpeg"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT for jpeg, got %v", err)
	}
}

func testDrawing() layout.Drawing {
	return layout.Drawing{
		Width: 100, Height: 100, FontSize: 10,
		Bonds:  []layout.BondLine{{X1: 20, Y1: 50, X2: 80, Y2: 50, Order: 1}},
		Labels: []layout.AtomLabel{{X: 20, Y: 50, Text: "O"}},
	}
}

func TestSingleDispatch(t *testing.T) {
	for _, f := range []Format{FormatPNG, FormatSVG} {
		var buf bytes.Buffer
		if err := Single(&buf, testDrawing(), f); err != nil {
			t.Fatalf("Single(%s) failed: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Single(%s) produced no output", f)
		}
	}
	if err := Single(&bytes.Buffer{}, testDrawing(), "pdf"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("expected INVALID_FORMAT for pdf, got %v", err)
	}
}

func TestGridDispatch(t *testing.T) {
	g, err := layout.Compose([]layout.Drawing{testDrawing(), testDrawing()}, layout.GridSpec{Rows: 1, Cols: 2, Title: "Pair"})
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []Format{FormatPNG, FormatSVG} {
		var buf bytes.Buffer
		if err := Grid(&buf, g, f); err != nil {
			t.Fatalf("Grid(%s) failed: %v", f, err)
		}
		if buf.Len() == 0 {
			t.Errorf("Grid(%s) produced no output", f)
		}
	}
}
