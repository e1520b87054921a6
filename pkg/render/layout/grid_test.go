package layout

import (
	"reflect"
	"testing"

	"github.com/molpic/molpic/pkg/errors"
)

func panelsWithLegends(legends ...string) []Drawing {
	out := make([]Drawing, len(legends))
	for i, l := range legends {
		out[i] = Drawing{Width: 550, Height: 450, Legend: l}
	}
	return out
}

func TestParseShape(t *testing.T) {
	tests := []struct {
		input      string
		rows, cols int
		wantErr    bool
	}{
		{"2x3", 2, 3, false},
		{"2X3", 2, 3, false},
		{" 4 x 1 ", 4, 1, false},
		{"1x1", 1, 1, false},
		{"23", 0, 0, true},
		{"x3", 0, 0, true},
		{"0x3", 0, 0, true},
		{"2x-1", 0, 0, true},
		{"axb", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			rows, cols, err := ParseShape(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseShape(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if rows != tt.rows || cols != tt.cols {
				t.Errorf("ParseShape(%q) = %dx%d, want %dx%d", tt.input, rows, cols, tt.rows, tt.cols)
			}
		})
	}
}

func TestCompose_GridTooSmall(t *testing.T) {
	spec := GridSpec{Rows: 2, Cols: 2}
	_, err := Compose(panelsWithLegends("a", "b", "c", "d", "e", "f"), spec)
	if !errors.Is(err, errors.ErrCodeGridTooSmall) {
		t.Fatalf("6 panels in a 2x2 grid must fail with GRID_TOO_SMALL, got %v", err)
	}
}

func TestCompose_OrderByName(t *testing.T) {
	spec := GridSpec{Rows: 1, Cols: 3, OrderBy: OrderByName}
	g, err := Compose(panelsWithLegends("Caffeine", "Aspirin", "Ibuprofen"), spec)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := []string{"Aspirin", "Caffeine", "Ibuprofen"}
	if got := g.Legends(); !reflect.DeepEqual(got, want) {
		t.Errorf("name ordering = %v, want %v", got, want)
	}
}

func TestCompose_OrderByInput(t *testing.T) {
	spec := GridSpec{Rows: 1, Cols: 3, OrderBy: OrderByInput}
	g, err := Compose(panelsWithLegends("Caffeine", "Aspirin", "Ibuprofen"), spec)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := []string{"Caffeine", "Aspirin", "Ibuprofen"}
	if got := g.Legends(); !reflect.DeepEqual(got, want) {
		t.Errorf("input ordering = %v, want %v", got, want)
	}
}

func TestCompose_NameOrderingIsStable(t *testing.T) {
	panels := panelsWithLegends("beta", "alpha", "alpha")
	panels[1].FontSize = 1 // tag the first "alpha"
	panels[2].FontSize = 2 // tag the second

	g, err := Compose(panels, GridSpec{Rows: 1, Cols: 3, OrderBy: OrderByName})
	if err != nil {
		t.Fatal(err)
	}
	if g.Panels[0].Drawing.FontSize != 1 || g.Panels[1].Drawing.FontSize != 2 {
		t.Error("duplicate legends must keep input order (stable sort)")
	}
}

func TestCompose_PlacementArithmetic(t *testing.T) {
	spec := GridSpec{Rows: 2, Cols: 2, Title: "Panel A"}
	g, err := Compose(panelsWithLegends("a", "b", "c"), spec)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if g.CellWidth != 550 || g.CellHeight != 450 {
		t.Errorf("cell size = %gx%g, want max panel dims 550x450", g.CellWidth, g.CellHeight)
	}
	// Three panels in a 2x2 grid: last cell stays blank.
	if len(g.Panels) != 3 {
		t.Fatalf("placed %d panels, want 3", len(g.Panels))
	}

	// Left-to-right, top-to-bottom placement.
	if g.Panels[0].X >= g.Panels[1].X {
		t.Error("second panel should be right of the first")
	}
	if g.Panels[0].Y != g.Panels[1].Y {
		t.Error("first two panels share a row")
	}
	if g.Panels[2].X != g.Panels[0].X || g.Panels[2].Y <= g.Panels[0].Y {
		t.Error("third panel should start the second row")
	}

	// Title band shifts all panels down.
	untitled, err := Compose(panelsWithLegends("a", "b", "c"), GridSpec{Rows: 2, Cols: 2})
	if err != nil {
		t.Fatal(err)
	}
	if g.Panels[0].Y <= untitled.Panels[0].Y {
		t.Error("title band should push panels down")
	}
	if g.Height <= untitled.Height {
		t.Error("title band should grow the canvas")
	}
}

func TestCompose_Idempotent(t *testing.T) {
	spec := GridSpec{Rows: 2, Cols: 3, Title: "Figure 1", OrderBy: OrderByName}
	panels := panelsWithLegends("caffeine", "aspirin", "ibuprofen", "benzene")

	a, err := Compose(panels, spec)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compose(panels, spec)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Error("Compose must yield identical layout metadata across calls")
	}
}

func TestCompose_ValidationBeforePlacement(t *testing.T) {
	tests := []struct {
		name string
		spec GridSpec
		code errors.Code
	}{
		{"zero rows", GridSpec{Rows: 0, Cols: 3}, errors.ErrCodeInvalidGrid},
		{"bad ordering", GridSpec{Rows: 1, Cols: 1, OrderBy: "alphabetical"}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(panelsWithLegends("a"), tt.spec)
			if !errors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}
