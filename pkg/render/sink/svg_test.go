package sink

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/molpic/molpic/pkg/render/layout"
)

func TestSVG_SinglePanel(t *testing.T) {
	d := etheneDrawing(false)
	d.Labels = []layout.AtomLabel{{X: 60, Y: 80, Text: "O"}}

	var buf bytes.Buffer
	if err := SVG(&buf, d); err != nil {
		t.Fatalf("SVG failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<svg", "</svg>", `fill:white`, "Ethene", ">O</text>"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
	// A double bond is two parallel lines.
	if got := strings.Count(out, "<line"); got != 2 {
		t.Errorf("line count = %d, want 2 for one double bond", got)
	}
}

func TestSVG_TransparentOmitsBackground(t *testing.T) {
	var buf bytes.Buffer
	if err := SVG(&buf, etheneDrawing(true)); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "<rect") {
		t.Error("transparent output should not contain a background rect")
	}
}

func TestSVGGrid_Title(t *testing.T) {
	g, err := layout.Compose(
		[]layout.Drawing{etheneDrawing(false), etheneDrawing(false)},
		layout.GridSpec{Rows: 1, Cols: 2, Title: "Figure 1"},
	)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := SVGGrid(&buf, g); err != nil {
		t.Fatalf("SVGGrid failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Figure 1") {
		t.Error("output missing grid title")
	}
	if got := strings.Count(out, "Ethene"); got != 2 {
		t.Errorf("legend count = %d, want 2", got)
	}
}

type failingWriter struct{ err error }

func (f failingWriter) Write([]byte) (int, error) { return 0, f.err }

func TestSVG_PropagatesWriteError(t *testing.T) {
	wantErr := errors.New("disk full")
	if err := SVG(failingWriter{err: wantErr}, etheneDrawing(false)); !errors.Is(err, wantErr) {
		t.Errorf("expected write error to surface, got %v", err)
	}
}
