package sink

import (
	"os"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// fontCandidates are tried in order against the host's font directories.
// The list covers the default sans-serif fonts of the common platforms.
var fontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"LiberationSans-Regular.ttf",
	"Helvetica.ttf",
	"Roboto-Regular.ttf",
}

// svgFontFamily is the font stack written into SVG output. Vector output
// names fonts instead of embedding glyphs, so the viewer resolves them.
const svgFontFamily = "Helvetica, Arial, sans-serif"

var (
	loadedFont     *truetype.Font
	loadedFontOnce sync.Once
)

// systemFont locates and parses a TrueType font once per process.
// Returns nil when no candidate is found; callers fall back to the
// rasterizer's built-in face.
func systemFont() *truetype.Font {
	loadedFontOnce.Do(func() {
		for _, name := range fontCandidates {
			path, err := findfont.Find(name)
			if err != nil {
				continue
			}
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			f, err := truetype.Parse(data)
			if err != nil {
				continue
			}
			loadedFont = f
			return
		}
	})
	return loadedFont
}

// fontFace returns a face at the given point size, or nil when no system
// font is available.
func fontFace(size float64) font.Face {
	f := systemFont()
	if f == nil {
		return nil
	}
	return truetype.NewFace(f, &truetype.Options{Size: size})
}
