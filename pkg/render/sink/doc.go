// Package sink encodes computed layouts into output formats.
//
// Sinks are pure encoders: all geometry decisions live in the layout
// package, so every sink draws the same picture. Two formats are
// supported:
//
//   - [PNG] / [PNGGrid]: raster output via fogleman/gg
//   - [SVG] / [SVGGrid]: vector output via ajstarks/svgo
//
// Text uses the first TrueType font found on the host (see fonts.go);
// raster rendering falls back to gg's built-in face when none is found.
package sink
