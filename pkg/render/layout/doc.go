// Package layout computes the geometry of molecule figures.
//
// [FromMolecule] scales a molecule's service-supplied 2D coordinates onto a
// fixed canvas, producing a [Drawing]: bond segments, atom labels, and
// legend placement. [Compose] arranges drawings into a [GridLayout] with
// uniform cells, gutters, and an optional title band.
//
// Everything here is pure arithmetic over plain values — no I/O, no
// randomness — so layouts are deterministic and composing twice yields
// identical placement metadata. The sinks in pkg/render/sink turn these
// layouts into PNG and SVG bytes.
package layout
