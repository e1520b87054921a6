// Package pkg provides the core libraries for molpic structure rendering.
//
// # Overview
//
// molpic turns compound names and SMILES strings into 2D structure images.
// The pkg directory is organized into five main areas:
//
//  1. [chem] - Molecular structures (SDF decoding, SMILES validation)
//  2. [integrations] - External lookup clients (PubChem, CACTUS)
//  3. [resolve] - Query-to-structure resolution policy
//  4. [render] - Geometry layout and PNG/SVG encoding
//  5. [pipeline] - Orchestration (resolve, layout, render, batch runs)
//
// # Architecture
//
// The typical data flow through molpic:
//
//	Name or SMILES
//	       ↓
//	resolve (PubChem, CACTUS fallback)
//	       ↓
//	render/layout (scale coordinates, place labels and legends)
//	       ↓
//	render/sink (PNG via gg, SVG via svgo)
//	       ↓
//	Image bytes
//
// Supporting packages: [errors] carries the coded error taxonomy shared by
// every layer, [httputil] the retrying HTTP client, and [buildinfo] the
// version stamped at link time.
package pkg
