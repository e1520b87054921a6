// Package pubchem implements a client for the PubChem PUG REST API.
//
// PubChem is the primary structure authority for molpic: it resolves
// chemical names to compounds, canonicalizes SMILES strings, and supplies
// 2D-coordinate SDF records that downstream rendering consumes.
//
// API reference: https://pubchem.ncbi.nlm.nih.gov/docs/pug-rest
package pubchem
