// Package chem holds the in-memory molecule model and the codecs around it.
//
// A [Molecule] is a list of atoms with service-supplied 2D depiction
// coordinates plus a bond list. [DecodeSDF] reads the SDF V2000 wire format
// that the structure service answers with, and [ValidateSMILES] performs a
// purely lexical sanity check on SMILES input so that obviously broken
// strings fail fast and offline.
//
// No chemistry happens here: coordinates, canonicalization, and structural
// interpretation of SMILES are all the external service's job.
package chem
