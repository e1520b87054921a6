// Package cactus implements a client for the NIH CACTUS Chemical
// Identifier Resolver, used as a name→SMILES fallback behind PubChem.
//
// Service reference: https://cactus.nci.nih.gov/chemical/structure
package cactus
