package chem

import (
	"strings"

	"github.com/molpic/molpic/pkg/errors"
)

// smilesChars is the working alphabet of SMILES notation outside bracket
// atoms. Element letters are covered by the letter check in ValidateSMILES.
const smilesChars = "#$=()[]@+-\\/.%:*0123456789"

// structureHintChars are characters that essentially never appear in plain
// chemical names but are common in SMILES. Identical heuristic surface to
// the batch CSV convention: a bare string containing any of these is
// treated as a structure, everything else as a name.
const structureHintChars = "#=()[]@+\\/-0123456789"

// LooksLikeSMILES reports whether free-text input should be treated as a
// SMILES string rather than a compound name. It is a routing heuristic,
// not validation; use [ValidateSMILES] before sending a structure anywhere.
func LooksLikeSMILES(text string) bool {
	return strings.ContainsAny(text, structureHintChars)
}

// ValidateSMILES performs a lexical sanity check of a SMILES string:
// allowed alphabet, balanced parentheses and brackets, paired ring-closure
// digits. It deliberately stops short of chemistry — valence, aromaticity
// and graph semantics belong to the external toolkit. A string that passes
// here can still be rejected by the service; a string that fails here is
// certainly broken and is reported without any network traffic.
func ValidateSMILES(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(errors.ErrCodeInvalidSMILES, "empty SMILES")
	}
	if strings.ContainsAny(s, " \t\n\r") {
		return errors.New(errors.ErrCodeInvalidSMILES, "SMILES must not contain whitespace: %q", s)
	}

	var parens, brackets int
	rings := make(map[byte]int)
	inBracket := false

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '(':
			parens++
		case c == ')':
			parens--
			if parens < 0 {
				return errors.New(errors.ErrCodeInvalidSMILES, "unbalanced parentheses in %q", s)
			}
		case c == '[':
			if inBracket {
				return errors.New(errors.ErrCodeInvalidSMILES, "nested brackets in %q", s)
			}
			inBracket = true
			brackets++
		case c == ']':
			if !inBracket {
				return errors.New(errors.ErrCodeInvalidSMILES, "unbalanced brackets in %q", s)
			}
			inBracket = false
			brackets--
		case c >= '0' && c <= '9':
			// Ring-closure digits outside brackets come in pairs; inside
			// brackets digits are charges and isotopes.
			if !inBracket && (i == 0 || s[i-1] != '%') {
				rings[c]++
			}
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z':
			// Element symbols, aromatic atoms, H counts in brackets.
		case strings.IndexByte(smilesChars, c) >= 0:
			// Bonds, branches, stereo markers, dots.
		default:
			return errors.New(errors.ErrCodeInvalidSMILES, "illegal character %q in %q", string(c), s)
		}
	}

	if parens != 0 {
		return errors.New(errors.ErrCodeInvalidSMILES, "unbalanced parentheses in %q", s)
	}
	if brackets != 0 || inBracket {
		return errors.New(errors.ErrCodeInvalidSMILES, "unbalanced brackets in %q", s)
	}
	// A trailing branch open like "C((" is already caught above; an odd
	// ring-closure count like "C1CC" is a dangling ring bond.
	for digit, n := range rings {
		if n%2 != 0 {
			return errors.New(errors.ErrCodeInvalidSMILES, "unpaired ring closure %q in %q", string(digit), s)
		}
	}
	return nil
}
