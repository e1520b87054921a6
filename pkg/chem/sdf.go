package chem

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// DecodeSDF reads the first molecule from an SDF (MDL V2000) record.
//
// The format is the wire format of the structure service, not a chemistry
// engine: three header lines, a counts line, fixed-width atom and bond
// blocks, then property lines until "M  END". Everything past the first
// molecule (properties, "$$$$" separators, further records) is ignored.
func DecodeSDF(r io.Reader) (*Molecule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for i := 0; i < 3; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdf: unexpected EOF in header")
		}
	}
	if !sc.Scan() {
		return nil, fmt.Errorf("sdf: missing counts line")
	}
	counts := sc.Text()
	if len(counts) < 6 {
		return nil, fmt.Errorf("sdf: malformed counts line %q", counts)
	}
	atomCount, err := parseCount(counts[0:3])
	if err != nil {
		return nil, fmt.Errorf("sdf: atom count: %w", err)
	}
	bondCount, err := parseCount(counts[3:6])
	if err != nil {
		return nil, fmt.Errorf("sdf: bond count: %w", err)
	}

	mol := &Molecule{
		Atoms: make([]Atom, atomCount),
		Bonds: make([]Bond, bondCount),
	}

	for i := 0; i < atomCount; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdf: unexpected EOF in atom block (atom %d of %d)", i+1, atomCount)
		}
		atom, err := parseAtomLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("sdf: atom %d: %w", i+1, err)
		}
		mol.Atoms[i] = atom
	}

	for i := 0; i < bondCount; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("sdf: unexpected EOF in bond block (bond %d of %d)", i+1, bondCount)
		}
		bond, err := parseBondLine(sc.Text(), atomCount)
		if err != nil {
			return nil, fmt.Errorf("sdf: bond %d: %w", i+1, err)
		}
		mol.Bonds[i] = bond
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("sdf: %w", err)
	}
	return mol, nil
}

// DecodeSDFString is a convenience wrapper around [DecodeSDF] for record
// text already held in memory (the usual case after an HTTP fetch).
func DecodeSDFString(record string) (*Molecule, error) {
	return DecodeSDF(strings.NewReader(record))
}

// parseAtomLine decodes one fixed-width V2000 atom line:
// xxxxxxxxxxyyyyyyyyyyzzzzzzzzzz sss...
func parseAtomLine(line string) (Atom, error) {
	if len(line) < 34 {
		return Atom{}, fmt.Errorf("line too short: %q", line)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(line[0:10]), 64)
	if err != nil {
		return Atom{}, fmt.Errorf("x coordinate: %w", err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(line[10:20]), 64)
	if err != nil {
		return Atom{}, fmt.Errorf("y coordinate: %w", err)
	}
	elem := strings.TrimSpace(line[31:34])
	if elem == "" {
		return Atom{}, fmt.Errorf("missing element symbol: %q", line)
	}
	// The z column is parsed for validity but discarded: 2D records carry 0.
	if _, err := strconv.ParseFloat(strings.TrimSpace(line[20:30]), 64); err != nil {
		return Atom{}, fmt.Errorf("z coordinate: %w", err)
	}
	return Atom{X: x, Y: y, Element: elem}, nil
}

// parseBondLine decodes one fixed-width V2000 bond line: fffttt oo.
func parseBondLine(line string, atomCount int) (Bond, error) {
	if len(line) < 9 {
		return Bond{}, fmt.Errorf("line too short: %q", line)
	}
	from, err := parseCount(line[0:3])
	if err != nil {
		return Bond{}, fmt.Errorf("from atom: %w", err)
	}
	to, err := parseCount(line[3:6])
	if err != nil {
		return Bond{}, fmt.Errorf("to atom: %w", err)
	}
	order, err := parseCount(line[6:9])
	if err != nil {
		return Bond{}, fmt.Errorf("bond order: %w", err)
	}
	if from < 1 || from > atomCount || to < 1 || to > atomCount {
		return Bond{}, fmt.Errorf("atom index out of range: %d-%d of %d", from, to, atomCount)
	}
	return Bond{From: from - 1, To: to - 1, Order: order}, nil
}

func parseCount(field string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(field))
}
