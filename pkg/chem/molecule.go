package chem

import "math"

// Atom is a single atom with 2D depiction coordinates.
// Coordinates come from the external structure service; molpic never
// computes them.
type Atom struct {
	X, Y    float64 // 2D depiction coordinates (SDF units)
	Element string  // Element symbol, e.g. "C", "N", "Cl"
}

// Bond connects two atoms by zero-based index into Molecule.Atoms.
type Bond struct {
	From, To int // Zero-based atom indices
	Order    int // 1 single, 2 double, 3 triple
}

// Molecule is an in-memory molecular graph with 2D coordinates, decoded
// from an SDF record. It is a plain value type: copy it freely, mutate
// only your own copies.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
}

// Len returns the number of atoms.
func (m *Molecule) Len() int { return len(m.Atoms) }

// RangeX returns the horizontal extent of the depiction coordinates.
func (m *Molecule) RangeX() float64 {
	min, max := m.axisRange(func(a Atom) float64 { return a.X })
	return max - min
}

// RangeY returns the vertical extent of the depiction coordinates.
func (m *Molecule) RangeY() float64 {
	min, max := m.axisRange(func(a Atom) float64 { return a.Y })
	return max - min
}

// Bounds returns the bounding box of the depiction coordinates.
func (m *Molecule) Bounds() (minX, minY, maxX, maxY float64) {
	minX, maxX = m.axisRange(func(a Atom) float64 { return a.X })
	minY, maxY = m.axisRange(func(a Atom) float64 { return a.Y })
	return
}

func (m *Molecule) axisRange(coord func(Atom) float64) (min, max float64) {
	if len(m.Atoms) == 0 {
		return 0, 0
	}
	min, max = coord(m.Atoms[0]), coord(m.Atoms[0])
	for _, a := range m.Atoms[1:] {
		v := coord(a)
		min = math.Min(min, v)
		max = math.Max(max, v)
	}
	return
}

// AverageBondLength returns the mean geometric length of all bonds.
// Used to derive label font sizes that fit between bonded atoms.
// Returns 0 for molecules without bonds.
func (m *Molecule) AverageBondLength() float64 {
	if len(m.Bonds) == 0 {
		return 0
	}
	var total float64
	for _, b := range m.Bonds {
		from, to := m.Atoms[b.From], m.Atoms[b.To]
		total += math.Hypot(to.X-from.X, to.Y-from.Y)
	}
	return total / float64(len(m.Bonds))
}

// HeavyAtomCount returns the number of non-hydrogen atoms.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Element != "H" {
			n++
		}
	}
	return n
}

// RemoveHydrogens returns a copy of the molecule with explicit hydrogen
// atoms and their bonds removed. Connectivity among the remaining heavy
// atoms is preserved; bond indices are remapped to the new atom order.
// The receiver is left untouched.
func (m *Molecule) RemoveHydrogens() *Molecule {
	remap := make([]int, len(m.Atoms))
	out := &Molecule{}
	for i, a := range m.Atoms {
		if a.Element == "H" {
			remap[i] = -1
			continue
		}
		remap[i] = len(out.Atoms)
		out.Atoms = append(out.Atoms, a)
	}
	for _, b := range m.Bonds {
		from, to := remap[b.From], remap[b.To]
		if from < 0 || to < 0 {
			continue
		}
		out.Bonds = append(out.Bonds, Bond{From: from, To: to, Order: b.Order})
	}
	return out
}
