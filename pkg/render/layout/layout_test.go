package layout

import (
	"testing"

	"github.com/molpic/molpic/pkg/chem"
	"github.com/molpic/molpic/pkg/errors"
)

// water: one oxygen with two explicit hydrogens, coordinates in SDF units.
func waterMolecule() *chem.Molecule {
	return &chem.Molecule{
		Atoms: []chem.Atom{
			{X: 0, Y: 0, Element: "O"},
			{X: -0.8, Y: -0.6, Element: "H"},
			{X: 0.8, Y: -0.6, Element: "H"},
		},
		Bonds: []chem.Bond{
			{From: 0, To: 1, Order: 1},
			{From: 0, To: 2, Order: 1},
		},
	}
}

func ethene() *chem.Molecule {
	return &chem.Molecule{
		Atoms: []chem.Atom{
			{X: 0, Y: 0, Element: "C"},
			{X: 1, Y: 0, Element: "C"},
		},
		Bonds: []chem.Bond{{From: 0, To: 1, Order: 2}},
	}
}

func TestFromMolecule(t *testing.T) {
	d, err := FromMolecule(waterMolecule(), Style{}, "water", 400, 300)
	if err != nil {
		t.Fatalf("FromMolecule failed: %v", err)
	}

	if d.Width != 400 || d.Height != 300 {
		t.Errorf("canvas = %gx%g, want 400x300", d.Width, d.Height)
	}
	if len(d.Bonds) != 2 {
		t.Errorf("bond count = %d, want 2", len(d.Bonds))
	}
	// O plus two H labels; hydrogens are explicit and kept by default.
	if len(d.Labels) != 3 {
		t.Errorf("label count = %d, want 3", len(d.Labels))
	}
	if d.Legend != "water" {
		t.Errorf("legend = %q", d.Legend)
	}

	for _, b := range d.Bonds {
		for _, v := range []float64{b.X1, b.Y1, b.X2, b.Y2} {
			if v < 0 || v > 400 {
				t.Errorf("bond coordinate %g outside canvas", v)
			}
		}
	}
}

func TestFromMolecule_HideHydrogens(t *testing.T) {
	visible, err := FromMolecule(waterMolecule(), Style{}, "", 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	hidden, err := FromMolecule(waterMolecule(), Style{HideHydrogens: true}, "", 400, 300)
	if err != nil {
		t.Fatal(err)
	}

	if len(visible.Bonds) != 2 || len(hidden.Bonds) != 0 {
		t.Errorf("hydrogen suppression should drop H bonds: visible=%d hidden=%d",
			len(visible.Bonds), len(hidden.Bonds))
	}
	if len(hidden.Labels) != 1 || hidden.Labels[0].Text != "O" {
		t.Errorf("heavy skeleton should remain: %+v", hidden.Labels)
	}
}

func TestFromMolecule_AllHydrogensRemoved(t *testing.T) {
	h2 := &chem.Molecule{
		Atoms: []chem.Atom{{Element: "H"}, {X: 1, Element: "H"}},
		Bonds: []chem.Bond{{From: 0, To: 1, Order: 1}},
	}
	_, err := FromMolecule(h2, Style{HideHydrogens: true}, "", 400, 300)
	if !errors.Is(err, errors.ErrCodeEmptyStructure) {
		t.Fatalf("expected EMPTY_STRUCTURE, got %v", err)
	}
}

func TestFromMolecule_CarbonsAreImplicit(t *testing.T) {
	d, err := FromMolecule(ethene(), Style{}, "", 300, 300)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Labels) != 0 {
		t.Errorf("chain carbons should not be labeled, got %+v", d.Labels)
	}
	if len(d.Bonds) != 1 || d.Bonds[0].Order != 2 {
		t.Errorf("expected one double bond, got %+v", d.Bonds)
	}
}

func TestFromMolecule_SingleAtom(t *testing.T) {
	atom := &chem.Molecule{Atoms: []chem.Atom{{Element: "Fe"}}}
	d, err := FromMolecule(atom, Style{}, "iron", 200, 200)
	if err != nil {
		t.Fatalf("single atoms must lay out: %v", err)
	}
	if len(d.Labels) != 1 || d.Labels[0].Text != "Fe" {
		t.Errorf("single atom should be labeled even if carbon-like: %+v", d.Labels)
	}
}

func TestFromMolecule_Deterministic(t *testing.T) {
	a, err := FromMolecule(waterMolecule(), Style{}, "water", 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FromMolecule(waterMolecule(), Style{}, "water", 400, 300)
	if err != nil {
		t.Fatal(err)
	}

	if len(a.Bonds) != len(b.Bonds) || len(a.Labels) != len(b.Labels) {
		t.Fatal("repeated layout changed shape")
	}
	for i := range a.Bonds {
		if a.Bonds[i] != b.Bonds[i] {
			t.Errorf("bond %d differs between runs: %+v vs %+v", i, a.Bonds[i], b.Bonds[i])
		}
	}
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Errorf("label %d differs between runs", i)
		}
	}
}
