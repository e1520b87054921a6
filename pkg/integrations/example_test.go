package integrations_test

import (
	"fmt"

	"github.com/molpic/molpic/pkg/integrations"
)

func ExampleNormalizeName() {
	// Compound names are trimmed and inner whitespace collapsed
	fmt.Println(integrations.NormalizeName("  acetylsalicylic   acid "))
	fmt.Println(integrations.NormalizeName("Caffeine"))
	// Output:
	// acetylsalicylic acid
	// Caffeine
}

func ExampleURLEncode() {
	// SMILES strings carry characters that need query encoding
	fmt.Println(integrations.URLEncode("CC(=O)OC1=CC=CC=C1C(=O)O"))
	fmt.Println(integrations.URLEncode("C/C=C/C"))
	// Output:
	// CC%28%3DO%29OC1%3DCC%3DCC%3DC1C%28%3DO%29O
	// C%2FC%3DC%2FC
}

func ExamplePathEncode() {
	// Names used as path segments keep spaces percent-encoded
	fmt.Println(integrations.PathEncode("vinyl alcohol"))
	// Output:
	// vinyl%20alcohol
}
