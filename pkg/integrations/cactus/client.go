package cactus

import (
	"context"
	"fmt"
	"strings"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/integrations"
)

// DefaultBaseURL is the production CACTUS Chemical Identifier Resolver.
const DefaultBaseURL = "https://cactus.nci.nih.gov/chemical/structure"

// Client provides access to the NIH CACTUS Chemical Identifier Resolver.
// It is used as a name→SMILES fallback when PubChem has no match.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a CACTUS client. If baseURL is empty, [DefaultBaseURL]
// is used; tests point it at an httptest server.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		Client:  integrations.NewClient(nil),
		baseURL: baseURL,
	}
}

// ResolveName looks up a SMILES string for a chemical name.
//
// CACTUS answers with one SMILES per line. A single line is a definitive
// match. Multiple distinct lines mean the service considers the name
// ambiguous and offers no ranking, which surfaces as an AMBIGUOUS_NAME
// error rather than an arbitrary local pick.
//
// Returns [integrations.ErrNotFound] if the name matches nothing.
func (c *Client) ResolveName(ctx context.Context, name string) (string, error) {
	name = integrations.NormalizeName(name)

	url := fmt.Sprintf("%s/%s/smiles", c.baseURL, integrations.PathEncode(name))
	text, err := c.GetText(ctx, url)
	if err != nil {
		return "", err
	}

	candidates := splitCandidates(text)
	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: name %q", integrations.ErrNotFound, name)
	case 1:
		return candidates[0], nil
	default:
		return "", errors.New(errors.ErrCodeAmbiguousName,
			"CACTUS returned %d unranked structures for %q", len(candidates), name)
	}
}

// splitCandidates parses the line-oriented CACTUS response, dropping blank
// lines and collapsing duplicate SMILES.
func splitCandidates(text string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, line := range strings.Split(text, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
