package pubchem

import (
	"context"
	"errors"
	"fmt"

	"github.com/molpic/molpic/pkg/integrations"
)

// DefaultBaseURL is the production PubChem PUG REST endpoint.
const DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"

// Compound holds the resolved identity of a PubChem compound.
//
// Zero values: CID is 0 and CanonicalSMILES empty only if resolution failed,
// in which case the client returns an error instead of a Compound.
type Compound struct {
	CID             int    // PubChem compound identifier (never 0 in valid data)
	CanonicalSMILES string // Canonical SMILES chosen by PubChem (never empty in valid data)
}

// Client provides access to the PubChem PUG REST API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL string
}

// NewClient creates a PubChem client. If baseURL is empty, [DefaultBaseURL]
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

// ResolveName looks up a compound by chemical name.
//
// PubChem returns candidate CIDs in its own relevance ranking; the
// first-ranked CID is selected. That ranking is the service's, not ours —
// it is treated as opaque and is not configurable.
//
// Returns:
//   - [integrations.ErrNotFound] if the name matches nothing
//   - [integrations.ErrNetwork] for HTTP failures (timeout, 5xx, etc.)
func (c *Client) ResolveName(ctx context.Context, name string) (*Compound, error) {
	name = integrations.NormalizeName(name)

	var list cidList
	url := fmt.Sprintf("%s/compound/name/%s/cids/JSON", c.baseURL, integrations.PathEncode(name))
	if err := c.GetJSON(ctx, url, &list); err != nil {
		if errors.Is(err, integrations.ErrBadRequest) {
			// PubChem answers 400 for names it cannot interpret at all;
			// from the caller's point of view that is a miss.
			return nil, fmt.Errorf("%w: name %q", integrations.ErrNotFound, name)
		}
		return nil, err
	}
	if len(list.IdentifierList.CID) == 0 {
		return nil, fmt.Errorf("%w: name %q", integrations.ErrNotFound, name)
	}

	cid := list.IdentifierList.CID[0]
	smiles, err := c.canonicalSMILES(ctx, cid)
	if err != nil {
		return nil, err
	}
	return &Compound{CID: cid, CanonicalSMILES: smiles}, nil
}

// CanonicalizeSMILES asks PubChem for the canonical form of a SMILES string.
//
// Returns [integrations.ErrBadRequest] if the service cannot parse the
// SMILES; such failures are terminal and never retried.
func (c *Client) CanonicalizeSMILES(ctx context.Context, smiles string) (string, error) {
	var table propertyTable
	url := fmt.Sprintf("%s/compound/smiles/property/CanonicalSMILES/JSON?smiles=%s",
		c.baseURL, integrations.URLEncode(smiles))
	if err := c.GetJSON(ctx, url, &table); err != nil {
		return "", err
	}
	if len(table.PropertyTable.Properties) == 0 {
		return "", fmt.Errorf("%w: no canonical SMILES returned", integrations.ErrNotFound)
	}
	return table.PropertyTable.Properties[0].CanonicalSMILES, nil
}

// FetchRecordByCID retrieves the 2D-coordinate SDF record for a compound.
// The returned text is an SDF V2000 block with computed 2D atom positions;
// coordinate generation is entirely PubChem's.
func (c *Client) FetchRecordByCID(ctx context.Context, cid int) (string, error) {
	url := fmt.Sprintf("%s/compound/cid/%d/SDF?record_type=2d", c.baseURL, cid)
	return c.GetText(ctx, url)
}

// FetchRecordBySMILES retrieves the 2D-coordinate SDF record for a raw
// SMILES string. The SMILES travels as a query parameter so that '/' bond
// direction characters survive URL routing.
func (c *Client) FetchRecordBySMILES(ctx context.Context, smiles string) (string, error) {
	url := fmt.Sprintf("%s/compound/smiles/SDF?smiles=%s&record_type=2d",
		c.baseURL, integrations.URLEncode(smiles))
	return c.GetText(ctx, url)
}

func (c *Client) canonicalSMILES(ctx context.Context, cid int) (string, error) {
	var table propertyTable
	url := fmt.Sprintf("%s/compound/cid/%d/property/CanonicalSMILES/JSON", c.baseURL, cid)
	if err := c.GetJSON(ctx, url, &table); err != nil {
		return "", err
	}
	if len(table.PropertyTable.Properties) == 0 {
		return "", fmt.Errorf("%w: CID %d has no canonical SMILES", integrations.ErrNotFound, cid)
	}
	return table.PropertyTable.Properties[0].CanonicalSMILES, nil
}

type cidList struct {
	IdentifierList struct {
		CID []int `json:"CID"`
	} `json:"IdentifierList"`
}

type propertyTable struct {
	PropertyTable struct {
		Properties []struct {
			CID             int    `json:"CID"`
			CanonicalSMILES string `json:"CanonicalSMILES"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}
