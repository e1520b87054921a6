// Package resolve maps compound requests (names or SMILES strings) to
// structures with 2D depiction coordinates.
//
// # Resolution policy
//
// Names go to PubChem first; PubChem's first-ranked candidate wins and the
// ranking is treated as opaque. On a PubChem miss the CACTUS resolver is
// consulted as a fallback, and its SMILES answer is then routed through the
// SMILES path for coordinates. SMILES input is validated lexically before
// any network traffic; syntactically broken SMILES fails immediately with
// INVALID_SMILES and is never retried.
//
// Every resolved structure carries its canonical SMILES, its provenance
// (pubchem, cactus, or input), and the decoded molecule. Nothing is cached
// or persisted between calls.
package resolve

import (
	"context"
	stderrors "errors"

	"github.com/charmbracelet/log"

	"github.com/molpic/molpic/pkg/chem"
	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/integrations"
	"github.com/molpic/molpic/pkg/integrations/cactus"
	"github.com/molpic/molpic/pkg/integrations/pubchem"
)

// Kind classifies how a request's query should be interpreted.
type Kind string

const (
	// KindAuto lets the resolver decide: queries containing structure
	// notation characters are treated as SMILES, everything else as a name.
	KindAuto Kind = "auto"

	// KindName forces name resolution via the lookup services.
	KindName Kind = "name"

	// KindSMILES forces the query to be read as a SMILES string.
	KindSMILES Kind = "smiles"
)

// Sources recorded on resolved structures.
const (
	SourcePubChem = "pubchem"
	SourceCactus  = "cactus"
	SourceInput   = "input"
)

// Request is one compound to resolve: a free-text name or a SMILES string,
// plus an optional display label. Immutable once created; one per CLI
// argument or CSV row.
type Request struct {
	Query string // Compound name or SMILES (never empty in valid requests)
	Kind  Kind   // How to interpret Query; zero value means KindAuto
	Label string // Optional display label; falls back to Query when empty
}

// DisplayLabel returns the label to place beneath the rendered structure.
func (r Request) DisplayLabel() string {
	if r.Label != "" {
		return r.Label
	}
	return r.Query
}

// Structure is a resolved compound: canonical SMILES plus the molecular
// graph with service-computed 2D coordinates. Owned by the caller for the
// duration of one run; never persisted.
type Structure struct {
	Query    string         // Original query text
	Label    string         // Display label (request label or query)
	SMILES   string         // Canonical SMILES
	Source   string         // pubchem, cactus, or input
	CID      int            // PubChem compound ID (0 when unknown)
	Molecule *chem.Molecule // Decoded 2D structure
}

// Resolver turns requests into structures using the chemical database
// clients. It holds no per-request state and is safe for concurrent use.
type Resolver struct {
	pubchem *pubchem.Client
	cactus  *cactus.Client
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithPubChem overrides the PubChem client (tests, alternate base URLs).
func WithPubChem(c *pubchem.Client) Option {
	return func(r *Resolver) { r.pubchem = c }
}

// WithCactus overrides the CACTUS fallback client.
func WithCactus(c *cactus.Client) Option {
	return func(r *Resolver) { r.cactus = c }
}

// WithLogger sets the logger used for resolution progress.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a Resolver against the production services.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		pubchem: pubchem.NewClient(""),
		cactus:  cactus.NewClient(""),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps a request to a structure.
//
// Error codes: INVALID_SMILES for lexically broken structure input,
// COMPOUND_NOT_FOUND when neither service knows the name, AMBIGUOUS_NAME
// when the fallback service reports unranked candidates, NETWORK_ERROR for
// transport failures. Failed resolutions are never retried here; transient
// transport faults are retried inside the HTTP client only.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Structure, error) {
	if req.Query == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty query")
	}

	kind := req.Kind
	if kind == "" || kind == KindAuto {
		kind = KindName
		if chem.LooksLikeSMILES(req.Query) {
			kind = KindSMILES
		}
	}

	switch kind {
	case KindSMILES:
		return r.resolveSMILES(ctx, req, req.Query, SourceInput, 0)
	case KindName:
		return r.resolveName(ctx, req)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown request kind %q", req.Kind)
	}
}

func (r *Resolver) resolveName(ctx context.Context, req Request) (*Structure, error) {
	name := req.Query

	compound, err := r.pubchem.ResolveName(ctx, name)
	switch {
	case err == nil:
		r.logger.Debug("resolved via pubchem", "name", name, "cid", compound.CID)
		record, err := r.pubchem.FetchRecordByCID(ctx, compound.CID)
		if err != nil {
			return nil, mapServiceError(err, name)
		}
		return r.finish(req, compound.CanonicalSMILES, SourcePubChem, compound.CID, record)

	case stderrors.Is(err, integrations.ErrNotFound):
		r.logger.Debug("pubchem miss, trying cactus", "name", name)
		smiles, cerr := r.cactus.ResolveName(ctx, name)
		if cerr != nil {
			if stderrors.Is(cerr, integrations.ErrNotFound) {
				return nil, errors.New(errors.ErrCodeCompoundNotFound, "no match for %q in PubChem or CACTUS", name)
			}
			return nil, mapServiceError(cerr, name)
		}
		return r.resolveSMILES(ctx, req, smiles, SourceCactus, 0)

	default:
		return nil, mapServiceError(err, name)
	}
}

func (r *Resolver) resolveSMILES(ctx context.Context, req Request, smiles, source string, cid int) (*Structure, error) {
	if err := chem.ValidateSMILES(smiles); err != nil {
		return nil, err
	}

	canonical, err := r.pubchem.CanonicalizeSMILES(ctx, smiles)
	if err != nil {
		if stderrors.Is(err, integrations.ErrBadRequest) {
			return nil, errors.New(errors.ErrCodeInvalidSMILES, "service rejected SMILES %q", smiles)
		}
		return nil, mapServiceError(err, smiles)
	}

	record, err := r.pubchem.FetchRecordBySMILES(ctx, smiles)
	if err != nil {
		if stderrors.Is(err, integrations.ErrBadRequest) {
			return nil, errors.New(errors.ErrCodeInvalidSMILES, "service rejected SMILES %q", smiles)
		}
		return nil, mapServiceError(err, smiles)
	}

	return r.finish(req, canonical, source, cid, record)
}

func (r *Resolver) finish(req Request, canonical, source string, cid int, record string) (*Structure, error) {
	mol, err := chem.DecodeSDFString(record)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode structure record for %q", req.Query)
	}
	return &Structure{
		Query:    req.Query,
		Label:    req.DisplayLabel(),
		SMILES:   canonical,
		Source:   source,
		CID:      cid,
		Molecule: mol,
	}, nil
}

// mapServiceError converts transport-level errors into coded errors,
// passing through errors that already carry a code (e.g. AMBIGUOUS_NAME).
func mapServiceError(err error, query string) error {
	if errors.GetCode(err) != "" {
		return err
	}
	switch {
	case stderrors.Is(err, integrations.ErrNotFound):
		return errors.New(errors.ErrCodeCompoundNotFound, "no match for %q", query)
	case stderrors.Is(err, integrations.ErrNetwork), stderrors.Is(err, context.DeadlineExceeded):
		return errors.Wrap(errors.ErrCodeNetwork, err, "lookup service unreachable for %q", query)
	default:
		return errors.Wrap(errors.ErrCodeNetwork, err, "resolve %q", query)
	}
}
