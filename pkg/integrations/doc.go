// Package integrations provides clients for the external chemical database
// services molpic delegates to.
//
// # Services
//
// Two collaborators are consumed:
//
//   - pubchem: the PubChem PUG REST API. Primary source for name→structure
//     resolution, canonical SMILES, and 2D-coordinate SDF records.
//   - cactus: the NIH CACTUS Chemical Identifier Resolver. Fallback for
//     name→SMILES resolution when PubChem has no match.
//
// # Shared Client
//
// [Client] provides the HTTP plumbing shared by both service clients:
// request headers, timeout, status-code mapping, and retry of transient
// faults via pkg/httputil. Not-found and bad-input responses are terminal;
// they map to [ErrNotFound] and [ErrBadRequest] and are never retried,
// matching the no-retry policy for failed resolutions.
package integrations
