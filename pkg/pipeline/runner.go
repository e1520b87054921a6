package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/molpic/molpic/pkg/errors"
	"github.com/molpic/molpic/pkg/render"
	"github.com/molpic/molpic/pkg/render/layout"
	"github.com/molpic/molpic/pkg/resolve"
)

// StructureResolver maps one request to a resolved structure. Satisfied by
// [resolve.Resolver]; tests substitute a canned implementation.
type StructureResolver interface {
	Resolve(ctx context.Context, req resolve.Request) (*resolve.Structure, error)
}

// Runner executes the pipeline. It is stateless except for the resolver and
// logger: multiple goroutines can safely share one Runner with different
// options.
type Runner struct {
	Resolver StructureResolver
	Logger   *log.Logger
}

// NewRunner creates a runner. A nil resolver gets a production
// [resolve.Resolver]; a nil logger gets the default logger.
func NewRunner(r StructureResolver, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	if r == nil {
		r = resolve.New(resolve.WithLogger(logger))
	}
	return &Runner{Resolver: r, Logger: logger}
}

// Execute runs the complete resolve → layout → encode pipeline.
//
// Single mode (opts.Grid == nil) takes exactly one request and propagates
// any failure. Grid mode processes each request independently: failures are
// recorded in the result, and the run fails with ALL_FAILED only when no
// panel could be rendered.
func (r *Runner) Execute(ctx context.Context, reqs []Request, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no compounds given")
	}
	if opts.Grid == nil {
		if len(reqs) != 1 {
			return nil, errors.New(errors.ErrCodeInvalidInput, "single mode takes exactly one compound, got %d", len(reqs))
		}
		return r.executeSingle(ctx, reqs[0], opts)
	}

	// Undersized grids fail before any network or rendering work.
	if err := opts.Grid.Validate(len(reqs)); err != nil {
		return nil, err
	}
	return r.executeGrid(ctx, reqs, opts)
}

func (r *Runner) executeSingle(ctx context.Context, req Request, opts Options) (*Result, error) {
	result := &Result{Stats: Stats{Requested: 1}}

	resolveStart := time.Now()
	st, err := r.Resolver.Resolve(ctx, req)
	if err != nil {
		return nil, err
	}
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Structures = []*resolve.Structure{st}

	r.Logger.Info("resolved compound",
		"query", st.Query,
		"source", st.Source,
		"atoms", st.Molecule.Len(),
		"duration", result.Stats.ResolveTime)

	renderStart := time.Now()
	d, err := layout.FromMolecule(st.Molecule, opts.style(), st.Label, opts.Width, opts.Height)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render.Single(&buf, d, opts.Format); err != nil {
		return nil, err
	}
	result.Image = buf.Bytes()
	result.Legends = []string{st.Label}
	result.Stats.Rendered = 1
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered image",
		"format", opts.Format,
		"bytes", len(result.Image),
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (r *Runner) executeGrid(ctx context.Context, reqs []Request, opts Options) (*Result, error) {
	result := &Result{Stats: Stats{Requested: len(reqs)}}

	var drawings []layout.Drawing
	resolveStart := time.Now()
	for _, req := range reqs {
		st, err := r.Resolver.Resolve(ctx, req)
		if err != nil {
			result.recordFailure(req, err)
			r.Logger.Warn("skipping compound", "query", req.Query, "err", err)
			continue
		}

		d, err := layout.FromMolecule(st.Molecule, opts.style(), st.Label, opts.Width, opts.Height)
		if err != nil {
			result.recordFailure(req, err)
			r.Logger.Warn("skipping compound", "query", req.Query, "err", err)
			continue
		}

		result.Structures = append(result.Structures, st)
		drawings = append(drawings, d)
	}
	result.Stats.ResolveTime = time.Since(resolveStart)

	if len(drawings) == 0 {
		return nil, errors.New(errors.ErrCodeAllFailed, "none of the %d compounds could be rendered", len(reqs))
	}

	renderStart := time.Now()
	grid, err := layout.Compose(drawings, *opts.Grid)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := render.Grid(&buf, grid, opts.Format); err != nil {
		return nil, err
	}
	result.Image = buf.Bytes()
	result.Legends = grid.Legends()
	result.Stats.Rendered = len(drawings)
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered grid",
		"grid", opts.Grid.Shape(),
		"panels", len(drawings),
		"failed", result.Stats.Failed,
		"format", opts.Format,
		"duration", result.Stats.RenderTime)

	return result, nil
}

func (res *Result) recordFailure(req Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	res.Failures = append(res.Failures, Failure{
		Query:   req.Query,
		Label:   req.DisplayLabel(),
		Code:    code,
		Message: errors.UserMessage(err),
	})
	res.Stats.Failed++
}

// WriteCaption writes the caption text for a grid figure to path, creating
// parent directories as needed.
func WriteCaption(path, title string, legends []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(Caption(title, legends)), 0o644)
}
