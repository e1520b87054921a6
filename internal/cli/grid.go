package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/render"
	"github.com/molpic/molpic/pkg/render/layout"
)

// gridOpts holds the command-line flags for the grid command.
type gridOpts struct {
	output      string   // output file path
	grid        string   // grid shape like "2x3"
	subWidth    float64  // per-cell width
	subHeight   float64  // per-cell height
	names       []string // optional labels, positional per query
	noH         bool     // strip explicit hydrogens
	title       string   // figure title above the grid
	captionFile string   // caption text file to write
	orderBy     string   // "input" or "name"
	pngDPI      int      // raster density for PNG output
}

// gridCommand creates the grid command for multi-panel figures.
func (c *CLI) gridCommand() *cobra.Command {
	opts := gridOpts{
		output:    "panel.svg",
		grid:      "2x3",
		subWidth:  c.Config.PanelWidth,
		subHeight: c.Config.PanelHeight,
		orderBy:   string(layout.OrderByInput),
		pngDPI:    referenceDPI,
	}

	cmd := &cobra.Command{
		Use:   "grid <name-or-smiles>...",
		Short: "Render several compounds into one grid figure",
		Long: `Render multiple compounds into a single multi-panel figure.

Each argument is resolved independently; compounds that fail are skipped
and reported, and the figure is produced as long as at least one panel
renders. Labels are placed beneath each panel, an optional title above
the grid, and an optional caption file lists the compounds in placed
order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGrid(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", opts.output, "output file (.png or .svg)")
	cmd.Flags().StringVar(&opts.grid, "grid", opts.grid, "grid shape like 2x3")
	cmd.Flags().Float64Var(&opts.subWidth, "sub-width", opts.subWidth, "per-panel width in pixels")
	cmd.Flags().Float64Var(&opts.subHeight, "sub-height", opts.subHeight, "per-panel height in pixels")
	cmd.Flags().StringArrayVar(&opts.names, "name", nil, "panel label; repeatable, positional per compound")
	cmd.Flags().BoolVar(&opts.noH, "no-h", false, "remove explicit hydrogens")
	cmd.Flags().StringVar(&opts.title, "title", "", "figure title above the grid")
	cmd.Flags().StringVar(&opts.captionFile, "caption-file", "", "write a caption text file")
	cmd.Flags().StringVar(&opts.orderBy, "order-by", opts.orderBy, "panel order: input or name")
	cmd.Flags().IntVar(&opts.pngDPI, "png-dpi", opts.pngDPI, "raster density for PNG output (300 renders 1:1)")

	return cmd
}

func (c *CLI) runGrid(cmd *cobra.Command, args []string, opts gridOpts) error {
	format, err := render.FormatFromPath(opts.output)
	if err != nil {
		return err
	}
	rows, cols, err := layout.ParseShape(opts.grid)
	if err != nil {
		return err
	}

	reqs := make([]pipeline.Request, len(args))
	for i, q := range args {
		reqs[i] = pipeline.Request{Query: strings.TrimSpace(q)}
		if i < len(opts.names) {
			reqs[i].Label = strings.TrimSpace(opts.names[i])
		}
	}

	width, height := opts.subWidth, opts.subHeight
	if width == 0 {
		width = pipeline.DefaultPanelWidth
	}
	if height == 0 {
		height = pipeline.DefaultPanelHeight
	}

	scale := dpiScale(format, opts.pngDPI)
	popts := pipeline.Options{
		Width:         width * scale,
		Height:        height * scale,
		Format:        format,
		HideHydrogens: opts.noH,
		Logger:        loggerFromContext(cmd.Context()),
		Grid: &layout.GridSpec{
			Rows:    rows,
			Cols:    cols,
			Title:   opts.title,
			OrderBy: layout.Ordering(strings.ToLower(opts.orderBy)),
		},
	}

	spinner := newSpinnerWithContext(cmd.Context(), "Resolving compounds...")
	spinner.Start()
	result, err := c.newRunner().Execute(cmd.Context(), reqs, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	for _, f := range result.Failures {
		printWarning("skipped %s (%s)", f.Query, f.Message)
	}

	if err := os.WriteFile(opts.output, result.Image, 0o644); err != nil {
		return err
	}
	if opts.captionFile != "" {
		if err := pipeline.WriteCaption(opts.captionFile, opts.title, result.Legends); err != nil {
			return err
		}
		printFile(opts.captionFile)
	}

	printSuccess("Saved panel %s", opts.output)
	printKeyValue("Grid", popts.Grid.Shape())
	printStats(result.Stats.Rendered, result.Stats.Failed)
	return nil
}
