package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/render"
	"github.com/molpic/molpic/pkg/render/layout"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	smilesCol        string // CSV column holding SMILES
	nameCol          string // CSV column holding names
	outDir           string // output directory
	format           string // per-row image format
	noH              bool   // strip explicit hydrogens
	makePanels       bool   // chunk successes into grid figures
	panelGrid        string // panel grid shape like "2x3"
	panelTitlePrefix string // title prefix for numbered panels
	captions         bool   // write a caption file per panel
	orderBy          string // "input" or "name"
}

// batchCommand creates the batch command for CSV-driven runs.
func (c *CLI) batchCommand() *cobra.Command {
	opts := batchOpts{
		smilesCol:        "smiles",
		nameCol:          "name",
		outDir:           "molpic_out",
		format:           c.Config.Format,
		panelGrid:        "2x3",
		panelTitlePrefix: "Panel",
		orderBy:          string(layout.OrderByInput),
	}
	if opts.format == "" {
		opts.format = string(pipeline.DefaultFormat)
	}

	cmd := &cobra.Command{
		Use:   "batch <input.csv>",
		Short: "Render every compound from a CSV file",
		Long: `Render one image per CSV row into an output directory.

Each row supplies a SMILES cell, a name cell, or both (SMILES wins; the
name becomes the label). A molpic_report.csv records every row's outcome.
With --make-panels the successful rows are additionally chunked into
numbered grid figures.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBatch(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.smilesCol, "smiles-col", opts.smilesCol, "CSV column holding SMILES")
	cmd.Flags().StringVar(&opts.nameCol, "name-col", opts.nameCol, "CSV column holding names")
	cmd.Flags().StringVar(&opts.outDir, "out-dir", opts.outDir, "output directory")
	cmd.Flags().StringVar(&opts.format, "fmt", opts.format, "image format: svg or png")
	cmd.Flags().BoolVar(&opts.noH, "no-h", false, "remove explicit hydrogens")
	cmd.Flags().BoolVar(&opts.makePanels, "make-panels", false, "chunk successes into grid figures")
	cmd.Flags().StringVar(&opts.panelGrid, "panel-grid", opts.panelGrid, "panel grid shape like 2x3")
	cmd.Flags().StringVar(&opts.panelTitlePrefix, "panel-title-prefix", opts.panelTitlePrefix, "title prefix for numbered panels")
	cmd.Flags().BoolVar(&opts.captions, "captions", false, "write a caption file per panel")
	cmd.Flags().StringVar(&opts.orderBy, "order-by", opts.orderBy, "panel order: input or name")

	return cmd
}

func (c *CLI) runBatch(cmd *cobra.Command, inputPath string, opts batchOpts) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	rows, cols, err := layout.ParseShape(opts.panelGrid)
	if err != nil {
		return err
	}

	input, err := os.Open(inputPath)
	if err != nil {
		return err
	}
	defer input.Close()

	bopts := pipeline.BatchOptions{
		SmilesColumn:     opts.smilesCol,
		NameColumn:       opts.nameCol,
		OutDir:           opts.outDir,
		Format:           format,
		Width:            c.Config.Width,
		Height:           c.Config.Height,
		HideHydrogens:    opts.noH,
		MakePanels:       opts.makePanels,
		PanelRows:        rows,
		PanelCols:        cols,
		PanelTitlePrefix: opts.panelTitlePrefix,
		Captions:         opts.captions,
		OrderBy:          layout.Ordering(strings.ToLower(opts.orderBy)),
		Logger:           loggerFromContext(cmd.Context()),
	}

	prog := newProgress(loggerFromContext(cmd.Context()))
	result, err := c.newRunner().ExecuteBatch(cmd.Context(), input, bopts)
	if err != nil {
		if result != nil {
			printFile(result.ReportPath)
		}
		return err
	}
	prog.done("Batch finished")

	printSuccess("Done. Output dir: %s", opts.outDir)
	printFile(result.ReportPath)
	for _, p := range result.Panels {
		printFile(p)
	}
	printStats(result.Stats.Rendered, result.Stats.Failed)
	return nil
}
