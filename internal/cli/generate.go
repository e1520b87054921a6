package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/render"
)

// referenceDPI is the raster density at which --png-dpi renders 1:1.
const referenceDPI = 300

// generateOpts holds the command-line flags for the generate command.
type generateOpts struct {
	output      string  // output file path (.png or .svg)
	width       float64 // canvas width in pixels
	height      float64 // canvas height in pixels
	name        string  // legend label under the structure
	noH         bool    // strip explicit hydrogens
	transparent bool    // keep the background unfilled
	pngDPI      int     // raster density for PNG output
}

// generateCommand creates the generate command for rendering one compound.
func (c *CLI) generateCommand() *cobra.Command {
	opts := generateOpts{
		output:      "molecule.svg",
		width:       c.Config.Width,
		height:      c.Config.Height,
		transparent: true,
		pngDPI:      referenceDPI,
	}

	cmd := &cobra.Command{
		Use:   "generate <name-or-smiles>",
		Short: "Render a single compound to an image",
		Long: `Render one compound to a 2D structure image.

The argument is either a compound name (resolved via PubChem, with CACTUS
as a fallback) or a SMILES string. The output format follows the file
extension: .png or .svg.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd, strings.TrimSpace(args[0]), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", opts.output, "output file (.png or .svg)")
	cmd.Flags().Float64Var(&opts.width, "width", opts.width, "image width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", opts.height, "image height in pixels")
	cmd.Flags().StringVar(&opts.name, "name", "", "legend label under the structure")
	cmd.Flags().BoolVar(&opts.noH, "no-h", false, "remove explicit hydrogens")
	cmd.Flags().BoolVar(&opts.transparent, "transparent", opts.transparent, "transparent background")
	cmd.Flags().IntVar(&opts.pngDPI, "png-dpi", opts.pngDPI, "raster density for PNG output (300 renders 1:1)")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, query string, opts generateOpts) error {
	format, err := render.FormatFromPath(opts.output)
	if err != nil {
		return err
	}

	width, height := opts.width, opts.height
	if width == 0 {
		width = pipeline.DefaultWidth
	}
	if height == 0 {
		height = pipeline.DefaultHeight
	}

	scale := dpiScale(format, opts.pngDPI)
	popts := pipeline.Options{
		Width:         width * scale,
		Height:        height * scale,
		Format:        format,
		HideHydrogens: opts.noH,
		Transparent:   opts.transparent,
		Logger:        loggerFromContext(cmd.Context()),
	}

	spinner := newSpinnerWithContext(cmd.Context(), fmt.Sprintf("Resolving %s...", query))
	spinner.Start()
	result, err := c.newRunner().Execute(cmd.Context(), []pipeline.Request{{Query: query, Label: strings.TrimSpace(opts.name)}}, popts)
	spinner.Stop()
	if err != nil {
		return err
	}

	if err := os.WriteFile(opts.output, result.Image, 0o644); err != nil {
		return err
	}

	st := result.Structures[0]
	printSuccess("Saved %s", opts.output)
	printKeyValue("Label", st.Label)
	printKeyValue("SMILES", st.SMILES)
	source := st.Source
	if st.CID != 0 {
		source = fmt.Sprintf("%s (CID %d)", st.Source, st.CID)
	}
	printKeyValue("Source", source)
	return nil
}

// dpiScale converts a --png-dpi value into a canvas scale factor. SVG
// output is resolution independent and ignores the flag.
func dpiScale(format render.Format, dpi int) float64 {
	if format != render.FormatPNG || dpi <= 0 {
		return 1
	}
	return float64(dpi) / referenceDPI
}
