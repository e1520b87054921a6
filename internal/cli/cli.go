// Package cli implements the molpic command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/molpic/molpic/pkg/buildinfo"
	"github.com/molpic/molpic/pkg/integrations/cactus"
	"github.com/molpic/molpic/pkg/integrations/pubchem"
	"github.com/molpic/molpic/pkg/pipeline"
	"github.com/molpic/molpic/pkg/resolve"
)

// appName is the application name used for directories and display.
const appName = "molpic"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the user's
// config file applied (missing files are fine).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig()
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "molpic turns compound names and SMILES into 2D structure images",
		Long:         `molpic is a CLI tool that converts chemical compound names or SMILES strings into 2D molecular structure images (PNG/SVG), as single pictures or multi-panel grid figures with labels, titles, and captions.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Carry the logger in the command context so every command and the
	// pipeline underneath pull from one place.
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.gridCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner wired against the configured lookup
// services.
func (c *CLI) newRunner() *pipeline.Runner {
	resolver := resolve.New(
		resolve.WithPubChem(pubchem.NewClient(c.Config.PubChemBaseURL)),
		resolve.WithCactus(cactus.NewClient(c.Config.CactusBaseURL)),
		resolve.WithLogger(c.Logger),
	)
	return pipeline.NewRunner(resolver, c.Logger)
}
