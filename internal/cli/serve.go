package cli

import (
	"github.com/spf13/cobra"

	"github.com/molpic/molpic/internal/server"
)

type serveOpts struct {
	addr string
}

// serveCommand creates the serve command exposing the render API.
func (c *CLI) serveCommand() *cobra.Command {
	opts := &serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rendering API over HTTP",
		Long: `Start an HTTP server exposing the rendering pipeline.

The server offers a small form page at / for interactive use, a JSON
API at POST /api/render returning image bytes, a /healthz probe, and
Prometheus metrics at /metrics. It stops gracefully on interrupt.`,
		Example: `  # Serve on the default address
  molpic serve

  # Bind a specific host and port
  molpic serve --addr 127.0.0.1:9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := server.New(c.newRunner(), c.Logger)
			return srv.Run(cmd.Context(), opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", ":8787", "listen address")

	return cmd
}
