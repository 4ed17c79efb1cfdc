package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/modlaunch/internal/config"
	"github.com/matzehuels/modlaunch/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the module catalog over a read-only HTTP API",
		Long: `Scan the configured roots once and serve the resulting catalog and
dependency graph as JSON until interrupted.

  GET /healthz
  GET /modules
  GET /modules/{name}
  GET /modules/{name}/{version}/sequence[?order=load]
  GET /conflicts`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := c.scan(cmd.Context())
			if err != nil {
				return err
			}
			if addr == "" {
				addr = snap.cfg.Server.Addr
			}
			srv := server.New(snap.cat, snap.graph, loggerFromContext(cmd.Context()))
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, "+config.DefaultAddr+")")
	return cmd
}
