package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/stacklens/internal/api"
)

// serveCommand creates the "serve" command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `Serve exposes the analysis operations under /api/v1/npm, plus /healthz
and /cache/stats. It stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withApp(cmd.Context(), func(a *app) error {
				if addr == "" {
					addr = a.cfg.Server.Addr
				}
				srv := api.New(a.analyzer, a.lookup, a.cache, c.Logger)
				return srv.ListenAndServe(cmd.Context(), addr)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
