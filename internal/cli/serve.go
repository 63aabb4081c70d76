package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/gtreader/pkg/observability"
	"github.com/matzehuels/gtreader/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noMetrics bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the read-only query API over HTTP",
		Long: `Start an HTTP server that loads graphs on POST /graphs and answers
structure and property queries as JSON. Prometheus metrics are exposed at
/metrics unless --no-metrics is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			r, err := c.newRunner(ctx, false)
			if err != nil {
				return err
			}
			defer r.Close()

			cfg := c.Config.Server
			scfg := server.Config{
				MaxUploadBytes:  cfg.MaxUploadBytes,
				MaxGraphs:       cfg.MaxGraphs,
				ShutdownTimeout: cfg.ShutdownTimeout,
				Strict:          c.Config.Decode.Strict,
			}
			if !noMetrics {
				prom := observability.NewPrometheus()
				prom.Install()
				defer observability.Reset()
				scfg.Metrics = prom.Handler()
			}

			if addr == "" {
				addr = cfg.Addr
			}
			return server.New(r.Runner, c.Logger, scfg).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	return cmd
}
