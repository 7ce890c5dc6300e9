package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/feyndraw/internal/server"
	"github.com/matzehuels/feyndraw/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the parse and render API over HTTP",
		Long: `Serve exposes the pipeline as a JSON/HTTP API:

  GET  /healthz
  POST /v1/parse       TikZ text  -> JSON diagram
  POST /v1/serialize   JSON       -> TikZ text
  POST /v1/format      TikZ text  -> canonical TikZ text
  POST /v1/render      TikZ text  -> artifact (?format=&view=&padding=&scale=&background=)

The artifact cache is shared across requests and configured in [cache].`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Server.Addr
			}

			runner := c.newRunner(ctx, cfg, noCache)
			defer runner.Close()

			srv := server.New(runner,
				server.WithLogger(c.Logger),
				server.WithMaxBodyBytes(cfg.Server.MaxBodyBytes),
				server.WithTimeout(cfg.Server.Timeout.Duration),
				server.WithRenderDefaults(pipeline.FromConfig(cfg)),
			)
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}
