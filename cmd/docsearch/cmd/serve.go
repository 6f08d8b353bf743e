package cmd

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	transporthttp "github.com/doylet/docsearch/internal/transport/http"
	transportmcp "github.com/doylet/docsearch/internal/transport/mcp"
)

func newServeCmd() *cobra.Command {
	var transport string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the search service",
		Long: `Run the search service over REST (spec.md §6) or MCP stdio, one transport per process.

--transport http starts the REST server on the configured host:port.
--transport mcp runs the MCP tool surface over stdio, for embedding in
an AI client's tool configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer()
			if err != nil {
				return err
			}
			defer c.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			switch transport {
			case "http":
				addr := fmt.Sprintf("%s:%d", c.Config.Server.Host, c.Config.Server.Port)
				srv := &http.Server{Addr: addr, Handler: transporthttp.NewRouter(c)}
				c.Logger.Info("starting REST server", "addr", addr)

				errCh := make(chan error, 1)
				go func() { errCh <- srv.ListenAndServe() }()

				select {
				case err := <-errCh:
					if err != nil && err != http.ErrServerClosed {
						return err
					}
					return nil
				case <-ctx.Done():
					return srv.Shutdown(cmd.Context())
				}
			case "mcp":
				return transportmcp.NewServer(c).Serve(ctx)
			default:
				return fmt.Errorf("unknown transport %q (want http or mcp)", transport)
			}
		},
	}

	cmd.Flags().StringVar(&transport, "transport", "http", "transport to serve: http or mcp")

	return cmd
}
