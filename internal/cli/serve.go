package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/qrying/stackreel/internal/server"
	"github.com/qrying/stackreel/pkg/cache"
)

const defaultAddr = "127.0.0.1:8080"

// serveCommand creates the serve command running the HTTP preview server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		cacheNS string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve scene previews over HTTP",
		Long: `Serve scene previews over HTTP.

Endpoints:
  GET /scenes                       list scenes
  GET /scenes/{name}                storyboard summary and circuit
  GET /scenes/{name}.gif            animation (?width=&height=&fps=&theme=&captions=)
  GET /scenes/{name}/frame.svg?t=   one frame as SVG
  GET /scenes/{name}/frame.png?t=   one frame as PNG
  GET /scenes/{name}/circuit.svg    gate dependency graph
  GET /healthz                      liveness`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") && c.Config.Addr != "" {
				addr = c.Config.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, cacheNS)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&cacheNS, "cache-prefix", "", "prefix for cache keys, to share one redis between servers")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, cacheNS string) error {
	var keyer cache.Keyer
	if cacheNS != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), cacheNS)
	}
	runner, err := c.newRunner(ctx, noCache, keyer)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	printInfo("Serving previews on %s", StyleLink.Render("http://"+addr+"/scenes"))
	printDetail("Press Ctrl+C to stop")

	err = server.New(runner, c.Logger).ListenAndServe(ctx, addr)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
