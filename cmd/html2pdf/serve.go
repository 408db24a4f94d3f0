package main

import (
	"github.com/spf13/cobra"

	"github.com/alnah/go-html2pdf/internal/server"
)

func getServeCmd(root *rootCommand) *cobra.Command {
	var (
		addr      string
		rateLimit int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversions over HTTP",
		Long: `Serve POST /v1/convert, GET /healthz and GET /metrics.

The profile's pdf section provides the defaults each request starts from.
Stops gracefully on SIGINT/SIGTERM, waiting up to server.shutdownTimeout
for in-flight conversions.`,
		Example: `  html2pdf serve --addr :8080 --no-sandbox
  curl -s localhost:8080/v1/convert -d '{"html":"<h1>Hi</h1>","options":{"encoding":"binary"}}' > hi.pdf`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := root.cfg.Server
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("rate-limit") {
				if rateLimit < 0 {
					return usageErrorf("--rate-limit must be >= 0, got %d", rateLimit)
				}
				cfg.RateLimit = rateLimit
			}

			srv := server.New(root.newConverter(), server.Settings{
				RateLimit:    cfg.RateLimit,
				MaxBodyBytes: cfg.MaxBodyBytes,
				Defaults:     root.cfg.PDF,
			}, root.env.Logger)

			return srv.ListenAndServe(cmd.Context(), cfg.Addr, cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from profile, env HTML2PDF_SERVER_ADDR)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "conversions per client IP per minute, 0 disables (env HTML2PDF_RATE_LIMIT)")

	return cmd
}
