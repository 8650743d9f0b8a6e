/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ssargent/bsonview/pkg/api"
	"github.com/ssargent/bsonview/pkg/config"
)

func newServeCmd() *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the REST API server",
		Long: `Start the bsonview REST API server. Documents posted to it are validated,
inspected and kept in the spool.

When the configured API key is "auto" a key is generated for this run and
logged at startup.

Examples:
  bsonview serve
  bsonview serve --port 9000 --bind 0.0.0.0 --api-key mysecretkey`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appFrom(cmd)
			cfg := a.cfg

			if cmd.Flags().Changed("port") {
				cfg.Port, _ = cmd.Flags().GetInt("port")
			}
			if cmd.Flags().Changed("bind") {
				cfg.Bind, _ = cmd.Flags().GetString("bind")
			}
			if cmd.Flags().Changed("api-key") {
				cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			apiKey := cfg.Security.APIKey
			if apiKey == "auto" {
				generated, err := config.GenerateSecureKey(32)
				if err != nil {
					return err
				}
				apiKey = generated
				a.log.WithField("api_key", apiKey).Warn("generated API key for this run; run 'bsonview init' to persist one")
			}

			s, err := a.openSpool()
			if err != nil {
				return err
			}
			defer s.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(s, cfg.ReaderOptions(), api.ServerConfig{
				Addr:   cfg.Addr(),
				APIKey: apiKey,
			}, api.NewMetrics(), a.log)

			a.log.WithField("metrics", "http://"+cfg.Addr()+"/metrics").Info("metrics available")
			return server.ListenAndServe(ctx)
		},
	}

	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().String("bind", "", "Address to bind to (overrides config)")
	serveCmd.Flags().String("api-key", "", "API key for requests (overrides config)")
	return serveCmd
}
