/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/bsonview/pkg/config"
	"github.com/ssargent/bsonview/pkg/spool"
)

type appKey struct{}

// app is the per-invocation state shared by all commands
type app struct {
	cfg *config.Config
	log *logrus.Logger
}

func appFrom(cmd *cobra.Command) *app {
	a, ok := cmd.Context().Value(appKey{}).(*app)
	if !ok {
		panic("bsonview: command run without configuration")
	}
	return a
}

// NewRootCmd builds the bsonview command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bsonview",
		Short: "bsonview - validate and inspect BSON documents",
		Long: `bsonview reads BSON documents without copying them. It validates untrusted
payloads, looks up fields by path, dumps documents as tables or JSON, and keeps
accepted documents in a local spool that can be served over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadApp,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default is ~/.config/bsonview/config.yaml)")
	rootCmd.PersistentFlags().StringP("data-dir", "d", "", "Spool directory (overrides config)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(
		newInitCmd(),
		newValidateCmd(),
		newGetCmd(),
		newDumpCmd(),
		newCountCmd(),
		newIngestCmd(),
		newListCmd(),
		newShowCmd(),
		newRmCmd(),
		newServeCmd(),
	)
	return rootCmd
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func loadApp(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg := config.DefaultConfig()
	switch {
	case configPath != "":
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	case config.ConfigExists(config.GetDefaultConfigPath()):
		loaded, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	logger.SetOutput(cmd.ErrOrStderr())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(context.WithValue(ctx, appKey{}, &app{cfg: cfg, log: logger}))
	return nil
}

// openSpool opens the spool in the configured data directory
func (a *app) openSpool() (*spool.Spool, error) {
	if err := os.MkdirAll(a.cfg.DataDir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return spool.Open(a.cfg.DataDir, spool.Options{
		Reader: a.cfg.ReaderOptions(),
		Logger: a.log,
	})
}

// readInput reads a whole file, or stdin when path is "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
