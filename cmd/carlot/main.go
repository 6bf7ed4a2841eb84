// Command carlot builds the sample car lot, runs the demo queries against it,
// and can serve the lot over HTTP.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/WessleyAI/carlot/pkg/config"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "carlot",
		Short:        "Car lot demo and API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")

	cmd.AddCommand(
		demoCmd(&configPath),
		serveCmd(&configPath),
		watchCmd(&configPath),
	)
	return cmd
}

// setup loads configuration and builds the logger every subcommand uses.
func setup(configPath string, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Log, w)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newLogger(lc config.LogConfig, w io.Writer) *slog.Logger {
	lvl, _ := lc.SlogLevel()
	opts := &slog.HandlerOptions{Level: lvl}
	if lc.Format == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
