package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"activitylog/internal/activity"
	"activitylog/internal/catalog"
	"activitylog/internal/config"
	appLog "activitylog/internal/log"
	"activitylog/internal/source"
)

const version = "0.3.0"

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "activitylog",
		Short:         "Serve and export the community activity log",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if flags.verbose {
				appLog.SetLevel(appLog.LevelDebug)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			appLog.Sync()
		},
	}

	root.PersistentFlags().StringVar(&flags.configPath, "config", "/etc/activitylog/config.yaml", "Path to YAML config")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		newServeCmd(flags),
		newRenderCmd(flags),
		newExportICSCmd(flags),
		newSnapshotCmd(flags),
	)
	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Root context with cancellation on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file named by --config.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", flags.configPath, err)
	}
	return cfg, nil
}

func sourceFromConfig(cfg *config.Config) source.Source {
	src := source.Source{ID: cfg.Source.ID, Path: cfg.Source.Path}
	if src.Path == "" {
		src.URL = cfg.Source.URL
	}
	return src
}

// openCatalog builds the catalog for cfg and performs the initial load.
// A failed load is logged and returned; the catalog is usable either way
// and reports the failure through its snapshot.
func openCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, error) {
	cat := catalog.New(sourceFromConfig(cfg), source.NewFetcher(cfg.CacheDir), activity.OptionsFromConfig(cfg))
	return cat, cat.Load(ctx)
}
