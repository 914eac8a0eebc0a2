package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"activitylog/internal/catalog"
	"activitylog/internal/config"
	appLog "activitylog/internal/log"
	"activitylog/internal/render"
	"activitylog/internal/web"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var (
		listen string
		once   bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the activity log over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			// CLI --listen overrides config file listen if provided.
			if listen != "" {
				cfg.Listen = listen
			}
			return runServe(cmd.Context(), cfg, once)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	cmd.Flags().BoolVar(&once, "once", false, "Load events once, log the result and exit")
	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, once bool) error {
	appLog.Info("activitylog starting", "version", version)
	appLog.Info("effective config",
		"listen", cfg.Listen,
		"source", sourceFromConfig(cfg).Location(),
		"refresh", cfg.RefreshCron,
		"watch", cfg.Watch,
		"timezone", cfg.Timezone,
		"lang", cfg.Lang,
		"video_platform", cfg.VideoPlatform,
		"once", once,
	)

	cat, loadErr := openCatalog(ctx, cfg)
	if once {
		if loadErr != nil {
			return loadErr
		}
		snap := cat.Snapshot()
		appLog.Info("events ready", "count", len(snap.Events), "from_cache", snap.FromCache)
		return nil
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}
	srv := web.NewServer(cfg, cat, renderer)

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RefreshEnabled() {
		done, err := cat.StartScheduler(gctx, cfg.RefreshCron, cfg.Location())
		if err != nil {
			return err
		}
		g.Go(func() error {
			<-done
			return nil
		})
	}

	g.Go(func() error { return srv.Run(gctx) })

	if cfg.Watch && cat.Source().Path != "" {
		g.Go(func() error {
			err := cat.Watch(gctx, catalog.DefaultDebounce)
			if err != nil && !errors.Is(err, catalog.ErrNotWatchable) {
				appLog.Error("events watcher stopped", err)
			}
			// The site keeps serving without live reloads.
			return nil
		})
	}

	err = g.Wait()
	appLog.Info("activitylog exiting")
	return err
}
