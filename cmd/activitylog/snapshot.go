package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"activitylog/internal/capture"
	"activitylog/internal/config"
	appLog "activitylog/internal/log"
	"activitylog/internal/render"
	"activitylog/internal/web"
)

func newSnapshotCmd(flags *rootFlags) *cobra.Command {
	var (
		url    string
		out    string
		width  int
		height int
	)
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Capture the rendered activity page as a PNG with headless Chromium",
		Long: `snapshot captures /activity as a full-page PNG.

Without --url it loads the events, serves them on a loopback port for the
duration of the capture and shoots that. The PNG goes to preview_path unless
--out is given, which is what /preview.png serves.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if out == "" {
				out = cfg.PreviewPath
			}
			opts := capture.Options{URL: url, OutputPath: out, Width: width, Height: height}
			if url != "" {
				return runCapture(cmd.Context(), opts)
			}
			return snapshotLocal(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "Page to capture (default: a temporary local server)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG output path (default preview_path)")
	cmd.Flags().IntVar(&width, "width", capture.DefaultWidth, "Viewport width in pixels")
	cmd.Flags().IntVar(&height, "height", capture.DefaultHeight, "Viewport height in pixels")
	return cmd
}

func runCapture(ctx context.Context, opts capture.Options) error {
	start := time.Now()
	if err := capture.CaptureActivityPNG(ctx, opts); err != nil {
		return err
	}
	appLog.Info("snapshot written", "url", opts.URL, "out", opts.OutputPath, "elapsed", time.Since(start).String())
	return nil
}

// snapshotLocal serves the site on 127.0.0.1:0 just long enough to capture it.
func snapshotLocal(ctx context.Context, cfg *config.Config, opts capture.Options) error {
	cat, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	renderer, err := render.New()
	if err != nil {
		return err
	}

	// The loopback server never needs credentials.
	local := *cfg
	local.BasicAuth = nil

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return fmt.Errorf("snapshot: listen: %w", err)
	}
	srv := &http.Server{
		Handler:           web.NewServer(&local, cat, renderer).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	opts.URL = "http://" + ln.Addr().String() + "/activity"
	captureErr := runCapture(ctx, opts)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		shutdownErr = errors.Join(shutdownErr, err)
	}
	return errors.Join(captureErr, shutdownErr)
}
