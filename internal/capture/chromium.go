package capture

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

// Default capture parameters for the activity page snapshot.
const (
	DefaultWidth    = 1280
	DefaultHeight   = 1600
	DefaultTimeout  = 30 * time.Second
	DefaultSettle   = 500 * time.Millisecond
	ReadySelector   = `[data-ready="true"]`
	defaultFileMode = 0o644
)

// Options defines parameters for a Chromium-based screenshot capture.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/activity".
	URL string

	// OutputPath is where the PNG is written.
	OutputPath string

	// Width and Height are the viewport dimensions in pixels. Zero means
	// DefaultWidth / DefaultHeight.
	Width  int
	Height int

	// Timeout bounds the whole capture. Zero means DefaultTimeout.
	Timeout time.Duration

	// Settle is the pause after the page reports ready, letting lazy
	// images and fonts paint. Zero means DefaultSettle.
	Settle time.Duration
}

func (o *Options) defaults() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	if o.OutputPath == "" {
		return errors.New("capture: OutputPath is required")
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Settle <= 0 {
		o.Settle = DefaultSettle
	}
	return nil
}

// CaptureActivityPNG opens opts.URL in headless Chromium, waits until the
// page root carries data-ready="true" and writes a full-page PNG.
func CaptureActivityPNG(parentCtx context.Context, opts Options) error {
	if err := opts.defaults(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.Sleep(opts.Settle),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if dir := filepath.Dir(opts.OutputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("capture: create output dir: %w", err)
		}
	}
	if err := os.WriteFile(opts.OutputPath, png, defaultFileMode); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
