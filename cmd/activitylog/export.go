package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"activitylog/internal/activity"
	"activitylog/internal/ics"
	appLog "activitylog/internal/log"
	"activitylog/internal/render"
)

// writeOutput runs fn against stdout when path is "" or "-", otherwise
// against a file created atomically next to path.
func writeOutput(cmd *cobra.Command, path string, fn func(io.Writer) error) error {
	if path == "" || path == "-" {
		return fn(cmd.OutOrStdout())
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".activitylog-out-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := fn(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

func newRenderCmd(flags *rootFlags) *cobra.Command {
	var (
		out    string
		query  string
		lang   string
		recent bool
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the activity page (or the recent teaser) to HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.Lang
			}
			cat, loadErr := openCatalog(cmd.Context(), cfg)
			r, err := render.New()
			if err != nil {
				return err
			}

			snap := cat.Snapshot()
			err = writeOutput(cmd, out, func(w io.Writer) error {
				if recent {
					return r.Recent(w, activity.Recent(snap.Events, activity.DefaultRecentCount, lang, cat.Options()))
				}
				st := activity.ViewState{Query: query, Lang: lang, LoadErr: snap.Err}
				return r.Page(w, activity.BuildView(snap.Events, st, cat.Options()))
			})
			if err != nil {
				return err
			}
			// The placeholder page was written; still report the failure.
			return loadErr
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Search filter")
	cmd.Flags().StringVar(&lang, "lang", "", "Display language: ml or en (default from config)")
	cmd.Flags().BoolVar(&recent, "recent", false, "Render the recent events teaser instead of the page")
	return cmd
}

func newExportICSCmd(flags *rootFlags) *cobra.Command {
	var (
		out     string
		lang    string
		domain  string
		pageURL string
	)
	cmd := &cobra.Command{
		Use:   "export-ics",
		Short: "Export dated events as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if lang == "" {
				lang = cfg.Lang
			}
			cat, err := openCatalog(cmd.Context(), cfg)
			if err != nil {
				return fmt.Errorf("export-ics: %w", err)
			}
			events := cat.Snapshot().Events
			err = writeOutput(cmd, out, func(w io.Writer) error {
				return ics.Write(w, events, ics.ExportOptions{
					Name:    cfg.SiteTitle,
					Domain:  domain,
					PageURL: pageURL,
					Lang:    lang,
				})
			})
			if err != nil {
				return err
			}
			appLog.Info("ics exported", "events", len(events), "out", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file (- for stdout)")
	cmd.Flags().StringVar(&lang, "lang", "", "Summary language: ml or en (default from config)")
	cmd.Flags().StringVar(&domain, "domain", "", "UID domain (default activitylog.local)")
	cmd.Flags().StringVar(&pageURL, "page-url", "", "Absolute URL of the activity page for event links")
	return cmd
}
