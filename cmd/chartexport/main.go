// Command chartexport renders chart fixtures through the export pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/chartexport"
	"github.com/gogpu/chartexport/config"
	"github.com/gogpu/chartexport/surface"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		profilePath string
		verbose     bool
	)

	root := &cobra.Command{
		Use:          "chartexport",
		Short:        "Export charts to print-ready PDF or PNG",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if verbose {
				chartexport.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
					Level: slog.LevelDebug,
				})))
			}
		},
	}
	root.PersistentFlags().StringVar(&profilePath, "profile", "", "Profile TOML file (default: built-in profile)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	loadProfile := func() (*config.Profile, error) {
		if profilePath == "" {
			return config.Default(), nil
		}
		return config.Load(profilePath)
	}

	root.AddCommand(newRenderCmd(loadProfile), newProfileCmd(loadProfile))
	return root
}

func newRenderCmd(loadProfile func() (*config.Profile, error)) *cobra.Command {
	var (
		chartsPath string
		theme      string
		mode       string
		outPath    string
		outDir     string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the charts of a fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			th, err := surface.ParseTheme(theme)
			if err != nil {
				return err
			}
			m, err := chartexport.ParseMode(mode)
			if err != nil {
				return err
			}
			profile, err := loadProfile()
			if err != nil {
				return err
			}
			opts, err := profile.Options()
			if err != nil {
				return err
			}
			fixture, err := config.LoadCharts(chartsPath)
			if err != nil {
				return err
			}
			job, err := fixture.Job(th, m)
			if err != nil {
				return err
			}

			return render(cmd.Context(), cmd.OutOrStdout(), chartexport.New(opts...), job, outPath, outDir)
		},
	}

	cmd.Flags().StringVar(&chartsPath, "charts", "", "Chart fixture TOML file")
	cmd.Flags().StringVar(&theme, "theme", "light", "Export theme: light, dark")
	cmd.Flags().StringVar(&mode, "mode", "document", "Output mode: document, single-image")
	cmd.Flags().StringVarP(&outPath, "out", "o", "export.pdf", "Output PDF path (document mode)")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "Output directory (single-image mode)")
	_ = cmd.MarkFlagRequired("charts")
	return cmd
}

func render(ctx context.Context, stdout io.Writer, exp *chartexport.Exporter, job chartexport.Job, outPath, outDir string) error {
	var file *os.File
	if job.Mode == chartexport.ModeDocument {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		file = f
		job.Sink = f
	}

	res, err := exp.Run(ctx, job)
	if res != nil {
		for _, s := range res.Skipped {
			fmt.Fprintf(stdout, "skipped: %v\n", s)
		}
	}
	if err != nil {
		if file != nil {
			_ = os.Remove(outPath)
		}
		if errors.Is(err, chartexport.ErrCancelled) {
			return errors.New("export cancelled")
		}
		return err
	}

	if job.Mode == chartexport.ModeDocument {
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(stdout, "wrote %s (%d pages)\n", outPath, res.Pages)
		return nil
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, img := range res.Images {
		name := filepath.Join(outDir, fmt.Sprintf("%02d-%s.png", img.Index+1, slug(img.Title)))
		if err := os.WriteFile(name, img.PNG, 0o644); err != nil {
			return fmt.Errorf("failed to write image: %w", err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", name)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(title string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if s == "" {
		return "chart"
	}
	return s
}

func newProfileCmd(loadProfile func() (*config.Profile, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Print the effective profile as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := loadProfile()
			if err != nil {
				return err
			}
			data, err := p.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
