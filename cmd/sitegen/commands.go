package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"sitegen/internal/builder"
	"sitegen/internal/config"
	builderr "sitegen/internal/errors"
	"sitegen/internal/logfields"
	"sitegen/internal/metrics"
	"sitegen/internal/scaffold"
)

// BuildCmd renders the site.
type BuildCmd struct {
	Unsafe      bool   `help:"Disable HTML sanitization. Allows all raw HTML in markdown."`
	Jobs        int    `short:"j" help:"Number of pages rendered at once." default:"1" env:"SITEGEN_JOBS"`
	Strict      bool   `help:"Exit with an error when any page or asset directory fails."`
	MetricsFile string `help:"Write build metrics in Prometheus text format to this file." env:"SITEGEN_METRICS_FILE" type:"path"`
}

func (c *BuildCmd) Run(app *appContext) error {
	cfg, err := config.Load(app.fs, app.configPath)
	if err != nil {
		return fmt.Errorf("failed to load site config: %w", err)
	}

	fmt.Fprintln(app.stdout, "--- Generating site ---")
	opts := builder.BuildOptions{Unsafe: c.Unsafe, Jobs: c.Jobs}
	report := builder.New(app.fs, app.layout, cfg, opts, app.logger).Build()

	app.logger.Info("Build finished",
		slog.Int("pages_generated", report.PagesGenerated()),
		slog.Int("pages_failed", report.PagesFailed()),
		slog.Int("assets_copied", report.AssetsCopied()),
		slog.Int("assets_missing", report.AssetsMissing()),
		slog.Int("assets_failed", report.AssetsFailed()),
		logfields.DurationMS(float64(report.Duration.Microseconds())/1000),
	)

	if c.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(report)
		if err := rec.WriteTextfile(c.MetricsFile); err != nil {
			app.logger.Error("Could not write metrics file", logfields.File(c.MetricsFile), logfields.Error(err))
		}
	}

	printSummary(app.stdout, report)
	if c.Strict && report.HasFailures() {
		return fmt.Errorf("%d of %d pages and %d asset directories failed", report.PagesFailed(), len(report.Pages), report.AssetsFailed())
	}
	return nil
}

func printSummary(w io.Writer, report builder.Report) {
	for _, p := range report.Pages {
		if !p.Generated() {
			fmt.Fprintf(w, "⚠️  %s skipped at %s: %v\n", p.Page.File, builderr.StageOf(p.Err), errors.Unwrap(p.Err))
		}
	}
	if report.PagesFailed() == 0 && report.AssetsFailed() == 0 {
		fmt.Fprintf(w, "✅ Success! Generated %d pages, copied %d asset files.\n", report.PagesGenerated(), report.FilesCopied())
		return
	}
	fmt.Fprintf(w, "📄 Generated %d of %d pages, %d asset directories failed.\n",
		report.PagesGenerated(), len(report.Pages), report.AssetsFailed())
}

// InitCmd scaffolds a site.
type InitCmd struct {
	Dir string `arg:"" optional:"" help:"Directory for the new site. Defaults to --root." type:"path"`
}

func (c *InitCmd) Run(app *appContext) error {
	dir := c.Dir
	if dir == "" {
		dir = app.layout.Root
	}
	fmt.Fprintln(app.stdout, "Scaffolding new site in:", dir)
	created, err := scaffold.CreateNewSite(app.fs, dir)
	if err != nil {
		return err
	}
	for _, path := range created {
		if rel, err := filepath.Rel(dir, path); err == nil {
			path = rel
		}
		fmt.Fprintln(app.stdout, "  created", path)
	}
	fmt.Fprintln(app.stdout, "Site scaffolded. You can now:")
	fmt.Fprintln(app.stdout, "  cd", dir)
	fmt.Fprintln(app.stdout, "  sitegen build")
	return nil
}

// NewCmd adds a page.
type NewCmd struct {
	Title    string `arg:"" help:"Page title. The markdown file name is derived from it."`
	Output   string `short:"o" help:"Output path under public/. Defaults to <slug>.html."`
	Template string `short:"t" help:"Template file name. Defaults to the configured defaultTemplate."`
}

func (c *NewCmd) Run(app *appContext) error {
	path, err := scaffold.CreateNewPage(app.fs, app.layout, app.configPath, scaffold.NewPage{
		Title:    c.Title,
		Output:   c.Output,
		Template: c.Template,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(app.stdout, "Created:", path)
	return nil
}
