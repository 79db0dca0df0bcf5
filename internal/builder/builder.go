// internal/builder/builder.go
package builder

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"sitegen/internal/config"
	builderr "sitegen/internal/errors"
	"sitegen/internal/logfields"
	"sitegen/internal/util"
)

// Builder renders a loaded configuration into the publish root.
type Builder struct {
	fs       afero.Fs
	layout   config.Layout
	cfg      config.Config
	opts     BuildOptions
	renderer *Renderer
	logger   *slog.Logger
}

// New returns a builder for cfg. The configuration is only read.
func New(fsys afero.Fs, layout config.Layout, cfg config.Config, opts BuildOptions, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		fs:       fsys,
		layout:   layout,
		cfg:      cfg,
		opts:     opts,
		renderer: NewRenderer(cfg.RenderOptions(), opts.Unsafe),
		logger:   logger,
	}
}

// Build copies the static assets and then renders every page. Failures of
// individual asset directories or pages are recorded in the report; they
// never stop the build.
func (b *Builder) Build() Report {
	start := time.Now()
	if err := b.fs.MkdirAll(b.layout.PublishRoot(), 0755); err != nil {
		b.logger.Error("Could not create publish root", logfields.Destination(b.layout.PublishRoot()), logfields.Error(err))
	}

	report := Report{
		Assets: CopyAssets(b.fs, b.layout.AssetPairs(), b.logger),
		Pages:  b.BuildPages(),
	}
	report.Duration = time.Since(start)
	return report
}

// BuildPages renders the configured pages. Results are returned in
// configuration order even when pages are rendered concurrently.
func (b *Builder) BuildPages() []PageResult {
	pages := b.cfg.Pages
	results := make([]PageResult, len(pages))

	jobs := b.opts.Jobs
	if jobs > 1 && hasSharedOutputs(pages) {
		b.logger.Warn("Pages share an output path, rendering sequentially")
		jobs = 1
	}
	if jobs <= 1 {
		for i, page := range pages {
			results[i] = b.BuildPage(i, page)
		}
		return results
	}

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, page := range pages {
		g.Go(func() error {
			results[i] = b.BuildPage(i, page)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func hasSharedOutputs(pages []config.Page) bool {
	seen := make(map[string]bool, len(pages))
	for _, p := range pages {
		key := filepath.Clean(filepath.FromSlash(p.Output))
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// BuildPage runs the page pipeline for one configured page: resolve paths,
// create the output directory, read and render the markdown, read the
// template, compute the base path, substitute placeholders and write the
// result. The returned result carries the classified error of the first
// failing step.
func (b *Builder) BuildPage(index int, page config.Page) PageResult {
	templateName := b.cfg.TemplateFor(page)
	markdownPath := b.layout.MarkdownPath(page.File)
	templatePath := b.layout.TemplatePath(templateName)
	outputPath := b.layout.OutputPath(page.Output)

	res := PageResult{Index: index, Page: page, OutputPath: outputPath}
	log := b.logger.With(logfields.Page(index), logfields.File(page.File), logfields.Output(page.Output))

	fail := func(stage builderr.Stage, path string, err error) PageResult {
		res.Err = builderr.PageProcess(stage, path, err)
		log.Error("Page skipped", logfields.Stage(string(stage)), logfields.Error(err))
		return res
	}

	if err := b.fs.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fail(builderr.StageMkdir, filepath.Dir(outputPath), err)
	}

	source, err := afero.ReadFile(b.fs, markdownPath)
	if err != nil {
		return fail(builderr.StageReadSource, markdownPath, err)
	}
	frontMatter, body, err := splitFrontMatter(source)
	if err != nil {
		log.Debug("Rendering leading --- block as markdown", logfields.Error(err))
	}
	content, err := b.renderer.Render(body)
	if err != nil {
		return fail(builderr.StageRender, markdownPath, err)
	}

	tmpl, err := afero.ReadFile(b.fs, templatePath)
	if err != nil {
		return fail(builderr.StageReadTemplate, templatePath, err)
	}

	basePath, err := util.ComputeBasePath(outputPath, b.layout.PublishRoot())
	if err != nil {
		return fail(builderr.StageBasePath, outputPath, err)
	}

	title := page.Title
	if title == "" {
		title, _ = frontMatter.Get(KeyTitle)
	}
	replacements, collisions := buildReplacements(title, content, basePath, frontMatter, page.Metadata)
	res.Collisions = collisions
	for _, key := range collisions {
		log.Warn("Page metadata overrides a reserved placeholder", logfields.Key(key))
	}

	final := ReplacePlaceholders(string(tmpl), replacements)
	if err := afero.WriteFile(b.fs, outputPath, []byte(final), 0644); err != nil {
		return fail(builderr.StageWrite, outputPath, fmt.Errorf("could not write page: %w", err))
	}

	log.Info("Page generated", logfields.Template(templateName))
	return res
}
