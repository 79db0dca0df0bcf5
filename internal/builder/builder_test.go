package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"sitegen/internal/config"
	builderr "sitegen/internal/errors"
)

type site struct {
	fs     afero.Fs
	layout config.Layout
}

func newSite(t *testing.T) site {
	t.Helper()
	return site{fs: afero.NewMemMapFs(), layout: config.NewLayout(filepath.FromSlash("/site"))}
}

func (s site) markdown(t *testing.T, name, content string) {
	writeFile(t, s.fs, s.layout.MarkdownPath(name), content)
}

func (s site) template(t *testing.T, name, content string) {
	writeFile(t, s.fs, s.layout.TemplatePath(name), content)
}

func (s site) output(t *testing.T, name string) string {
	return readFile(t, s.fs, s.layout.OutputPath(name))
}

func (s site) build(cfg config.Config, opts BuildOptions) Report {
	return New(s.fs, s.layout, cfg, opts, discardLogger()).Build()
}

func TestBuild_EndToEnd(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "index.md", "# Hello")
	s.template(t, "base.html", "{{basePath}}|{{title}}|{{content}}")

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages:           []config.Page{{File: "index.md", Output: "index.html", Title: "Home"}},
	}, BuildOptions{})

	require.Equal(t, 1, report.PagesGenerated())
	require.Equal(t, "./|Home|<h1>Hello</h1>\n", s.output(t, "index.html"))
}

func TestBuild_NestedOutputsGetRelativeBasePath(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "post.md", "text")
	s.template(t, "post.html", `<link href="{{basePath}}style/site.css">`)

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages:           []config.Page{{File: "post.md", Template: "post.html", Output: "blog/2024/post.html"}},
	}, BuildOptions{})

	require.Equal(t, 1, report.PagesGenerated())
	require.Equal(t, `<link href="../../style/site.css">`, s.output(t, "blog/2024/post.html"))
}

func TestBuild_PartialFailureIsolation(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "a.md", "a")
	s.markdown(t, "c.md", "c")
	s.markdown(t, "d.md", "d")
	s.template(t, "base.html", "{{content}}")

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages: []config.Page{
			{File: "a.md", Output: "a.html"},
			{File: "missing.md", Output: "b.html"},
			{File: "c.md", Output: "c.html"},
			{File: "d.md", Template: "missing.html", Output: "d.html"},
		},
	}, BuildOptions{})

	require.Len(t, report.Pages, 4)
	require.Equal(t, 2, report.PagesGenerated())
	require.Equal(t, 2, report.PagesFailed())
	require.True(t, report.HasFailures())

	require.ErrorIs(t, report.Pages[1].Err, builderr.ErrSourceRead)
	require.ErrorIs(t, report.Pages[3].Err, builderr.ErrPageProcess)
	require.Equal(t, builderr.StageReadTemplate, builderr.StageOf(report.Pages[3].Err))

	require.Equal(t, "<p>a</p>\n", s.output(t, "a.html"))
	require.Equal(t, "<p>c</p>\n", s.output(t, "c.html"))
	for _, name := range []string{"b.html", "d.html"} {
		exists, err := afero.Exists(s.fs, s.layout.OutputPath(name))
		require.NoError(t, err)
		require.False(t, exists, name)
	}
}

func TestBuild_MetadataAndCollisions(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "index.md", "body")
	s.template(t, "base.html", "{{title}}|{{author}}|{{content}}")

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages: []config.Page{{
			File: "index.md", Output: "index.html", Title: "Home",
			Metadata: config.Metadata{{Key: "author", Value: "Ana"}, {Key: "title", Value: "Override"}},
		}},
	}, BuildOptions{})

	require.Equal(t, []string{"title"}, report.Pages[0].Collisions)
	require.Equal(t, "Override|Ana|<p>body</p>\n", s.output(t, "index.html"))
}

func TestBuild_FrontMatter(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "index.md", "---\ntitle: FM Title\nauthor: fm\n---\nbody\n")
	s.markdown(t, "other.md", "---\ntitle: ignored\nauthor: fm\n---\nbody\n")
	s.template(t, "base.html", "{{title}}|{{author}}|{{content}}")

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages: []config.Page{
			{File: "index.md", Output: "index.html"},
			{File: "other.md", Output: "other.html", Title: "Config", Metadata: config.Metadata{{Key: "author", Value: "cfg"}}},
		},
	}, BuildOptions{})

	require.Equal(t, 2, report.PagesGenerated())
	require.Equal(t, "FM Title|fm|<p>body</p>\n", s.output(t, "index.html"))
	require.Equal(t, "Config|cfg|<p>body</p>\n", s.output(t, "other.html"))
}

func TestBuild_OverwritesExistingOutput(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "index.md", "new")
	s.template(t, "base.html", "{{content}}")
	writeFile(t, s.fs, s.layout.OutputPath("index.html"), "old content that is longer")

	s.build(config.Config{DefaultTemplate: "base.html", Pages: []config.Page{{File: "index.md", Output: "index.html"}}}, BuildOptions{})
	require.Equal(t, "<p>new</p>\n", s.output(t, "index.html"))
}

func TestBuild_CopiesAssetsAndPages(t *testing.T) {
	s := newSite(t)
	writeFile(t, s.fs, filepath.Join(s.layout.Root, "style", "site.css"), "body{}")
	writeFile(t, s.fs, filepath.Join(s.layout.Root, "static-html", "about.html"), "about")
	s.markdown(t, "index.md", "# Hi")
	s.template(t, "base.html", "{{content}}")

	report := s.build(config.Config{DefaultTemplate: "base.html", Pages: []config.Page{{File: "index.md", Output: "index.html"}}}, BuildOptions{})

	require.Equal(t, 2, report.AssetsCopied())
	require.Equal(t, 2, report.AssetsMissing())
	require.Equal(t, "body{}", readFile(t, s.fs, filepath.Join(s.layout.PublishRoot(), "style", "site.css")))
	require.Equal(t, "about", readFile(t, s.fs, filepath.Join(s.layout.PublishRoot(), "about.html")))
	require.Equal(t, "<h1>Hi</h1>\n", s.output(t, "index.html"))
}

func TestBuildPages_ParallelKeepsOrder(t *testing.T) {
	s := newSite(t)
	s.template(t, "base.html", "{{title}}:{{content}}")

	var pages []config.Page
	for i := 0; i < 20; i++ {
		name := fmt.Sprintf("p%02d", i)
		if i%5 != 3 {
			s.markdown(t, name+".md", name)
		}
		pages = append(pages, config.Page{File: name + ".md", Output: "pages/" + name + ".html", Title: name})
	}

	report := s.build(config.Config{DefaultTemplate: "base.html", Pages: pages}, BuildOptions{Jobs: 4})
	require.Len(t, report.Pages, 20)
	require.Equal(t, 16, report.PagesGenerated())
	for i, res := range report.Pages {
		require.Equal(t, i, res.Index)
		require.Equal(t, pages[i].File, res.Page.File)
		if i%5 == 3 {
			require.ErrorIs(t, res.Err, builderr.ErrSourceRead)
			continue
		}
		name := fmt.Sprintf("p%02d", i)
		require.Equal(t, name+":<p>"+name+"</p>\n", s.output(t, "pages/"+name+".html"))
	}
}

func TestBuildPages_SharedOutputsRenderInOrder(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "first.md", "first")
	s.markdown(t, "second.md", "second")
	s.template(t, "base.html", "{{content}}")

	s.build(config.Config{DefaultTemplate: "base.html", Pages: []config.Page{
		{File: "first.md", Output: "index.html"},
		{File: "second.md", Output: "./index.html"},
	}}, BuildOptions{Jobs: 8})

	require.Equal(t, "<p>second</p>\n", s.output(t, "index.html"))
}

func TestBuild_OutputCountMatchesPagesWithSources(t *testing.T) {
	s := newSite(t)
	s.template(t, "a.html", "A{{content}}")
	s.markdown(t, "one.md", "1")
	s.markdown(t, "two.md", "2")

	report := s.build(config.Config{
		DefaultTemplate: "a.html",
		Pages: []config.Page{
			{File: "one.md", Output: "one.html"},
			{File: "two.md", Template: "b.html", Output: "two.html"},
			{File: "three.md", Output: "three.html"},
			{File: "two.md", Output: "sub/two.html"},
		},
	}, BuildOptions{})

	written := 0
	require.NoError(t, afero.Walk(s.fs, s.layout.PublishRoot(), func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			written++
		}
		return err
	}))
	require.Equal(t, 2, written)
	require.Equal(t, written, report.PagesGenerated())
}

func TestBuild_LeadingRuleThatIsNotYAMLRendersAsMarkdown(t *testing.T) {
	s := newSite(t)
	s.markdown(t, "tip.md", "---\nTip: run: make\n---\nbody\n")
	s.markdown(t, "draft.md", "---\n*Draft*\n---\nbody\n")
	s.template(t, "base.html", "{{title}}|{{content}}")

	report := s.build(config.Config{
		DefaultTemplate: "base.html",
		Pages: []config.Page{
			{File: "tip.md", Output: "tip.html", Title: "Tip"},
			{File: "draft.md", Output: "draft.html", Title: "Draft"},
		},
	}, BuildOptions{})

	require.Equal(t, 2, report.PagesGenerated())
	require.False(t, report.HasFailures())

	tip := s.output(t, "tip.html")
	require.True(t, strings.HasPrefix(tip, "Tip|<hr"), tip)
	require.Contains(t, tip, "<h2>Tip: run: make</h2>")
	require.Contains(t, tip, "<p>body</p>")

	draft := s.output(t, "draft.html")
	require.Contains(t, draft, "<h2><em>Draft</em></h2>")
	require.Contains(t, draft, "<p>body</p>")
}
