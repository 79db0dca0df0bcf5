package scaffold

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"sitegen/internal/builder"
	"sitegen/internal/config"
)

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Hello World":      "hello-world",
		"Olá, Mundo!":      "ola-mundo",
		"  Ação  Rápida  ": "acao-rapida",
		"Release v1.2":     "release-v1-2",
		"!!!":              "",
	}
	for in, want := range cases {
		require.Equal(t, want, Slugify(in), in)
	}
}

func TestCreateNewSite_BuildsCleanly(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mysite")

	created, err := CreateNewSite(fsys, root)
	require.NoError(t, err)
	require.Len(t, created, 4)

	layout := config.NewLayout(root)
	cfg, err := config.Load(fsys, layout.ConfigPath())
	require.NoError(t, err)

	report := builder.New(fsys, layout, cfg, builder.BuildOptions{}, slog.New(slog.NewTextHandler(io.Discard, nil))).Build()
	require.Equal(t, 1, report.PagesGenerated())

	out, err := afero.ReadFile(fsys, layout.OutputPath("index.html"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<link rel="stylesheet" href="./style/style.css">`)
	require.Contains(t, string(out), `content="A new site built with sitegen."`)
	require.Contains(t, string(out), "<h1>Hello</h1>")

	css, err := afero.ReadFile(fsys, filepath.Join(layout.PublishRoot(), "style", "style.css"))
	require.NoError(t, err)
	require.Contains(t, string(css), "font-family")
}

func TestCreateNewSite_KeepsExistingFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mysite")
	layout := config.NewLayout(root)
	require.NoError(t, fsys.MkdirAll(root, 0755))
	require.NoError(t, afero.WriteFile(fsys, layout.ConfigPath(), []byte(`{"pages": []}`), 0644))

	created, err := CreateNewSite(fsys, root)
	require.NoError(t, err)
	require.Len(t, created, 3)

	data, err := afero.ReadFile(fsys, layout.ConfigPath())
	require.NoError(t, err)
	require.Equal(t, `{"pages": []}`, string(data))
}

func TestCreateNewPage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mysite")
	layout := config.NewLayout(root)
	_, err := CreateNewSite(fsys, root)
	require.NoError(t, err)

	path, err := CreateNewPage(fsys, layout, layout.ConfigPath(), NewPage{Title: "Sobre Nós", Output: "sobre/index.html"})
	require.NoError(t, err)
	require.Equal(t, layout.MarkdownPath("sobre-nos.md"), path)

	md, err := afero.ReadFile(fsys, path)
	require.NoError(t, err)
	require.Contains(t, string(md), "# Sobre Nós")

	cfg, err := config.Load(fsys, layout.ConfigPath())
	require.NoError(t, err)
	require.Len(t, cfg.Pages, 2)
	require.Equal(t, config.Page{File: "sobre-nos.md", Output: "sobre/index.html", Title: "Sobre Nós"}, cfg.Pages[1])
	desc, ok := cfg.Pages[0].Metadata.Get("description")
	require.True(t, ok)
	require.Equal(t, "A new site built with sitegen.", desc)

	_, err = CreateNewPage(fsys, layout, layout.ConfigPath(), NewPage{Title: "Sobre Nós"})
	require.Error(t, err)
}
