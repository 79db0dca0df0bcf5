// internal/scaffold/scaffold.go
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/spf13/afero"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"sitegen/internal/config"
)

// CreateNewSite lays out an empty site under root with a starter
// configuration, template, page and stylesheet. Existing files are left
// untouched.
func CreateNewSite(fsys afero.Fs, root string) ([]string, error) {
	layout := config.NewLayout(root)
	dirs := []string{
		config.StyleDir, config.ImageDir, config.FaviconDir, config.TemplateDir,
		config.MarkdownDir, config.StaticHTMLDir,
	}
	for _, dir := range dirs {
		if err := fsys.MkdirAll(filepath.Join(layout.Root, filepath.FromSlash(dir)), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	files := []struct {
		path    string
		content string
	}{
		{layout.ConfigPath(), configContent},
		{layout.TemplatePath("base.html"), baseTemplateContent},
		{layout.MarkdownPath("index.md"), indexMarkdownContent},
		{filepath.Join(layout.Root, config.StyleDir, "style.css"), styleCSSContent},
	}
	var created []string
	for _, f := range files {
		ok, err := writeIfAbsent(fsys, f.path, f.content)
		if err != nil {
			return nil, fmt.Errorf("failed to write file %s: %w", f.path, err)
		}
		if ok {
			created = append(created, f.path)
		}
	}
	return created, nil
}

func writeIfAbsent(fsys afero.Fs, path, content string) (bool, error) {
	f, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if os.IsExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write([]byte(content)); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

// NewPage describes a page added with CreateNewPage.
type NewPage struct {
	Title    string
	Output   string
	Template string
}

// CreateNewPage writes markdown/<slug>.md from the page archetype and appends
// a matching entry to the configuration at configPath. It returns the created
// markdown path.
func CreateNewPage(fsys afero.Fs, layout config.Layout, configPath string, page NewPage) (string, error) {
	cfg, err := config.Load(fsys, configPath)
	if err != nil {
		return "", err
	}

	slug := Slugify(page.Title)
	if slug == "" {
		return "", fmt.Errorf("title %q does not produce a usable file name", page.Title)
	}
	file := slug + ".md"
	output := page.Output
	if output == "" {
		output = slug + ".html"
	}
	for _, p := range cfg.Pages {
		if p.File == file || p.Output == output {
			return "", fmt.Errorf("a page for %s or %s is already configured", file, output)
		}
	}

	path := layout.MarkdownPath(file)
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}
	created, err := writeIfAbsent(fsys, path, fmt.Sprintf(archetypeContent, page.Title))
	if err != nil {
		return "", err
	}
	if !created {
		return "", fmt.Errorf("markdown file %s already exists", path)
	}

	cfg.Pages = append(cfg.Pages, config.Page{
		File:     file,
		Template: page.Template,
		Output:   output,
		Title:    page.Title,
	})
	if err := config.Save(fsys, configPath, cfg); err != nil {
		return "", err
	}
	return path, nil
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title, strips accents and joins the remaining words with
// dashes: "Olá, Mundo!" becomes "ola-mundo".
func Slugify(title string) string {
	stripMarks := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(stripMarks, title)
	if err != nil {
		s = title
	}
	s = slugInvalid.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

const configContent = `{
  "defaultTemplate": "base.html",
  "pages": [
    {
      "file": "index.md",
      "output": "index.html",
      "title": "Home",
      "metadata": {
        "description": "A new site built with sitegen."
      }
    }
  ]
}
`

const baseTemplateContent = `<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>{{title}}</title>
  <meta name="description" content="{{description}}">
  <link rel="stylesheet" href="{{basePath}}style/style.css">
  <link rel="icon" href="{{basePath}}asset/favicon/favicon.ico">
</head>
<body>
  <main>
    {{content}}
  </main>
  <footer>
    <nav><a href="{{basePath}}index.html">home</a></nav>
  </footer>
</body>
</html>
`

const indexMarkdownContent = `# Hello

Write something meaningful here.
`

const archetypeContent = `# %s

Write something meaningful here.
`

const styleCSSContent = `body {
  font-family: sans-serif;
  max-width: 700px;
  margin: 2em auto;
  padding: 0 1em;
  line-height: 1.6;
  color: #222;
  background: #fdfdfd;
}
main { margin-bottom: 3em; }
footer { text-align: center; font-size: 0.9em; color: #555; }
footer nav a { color: #444; text-decoration: none; margin: 0 0.5em; }
footer nav a:hover { text-decoration: underline; }
`
