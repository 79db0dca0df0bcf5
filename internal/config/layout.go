package config

import "path/filepath"

// Directory names relative to the site root.
const (
	StyleDir       = "style"
	ImageDir       = "asset/image"
	FaviconDir     = "asset/favicon"
	TemplateDir    = "template"
	MarkdownDir    = "markdown"
	StaticHTMLDir  = "static-html"
	PublicDir      = "public"
	DefaultConfig  = "config.json"
	publicStyle    = "public/style"
	publicImages   = "public/asset/image"
	publicFavicons = "public/asset/favicon"
)

// AssetPair is one source directory and the destination it is copied into.
type AssetPair struct {
	Name        string
	Source      string
	Destination string
}

// Layout resolves the fixed site directories against a root.
type Layout struct {
	Root string
}

// NewLayout returns a layout rooted at root.
func NewLayout(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

func (l Layout) join(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// ConfigPath returns the default configuration file location.
func (l Layout) ConfigPath() string { return l.join(DefaultConfig) }

// PublishRoot returns the root of the generated site.
func (l Layout) PublishRoot() string { return l.join(PublicDir) }

// MarkdownPath resolves a page source file.
func (l Layout) MarkdownPath(file string) string {
	return filepath.Join(l.join(MarkdownDir), filepath.FromSlash(file))
}

// TemplatePath resolves a template file name.
func (l Layout) TemplatePath(name string) string {
	return filepath.Join(l.join(TemplateDir), filepath.FromSlash(name))
}

// OutputPath resolves a page output path under the publish root.
func (l Layout) OutputPath(output string) string {
	return filepath.Join(l.PublishRoot(), filepath.FromSlash(output))
}

// AssetPairs returns the asset directories in copy order: styles, images,
// favicons, then static HTML into the publish root.
func (l Layout) AssetPairs() []AssetPair {
	return []AssetPair{
		{Name: "styles", Source: l.join(StyleDir), Destination: l.join(publicStyle)},
		{Name: "images", Source: l.join(ImageDir), Destination: l.join(publicImages)},
		{Name: "favicons", Source: l.join(FaviconDir), Destination: l.join(publicFavicons)},
		{Name: "static-html", Source: l.join(StaticHTMLDir), Destination: l.join(PublicDir)},
	}
}
