// internal/config/config.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	builderr "sitegen/internal/errors"
)

// Config is the site configuration: a default template and the ordered list
// of pages to render. It is read once per run and never mutated afterwards.
type Config struct {
	DefaultTemplate string           `json:"defaultTemplate" yaml:"defaultTemplate"`
	Pages           []Page           `json:"pages" yaml:"pages"`
	Markdown        *MarkdownOptions `json:"markdown,omitempty" yaml:"markdown,omitempty"`
}

// Page is one unit of work producing one output file.
type Page struct {
	File     string   `json:"file" yaml:"file"`
	Template string   `json:"template,omitempty" yaml:"template,omitempty"`
	Output   string   `json:"output" yaml:"output"`
	Title    string   `json:"title" yaml:"title"`
	Metadata Metadata `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// UnmarshalJSON matches keys exactly, so "Pages" is not read as "pages".
func (c *Config) UnmarshalJSON(data []byte) error {
	fields, err := jsonFields(data)
	if err != nil {
		return err
	}
	out := Config{}
	if err := decodeField(fields, "defaultTemplate", &out.DefaultTemplate); err != nil {
		return err
	}
	if err := decodeField(fields, "pages", &out.Pages); err != nil {
		return err
	}
	if err := decodeField(fields, "markdown", &out.Markdown); err != nil {
		return err
	}
	*c = out
	return nil
}

// UnmarshalJSON matches keys exactly and accepts any scalar title: a title of
// 2024 becomes "2024".
func (p *Page) UnmarshalJSON(data []byte) error {
	fields, err := jsonFields(data)
	if err != nil {
		return err
	}
	out := Page{}
	for _, f := range []struct {
		key string
		dst *string
	}{
		{"file", &out.File},
		{"template", &out.Template},
		{"output", &out.Output},
	} {
		if err := decodeField(fields, f.key, f.dst); err != nil {
			return err
		}
	}
	if raw, ok := fields["title"]; ok {
		title, err := jsonScalar(raw)
		if err != nil {
			return fmt.Errorf("field \"title\": %w", err)
		}
		out.Title = title
	}
	if err := decodeField(fields, "metadata", &out.Metadata); err != nil {
		return err
	}
	*p = out
	return nil
}

func jsonFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func decodeField(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	return nil
}

// MarkdownOptions toggles optional renderer behavior. Both default to off so
// that `# Hello` renders as `<h1>Hello</h1>`.
type MarkdownOptions struct {
	HeadingIDs     bool `json:"headingIds,omitempty" yaml:"headingIds,omitempty"`
	RewriteMdLinks bool `json:"rewriteMdLinks,omitempty" yaml:"rewriteMdLinks,omitempty"`
}

// RenderOptions returns the renderer options, zero valued when the
// configuration has no markdown section.
func (c Config) RenderOptions() MarkdownOptions {
	if c.Markdown == nil {
		return MarkdownOptions{}
	}
	return *c.Markdown
}

// TemplateFor returns the page template, falling back to the default.
func (c Config) TemplateFor(p Page) string {
	if p.Template != "" {
		return p.Template
	}
	return c.DefaultTemplate
}

// Load reads and parses the configuration file at path. Files ending in
// .yaml or .yml are parsed as YAML, everything else as JSON. Any failure is
// a fatal config error.
func Load(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, builderr.Config(builderr.StageReadConfig, path, fmt.Errorf("could not read config file: %w", err))
	}

	cfg, err := Parse(data, formatFor(path))
	if err != nil {
		return Config{}, builderr.Config(builderr.StageParseConfig, path, err)
	}
	return cfg, nil
}

// Format is a configuration file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func formatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes data in the given format and checks required page fields.
func Parse(data []byte, format Format) (Config, error) {
	cfg := Config{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse yaml config: %w", err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, fmt.Errorf("could not parse json config: %w", err)
		}
		if dec.More() {
			return Config{}, fmt.Errorf("could not parse json config: trailing data after document")
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that every page names a source and an output, and that a
// template can be resolved for it. Paths are not checked for escaping their
// base directories.
func (c Config) Validate() error {
	for i, p := range c.Pages {
		if p.File == "" {
			return fmt.Errorf("page %d: missing required field \"file\"", i)
		}
		if p.Output == "" {
			return fmt.Errorf("page %d (%s): missing required field \"output\"", i, p.File)
		}
		if c.TemplateFor(p) == "" {
			return fmt.Errorf("page %d (%s): no template and no defaultTemplate", i, p.File)
		}
	}
	return nil
}

// Save writes cfg back to path in the format its extension implies.
func Save(fsys afero.Fs, path string, cfg Config) error {
	var data []byte
	var err error
	switch formatFor(path) {
	case FormatYAML:
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("could not encode config: %w", err)
	}
	return afero.WriteFile(fsys, path, data, 0644)
}
