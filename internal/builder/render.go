// internal/builder/render.go
package builder

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	"gopkg.in/yaml.v3"

	"sitegen/internal/config"
)

// Renderer converts markdown into an HTML fragment. It uses goldmark with the
// GFM and footnote extensions; a level one heading `# Hello` renders as
// "<h1>Hello</h1>\n". The fragment is sanitized with a relaxed bluemonday UGC
// policy unless the renderer is built unsafe. A Renderer is safe for concurrent use.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// NewRenderer builds a renderer for the given options.
func NewRenderer(opts config.MarkdownOptions, unsafe bool) *Renderer {
	var parserOpts []parser.Option
	if opts.HeadingIDs {
		parserOpts = append(parserOpts, parser.WithAutoHeadingID())
	}
	if opts.RewriteMdLinks {
		parserOpts = append(parserOpts, parser.WithASTTransformers(
			util.Prioritized(newMDLinkTransformer(), 100),
		))
	}

	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM, extension.Footnote),
			goldmark.WithParserOptions(parserOpts...),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
	if !unsafe {
		r.sanitizer = sanitizePolicy()
	}
	return r
}

// sanitizePolicy is bluemonday's UGC policy relaxed to keep what plain goldmark
// output contains: links are left without rel="nofollow" and GFM task list
// checkboxes survive.
func sanitizePolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.RequireNoFollowOnLinks(false)
	p.AllowAttrs("type").Matching(taskCheckbox).OnElements("input")
	p.AllowAttrs("checked", "disabled").OnElements("input")
	return p
}

var taskCheckbox = regexp.MustCompile(`^checkbox$`)

// Render converts markdown source to HTML.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown with goldmark: %w", err)
	}
	if r.sanitizer != nil {
		return string(r.sanitizer.SanitizeBytes(buf.Bytes())), nil
	}
	return buf.String(), nil
}

var frontMatterDelim = []byte("---")

// splitFrontMatter separates a leading YAML front matter block from the
// markdown body. A block starts with a `---` line at the very top of the file
// and ends at the next `---` line; without a closing line the whole input is
// body, and so is a block that is valid YAML but not a mapping. A block that
// does not parse as YAML is a thematic break followed by ordinary markdown:
// the whole input is returned as body along with the parse error. Only scalar
// values are kept, in document order.
func splitFrontMatter(src []byte) (config.Metadata, []byte, error) {
	first, rest, ok := cutLine(src)
	if !ok || !bytes.Equal(bytes.TrimRight(first, " \t\r"), frontMatterDelim) {
		return nil, src, nil
	}

	var block []byte
	remaining := rest
	for {
		line, next, more := cutLine(remaining)
		if bytes.Equal(bytes.TrimRight(line, " \t\r"), frontMatterDelim) {
			block = rest[:len(rest)-len(remaining)]
			remaining = next
			break
		}
		if !more {
			return nil, src, nil
		}
		remaining = next
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return nil, src, fmt.Errorf("leading block is not yaml: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, remaining, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, src, nil
	}

	var meta config.Metadata
	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}
		if value.Kind != yaml.ScalarNode {
			continue
		}
		if value.Tag == "!!null" {
			meta.Set(key.Value, "")
			continue
		}
		meta.Set(key.Value, value.Value)
	}
	return meta, remaining, nil
}

// cutLine returns the first line of b (without its newline) and the rest.
// more is false when b has no newline.
func cutLine(b []byte) (line, rest []byte, more bool) {
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		return b[:i], b[i+1:], true
	}
	return b, nil, false
}
