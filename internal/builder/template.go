package builder

import (
	"strings"

	"sitegen/internal/config"
)

// Reserved replacement keys filled from the page itself.
const (
	KeyTitle    = "title"
	KeyContent  = "content"
	KeyBasePath = "basePath"
)

func isReserved(key string) bool {
	return key == KeyTitle || key == KeyContent || key == KeyBasePath
}

// ReplacePlaceholders substitutes every literal `{{key}}` in tmpl with its
// value, one key at a time in replacement order. Keys are matched as plain
// text. Placeholders without a replacement are left as they are. Because
// keys are applied one after another, a value inserted by an earlier key can
// itself be matched by a later key.
func ReplacePlaceholders(tmpl string, replacements config.Metadata) string {
	out := tmpl
	for _, r := range replacements {
		out = strings.ReplaceAll(out, "{{"+r.Key+"}}", r.Value)
	}
	return out
}

// buildReplacements assembles the ordered substitution list for a page:
// title, content and basePath first, then non-reserved front matter keys,
// then the configured metadata. Metadata may overwrite any earlier key,
// including reserved ones, in place; the reserved keys it overwrote are
// returned so the caller can report them.
func buildReplacements(title, content, basePath string, frontMatter, metadata config.Metadata) (config.Metadata, []string) {
	replacements := config.Metadata{
		{Key: KeyTitle, Value: title},
		{Key: KeyContent, Value: content},
		{Key: KeyBasePath, Value: basePath},
	}
	for _, e := range frontMatter {
		if isReserved(e.Key) {
			continue
		}
		replacements.Set(e.Key, e.Value)
	}

	var collisions []string
	for _, e := range metadata {
		if isReserved(e.Key) {
			collisions = append(collisions, e.Key)
		}
		replacements.Set(e.Key, e.Value)
	}
	return replacements, collisions
}
