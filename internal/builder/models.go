// internal/builder/models.go
package builder

import (
	"time"

	"sitegen/internal/config"
)

// BuildOptions controls how a build runs.
type BuildOptions struct {
	// Unsafe disables HTML sanitization of rendered markdown.
	Unsafe bool
	// Jobs is the number of pages rendered at once. Values below 2 render
	// pages one by one in configuration order.
	Jobs int
}

// AssetResult is the outcome of copying one asset directory.
type AssetResult struct {
	Pair    config.AssetPair
	Files   int
	Missing bool
	Err     error
}

// PageResult is the outcome of one configured page.
type PageResult struct {
	Index      int
	Page       config.Page
	OutputPath string
	// Collisions lists reserved keys overwritten by page metadata.
	Collisions []string
	Err        error
}

// Generated reports whether the page's output file was written.
func (r PageResult) Generated() bool {
	return r.Err == nil
}

// Report summarizes a build. Pages appear in configuration order and assets
// in copy order.
type Report struct {
	Assets   []AssetResult
	Pages    []PageResult
	Duration time.Duration
}

func (r Report) PagesGenerated() int {
	n := 0
	for _, p := range r.Pages {
		if p.Generated() {
			n++
		}
	}
	return n
}

func (r Report) PagesFailed() int {
	return len(r.Pages) - r.PagesGenerated()
}

func (r Report) FilesCopied() int {
	n := 0
	for _, a := range r.Assets {
		n += a.Files
	}
	return n
}

// AssetsCopied counts asset directories copied without error.
func (r Report) AssetsCopied() int {
	n := 0
	for _, a := range r.Assets {
		if a.Err == nil {
			n++
		}
	}
	return n
}

// AssetsMissing counts asset directories whose source did not exist.
func (r Report) AssetsMissing() int {
	n := 0
	for _, a := range r.Assets {
		if a.Missing {
			n++
		}
	}
	return n
}

// AssetsFailed counts asset directories that existed but failed to copy.
func (r Report) AssetsFailed() int {
	n := 0
	for _, a := range r.Assets {
		if a.Err != nil && !a.Missing {
			n++
		}
	}
	return n
}

// HasFailures reports whether any page or existing asset directory failed.
// Missing asset directories do not count.
func (r Report) HasFailures() bool {
	return r.PagesFailed() > 0 || r.AssetsFailed() > 0
}
