package util

import (
	"path/filepath"
)

// CurrentDir is the base path of a page written directly into the publish root.
const CurrentDir = "./"

// ComputeBasePath returns the relative prefix from the directory containing
// outputFile back to publishRoot, so asset links like `{{basePath}}style/a.css`
// resolve from any depth. A page at public/blog/a/b.html gets "../../", a page
// at public/index.html gets "./". The result always uses forward slashes.
func ComputeBasePath(outputFile, publishRoot string) (string, error) {
	rel, err := filepath.Rel(filepath.Dir(outputFile), publishRoot)
	if err != nil {
		return "", err
	}
	if rel == "." || rel == "" {
		return CurrentDir, nil
	}
	return filepath.ToSlash(rel) + "/", nil
}
