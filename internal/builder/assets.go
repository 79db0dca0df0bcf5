package builder

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"sitegen/internal/config"
	builderr "sitegen/internal/errors"
	"sitegen/internal/logfields"
)

// CopyAssets copies each asset directory into its destination in order. A
// missing source is logged and skipped; a failing copy is logged and the next
// directory is still attempted. Existing destination files are overwritten,
// stale ones are never removed.
func CopyAssets(fsys afero.Fs, pairs []config.AssetPair, logger *slog.Logger) []AssetResult {
	results := make([]AssetResult, 0, len(pairs))
	for _, pair := range pairs {
		res := AssetResult{Pair: pair}
		log := logger.With(logfields.Source(pair.Source), logfields.Destination(pair.Destination))

		info, err := fsys.Stat(pair.Source)
		switch {
		case os.IsNotExist(err):
			res.Missing = true
			res.Err = builderr.AssetCopy(builderr.StageMissingDir, pair.Source, err)
			log.Warn("Asset directory not found, skipping", slog.String("asset", pair.Name))
		case err != nil:
			res.Err = builderr.AssetCopy(builderr.StageCopy, pair.Source, err)
			log.Error("Asset directory unreadable", slog.String("asset", pair.Name), logfields.Error(err))
		case !info.IsDir():
			res.Err = builderr.AssetCopy(builderr.StageCopy, pair.Source, fmt.Errorf("not a directory"))
			log.Error("Asset source is not a directory", slog.String("asset", pair.Name))
		default:
			n, err := copyDir(fsys, pair.Source, pair.Destination)
			res.Files = n
			if err != nil {
				res.Err = builderr.AssetCopy(builderr.StageCopy, pair.Source, err)
				log.Error("Asset copy failed", slog.String("asset", pair.Name), logfields.Count(n), logfields.Error(err))
			} else {
				log.Info("Asset directory copied", slog.String("asset", pair.Name), logfields.Count(n))
			}
		}
		results = append(results, res)
	}
	return results
}

// copyDir recursively copies src into dst and returns the number of files
// written. It stops at the first error.
func copyDir(fsys afero.Fs, src, dst string) (int, error) {
	copied := 0
	err := afero.Walk(fsys, src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if info.IsDir() {
			return fsys.MkdirAll(target, 0755)
		}
		if err := copyFile(fsys, path, target, info.Mode().Perm()); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(fsys afero.Fs, src, dst string, perm os.FileMode) error {
	in, err := fsys.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := fsys.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := fsys.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return out.Close()
}
