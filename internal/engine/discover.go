package engine

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bamsammich/sightsync/internal/filter"
)

// Discover returns every regular file under root whose name contains a dot,
// in path order. Symlinks to regular files are followed like the files
// themselves; any other symlink is skipped. Directories that cannot be read are logged and skipped;
// an unreadable root is an error.
func Discover(root string, chain *filter.Chain, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if !chain.Match(rel, true, 0) {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.Contains(d.Name(), ".") {
			return nil
		}
		info, ok := fileInfo(path, d, logger)
		if !ok {
			return nil
		}
		if !chain.Match(rel, false, info.Size()) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortFunc(files, comparePaths)
	return files, nil
}

// fileInfo returns the file behind d when it is, or links to, a regular file.
func fileInfo(path string, d fs.DirEntry, logger *slog.Logger) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil {
			logger.Debug("skipping broken symlink", "path", path, "error", err)
			return nil, false
		}
		if !info.Mode().IsRegular() {
			logger.Debug("skipping symlink to non-file", "path", path, "mode", info.Mode().String())
			return nil, false
		}
		return info, true
	}
	if !d.Type().IsRegular() {
		return nil, false
	}
	info, err := d.Info()
	if err != nil {
		// Vanished since the directory was read.
		return nil, false
	}
	return info, true
}

// comparePaths orders paths component by component, so "a/b.txt" sorts
// before "a.txt".
func comparePaths(a, b string) int {
	return slices.Compare(
		strings.Split(a, string(filepath.Separator)),
		strings.Split(b, string(filepath.Separator)),
	)
}

// TargetPath maps a file under srcRoot onto dstRoot by its relative path.
func TargetPath(srcRoot, dstRoot, path string) (rel, dst string, err error) {
	rel, err = filepath.Rel(srcRoot, path)
	if err != nil {
		return "", "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", fmt.Errorf("%s is outside %s", path, srcRoot)
	}
	return rel, filepath.Join(dstRoot, rel), nil
}
