// Package walker implements domain.TreeWalker by walking the
// filesystem.
package walker

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cadmod/cadmod/internal/domain"
)

var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
	"bin":          true,
	".cache":       true,
	"vendor":       true,
}

// cadenceExtensions is the fixed extension allow-list.
var cadenceExtensions = map[string]bool{
	".cdc": true,
}

// FileWalker walks a directory tree for Cadence sources.
type FileWalker struct{}

func New() *FileWalker {
	return &FileWalker{}
}

// Walk returns every eligible file under root with its content loaded.
// Skipped directories combine the built-in list with the caller's
// fragments. Unreadable files are reported as failures and skipped;
// only a failure to walk root itself is returned as an error.
func (w *FileWalker) Walk(root string, extraSkipDirs []string) ([]domain.SourceFile, []domain.WalkFailure, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, err
	}

	extraSkip := make(map[string]bool, len(extraSkipDirs))
	for _, d := range extraSkipDirs {
		extraSkip[strings.ToLower(strings.TrimSuffix(d, "/"))] = true
	}

	var files []domain.SourceFile
	var failures []domain.WalkFailure

	err = filepath.WalkDir(absRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if path == absRoot {
				return err
			}
			failures = append(failures, domain.WalkFailure{Path: path, Message: err.Error()})
			return nil
		}

		if d.IsDir() {
			name := strings.ToLower(d.Name())
			if path != absRoot && (skipDirs[name] || extraSkip[name]) {
				return filepath.SkipDir
			}
			return nil
		}

		if !cadenceExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			failures = append(failures, domain.WalkFailure{Path: path, Message: readErr.Error()})
			return nil
		}

		relPath, _ := filepath.Rel(absRoot, path)
		files = append(files, domain.SourceFile{
			Path:    path,
			RelPath: filepath.ToSlash(relPath),
			Content: string(data),
		})
		return nil
	})
	if err != nil {
		return nil, failures, err
	}

	return files, failures, nil
}
