package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"askbot/internal/contextutil"
)

// ScannedFile is one eligible knowledge-base file found during the walk.
type ScannedFile struct {
	RelPath string // Path relative to the KB root, forward slashes; the chunk source identifier
	AbsPath string
}

// scanFiles walks root recursively and returns every file whose extension is
// in the allow-list. Unreadable subtrees are logged and skipped; a missing or
// unreadable root fails the scan outright.
func scanFiles(ctx context.Context, root string, exts map[string]struct{}) ([]ScannedFile, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("KB path does not exist: %s: %w", root, err)
	}

	var files []ScannedFile
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			logger.WarnContext(ctx, "skipping unreadable path", "path", path, "error", err)
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if info.IsDir() {
			return nil
		}

		if _, ok := exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			logger.WarnContext(ctx, "skipping file outside root", "path", path, "error", err)
			return nil
		}

		files = append(files, ScannedFile{
			RelPath: filepath.ToSlash(relPath),
			AbsPath: path,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
