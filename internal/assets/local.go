package assets

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one media object found by a source listing, before it becomes a
// catalog row.
type Entry struct {
	Key         string
	DisplayName string
	Kind        string
	ContentType string
	SizeBytes   int64
	URL         string
}

// Lister enumerates the media currently present at a source's location.
type Lister interface {
	List(ctx context.Context) ([]Entry, error)
}

// LocalSource lists media files under a directory tree.
type LocalSource struct {
	root   string
	logger *slog.Logger
}

func NewLocalSource(root string, logger *slog.Logger) *LocalSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalSource{root: root, logger: logger}
}

// List walks the tree and returns every media file, keyed by its
// slash-separated path relative to the root. Dot-directories are skipped.
func (l *LocalSource) List(ctx context.Context) ([]Entry, error) {
	var entries []Entry

	err := filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A vanished or unreadable subtree should not sink the
			// whole scan.
			l.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != l.root {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || !IsMediaFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(l.root, path)
		if err != nil {
			return err
		}

		var size int64
		if info, err := d.Info(); err == nil {
			size = info.Size()
		}

		entries = append(entries, Entry{
			Key:         filepath.ToSlash(rel),
			DisplayName: d.Name(),
			Kind:        KindForName(d.Name()),
			ContentType: ContentTypeForName(d.Name()),
			SizeBytes:   size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Resolve maps an asset key back to an absolute path under the root, or ""
// when the key escapes the tree or the file is gone.
func (l *LocalSource) Resolve(key string) string {
	path := filepath.Join(l.root, filepath.FromSlash(key))

	rel, err := filepath.Rel(l.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
