package filesystem

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/akovalenko/dupefinder/internal/config"
	"github.com/akovalenko/dupefinder/pkg/models"
)

// ErrInvalidRoot is returned when the scan root does not exist or is
// not a directory. It is the only fatal traversal error; everything
// else is skipped with a warning.
var ErrInvalidRoot = errors.New("invalid scan root")

// Walker lists the regular files of a directory tree.
type Walker struct {
	config  *config.Config
	logger  *zap.Logger
	exclude map[string]bool
}

// NewWalker creates a new filesystem walker.
func NewWalker(cfg *config.Config, logger *zap.Logger) *Walker {
	// Build exclude map for fast lookup
	exclude := make(map[string]bool)
	for _, dir := range cfg.Exclude {
		exclude[dir] = true
	}

	return &Walker{
		config:  cfg,
		logger:  logger,
		exclude: exclude,
	}
}

// ListFiles returns every regular file under root in a stable,
// deterministic order: the result is sorted by path regardless of how
// the walk itself is scheduled. Symlinks, directories and special files
// are excluded. Entries that cannot be read are skipped with a warning.
func (w *Walker) ListFiles(root string, recursive bool) ([]models.FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}

	stat, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	var files []models.FileInfo
	if recursive {
		files, err = w.walkRecursive(absRoot)
	} else {
		files, err = w.listImmediate(absRoot)
	}
	if err != nil {
		return nil, err
	}

	// The recursive walk is parallel, so its completion order is not
	// stable. Sorting by path fixes the traversal order for grouping
	// and tie-breaks.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})

	return files, nil
}

// walkRecursive descends into every subdirectory of root.
func (w *Walker) walkRecursive(root string) ([]models.FileInfo, error) {
	conf := fastwalk.Config{Follow: false, NumWorkers: runtime.NumCPU()}

	var (
		mu    sync.Mutex
		files []models.FileInfo
	)

	walkFn := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("Error accessing path", zap.String("path", path), zap.Error(err))
			return nil // continue walking
		}

		if d.IsDir() {
			if path != root && w.exclude[d.Name()] {
				w.logger.Debug("Skipping excluded directory", zap.String("path", path))
				return fastwalk.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.logger.Warn("Cannot stat file", zap.String("path", path), zap.Error(err))
			return nil
		}

		mu.Lock()
		files = append(files, models.FileInfo{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		mu.Unlock()
		return nil
	}

	if err := fastwalk.Walk(&conf, root, walkFn); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	return files, nil
}

// listImmediate visits only the direct children of root.
func (w *Walker) listImmediate(root string) ([]models.FileInfo, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}

	var files []models.FileInfo
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			w.logger.Warn("Cannot stat file",
				zap.String("path", filepath.Join(root, entry.Name())),
				zap.Error(err))
			continue
		}

		files = append(files, models.FileInfo{
			Path:    filepath.Join(root, entry.Name()),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	return files, nil
}
