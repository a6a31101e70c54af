package markdown

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/chris-regnier/daybook/internal/logger"
	"github.com/chris-regnier/daybook/internal/storage"
	"github.com/fsnotify/fsnotify"
)

var _ storage.Watcher = (*Store)(nil)

// Watch reports changes made to the entry and check item files, including
// edits made outside this process. fsnotify is not recursive, so every
// date directory is added as it appears.
func (s *Store) Watch(onChange func()) (func() error, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, storage.Fail("creating file watcher", err)
	}

	addTree := func(root string) error {
		return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				return watcher.Add(path)
			}
			return nil
		})
	}

	for _, dir := range []string{s.baseDir, s.itemsDir} {
		if err := addTree(dir); err != nil {
			watcher.Close()
			return nil, storage.Fail("watching "+dir, err)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}

				if event.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						if err := addTree(event.Name); err != nil {
							logger.Warn("could not watch directory", "path", event.Name, "error", err)
						}
						// A file may have landed before the directory was watched.
						onChange()
						continue
					}
				}

				name := filepath.Base(event.Name)
				if strings.HasPrefix(name, ".tmp-") || !strings.HasSuffix(name, ".md") {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}

				logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
				onChange()

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watcher error", "error", err)
			}
		}
	}()

	return watcher.Close, nil
}
