// Package watcher implements file system watching for live task reloads.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"unique"

	"github.com/fsnotify/fsnotify"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 100

// Watcher implements file system watching using fsnotify. It watches the
// project root for manifest changes and the .slate tree for task documents;
// the rest of the project is never touched.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	root      unique.Handle[string]
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fsWatcher: watcher,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}, nil
}

// Start begins watching the given project root.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.root = unique.Make(root)

	// The manifest lives directly at the root.
	if err := w.fsWatcher.Add(root); err != nil {
		return err
	}

	// Task documents live under .slate; the tree may not exist yet when
	// watching starts before the first init.
	for dir := range dirsBelow(filepath.Join(root, domain.SlateDirName)) {
		if err := w.fsWatcher.Add(dir); err != nil {
			return err
		}
	}

	go w.processEvents(ctx)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events returns an iterator of file system events.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

// dirsBelow walks the directory tree and yields all directories in it.
func dirsBelow(start string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(start, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				// Continue walking even if there's an error accessing a directory.
				return nil //nolint:nilerr // This is intentional - we want to skip problematic directories
			}
			if d.IsDir() {
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

// inSlateTree reports whether path is the .slate directory or below it.
func (w *Watcher) inSlateTree(path string) bool {
	rel, err := filepath.Rel(w.root.Value(), path)
	if err != nil {
		return false
	}
	return rel == domain.SlateDirName || strings.HasPrefix(rel, domain.SlateDirName+string(filepath.Separator))
}

// processEvents processes raw fsnotify events and converts them to ports.WatchEvent.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent := convertEvent(event)
			if watchEvent == nil {
				continue
			}

			select {
			case w.events <- *watchEvent:
			case <-ctx.Done():
				return
			}

			// A directory created inside .slate (typically tasks/ from a
			// late init) has to be watched from now on.
			if watchEvent.Operation == ports.OpCreate && w.inSlateTree(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					for dir := range dirsBelow(event.Name) {
						_ = w.fsWatcher.Add(dir)
					}
				}
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			// Log error to stderr and continue processing.
			fmt.Fprintf(os.Stderr, "watcher: file system error: %v\n", err)
		}
	}
}

// convertEvent converts an fsnotify event to a ports.WatchEvent.
func convertEvent(event fsnotify.Event) *ports.WatchEvent {
	path := event.Name

	if event.Op&fsnotify.Write == fsnotify.Write {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpWrite,
		}
	}

	if event.Op&fsnotify.Create == fsnotify.Create {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpCreate,
		}
	}

	if event.Op&fsnotify.Remove == fsnotify.Remove {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpRemove,
		}
	}

	if event.Op&fsnotify.Rename == fsnotify.Rename {
		return &ports.WatchEvent{
			Path:      path,
			Operation: ports.OpRename,
		}
	}

	return nil
}
