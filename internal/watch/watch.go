// Package watch surfaces filesystem change notifications for the
// bridge directory. Notifications only wake the consumer early; the
// poll ticker remains the authoritative change detector, since a rename
// into a watched directory can be coalesced or missed entirely.
package watch

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher emits an event on C whenever the named file inside the bridge
// directory is created, written, or renamed into place.
type Watcher struct {
	C <-chan struct{}

	fs   *fsnotify.Watcher
	done chan struct{}
}

// New watches dir for changes to the file named base. The directory is
// created if missing (watching a nonexistent directory fails).
func New(dir, base string, log *zap.Logger) (*Watcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, err
	}

	wake := make(chan struct{}, 1)
	w := &Watcher{C: wake, fs: fs, done: make(chan struct{})}

	go func() {
		defer close(w.done)
		for {
			select {
			case event, ok := <-fs.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
					continue
				}
				select {
				case wake <- struct{}{}:
				default:
					// A wakeup is already pending; coalesce.
				}
			case err, ok := <-fs.Errors:
				if !ok {
					return
				}
				log.Debug("watch error", zap.Error(err))
			}
		}
	}()

	return w, nil
}

// Close stops the watcher and waits for its event loop to exit.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
