package table

import (
	"github.com/ausocean/utils/logging"
	"github.com/fsnotify/fsnotify"
)

// Watcher watches a set of table files for changes and invokes a reload
// callback when any of them are written to, so calibration/threshold tables
// can be hot-swapped without restarting the receiver.
type Watcher struct {
	fsw    *fsnotify.Watcher
	logger logging.Logger
	quit   chan struct{}
}

// NewWatcher creates a Watcher over the given file paths. Call Start to
// begin watching and Stop to release the underlying inotify/kqueue
// resources.
func NewWatcher(paths []string, logger logging.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, logger: logger, quit: make(chan struct{})}, nil
}

// Start runs the watch loop in a new goroutine, invoking onChange with the
// changed file's path whenever a write or create event is observed.
func (w *Watcher) Start(onChange func(path string)) {
	go func() {
		for {
			select {
			case <-w.quit:
				return
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if w.logger != nil {
					w.logger.Debug("table: file changed", "path", ev.Name)
				}
				onChange(ev.Name)
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return
				}
				if w.logger != nil {
					w.logger.Warning("table: watch error", "error", err)
				}
			}
		}
	}()
}

// Stop ends the watch loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	close(w.quit)
	w.fsw.Close()
}
