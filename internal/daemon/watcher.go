package daemon

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"phono/internal/logging"
)

// watchLoop reacts to filesystem events under the import directory. Events
// are debounced so a burst of writes from one copy operation triggers a
// single import batch after the tree settles.
func (d *Daemon) watchLoop(ctx context.Context) {
	defer d.wg.Done()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.logger.Error("filesystem watcher unavailable; relying on periodic rescan", logging.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(d.cfg.ImportDir); err != nil {
		d.logger.Error("cannot watch import directory", logging.Error(err))
		return
	}

	debounce := time.Duration(d.cfg.WatchDebounce) * time.Millisecond
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			// New subdirectories must be watched too: fsnotify watches are
			// not recursive.
			if event.Op&fsnotify.Create != 0 {
				_ = watcher.Add(event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
				fire = timer.C
			} else {
				timer.Reset(debounce)
			}
		case <-fire:
			timer = nil
			fire = nil
			d.logBatch(d.RunImport())
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			d.logger.Warn("watcher error", logging.Error(err))
		}
	}
}

// rescanLoop periodically repairs problem files and imports pending ones,
// catching anything the watcher missed.
func (d *Daemon) rescanLoop(ctx context.Context) {
	defer d.wg.Done()

	// One pass at startup so pre-existing files do not wait a full interval.
	d.logBatch(d.RunImport())

	if d.cfg.RescanInterval <= 0 {
		<-ctx.Done()
		return
	}
	ticker := time.NewTicker(time.Duration(d.cfg.RescanInterval) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := d.RunRepair(nil); err != nil {
				d.logger.Error("background repair failed", logging.Error(err))
			}
			d.logBatch(d.RunImport())
		}
	}
}
