package loader

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce merges bursts of events (editors write, chmod and rename in
// quick succession) into one notification
const watchDebounce = 200 * time.Millisecond

// Watch calls onChange whenever a collection file in the directory is
// created, written, removed or renamed. It returns once the watcher is set up;
// events are delivered on a background goroutine until ctx is done.
// onChange must not block.
func (l *Loader) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(l.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", l.dir, err)
	}

	go l.watchLoop(ctx, watcher, onChange)
	return nil
}

func (l *Loader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func()) {
	defer watcher.Close()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !IsCollectionFile(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) || ev.Op.Has(fsnotify.Write) ||
				ev.Op.Has(fsnotify.Remove) || ev.Op.Has(fsnotify.Rename) {
				l.logger.Debug("collections changed", "file", ev.Name, "op", ev.Op.String())
				pending = time.After(watchDebounce)
			}
		case <-pending:
			pending = nil
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Warn("watcher error", "err", err)
		}
	}
}
