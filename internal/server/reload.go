package server

import (
	"context"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"salarypredictor/internal/store"
)

const reloadDebounce = 250 * time.Millisecond

// WatchModelDir reloads sc from l whenever the model file in dir is replaced. Bursts of events
// within reloadDebounce trigger a single reload. It returns when ctx is cancelled.
func (sc *ServingContext) WatchModelDir(ctx context.Context, dir string, l Loader) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, "watch %s", dir)
	}
	sc.log.Info("watching model dir", zap.String("dir", dir))

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != store.ModelFile || ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(reloadDebounce, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(reloadDebounce)
			}
		case <-fire:
			_ = sc.Reload(l)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			sc.log.Warn("model dir watcher error", zap.Error(err))
		}
	}
}
