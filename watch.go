package tika

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"vawter.tech/stopper"
)

// ArtifactEvent reports a change to the resolved server artifact file
type ArtifactEvent struct {
	// Location is the artifact the event concerns
	Location Location
	// Err is set when the artifact went missing or the watch itself failed
	Err error
}

// WatchCleanupFunc stops a watch and releases its resources
type WatchCleanupFunc func() error

// WatchArtifact watches the resolved artifact file for replacement or
// removal, so callers can restart the server when a new artifact lands.
// Events are debounced to coalesce rapid rewrites. The returned cleanup
// function must be called to release the watcher; the channel closes
// after cleanup.
//
// The artifact must already be resolved to a local path, which happens
// on the first StartServer or via WithArtifactPath.
func (c *Client) WatchArtifact(ctx context.Context) (<-chan ArtifactEvent, WatchCleanupFunc, error) {
	c.mu.Lock()
	loc := c.config.Artifact
	c.mu.Unlock()

	if !loc.Local() {
		return nil, nil, newError(KindConfig, "watch", "",
			errors.New("no local artifact resolved"))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, newError(KindIO, "watch", loc.Path, err)
	}

	// Watch the directory: editors and downloads replace the file by
	// rename, which drops a watch placed on the file itself.
	dir := filepath.Dir(loc.Path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, nil, newError(KindIO, "watch", dir, err)
	}

	ch := make(chan ArtifactEvent, 10)

	sctx := stopper.WithContext(ctx)
	sctx.Defer(func() {
		_ = watcher.Close()
		close(ch)
	})

	cleanup := func() error {
		sctx.Stop(100 * time.Millisecond)
		return sctx.Wait()
	}

	var mu sync.Mutex
	var debouncer *time.Timer

	emit := func() {
		if sctx.IsStopping() {
			return
		}
		event := ArtifactEvent{Location: loc}
		if !loc.Exists() {
			event.Err = newError(KindIO, "watch", loc.Path, ErrArtifactMissing)
		}
		select {
		case ch <- event:
		case <-sctx.Stopping():
		}
	}

	sctx.Go(func(sctx *stopper.Context) error {
		sctx.Defer(func() {
			mu.Lock()
			if debouncer != nil {
				debouncer.Stop()
			}
			mu.Unlock()
		})

		for !sctx.IsStopping() {
			select {
			case <-sctx.Stopping():
				return nil

			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != filepath.Clean(loc.Path) {
					continue
				}
				mu.Lock()
				if debouncer != nil {
					debouncer.Stop()
				}
				debouncer = time.AfterFunc(DefaultWatchDebounce, emit)
				mu.Unlock()

			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				if err != nil && !sctx.IsStopping() {
					select {
					case ch <- ArtifactEvent{Location: loc, Err: newError(KindIO, "watch", loc.Path, err)}:
					case <-sctx.Stopping():
						return nil
					}
				}
			}
		}
		return nil
	})

	return ch, cleanup, nil
}
