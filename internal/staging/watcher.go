// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package staging

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// FSNOTIFY WATCHER
// =============================================================================

// Watcher signals when the contents of one directory change. Bursts of
// events are coalesced: at most one signal is delivered per debounce window
// and signals never queue up behind a slow reader.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	changes  chan struct{}

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
	done      chan struct{}
}

// NewWatcher starts watching dir (non-recursively).
func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher:  fw,
		debounce: debounce,
		changes:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// Changes delivers a value after the directory changed. The channel is
// closed when the watcher is closed.
func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.cancel()
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) processEvents() {
	defer close(w.done)
	defer close(w.changes)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case <-fire:
			timer, fire = nil, nil
			select {
			case w.changes <- struct{}{}:
			default:
				// A signal is already pending.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("STAGING | watcher error: %v", err)
		}
	}
}
