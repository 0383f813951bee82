// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package fields

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDelay collapses the burst of events an editor produces on save.
const reloadDelay = 100 * time.Millisecond

// Watch reloads the registry from path whenever the file is written or
// replaced, until ctx is cancelled. A file that fails to parse is logged
// and the previous descriptors stay in place.
func (r *Registry) Watch(ctx context.Context, path string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fields watcher: %w", err)
	}
	// Editors often save by rename, so the directory is watched.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	slog.Info("watching fields file", "path", path)

	go r.watchLoop(ctx, w, filepath.Clean(path))
	return nil
}

func (r *Registry) watchLoop(ctx context.Context, w *fsnotify.Watcher, path string) {
	defer w.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(reloadDelay, func() {
			if err := r.reload(path); err != nil {
				slog.Warn("fields reload failed, keeping previous descriptors", "path", path, "error", err)
				return
			}
			slog.Info("fields reloaded", "path", path, "entity_types", len(r.EntityTypes()))
		})
	}

	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			slog.Warn("fields watcher error", "error", err)

		case <-ctx.Done():
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			return
		}
	}
}

// reload parses path and swaps in its descriptors.
func (r *Registry) reload(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open fields file: %w", err)
	}
	defer f.Close()

	next, err := Load(f)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.entries = next.entries
	r.mu.Unlock()
	return nil
}
