// Copyright (c) 2025 NextgenSoft Labs
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce absorbs editor save patterns (truncate+write, temp+rename)
// that fire several events for one logical change.
const watchDebounce = 250 * time.Millisecond

// Watcher reloads the config file when it changes on disk.
type Watcher struct {
	path    string
	fw      *fsnotify.Watcher
	cancel  context.CancelFunc
	onApply func(*Config)
}

// Watch starts watching path and calls onApply with each successfully
// reloaded config. Reload failures are logged and skipped; the previous
// config stays active. Close stops the watcher.
func Watch(path string, onApply func(*Config)) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory, not the file: editors replace the file by
	// rename, which drops a watch registered on the file itself.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{path: path, fw: fw, cancel: cancel, onApply: onApply}
	go w.run(ctx)
	return w, nil
}

func (w *Watcher) run(ctx context.Context) {
	var pending *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			cfg, err := Load(w.path)
			if err != nil {
				slog.Warn("config reload skipped", "path", w.path, "error", err)
				continue
			}
			SetGlobal(cfg)
			if w.onApply != nil {
				w.onApply(cfg)
			}
			slog.Info("config reloaded", "path", w.path)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			slog.Warn("config watcher error", "error", err)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	return w.fw.Close()
}
