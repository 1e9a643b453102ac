// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/promap"
	"github.com/gogpu/promap/project"
)

// watchProject reloads the show file into e whenever it is written.
// The directory is watched so editors that replace the file are caught.
func watchProject(ctx context.Context, path string, e *promap.Engine, reloaded func()) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	log := promap.Logger()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				st, err := project.Load(abs)
				if err != nil {
					log.Warn("reload failed", "path", abs, "err", err)
					continue
				}
				if err := e.ImportState(st); err != nil {
					log.Warn("reload rejected", "path", abs, "err", err)
					continue
				}
				reloaded()
				log.Info("show reloaded", "path", abs)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("watch", "err", err)
			}
		}
	}()
	return w, nil
}
