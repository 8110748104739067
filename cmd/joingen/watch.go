package main

import (
	"context"
	"io/fs"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	jerrors "github.com/opal-lang/join/internal/errors"
)

// watch regenerates source files as they change until ctx is cancelled.
// Failures are reported and watching continues.
func (a *app) watch(ctx context.Context, roots []string, regenerate func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return jerrors.Wrap(jerrors.ErrInputRead, "starting file watcher", err)
	}
	defer func() { _ = watcher.Close() }()

	dirs, err := watchDirs(roots)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return jerrors.NewInputError(dir, err)
		}
	}
	a.logger.Info("watching for changes", "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			a.logger.Debug("watch stopped", "reason", context.Cause(ctx))
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != SourceExt || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			a.logger.Debug("source changed", "file", event.Name, "op", event.Op.String())
			if err := regenerate(event.Name); err != nil {
				a.report(err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watcher error", "error", err)
		}
	}
}

// watchDirs lists the directories to watch: every directory that holds or
// may later hold a source file under roots.
func watchDirs(roots []string) ([]string, error) {
	seen := map[string]bool{}
	var dirs []string
	for _, root := range roots {
		dir := root
		if filepath.Ext(root) == SourceExt {
			dir = filepath.Dir(root)
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && skipDir(d.Name()) {
				return filepath.SkipDir
			}
			if !seen[path] {
				seen[path] = true
				dirs = append(dirs, path)
			}
			return nil
		})
		if err != nil {
			return nil, jerrors.NewInputError(dir, err)
		}
	}
	return dirs, nil
}

// report prints a non-fatal error.
func (a *app) report(err error) {
	FormatError(a.stderr, err, ShouldUseColor(a.noColor, a.stderr))
}
