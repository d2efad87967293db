package ingest

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatchConfig struct {
	Dir          string
	Debounce     time.Duration // coalesce bursts of copies and renames into one signal
	InitialBuild bool          // signal once right away
}

// StartWatcher signals on the returned channel each time the page directory settles
// after a change to a page image. Signals coalesce; a slow consumer sees at most one
// pending signal.
func StartWatcher(ctx context.Context, cfg WatchConfig, logger *slog.Logger) (<-chan struct{}, <-chan error, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Dir == "" {
		return nil, nil, errors.New("watch dir is required")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create fsnotify watcher", "error", err)
		return nil, nil, err
	}
	if err := w.Add(cfg.Dir); err != nil {
		logger.Error("failed to watch directory", "dir", cfg.Dir, "error", err)
		_ = w.Close()
		return nil, nil, err
	}

	sigCh := make(chan struct{}, 1)
	errCh := make(chan error, 1)
	signal := func() {
		select {
		case sigCh <- struct{}{}:
		default:
		}
	}
	if cfg.InitialBuild {
		signal()
	}

	go func() {
		var (
			mu    sync.Mutex
			timer *time.Timer
		)
		defer func() {
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
			if err := w.Close(); err != nil {
				logger.Warn("failed to close watcher", "error", err)
			}
			close(errCh)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-w.Events:
				if !ok {
					return
				}
				if IsHidden(e.Name) || !AllowedExt(filepath.Ext(e.Name)) {
					continue
				}
				if !e.Has(fsnotify.Create) && !e.Has(fsnotify.Write) && !e.Has(fsnotify.Rename) && !e.Has(fsnotify.Remove) {
					continue
				}
				logger.Debug("page change observed", "path", e.Name, "op", e.Op.String())
				if cfg.Debounce <= 0 {
					signal()
					continue
				}
				mu.Lock()
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(cfg.Debounce, signal)
				mu.Unlock()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Error("watcher error", "error", err)
				select {
				case errCh <- err:
				default:
				}
			}
		}
	}()

	return sigCh, errCh, nil
}

// Watch rebuilds the catalog whenever the page set changes, until ctx is done. A failed
// rebuild is logged and the previous catalog stays in place.
func Watch(ctx context.Context, cfg WatchConfig, logger *slog.Logger, rebuild func(context.Context) error) error {
	if logger == nil {
		logger = slog.Default()
	}
	sigCh, errCh, err := StartWatcher(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var last string
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-errCh:
			if !ok {
				return nil
			}
		case <-sigCh:
			pages, err := ListPages(cfg.Dir, logger)
			if err != nil {
				logger.Error("listing pages failed", "error", err)
				continue
			}
			fp, err := Fingerprint(pages)
			if err != nil {
				logger.Warn("fingerprint failed, rebuilding anyway", "error", err)
			} else if fp == last {
				logger.Debug("page set unchanged, skipping rebuild")
				continue
			}
			if err := rebuild(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Error("rebuild failed", "error", err)
				continue
			}
			last = fp
		}
	}
}
