package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/calumari/rowmap/internal/config"
)

const watchDebounce = 200 * time.Millisecond

// watch regenerates whenever a relevant file in dirs changes, until ctx is
// done. Events are coalesced so an editor save burst triggers one run.
func watch(ctx context.Context, dirs []string, ignore map[string]bool, logger *slog.Logger, regen func(context.Context) error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// absolute so event names line up with result paths
	for _, dir := range dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		if err := w.Add(abs); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}
	logger.Info("watching for changes", "dirs", dirs)

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
			if !relevant(ev, ignore) {
				continue
			}
			logger.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "err", err)
		case <-fire:
			if err := regen(ctx); err != nil {
				logger.Error("generation failed", "err", err)
			}
		}
	}
}

// relevant reports whether ev can change generated output. Generated files
// and tests are skipped so a run does not retrigger itself.
func relevant(ev fsnotify.Event, ignore map[string]bool) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	if ignore[ev.Name] {
		return false
	}
	base := filepath.Base(ev.Name)
	if base == config.DefaultFile {
		return true
	}
	return strings.HasSuffix(base, ".go") && !strings.HasSuffix(base, "_test.go") && !strings.HasPrefix(base, ".")
}
