package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

type catalogInvalidator interface {
	Invalidate()
}

// CatalogWatcher drops the catalog snapshot and cached verdicts when files in the catalog directory change.
type CatalogWatcher struct {
	watcher  *fsnotify.Watcher
	catalog  catalogInvalidator
	cache    *CacheService
	logger   *zap.Logger
	debounce time.Duration
}

// NewCatalogWatcher starts watching dir.
func NewCatalogWatcher(dir string, catalog catalogInvalidator, cache *CacheService, logger *zap.Logger) (*CatalogWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create catalog watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch catalog dir %s: %w", dir, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogWatcher{watcher: w, catalog: catalog, cache: cache, logger: logger, debounce: 500 * time.Millisecond}, nil
}

// Run processes filesystem events until ctx is cancelled. Bursts of writes collapse into one reload.
func (w *CatalogWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("catalog file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.reload(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		}
	}
}

func (w *CatalogWatcher) reload(ctx context.Context) {
	w.catalog.Invalidate()
	removed, err := w.cache.Invalidate(ctx, EligibilityCachePrefix+":*")
	if err != nil {
		return
	}
	w.logger.Info("catalog changed, snapshot invalidated", zap.Int("cached_results_removed", removed))
}

// Close stops the underlying watcher.
func (w *CatalogWatcher) Close() error {
	return w.watcher.Close()
}
