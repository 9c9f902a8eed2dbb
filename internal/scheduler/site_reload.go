package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/metrics"
	"github.com/MrSnakeDoc/folio/internal/sources/site"
)

// DefaultDebounce groups the burst of file events an editor produces on save.
const DefaultDebounce = 250 * time.Millisecond

// Reload triggers, used as metric labels.
const (
	TriggerStartup = "startup"
	TriggerTicker  = "ticker"
	TriggerManual  = "manual"
	TriggerWatch   = "watch"
)

// SiteReloader keeps the published site in sync with the site file: on a ticker,
// on manual trigger and, when a file is configured, whenever it changes on disk.
type SiteReloader struct {
	loader        *site.Loader
	holder        *site.Holder
	logger        logger.Logger
	interval      time.Duration
	debounce      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
	watcher       *fsnotify.Watcher
}

// NewSiteReloader creates a new site reloader
func NewSiteReloader(
	siteFile string,
	holder *site.Holder,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *SiteReloader {
	return &SiteReloader{
		loader:        site.NewLoader(siteFile),
		holder:        holder,
		logger:        log,
		interval:      interval,
		debounce:      DefaultDebounce,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the site once, failing if it is invalid, then keeps reloading in the background.
// A failed background reload keeps the previous site.
func (sr *SiteReloader) Start(ctx context.Context) error {
	if err := sr.Reload(TriggerStartup); err != nil {
		return fmt.Errorf("initial reload failed: %w", err)
	}

	if path := sr.loader.Path(); path != "" {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("failed to create site file watcher: %w", err)
		}
		// watch the directory: editors often replace the file instead of writing it
		if err := w.Add(filepath.Dir(path)); err != nil {
			_ = w.Close()
			return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
		}
		sr.watcher = w
	}

	go sr.run(ctx)
	return nil
}

func (sr *SiteReloader) run(ctx context.Context) {
	ticker := time.NewTicker(sr.interval)
	defer ticker.Stop()

	var (
		fsEvents <-chan fsnotify.Event
		fsErrors <-chan error
		settle   <-chan time.Time
	)
	if sr.watcher != nil {
		defer sr.watcher.Close()
		fsEvents, fsErrors = sr.watcher.Events, sr.watcher.Errors
	}

	for {
		select {
		case <-ticker.C:
			sr.reloadLogged(TriggerTicker)
		case <-sr.manualTrigger:
			sr.logger.Info("manual reload triggered")
			sr.reloadLogged(TriggerManual)
		case ev, ok := <-fsEvents:
			if !ok {
				fsEvents = nil
				continue
			}
			if sr.concerns(ev) {
				settle = time.After(sr.debounce)
			}
		case <-settle:
			settle = nil
			sr.reloadLogged(TriggerWatch)
		case err, ok := <-fsErrors:
			if !ok {
				fsErrors = nil
				continue
			}
			sr.logger.Warn("site file watcher error", logger.Error(err))
		case <-sr.stopCh:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (sr *SiteReloader) concerns(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(sr.loader.Path()) {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Stop stops the reloader
func (sr *SiteReloader) Stop() {
	close(sr.stopCh)
}

func (sr *SiteReloader) reloadLogged(trigger string) {
	if err := sr.Reload(trigger); err != nil {
		sr.logger.Error("failed to reload site, keeping previous one",
			logger.String("trigger", trigger),
			logger.Error(err))
	}
}

// Reload reads the site file and publishes it to new sessions.
func (sr *SiteReloader) Reload(trigger string) error {
	s, err := sr.loader.Load()
	metrics.ObserveReload(trigger, err)
	if err != nil {
		return err
	}

	sr.holder.Set(s)
	sr.logger.Info("site loaded",
		logger.String("trigger", trigger),
		logger.Strings("sections", sectionIDs(s)),
		logger.String("default", s.Default))
	return nil
}

func sectionIDs(s site.Site) []string {
	ids := make([]string, 0, len(s.Sections))
	for _, sec := range s.Sections {
		ids = append(ids, sec.ID)
	}
	return ids
}
