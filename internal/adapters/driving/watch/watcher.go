// Package watch re-anchors a source document whenever its file changes.
//
// The parent directory is watched rather than the file itself so that
// editors and exporters that replace the file through a rename are seen.
// Passes are throttled with a token bucket; events that arrive while a
// pass is waiting are folded into it.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/margin/internal/core/domain"
	"github.com/custodia-labs/margin/internal/logger"
)

// Relocator re-finds the anchors of a source.
// driving.Workspace satisfies it.
type Relocator interface {
	RelocateSource(ctx context.Context, sourceID, sourcePath string) (*domain.RelocationReport, error)
}

// ReportFunc receives the outcome of every pass.
type ReportFunc func(report *domain.RelocationReport, err error)

// Watcher runs re-anchoring passes for one source file.
type Watcher struct {
	relocator Relocator
	sourceID  string
	path      string
	limiter   *rate.Limiter
	onReport  ReportFunc
}

// New creates a watcher for the file at path, stored under sourceID.
// At most one pass runs per interval.
func New(relocator Relocator, sourceID, path string, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = domain.DefaultWatchInterval
	}
	return &Watcher{
		relocator: relocator,
		sourceID:  sourceID,
		path:      filepath.Clean(path),
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
		onReport:  func(*domain.RelocationReport, error) {},
	}
}

// OnReport sets the callback for pass results.
func (w *Watcher) OnReport(fn ReportFunc) {
	if fn != nil {
		w.onReport = fn
	}
}

// Run performs an initial pass and then one pass per change until ctx is
// cancelled. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fw.Close()

	dir := filepath.Dir(w.path)
	if err := fw.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	logger.Debug("watching %s for changes to %s", dir, filepath.Base(w.path))

	// The initial pass consumes the burst token.
	w.limiter.Allow()
	w.pass(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !w.handles(event) {
				continue
			}
			logger.Debug("change detected: %s", event)
			if err := w.limiter.Wait(ctx); err != nil {
				// Context cancelled while throttled.
				return nil
			}
			drain(fw.Events)
			w.pass(ctx)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}

// handles reports whether event changes the watched file's content.
func (w *Watcher) handles(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) pass(ctx context.Context) {
	report, err := w.relocator.RelocateSource(ctx, w.sourceID, w.path)
	if err != nil {
		logger.Warn("re-anchoring %s: %v", w.sourceID, err)
	} else {
		logger.Debug("re-anchored %s: %d relocated, %d failed", w.sourceID, report.Relocated(), report.Failed())
	}
	w.onReport(report, err)
}

// drain discards events already queued.
func drain(events <-chan fsnotify.Event) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}
