// Package app wires the clipboard-history daemon together: store,
// clipboard source, capture pipeline and command gateway.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/P-1000/slate/internal/capture"
	"github.com/P-1000/slate/internal/clipboard"
	"github.com/P-1000/slate/internal/config"
	"github.com/P-1000/slate/internal/database"
	"github.com/P-1000/slate/internal/gateway"
	"github.com/P-1000/slate/internal/preview"
)

// retentionInterval is how often the retention cleanup re-runs while the
// daemon is up; it also runs once at startup.
const retentionInterval = 6 * time.Hour

// compactTimeout bounds the shutdown VACUUM.
const compactTimeout = 5 * time.Second

// App owns the daemon's components and lifecycle.
type App struct {
	cfg        *config.Config
	store      database.Store
	source     clipboard.Source
	controller *capture.Controller
	gateway    *gateway.Gateway

	mu            sync.Mutex
	eventsClaimed bool
}

// New builds the daemon from configuration. The clipboard source falls
// back to a headless no-op when no display is available, so the store
// and command surface stay usable.
func New(cfg *config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store, err := database.NewRepository(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	source, err := clipboard.NewSystemSource(cfg.PollInterval())
	if err != nil {
		slog.Warn("clipboard unavailable, running headless", "error", err)
		source = clipboard.NewHeadless()
	}

	enricher := preview.NewEnricher(preview.NewHTTPFetcher(nil), cfg.PreviewTimeout())
	controller := capture.NewController(source, store, enricher, cfg.MaxItemSizeBytes)
	gw := gateway.New(store, enricher, source)

	return &App{
		cfg:        cfg,
		store:      store,
		source:     source,
		controller: controller,
		gateway:    gw,
	}, nil
}

// Gateway returns the command surface for a presentation layer to call.
func (a *App) Gateway() *gateway.Gateway {
	return a.gateway
}

// Events hands the new-item notification channel to a presentation
// layer. Once called, Run stops draining the channel and the caller is
// responsible for consuming it.
func (a *App) Events() <-chan capture.Event {
	a.mu.Lock()
	a.eventsClaimed = true
	a.mu.Unlock()
	return a.controller.Events()
}

// Run starts the capture pipeline and blocks until ctx is cancelled,
// then shuts down with a best-effort compaction.
func (a *App) Run(ctx context.Context) error {
	a.cleanupHistory(ctx)

	if err := a.controller.Start(ctx); err != nil {
		return fmt.Errorf("failed to start capture pipeline: %w", err)
	}

	ticker := time.NewTicker(retentionInterval)
	defer ticker.Stop()

	for {
		// Drain notifications only while no presentation layer has
		// claimed them; a nil channel leaves every event to the
		// claimant.
		events := a.controller.Events()
		a.mu.Lock()
		if a.eventsClaimed {
			events = nil
		}
		a.mu.Unlock()

		select {
		case <-ctx.Done():
			a.shutdown()
			return nil
		case <-ticker.C:
			a.cleanupHistory(ctx)
		case ev := <-events:
			// With no presentation layer attached the daemon just
			// records the notification.
			if ev.Item != nil {
				slog.Debug("new item notification", "id", ev.Item.ItemID, "type", ev.Item.Type)
			}
		}
	}
}

func (a *App) cleanupHistory(ctx context.Context) {
	err := a.store.Cleanup(ctx, a.cfg.MaxHistoryDays, a.cfg.MaxHistoryItems)
	if err != nil {
		slog.Warn("history cleanup failed", "error", err)
	}
}

func (a *App) shutdown() {
	a.source.Close()

	ctx, cancel := context.WithTimeout(context.Background(), compactTimeout)
	defer cancel()
	if err := a.store.Compact(ctx); err != nil {
		slog.Warn("history compaction failed", "error", err)
	}

	if err := a.store.Close(); err != nil {
		slog.Warn("failed to close history store", "error", err)
	}
	slog.Info("daemon stopped")
}
