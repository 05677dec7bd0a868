package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mr1hm/iss-tracker/internal/config"
	"github.com/mr1hm/iss-tracker/internal/ephemeris"
	"github.com/mr1hm/iss-tracker/internal/observability"
)

// Manager owns the store served to queries. Each published store is
// immutable; a refresh swaps in a new one atomically.
type Manager struct {
	cfg     config.EphemerisConfig
	source  Source
	metrics *observability.Collector

	store atomic.Pointer[ephemeris.Store]
	last  atomic.Pointer[Result]
	wg    sync.WaitGroup
}

func NewManager(cfg config.EphemerisConfig, source Source, metrics *observability.Collector) *Manager {
	m := &Manager{
		cfg:     cfg,
		source:  source,
		metrics: metrics,
	}
	m.store.Store(ephemeris.NewStore(nil))
	return m
}

// Bootstrap performs the startup fetch. On failure the empty document is
// published and the failed Result is returned for the caller to judge.
func (m *Manager) Bootstrap(ctx context.Context) Result {
	res := m.load(ctx)
	m.store.Store(res.Store())
	return res
}

// Start launches the refresh poller when a refresh interval is configured.
func (m *Manager) Start(ctx context.Context) {
	if m.cfg.RefreshInterval <= 0 {
		slog.Info("ephemeris refresh disabled")
		return
	}
	m.wg.Add(1)
	go m.runPoller(ctx, m.cfg.RefreshInterval)
}

func (m *Manager) runPoller(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting ephemeris poller", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("ephemeris poller shutting down")
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}

// Refresh reloads the feed, keeping the current store if the load fails.
func (m *Manager) Refresh(ctx context.Context) Result {
	res := m.load(ctx)
	if res.OK() {
		m.store.Store(res.Store())
	}
	return res
}

func (m *Manager) load(ctx context.Context) Result {
	slog.Debug("loading ephemeris", "url", m.cfg.URL)

	res := Load(ctx, m.source)
	m.last.Store(&res)

	states := m.Store().Len()
	if res.OK() {
		states = len(res.Document.States)
		slog.Info("ephemeris loaded", "states", states, "comments", len(res.Document.Comments))
	} else {
		slog.Error("error fetching or parsing ephemeris", "outcome", res.Outcome.String(), "error", res.Err)
	}
	m.metrics.ObserveIngestion(res.Outcome.String(), states)

	return res
}

func (m *Manager) Store() *ephemeris.Store {
	return m.store.Load()
}

// LastResult reports the most recent load attempt, or nil before the first.
func (m *Manager) LastResult() *Result {
	return m.last.Load()
}

func (m *Manager) Stop() {
	m.wg.Wait()
	slog.Info("ingestion manager stopped")
}
