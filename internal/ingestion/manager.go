package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/wcsec/go-venue-intel/internal/config"
	"github.com/wcsec/go-venue-intel/internal/repository"
	"github.com/wcsec/go-venue-intel/internal/worker"
)

// job is one record to persist, independent of which dataset it came from.
type job interface {
	key() string
	exists(ctx context.Context, store repository.Store) (bool, error)
	persist(ctx context.Context, store repository.Store) error
}

type Manager struct {
	cfg   *config.Config
	store repository.Store
	pool  *worker.Pool[job]
	wg    sync.WaitGroup
}

func NewManager(cfg *config.Config, store repository.Store) *Manager {
	return &Manager{
		cfg:   cfg,
		store: store,
	}
}

func (m *Manager) Start(ctx context.Context) {
	processor := func(ctx context.Context, j job) error {
		exists, err := j.exists(ctx, m.store)
		if err != nil {
			slog.Error("error checking existence", "id", j.key(), "error", err)
			return err
		}
		if exists {
			return nil
		}

		if err := j.persist(ctx, m.store); err != nil {
			slog.Error("error persisting record", "id", j.key(), "error", err)
			return err
		}

		slog.Debug("added record", "id", j.key())
		return nil
	}

	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, processor)
	m.pool.Start(ctx)

	if m.cfg.Sources.IOMEnabled {
		m.wg.Add(1)
		go m.runPoller(ctx, "iom", m.cfg.Sources.IOMURL, m.cfg.Sources.IOMPollInterval)
	}

	if m.cfg.Sources.CBPEnabled {
		m.wg.Add(1)
		go m.runPoller(ctx, "cbp", m.cfg.Sources.CBPURL, m.cfg.Sources.CBPPollInterval)
	}
}

func (m *Manager) runPoller(ctx context.Context, source, url string, interval time.Duration) {
	defer m.wg.Done()
	slog.Info("starting poller", "source", source, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx, source, url)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down", "source", source)
			return
		case <-ticker.C:
			m.poll(ctx, source, url)
		}
	}
}

func (m *Manager) poll(ctx context.Context, source, url string) {
	slog.Debug("polling", "source", source)

	var (
		jobs []job
		err  error
	)

	switch source {
	case "iom":
		jobs, err = m.pollIOM(ctx, url)
	case "cbp":
		jobs, err = m.pollCBP(ctx, url)
	}
	if err != nil {
		slog.Error("poll failed", "source", source, "error", err)
		return
	}

	for _, j := range jobs {
		m.pool.Submit(j)
	}

	slog.Debug("poll complete", "source", source, "count", len(jobs))
}

func (m *Manager) Stop() {
	m.wg.Wait()
	m.pool.Stop()
	slog.Info("ingestion manager stopped")
}
