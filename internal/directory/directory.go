package directory

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"lifx-skill/internal/domain"
)

type Lister interface {
	ListLights(ctx context.Context) ([]domain.Light, error)
}

// Directory holds the most recent snapshot. Sync replaces it wholesale.
type Directory struct {
	lister Lister
	logger *slog.Logger
	now    func() time.Time

	current atomic.Pointer[Snapshot]
}

func New(lister Lister, logger *slog.Logger) *Directory {
	d := &Directory{
		lister: lister,
		logger: logger,
		now:    time.Now,
	}
	d.current.Store(empty)
	return d
}

func (d *Directory) Sync(ctx context.Context) error {
	d.logger.Info("syncing lights from LIFX")

	lights, err := d.lister.ListLights(ctx)
	if err != nil {
		return fmt.Errorf("listing lights: %w", err)
	}

	snap := NewSnapshot(lights, d.now())
	d.current.Store(snap)

	d.logger.Info("sync complete",
		"lights", len(snap.lights),
		"rooms", len(snap.rooms),
	)

	return nil
}

func (d *Directory) Snapshot() *Snapshot {
	return d.current.Load()
}

func (d *Directory) StartPeriodicSync(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := d.Sync(ctx); err != nil {
					d.logger.Error("periodic sync failed", "error", err)
				}
			}
		}
	}()
}
