package application

import (
	"context"

	"lifx-skill/internal/directory"
	"lifx-skill/internal/domain"
)

type LightingAPI interface {
	SetState(ctx context.Context, selector domain.Selector, change domain.StateChange) ([]domain.Result, error)
	TogglePower(ctx context.Context, selector domain.Selector) ([]domain.Result, error)
}

type DeviceDirectory interface {
	Sync(ctx context.Context) error
	Snapshot() *directory.Snapshot
}
