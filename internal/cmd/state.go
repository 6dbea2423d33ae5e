package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/vvakame/foodexpress/internal/config"
	"github.com/vvakame/foodexpress/internal/fixtures"
	"github.com/vvakame/foodexpress/internal/log"
	"github.com/vvakame/foodexpress/internal/snapshot"
	"github.com/vvakame/foodexpress/internal/store"
)

// loadState reads the last saved snapshot, falling back to the fixtures when the backend is empty.
func loadState(ctx context.Context, backend snapshot.Backend, cfg config.Fixtures) (*store.Snapshot, error) {
	logger := log.FromContext(ctx)

	snap, err := backend.Load(ctx)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		logger.Info("no snapshot found, loading fixtures", "path", cfg.Path)
		snap, err = fixtures.Load(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to load fixtures: %w", err)
		}
		return snap, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	logger.Info("snapshot loaded", "restaurants", len(snap.Restaurants), "orders", len(snap.Orders))
	return snap, nil
}
