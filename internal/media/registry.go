// Package media is the asset registry: immutable records for every piece
// of ingested media, persisted in SQLite and mirrored in memory for the
// editor's synchronous lookups. The registry is append-only; the single
// mutation is the one-time duration resolution performed by the probe
// runner.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Registry struct {
	repo   Repository
	logger *slog.Logger

	mu     sync.RWMutex
	assets map[string]Asset
	order  []string
}

// NewRegistry loads the persisted library into memory.
func NewRegistry(ctx context.Context, repo Repository, logger *slog.Logger) (*Registry, error) {
	r := &Registry{
		repo:   repo,
		logger: logger,
		assets: make(map[string]Asset),
	}

	existing, err := repo.ListAssets(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load asset library: %w", err)
	}
	for _, a := range existing {
		r.assets[a.ID] = *a
		r.order = append(r.order, a.ID)
	}

	if logger != nil {
		logger.Info("asset registry loaded", "assets", len(r.order))
	}
	return r, nil
}

// Register ingests a new asset. Video and audio get a pending duration and
// a probe job; images carry their fixed duration immediately. Until the
// probe resolves, the asset is unplaceable (duration 0).
func (r *Registry) Register(ctx context.Context, kind Kind, displayName, sourceHandle string) (*Asset, error) {
	if !ValidKind(kind) {
		return nil, fmt.Errorf("unknown asset kind %q", kind)
	}
	if sourceHandle == "" {
		return nil, fmt.Errorf("source handle is required")
	}
	if displayName == "" {
		displayName = sourceHandle
	}

	asset := Asset{
		ID:           uuid.NewString(),
		Kind:         kind,
		DisplayName:  displayName,
		SourceHandle: sourceHandle,
		Duration:     ProvisionalDuration(kind),
		CreatedAt:    time.Now(),
	}

	if err := r.repo.CreateAsset(ctx, &asset); err != nil {
		return nil, fmt.Errorf("failed to persist asset: %w", err)
	}

	if kind != KindImage {
		now := time.Now()
		job := &Job{
			ID:        uuid.NewString(),
			Type:      JobTypeProbe,
			Status:    JobStatusPending,
			AssetID:   asset.ID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.repo.CreateJob(ctx, job); err != nil {
			return nil, fmt.Errorf("failed to enqueue probe job: %w", err)
		}
	}

	r.mu.Lock()
	r.assets[asset.ID] = asset
	r.order = append(r.order, asset.ID)
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("asset registered",
			"asset_id", asset.ID, "kind", kind, "name", displayName)
	}

	out := asset
	return &out, nil
}

// Get returns a copy of the asset, so callers cannot mutate the registry.
func (r *Registry) Get(id string) (*Asset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.assets[id]
	if !ok {
		return nil, false
	}
	out := a
	return &out, true
}

// List returns all assets in ingest order.
func (r *Registry) List() []*Asset {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Asset, 0, len(r.order))
	for _, id := range r.order {
		a := r.assets[id]
		out = append(out, &a)
	}
	return out
}

// Count reports the number of registered assets.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Resolve records a probed duration. The write happens at most once: a
// second resolution for the same asset is ignored, as is a non-positive
// duration.
func (r *Registry) Resolve(ctx context.Context, id string, duration float64) error {
	if duration <= 0 {
		return fmt.Errorf("duration must be positive, got %v", duration)
	}

	r.mu.Lock()
	a, ok := r.assets[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("asset %s not found", id)
	}
	if a.Duration > 0 {
		r.mu.Unlock()
		return nil
	}
	a.Duration = duration
	r.assets[id] = a
	r.mu.Unlock()

	if err := r.repo.UpdateAssetDuration(ctx, id, duration); err != nil {
		return fmt.Errorf("failed to persist duration: %w", err)
	}

	if r.logger != nil {
		r.logger.Info("asset duration resolved", "asset_id", id, "duration", duration)
	}
	return nil
}
