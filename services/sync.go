package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"estate_browser/logging"
	"estate_browser/models"
	"estate_browser/storage"
)

// RunRecorder persists sync run history
type RunRecorder interface {
	CreateSyncRun(ctx context.Context, run *models.SyncRun) (int64, error)
	FinishSyncRun(ctx context.Context, run *models.SyncRun) error
}

// Invalidator drops cached catalog data
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// SyncService mirrors the upstream catalog into the local listing store
type SyncService struct {
	name     string
	upstream storage.PropertyStore
	local    storage.PropertyStore
	runs     RunRecorder
	cache    Invalidator
}

// NewSyncService creates a new SyncService. runs and cache may be nil.
func NewSyncService(name string, upstream, local storage.PropertyStore, runs RunRecorder, cache Invalidator) *SyncService {
	return &SyncService{
		name:     name,
		upstream: upstream,
		local:    local,
		runs:     runs,
		cache:    cache,
	}
}

// Run copies every upstream property into the local store and removes local
// properties that no longer exist upstream.
func (s *SyncService) Run(ctx context.Context) (*models.SyncRun, error) {
	run := &models.SyncRun{
		Source:    s.name,
		StartedAt: time.Now(),
		Status:    models.RunStatusRunning,
	}
	if s.runs != nil {
		id, err := s.runs.CreateSyncRun(ctx, run)
		if err != nil {
			log.Printf("Warning: failed to record sync run: %v", err)
		}
		run.ID = id
	}

	err := s.mirror(ctx, run)

	now := time.Now()
	run.FinishedAt = &now
	run.Status = models.RunStatusCompleted
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
	}
	if s.runs != nil && run.ID != 0 {
		if ferr := s.runs.FinishSyncRun(ctx, run); ferr != nil {
			log.Printf("Warning: failed to finish sync run: %v", ferr)
		}
	}

	if err != nil {
		log.Printf("[Sync] %s failed after %s: %v", s.name, run.Duration().Round(time.Millisecond), err)
		return run, err
	}
	log.Printf("[Sync] %s: %d fetched, %d upserted, %d skipped, %d deleted in %s",
		s.name, run.Fetched, run.Upserted, run.Skipped, run.Deleted, run.Duration().Round(time.Millisecond))
	return run, nil
}

func (s *SyncService) mirror(ctx context.Context, run *models.SyncRun) error {
	upstream, err := s.upstream.ListProperties(ctx)
	if err != nil {
		return serviceError("fetch upstream", err)
	}
	run.Fetched = len(upstream)

	// Every upstream ID counts as present, including records skipped below,
	// so an invalid upstream record never removes its local copy.
	seen := make(map[string]bool, len(upstream))
	for i := range upstream {
		seen[upstream[i].ID] = true
	}

	for i := range upstream {
		p := upstream[i]
		if err := p.Validate(); err != nil {
			log.Printf("[Sync] skipping property %s: %v", p.ID, err)
			run.Skipped++
			continue
		}
		if err := s.local.UpsertProperty(ctx, &p); err != nil {
			return serviceError(fmt.Sprintf("store property %s", p.ID), err)
		}
		run.Upserted++
	}

	local, err := s.local.ListProperties(ctx)
	if err != nil {
		return serviceError("list local", err)
	}
	for _, p := range local {
		if seen[p.ID] {
			continue
		}
		if err := s.local.DeleteProperty(ctx, p.ID); err != nil {
			return serviceError(fmt.Sprintf("delete property %s", p.ID), err)
		}
		logging.Debugf("[Sync] removed %s (gone upstream)", p.ID)
		run.Deleted++
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			log.Printf("Warning: failed to invalidate cache: %v", err)
		}
	}
	return nil
}
