package application

import (
	"context"
	"errors"

	engineapp "citysync-v0/internal/engine/application"
)

// EngineService exposes poller and cache control to the API
type EngineService struct {
	poller *engineapp.Poller
	cache  *engineapp.Cache
}

// NewEngineService creates a new engine service
func NewEngineService(poller *engineapp.Poller, cache *engineapp.Cache) *EngineService {
	return &EngineService{
		poller: poller,
		cache:  cache,
	}
}

// Status returns the current poller and cache state
func (s *EngineService) Status(ctx context.Context) StatusResponse {
	return StatusResponse{
		Poller: s.poller.Status(),
		Cache:  s.cache.Stats(),
	}
}

// Refresh runs one sync cycle immediately
func (s *EngineService) Refresh(ctx context.Context) error {
	return s.poller.RefreshNow(ctx)
}

// IsCycleInFlight reports whether err means a cycle was already running
func IsCycleInFlight(err error) bool {
	return errors.Is(err, engineapp.ErrCycleInFlight)
}

// StartPoller starts the polling loop
func (s *EngineService) StartPoller(ctx context.Context) {
	s.poller.Start()
}

// StopPoller stops the polling loop, discarding any cycle in flight
func (s *EngineService) StopPoller(ctx context.Context) error {
	return s.poller.Stop(ctx)
}

// ClearCache drops every cached building, footprint and identity
// mapping. The journal is untouched.
func (s *EngineService) ClearCache(ctx context.Context) {
	s.cache.Clear()
}
