package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	engineapp "citysync-v0/internal/engine/application"
	enginedomain "citysync-v0/internal/engine/domain"
)

// AttributesFetcher retrieves the per-building detail document from the
// source. It is keyed by the secondary identifier.
type AttributesFetcher interface {
	FetchAttributes(ctx context.Context, secondaryKey string) ([]byte, error)
}

// BuildingService handles building queries against the cache
type BuildingService struct {
	cache   *engineapp.Cache
	fetcher AttributesFetcher
}

// NewBuildingService creates a new building service. fetcher may be nil
// when no attribute endpoint is configured.
func NewBuildingService(cache *engineapp.Cache, fetcher AttributesFetcher) *BuildingService {
	return &BuildingService{
		cache:   cache,
		fetcher: fetcher,
	}
}

// ListBuildings returns all cached buildings ordered by primary key
func (s *BuildingService) ListBuildings(ctx context.Context, limit, offset int) ([]BuildingResponse, error) {
	snapshot := s.cache.SnapshotAll()

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if offset > len(keys) {
		offset = len(keys)
	}
	keys = keys[offset:]
	if limit > 0 && limit < len(keys) {
		keys = keys[:limit]
	}

	responses := make([]BuildingResponse, len(keys))
	for i, k := range keys {
		responses[i] = ToBuildingResponse(snapshot[k])
	}
	return responses, nil
}

// GetBuilding returns a building by primary or secondary key
func (s *BuildingService) GetBuilding(ctx context.Context, key string) (*BuildingResponse, error) {
	ent, err := s.cache.GetByAnyKey(key)
	if err != nil {
		return nil, err
	}
	response := ToBuildingResponse(ent)
	return &response, nil
}

// LookupBuilding resolves a coordinate to a building
func (s *BuildingService) LookupBuilding(ctx context.Context, pt enginedomain.Point, tolerance float64) (*BuildingResponse, error) {
	ent, err := s.cache.GetByPoint(pt, tolerance)
	if err != nil {
		return nil, err
	}
	response := ToBuildingResponse(ent)
	return &response, nil
}

// DeleteBuilding evicts a building from the cache
func (s *BuildingService) DeleteBuilding(ctx context.Context, key string) error {
	return s.cache.Delete(key)
}

// GetAttributes fetches the detail document for a cached building. The
// source is queried with the building's secondary key.
func (s *BuildingService) GetAttributes(ctx context.Context, key string) (json.RawMessage, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("no attributes endpoint configured")
	}

	ent, err := s.cache.GetByAnyKey(key)
	if err != nil {
		return nil, err
	}

	body, err := s.fetcher.FetchAttributes(ctx, ent.SecondaryKey)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("source returned invalid attribute document")
	}
	return json.RawMessage(body), nil
}
