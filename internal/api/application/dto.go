package application

import (
	"encoding/json"
	"time"

	engineapp "citysync-v0/internal/engine/application"
	enginedomain "citysync-v0/internal/engine/domain"
	journaldomain "citysync-v0/internal/journal/domain"
)

// BuildingResponse represents a cached building in API responses
type BuildingResponse struct {
	PrimaryKey   string           `json:"primary_key"`
	SecondaryKey string           `json:"secondary_key"`
	Energy       *float64         `json:"energy,omitempty"`
	Color        enginedomain.RGB `json:"color"`
	ColorToken   string           `json:"color_token,omitempty"`
	HasFootprint bool             `json:"has_footprint"`
	Attributes   json.RawMessage  `json:"attributes"`
}

// ChangeResponse represents a journaled change in API responses
type ChangeResponse struct {
	CycleID    int64     `json:"cycle_id"`
	Key        string    `json:"key"`
	Kind       string    `json:"kind"`
	ObservedAt time.Time `json:"observed_at"`
}

// CycleResponse represents a sync cycle summary in API responses
type CycleResponse struct {
	ID         int64     `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	DurationMs int64     `json:"duration_ms"`
	Mode       string    `json:"mode"`
	Total      int       `json:"total"`
	New        int       `json:"new"`
	Changed    int       `json:"changed"`
	Removed    int       `json:"removed"`
	Unchanged  int       `json:"unchanged"`
	Skipped    int       `json:"skipped"`
	FetchError string    `json:"fetch_error,omitempty"`
}

// StatusResponse represents the engine status in API responses
type StatusResponse struct {
	Poller engineapp.PollerStatus `json:"poller"`
	Cache  engineapp.CacheStats   `json:"cache"`
}

// ListChangesRequest represents query parameters for listing changes
type ListChangesRequest struct {
	Key    *string    `json:"key,omitempty"`
	Kind   *string    `json:"kind,omitempty"`
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// ListCyclesRequest represents query parameters for listing cycles
type ListCyclesRequest struct {
	From   *time.Time `json:"from,omitempty"`
	To     *time.Time `json:"to,omitempty"`
	Mode   *string    `json:"mode,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Offset int        `json:"offset,omitempty"`
}

// ErrorResponse represents an error in API responses
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToBuildingResponse converts a cached entity to an API response
func ToBuildingResponse(e enginedomain.Entity) BuildingResponse {
	resp := BuildingResponse{
		PrimaryKey:   e.PrimaryKey,
		SecondaryKey: e.SecondaryKey,
		Color:        e.Color,
		ColorToken:   e.ColorToken,
		HasFootprint: len(e.Footprint) >= 3,
		Attributes:   json.RawMessage(e.Snapshot),
	}
	if e.HasEnergy {
		energy := e.Energy
		resp.Energy = &energy
	}
	return resp
}

// ToChangeResponse converts a journaled change to an API response
func ToChangeResponse(c journaldomain.Change) ChangeResponse {
	return ChangeResponse{
		CycleID:    c.CycleID,
		Key:        c.Key,
		Kind:       c.Kind,
		ObservedAt: c.ObservedAt,
	}
}

// ToCycleResponse converts a cycle summary to an API response
func ToCycleResponse(c journaldomain.Cycle) CycleResponse {
	return CycleResponse{
		ID:         c.ID,
		StartedAt:  c.StartedAt,
		DurationMs: c.Duration.Milliseconds(),
		Mode:       c.Mode,
		Total:      c.Total,
		New:        c.New,
		Changed:    c.Changed,
		Removed:    c.Removed,
		Unchanged:  c.Unchanged,
		Skipped:    c.Skipped,
		FetchError: c.FetchError,
	}
}
