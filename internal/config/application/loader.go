package application

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"citysync-v0/internal/config/domain"
	"citysync-v0/internal/shared/validation"
)

// IdentityRecorder accepts confirmed identifier pairs. Satisfied by the
// engine's resolver.
type IdentityRecorder interface {
	RecordConfirmed(primaryKey, secondaryKey string)
}

// Loader parses an identity seed file and applies its mappings to the
// resolver.
type Loader struct {
	recorder IdentityRecorder
	mu       sync.Mutex
}

// NewLoader creates a new seed loader
func NewLoader(recorder IdentityRecorder) *Loader {
	return &Loader{
		recorder: recorder,
	}
}

// LoadSeed validates and applies a seed file from raw JSON bytes.
// Returns the number of mappings applied. Nothing is applied unless the
// whole file validates.
func (l *Loader) LoadSeed(ctx context.Context, rawSeed []byte) (int, error) {
	var cfg domain.SeedConfig
	err := json.Unmarshal(rawSeed, &cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to parse seed file: %w", err)
	}

	problems := cfg.Valid(ctx)
	if len(problems) > 0 {
		return 0, validation.NewValidationError(problems, cfg.Name)
	}

	seen := make(map[string]struct{}, len(cfg.Mappings))
	for i, mapping := range cfg.Mappings {
		problems := mapping.Valid(ctx)
		if len(problems) > 0 {
			return 0, validation.NewValidationError(problems, cfg.Name, fmt.Sprintf("mappings[%d]", i))
		}

		if _, dup := seen[mapping.Primary]; dup {
			return 0, validation.NewDuplicateFoundError(cfg.Name, fmt.Sprintf("mappings[%d]", i), mapping.Primary)
		}
		seen[mapping.Primary] = struct{}{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, mapping := range cfg.Mappings {
		l.recorder.RecordConfirmed(mapping.Primary, mapping.Secondary)
	}

	return len(cfg.Mappings), nil
}
