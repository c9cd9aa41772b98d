package application

import (
	"context"

	journaldomain "citysync-v0/internal/journal/domain"
)

// JournalService handles sync history queries
type JournalService struct {
	repo journaldomain.Repository
}

// NewJournalService creates a new journal service
func NewJournalService(repo journaldomain.Repository) *JournalService {
	return &JournalService{
		repo: repo,
	}
}

// ListChanges returns journaled changes matching the filters
func (s *JournalService) ListChanges(ctx context.Context, req ListChangesRequest) ([]ChangeResponse, error) {
	changes, err := s.repo.ListChanges(ctx, journaldomain.ChangeFilters{
		Key:    req.Key,
		Kind:   req.Kind,
		From:   req.From,
		To:     req.To,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]ChangeResponse, len(changes))
	for i, c := range changes {
		responses[i] = ToChangeResponse(c)
	}
	return responses, nil
}

// ListCycles returns cycle summaries matching the filters
func (s *JournalService) ListCycles(ctx context.Context, req ListCyclesRequest) ([]CycleResponse, error) {
	cycles, err := s.repo.ListCycles(ctx, journaldomain.CycleFilters{
		From:   req.From,
		To:     req.To,
		Mode:   req.Mode,
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return nil, err
	}

	responses := make([]CycleResponse, len(cycles))
	for i, c := range cycles {
		responses[i] = ToCycleResponse(c)
	}
	return responses, nil
}
