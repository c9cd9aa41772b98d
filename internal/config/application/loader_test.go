package application

import (
	"context"
	"errors"
	"testing"

	"citysync-v0/internal/shared/validation"
)

type recordingResolver struct {
	pairs [][2]string
}

func (r *recordingResolver) RecordConfirmed(primaryKey, secondaryKey string) {
	r.pairs = append(r.pairs, [2]string{primaryKey, secondaryKey})
}

func TestLoader_LoadSeed(t *testing.T) {
	tests := []struct {
		name        string
		rawSeed     string
		wantCount   int
		wantErr     bool
		wantValErr  bool
		wantApplied int
	}{
		{
			name: "valid seed",
			rawSeed: `{
				"name": "downtown",
				"mappings": [
					{"primary": "BLDG_1", "secondary": "TOWER_A"},
					{"primary": "BLDG_2", "secondary": "TOWER_B"}
				]
			}`,
			wantCount:   2,
			wantApplied: 2,
		},
		{
			name:    "malformed json",
			rawSeed: `{"name": "downtown", "mappings": [`,
			wantErr: true,
		},
		{
			name:       "missing name",
			rawSeed:    `{"mappings": [{"primary": "BLDG_1", "secondary": "TOWER_A"}]}`,
			wantErr:    true,
			wantValErr: true,
		},
		{
			name:       "empty mappings",
			rawSeed:    `{"name": "downtown", "mappings": []}`,
			wantErr:    true,
			wantValErr: true,
		},
		{
			name: "mapping missing secondary",
			rawSeed: `{
				"name": "downtown",
				"mappings": [{"primary": "BLDG_1", "secondary": ""}]
			}`,
			wantErr:    true,
			wantValErr: true,
		},
		{
			name: "mapping with whitespace key",
			rawSeed: `{
				"name": "downtown",
				"mappings": [{"primary": "BLDG 1", "secondary": "TOWER_A"}]
			}`,
			wantErr:    true,
			wantValErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &recordingResolver{}
			loader := NewLoader(resolver)

			count, err := loader.LoadSeed(context.Background(), []byte(tt.rawSeed))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.wantValErr && !errors.Is(err, &validation.ValidationError{}) {
					t.Errorf("expected validation error, got %v", err)
				}
				if len(resolver.pairs) != 0 {
					t.Errorf("expected no mappings applied on error, got %d", len(resolver.pairs))
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if count != tt.wantCount {
				t.Errorf("expected count %d, got %d", tt.wantCount, count)
			}
			if len(resolver.pairs) != tt.wantApplied {
				t.Errorf("expected %d applied mappings, got %d", tt.wantApplied, len(resolver.pairs))
			}
		})
	}
}

func TestLoader_LoadSeed_DuplicatePrimary(t *testing.T) {
	resolver := &recordingResolver{}
	loader := NewLoader(resolver)

	rawSeed := `{
		"name": "downtown",
		"mappings": [
			{"primary": "BLDG_1", "secondary": "TOWER_A"},
			{"primary": "BLDG_1", "secondary": "TOWER_B"}
		]
	}`

	_, err := loader.LoadSeed(context.Background(), []byte(rawSeed))
	if err == nil {
		t.Fatal("expected error for duplicate primary key, got nil")
	}

	var dupErr *validation.DuplicateFoundError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateFoundError, got %v", err)
	}
	if len(resolver.pairs) != 0 {
		t.Errorf("expected no mappings applied, got %d", len(resolver.pairs))
	}
}

func TestLoader_LoadSeed_AppliesInOrder(t *testing.T) {
	resolver := &recordingResolver{}
	loader := NewLoader(resolver)

	rawSeed := `{
		"name": "downtown",
		"mappings": [
			{"primary": "BLDG_1", "secondary": "TOWER_A"},
			{"primary": "BLDG_2", "secondary": "TOWER_B"}
		]
	}`

	if _, err := loader.LoadSeed(context.Background(), []byte(rawSeed)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][2]string{{"BLDG_1", "TOWER_A"}, {"BLDG_2", "TOWER_B"}}
	for i, pair := range want {
		if resolver.pairs[i] != pair {
			t.Errorf("expected mapping %d to be %v, got %v", i, pair, resolver.pairs[i])
		}
	}
}
