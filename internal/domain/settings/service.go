package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetPatientForm returns the stored configuration merged over the
// defaults. The disjointness invariant is re-applied on every read so a
// blob written by an older version still comes out consistent.
func (s *Service) GetPatientForm(ctx context.Context) (PatientFormSettings, error) {
	defaults := Defaults()

	raw, err := s.repo.Get(ctx, PatientFormKey)
	if errors.Is(err, ErrNotFound) {
		return Merge(PatientFormSettings{}, defaults), nil
	}
	if err != nil {
		return PatientFormSettings{}, err
	}

	var stored PatientFormSettings
	if err := json.Unmarshal(raw, &stored); err != nil {
		return PatientFormSettings{}, fmt.Errorf("decode stored settings: %w", err)
	}
	return Merge(stored, defaults), nil
}

// PutPatientForm merges the submitted patch against the defaults,
// persists the merged result and returns it as the new source of truth.
func (s *Service) PutPatientForm(ctx context.Context, patch PatientFormSettings) (PatientFormSettings, error) {
	merged := Merge(patch, Defaults())

	data, err := json.Marshal(merged)
	if err != nil {
		return PatientFormSettings{}, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.repo.Upsert(ctx, PatientFormKey, data); err != nil {
		return PatientFormSettings{}, err
	}
	return merged, nil
}
