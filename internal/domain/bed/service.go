package bed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateType(ctx context.Context, t *TypeSetting) error {
	if t.Code == "" {
		return fmt.Errorf("code is required")
	}
	if t.LabelTH == "" {
		return fmt.Errorf("label_th is required")
	}
	if t.TargetCount < 0 {
		return fmt.Errorf("target_count must not be negative")
	}
	if existing, err := s.repo.GetTypeByCode(ctx, t.Code); err == nil && existing != nil {
		return fmt.Errorf("bed type %s already exists", t.Code)
	}
	return s.repo.CreateType(ctx, t)
}

func (s *Service) GetTypeByCode(ctx context.Context, code string) (*TypeSetting, error) {
	return s.repo.GetTypeByCode(ctx, code)
}

func (s *Service) UpdateType(ctx context.Context, t *TypeSetting) error {
	if t.TargetCount < 0 {
		return fmt.Errorf("target_count must not be negative")
	}
	return s.repo.UpdateType(ctx, t)
}

func (s *Service) DeleteType(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteType(ctx, id)
}

func (s *Service) ListTypes(ctx context.Context) ([]*TypeSetting, error) {
	return s.repo.ListTypes(ctx)
}

func (s *Service) ListBeds(ctx context.Context) ([]*Bed, error) {
	return s.repo.ListBeds(ctx)
}

// Occupy assigns a patient to an idle bed.
func (s *Service) Occupy(ctx context.Context, bedID, patientID uuid.UUID) (*Bed, error) {
	b, err := s.repo.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusIdle {
		return nil, ErrOccupied
	}
	b.Status = StatusOccupied
	b.PatientID = &patientID
	if err := s.repo.UpdateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Release returns an occupied bed to idle.
func (s *Service) Release(ctx context.Context, bedID uuid.UUID) (*Bed, error) {
	b, err := s.repo.GetBed(ctx, bedID)
	if err != nil {
		return nil, err
	}
	b.Status = StatusIdle
	b.PatientID = nil
	if err := s.repo.UpdateBed(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Reconcile adjusts a bed type's stock toward its target count: missing
// beds are created idle, surplus idle beds are retired. Occupied beds
// count toward the total but are never retired, so a ward with more
// occupied beds than the target keeps them all until they free up.
func (s *Service) Reconcile(ctx context.Context, typeCode string) (*ReconcileResult, error) {
	t, err := s.repo.GetTypeByCode(ctx, typeCode)
	if err != nil {
		return nil, err
	}

	beds, err := s.repo.ListBedsByType(ctx, typeCode)
	if err != nil {
		return nil, err
	}

	var idle []*Bed
	occupied := 0
	for _, b := range beds {
		switch b.Status {
		case StatusIdle:
			idle = append(idle, b)
		case StatusOccupied:
			occupied++
		}
	}

	result := &ReconcileResult{TypeCode: typeCode, Target: t.TargetCount, Occupied: occupied}
	total := occupied + len(idle)

	for total < t.TargetCount {
		total++
		b := &Bed{
			TypeCode: typeCode,
			Label:    fmt.Sprintf("%s-%02d", typeCode, total),
			Status:   StatusIdle,
		}
		if err := s.repo.CreateBed(ctx, b); err != nil {
			return nil, err
		}
		result.Created++
	}

	// retire surplus starting from the last idle bed
	for i := len(idle) - 1; i >= 0 && total > t.TargetCount; i-- {
		b := idle[i]
		b.Status = StatusRetired
		if err := s.repo.UpdateBed(ctx, b); err != nil {
			return nil, err
		}
		result.Retired++
		total--
	}

	return result, nil
}

// ReconcileAll runs reconciliation for every configured bed type.
func (s *Service) ReconcileAll(ctx context.Context) ([]*ReconcileResult, error) {
	types, err := s.repo.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]*ReconcileResult, 0, len(types))
	for _, t := range types {
		res, err := s.Reconcile(ctx, t.Code)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
