package treatment

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

var validStatuses = map[string]bool{
	"draft":     true,
	"active":    true,
	"completed": true,
	"revoked":   true,
}

func (s *Service) CreatePlan(ctx context.Context, p *Plan) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.Status == "" {
		p.Status = "draft"
	}
	if !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*Plan, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdatePlan(ctx context.Context, p *Plan) error {
	if p.Status != "" && !validStatuses[p.Status] {
		return fmt.Errorf("invalid status: %s", p.Status)
	}
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Plan, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) AddDecisionMaker(ctx context.Context, dm *DecisionMaker) error {
	if dm.PlanID == uuid.Nil {
		return fmt.Errorf("plan_id is required")
	}
	if dm.Name == "" {
		return fmt.Errorf("name is required")
	}
	if _, err := s.repo.GetByID(ctx, dm.PlanID); err != nil {
		return fmt.Errorf("plan not found: %w", err)
	}
	return s.repo.AddDecisionMaker(ctx, dm)
}

func (s *Service) GetDecisionMakers(ctx context.Context, planID uuid.UUID) ([]*DecisionMaker, error) {
	return s.repo.GetDecisionMakers(ctx, planID)
}

func (s *Service) RemoveDecisionMaker(ctx context.Context, id uuid.UUID) error {
	return s.repo.RemoveDecisionMaker(ctx, id)
}

// AttachDocument records a stored document key on the plan.
func (s *Service) AttachDocument(ctx context.Context, planID uuid.UUID, key string) (*Plan, error) {
	if key == "" {
		return nil, fmt.Errorf("attachment key is required")
	}
	p, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, existing := range p.AttachmentIDs {
		if existing == key {
			return p, nil
		}
	}
	p.AttachmentIDs = append(p.AttachmentIDs, key)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DetachDocument removes a stored document key from the plan.
func (s *Service) DetachDocument(ctx context.Context, planID uuid.UUID, key string) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		return nil, err
	}
	kept := p.AttachmentIDs[:0]
	for _, existing := range p.AttachmentIDs {
		if existing != key {
			kept = append(kept, existing)
		}
	}
	p.AttachmentIDs = kept
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
