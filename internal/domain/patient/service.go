package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

var validSexes = map[string]bool{
	"male":    true,
	"female":  true,
	"other":   true,
	"unknown": true,
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if err := ValidateHN(p.HN); err != nil {
		return err
	}
	if p.FirstNameTH == "" {
		return fmt.Errorf("first_name_th is required")
	}
	if p.Sex != nil && !validSexes[*p.Sex] {
		return fmt.Errorf("invalid sex: %s", *p.Sex)
	}
	if existing, err := s.repo.GetByHN(ctx, p.HN); err == nil && existing != nil {
		return fmt.Errorf("patient with hn %s already exists", p.HN)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetPatientByHN(ctx context.Context, hn string) (*Patient, error) {
	return s.repo.GetByHN(ctx, hn)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.HN != "" {
		if err := ValidateHN(p.HN); err != nil {
			return err
		}
	}
	if p.Sex != nil && !validSexes[*p.Sex] {
		return fmt.Errorf("invalid sex: %s", *p.Sex)
	}
	return s.repo.Update(ctx, p)
}

// MarkDeceased flips the soft deceased flag. Records are kept, never
// deleted, when a patient dies.
func (s *Service) MarkDeceased(ctx context.Context, id uuid.UUID, date time.Time) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	p.Deceased = true
	if date.IsZero() {
		date = time.Now().UTC()
	}
	p.DeceasedDate = &date
	return s.repo.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) SearchPatients(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.Search(ctx, filter, limit, offset)
}
