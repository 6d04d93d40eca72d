package diagnosis

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

var validClassifications = map[string]bool{
	ClassificationPrincipal:     true,
	ClassificationSecondary:     true,
	ClassificationComplication:  true,
	ClassificationExternalCause: true,
}

var validVerifications = map[string]bool{
	"provisional":      true,
	"confirmed":        true,
	"refuted":          true,
	"entered-in-error": true,
}

var validClinicalStatuses = map[string]bool{
	"active":   true,
	"resolved": true,
	"inactive": true,
}

func (s *Service) validate(d *Diagnosis) error {
	if d.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if d.Term == "" {
		return fmt.Errorf("term is required")
	}
	if !validClassifications[d.Classification] {
		return fmt.Errorf("invalid classification: %s", d.Classification)
	}
	if !validVerifications[d.Verification] {
		return fmt.Errorf("invalid verification: %s", d.Verification)
	}
	if !validClinicalStatuses[d.ClinicalStatus] {
		return fmt.Errorf("invalid clinical_status: %s", d.ClinicalStatus)
	}
	return nil
}

// checkPrincipal enforces the one-active-principal-per-encounter rule.
func (s *Service) checkPrincipal(ctx context.Context, d *Diagnosis, exclude uuid.UUID) error {
	if d.EncounterID == nil {
		return nil
	}
	if d.Classification != ClassificationPrincipal || d.ClinicalStatus != "active" {
		return nil
	}
	taken, err := s.repo.HasActivePrincipal(ctx, *d.EncounterID, exclude)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicatePrincipal
	}
	return nil
}

func (s *Service) CreateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if d.Verification == "" {
		d.Verification = "provisional"
	}
	if d.ClinicalStatus == "" {
		d.ClinicalStatus = "active"
	}
	if err := s.validate(d); err != nil {
		return err
	}
	if err := s.checkPrincipal(ctx, d, uuid.Nil); err != nil {
		return err
	}
	if d.RecordedDate.IsZero() {
		d.RecordedDate = time.Now().UTC()
	}
	return s.repo.Create(ctx, d)
}

func (s *Service) GetDiagnosis(ctx context.Context, id uuid.UUID) (*Diagnosis, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateDiagnosis(ctx context.Context, d *Diagnosis) error {
	if err := s.validate(d); err != nil {
		return err
	}
	if err := s.checkPrincipal(ctx, d, d.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

func (s *Service) DeleteDiagnosis(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
