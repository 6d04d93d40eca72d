package diagnosis

import (
	"time"

	"github.com/google/uuid"
)

// Diagnosis maps to the diagnosis table.
type Diagnosis struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID    *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	Code           *string    `db:"code" json:"code,omitempty"`
	Term           string     `db:"term" json:"term"`
	Classification string     `db:"classification" json:"classification"`
	Verification   string     `db:"verification" json:"verification"`
	ClinicalStatus string     `db:"clinical_status" json:"clinical_status"`
	OnsetDate      *time.Time `db:"onset_date" json:"onset_date,omitempty"`
	RecordedDate   time.Time  `db:"recorded_date" json:"recorded_date"`
	Note           *string    `db:"note" json:"note,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	ClassificationPrincipal     = "principal"
	ClassificationSecondary     = "secondary"
	ClassificationComplication  = "complication"
	ClassificationExternalCause = "external_cause"
)
