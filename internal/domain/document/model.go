package document

import (
	"time"

	"github.com/google/uuid"
)

// Document maps to the document table. The binary lives in object
// storage under Key; this row is the metadata the dashboard lists.
type Document struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	Scope       string     `db:"scope" json:"scope"`
	TypeKey     string     `db:"type_key" json:"type_key"`
	Filename    string     `db:"filename" json:"filename"`
	Key         string     `db:"key" json:"key"`
	ContentType string     `db:"content_type" json:"content_type"`
	Size        int64      `db:"size" json:"size"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	// ScopePatient is a document belonging to one patient's record.
	ScopePatient = "patient"
	// ScopeTemplate is a department-wide blank form template.
	ScopeTemplate = "template"
)
