package bed

import (
	"time"

	"github.com/google/uuid"
)

// TypeSetting maps to the bed_type table: per-type display metadata and
// the target number of beds the ward should hold.
type TypeSetting struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	LabelTH     string    `db:"label_th" json:"label_th"`
	Color       *string   `db:"color" json:"color,omitempty"`
	SortOrder   int       `db:"sort_order" json:"sort_order"`
	TargetCount int       `db:"target_count" json:"target_count"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Bed maps to the bed table.
type Bed struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	TypeCode  string     `db:"type_code" json:"type_code"`
	Label     string     `db:"label" json:"label"`
	Status    string     `db:"status" json:"status"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

const (
	StatusIdle     = "idle"
	StatusOccupied = "occupied"
	StatusRetired  = "retired"
)

// ReconcileResult reports what a reconciliation run changed.
type ReconcileResult struct {
	TypeCode string `json:"type_code"`
	Target   int    `json:"target"`
	Created  int    `json:"created"`
	Retired  int    `json:"retired"`
	Occupied int    `json:"occupied"`
}
