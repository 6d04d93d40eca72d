package treatment

import (
	"time"

	"github.com/google/uuid"
)

// Plan maps to the treatment_plan table. The life-support flags record
// the advance-care decisions agreed with the family.
type Plan struct {
	ID            uuid.UUID `db:"id" json:"id"`
	PatientID     uuid.UUID `db:"patient_id" json:"patient_id"`
	CareModel     *string   `db:"care_model" json:"care_model,omitempty"`
	CareLocation  *string   `db:"care_location" json:"care_location,omitempty"`
	CPR           bool      `db:"cpr" json:"cpr"`
	Intubation    bool      `db:"intubation" json:"intubation"`
	Vasopressor   bool      `db:"vasopressor" json:"vasopressor"`
	Dialysis      bool      `db:"dialysis" json:"dialysis"`
	Goals         *string   `db:"goals" json:"goals,omitempty"`
	Note          *string   `db:"note" json:"note,omitempty"`
	Status        string    `db:"status" json:"status"`
	AttachmentIDs []string  `db:"attachment_ids" json:"attachment_ids,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// DecisionMaker maps to the treatment_decision_maker table.
type DecisionMaker struct {
	ID       uuid.UUID `db:"id" json:"id"`
	PlanID   uuid.UUID `db:"plan_id" json:"plan_id"`
	Name     string    `db:"name" json:"name"`
	Relation *string   `db:"relation" json:"relation,omitempty"`
	Phone    *string   `db:"phone" json:"phone,omitempty"`
}
