package notify

import (
	"time"

	"github.com/google/uuid"
)

// DigestRun maps to the digest_run table: one row per digest execution,
// scheduled or manual.
type DigestRun struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Trigger    string     `db:"run_trigger" json:"trigger"`
	RunDate    time.Time  `db:"run_date" json:"run_date"`
	StartedAt  time.Time  `db:"started_at" json:"started_at"`
	FinishedAt *time.Time `db:"finished_at" json:"finished_at,omitempty"`
	EventCount int        `db:"event_count" json:"event_count"`
	Outcome    string     `db:"outcome" json:"outcome"`
	Error      *string    `db:"error" json:"error,omitempty"`
}

// Delivery maps to the digest_delivery table: one row per message
// attempted during a run.
type Delivery struct {
	ID        uuid.UUID `db:"id" json:"id"`
	RunID     uuid.UUID `db:"run_id" json:"run_id"`
	Recipient string    `db:"recipient" json:"recipient"`
	Kind      string    `db:"kind" json:"kind"`
	Success   bool      `db:"success" json:"success"`
	Error     *string   `db:"error" json:"error,omitempty"`
	SentAt    time.Time `db:"sent_at" json:"sent_at"`
}

const (
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"

	OutcomeSuccess = "success"
	OutcomePartial = "partial"
	OutcomeFailed  = "failed"

	KindText = "text"
	KindFlex = "flex"
)
