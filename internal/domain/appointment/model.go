package appointment

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Appointment maps to the appointment table. Date is the calendar day;
// StartTime/EndTime are wall-clock HH:MM strings the department schedules in.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	Date       time.Time `db:"date" json:"date"`
	StartTime  string    `db:"start_time" json:"start_time"`
	EndTime    *string   `db:"end_time" json:"end_time,omitempty"`
	Place      *string   `db:"place" json:"place,omitempty"`
	Department *string   `db:"department" json:"department,omitempty"`
	Status     string    `db:"status" json:"status"`
	Note       *string   `db:"note" json:"note,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Event is an appointment projected for calendars and digests, with the
// patient's display name joined in as the title.
type Event struct {
	ID         uuid.UUID `json:"id"`
	PatientID  uuid.UUID `json:"patient_id"`
	Date       string    `json:"date"`
	Start      string    `json:"start"`
	End        *string   `json:"end,omitempty"`
	Title      string    `json:"title"`
	Place      *string   `json:"place,omitempty"`
	Department *string   `json:"department,omitempty"`
	Status     string    `json:"status"`
	Note       *string   `json:"note,omitempty"`
}

// Key is the identity used when merging event lists from different
// queries: same day, same start, same title means the same event.
func (e Event) Key() string {
	return e.Date + "|" + e.Start + "|" + e.Title
}

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// MonthLayout is the wire format for month parameters.
const MonthLayout = "2006-01"

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func validateClockTime(field, v string) error {
	if !timePattern.MatchString(v) {
		return fmt.Errorf("invalid %s: %q (want HH:MM)", field, v)
	}
	return nil
}
