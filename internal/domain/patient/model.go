package patient

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table. HN is the human-readable hospital
// number shown throughout the department; the UUID is the surrogate key.
type Patient struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	HN                 string     `db:"hn" json:"hn"`
	FirstNameTH        string     `db:"first_name_th" json:"first_name_th"`
	LastNameTH         string     `db:"last_name_th" json:"last_name_th"`
	FirstNameEN        *string    `db:"first_name_en" json:"first_name_en,omitempty"`
	LastNameEN         *string    `db:"last_name_en" json:"last_name_en,omitempty"`
	BirthDate          *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Sex                *string    `db:"sex" json:"sex,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Address            *string    `db:"address" json:"address,omitempty"`
	AttendingPhysician *string    `db:"attending_physician" json:"attending_physician,omitempty"`
	Deceased           bool       `db:"deceased" json:"deceased"`
	DeceasedDate       *time.Time `db:"deceased_date" json:"deceased_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// DisplayName is the Thai full name used on calendars and digests.
func (p *Patient) DisplayName() string {
	if p.LastNameTH == "" {
		return p.FirstNameTH
	}
	return p.FirstNameTH + " " + p.LastNameTH
}

var hnPattern = regexp.MustCompile(`^HN-\d{8}$`)

// ValidateHN checks the department's hospital-number format, HN-########.
func ValidateHN(hn string) error {
	if !hnPattern.MatchString(hn) {
		return fmt.Errorf("invalid hn format: %q (want HN-########)", hn)
	}
	return nil
}
