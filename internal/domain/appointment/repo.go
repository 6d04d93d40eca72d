package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no appointment matches the lookup.
var ErrNotFound = errors.New("appointment not found")

// SearchFilter narrows an appointment listing.
type SearchFilter struct {
	PatientID  uuid.UUID
	Date       *time.Time
	Department string
	Status     string
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, filter SearchFilter, limit, offset int) ([]*Appointment, int, error)

	// EventsInRange returns events for days in [from, to] inclusive,
	// ordered by date then start time.
	EventsInRange(ctx context.Context, from, to time.Time) ([]Event, error)
	// EventsOnDate returns events for a single calendar day ordered by
	// start time.
	EventsOnDate(ctx context.Context, date time.Time) ([]Event, error)
}
