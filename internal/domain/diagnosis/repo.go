package diagnosis

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no diagnosis matches the lookup.
	ErrNotFound = errors.New("diagnosis not found")
	// ErrDuplicatePrincipal is returned when an encounter already has an
	// active principal diagnosis. The message is stable; clients match on it.
	ErrDuplicatePrincipal = errors.New("encounter already has an active principal diagnosis")
)

type Repository interface {
	Create(ctx context.Context, d *Diagnosis) error
	GetByID(ctx context.Context, id uuid.UUID) (*Diagnosis, error)
	Update(ctx context.Context, d *Diagnosis) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Diagnosis, int, error)
	// HasActivePrincipal reports whether the encounter has an active
	// principal diagnosis other than exclude (pass uuid.Nil to not exclude).
	HasActivePrincipal(ctx context.Context, encounterID, exclude uuid.UUID) (bool, error)
}
