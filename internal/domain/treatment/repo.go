package treatment

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no plan matches the lookup.
var ErrNotFound = errors.New("treatment plan not found")

type Repository interface {
	Create(ctx context.Context, p *Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	Update(ctx context.Context, p *Plan) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Plan, int, error)

	AddDecisionMaker(ctx context.Context, dm *DecisionMaker) error
	GetDecisionMakers(ctx context.Context, planID uuid.UUID) ([]*DecisionMaker, error)
	RemoveDecisionMaker(ctx context.Context, id uuid.UUID) error
}
