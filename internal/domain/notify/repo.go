package notify

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no run matches the lookup.
var ErrNotFound = errors.New("digest run not found")

type Repository interface {
	CreateRun(ctx context.Context, run *DigestRun) error
	FinishRun(ctx context.Context, run *DigestRun) error
	GetRun(ctx context.Context, id uuid.UUID) (*DigestRun, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*DigestRun, int, error)
	AddDelivery(ctx context.Context, d *Delivery) error
	GetDeliveries(ctx context.Context, runID uuid.UUID) ([]*Delivery, error)
}
