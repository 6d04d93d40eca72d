package bed

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no bed or type setting matches.
	ErrNotFound = errors.New("bed not found")
	// ErrOccupied is returned when an operation needs an idle bed.
	ErrOccupied = errors.New("bed is occupied")
)

type Repository interface {
	CreateType(ctx context.Context, t *TypeSetting) error
	GetTypeByCode(ctx context.Context, code string) (*TypeSetting, error)
	UpdateType(ctx context.Context, t *TypeSetting) error
	DeleteType(ctx context.Context, id uuid.UUID) error
	ListTypes(ctx context.Context) ([]*TypeSetting, error)

	CreateBed(ctx context.Context, b *Bed) error
	GetBed(ctx context.Context, id uuid.UUID) (*Bed, error)
	UpdateBed(ctx context.Context, b *Bed) error
	// ListBedsByType returns non-retired beds of a type ordered by label.
	ListBedsByType(ctx context.Context, typeCode string) ([]*Bed, error)
	ListBeds(ctx context.Context) ([]*Bed, error)
}
