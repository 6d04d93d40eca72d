package settings

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no stored blob exists for a key.
var ErrNotFound = errors.New("settings not found")

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Upsert(ctx context.Context, key string, data []byte) error
}
