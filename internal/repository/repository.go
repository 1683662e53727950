package repository

import (
	"context"
	"errors"

	"d42inventory/internal/domain"
)

// ErrNotFound is returned when no snapshot matches a lookup
var ErrNotFound = errors.New("snapshot not found")

// Repository defines the interface for inventory snapshot storage
type Repository interface {
	// Write operations
	SaveSnapshot(ctx context.Context, snap *domain.Snapshot) error

	// Read operations
	LatestSnapshot(ctx context.Context) (*domain.Snapshot, error)
	GetSnapshot(ctx context.Context, id string) (*domain.Snapshot, error)
	// ListSnapshots returns snapshot metadata newest first, without the
	// inventory payload
	ListSnapshots(ctx context.Context) ([]domain.Snapshot, error)

	// Retention
	PruneSnapshots(ctx context.Context, keep int) (int, error)
	ClearSnapshots(ctx context.Context) (int, error)

	// Close releases resources
	Close() error
}
