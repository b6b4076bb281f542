package override

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, r *Record) error
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	RecordOutcome(ctx context.Context, id uuid.UUID, outcome string) error
	List(ctx context.Context, limit, offset int) ([]*Record, int, error)
	ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]*Record, int, error)
	ListByClinician(ctx context.Context, clinicianID string, limit, offset int) ([]*Record, int, error)
	All(ctx context.Context) ([]*Record, error)
}
